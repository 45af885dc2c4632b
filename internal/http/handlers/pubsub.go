package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-reservations/internal/processor"
)

// EventsPushHandler receives booking events from a Pub/Sub push subscription.
// A non-2xx reply makes Pub/Sub redeliver the message, so messages that can
// never succeed are acknowledged and only logged.
func EventsPushHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received booking event message", "body", string(bodyBytes))

		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data       string            `json:"data"`
				Attributes map[string]string `json:"attributes"`
			} `json:"message"`
		}

		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Dropping push message with invalid wrapper JSON", "error", err)
			w.Write([]byte("DROPPED"))
			return
		}

		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Dropping push message with invalid base64 data", "error", err, "subscription", pubsubMsg.Subscription)
			w.Write([]byte("DROPPED"))
			return
		}
		err = proc.HandleMessage(rawData, IsDryRunFromContext(r))
		if errors.Is(err, processor.ErrUnprocessable) {
			log.Error("Dropping booking event", "error", err, "type", pubsubMsg.Message.Attributes["type"], "subscription", pubsubMsg.Subscription)
			w.Write([]byte("DROPPED"))
			return
		}
		if err != nil {
			log.Error("Failed to process booking event", "error", err, "type", pubsubMsg.Message.Attributes["type"])
			http.Error(w, "Failed to process event", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
