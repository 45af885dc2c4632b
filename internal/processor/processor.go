package processor

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-reservations/internal/metrics"
	"github.com/mauv0809/court-reservations/internal/notifier"
	"github.com/mauv0809/court-reservations/internal/pubsub"
)

// ErrUnprocessable marks messages that can never succeed, such as undecodable
// payloads or unknown event types. Redelivering them is pointless.
var ErrUnprocessable = errors.New("unprocessable booking event")

// New creates a new Processor. The pubsub client is only used to decode payloads.
func New(notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Processor {
	return &Processor{
		notifier: notifier,
		pubsub:   pubsub,
		metrics:  metrics,
	}
}

// SetDecoder replaces the client used to decode payloads. The loopback client
// needs a processor to exist before it does.
func (p *Processor) SetDecoder(client pubsub.PubSubClient) {
	p.pubsub = client
}

// HandleMessage decodes an encoded BookingEvent and processes it. dryRun forces
// a dry run even when the event itself is live.
func (p *Processor) HandleMessage(data []byte, dryRun bool) error {
	var event pubsub.BookingEvent
	if err := p.pubsub.ProcessMessage(data, &event); err != nil {
		return fmt.Errorf("%w: failed to decode: %v", ErrUnprocessable, err)
	}
	return p.Process(&event, dryRun || event.DryRun)
}

// Process sends the notifications for one event.
func (p *Processor) Process(event *pubsub.BookingEvent, dryRun bool) error {
	log.Info("Processing booking event", "type", event.Type, "bookingID", event.BookingID, "dryRun", dryRun)

	var err error
	switch event.Type {
	case pubsub.EventBookingCreated:
		err = p.notifier.SendBookingCreated(event, dryRun)
	case pubsub.EventBookingApproved:
		err = p.notifier.SendBookingApproved(event, dryRun)
	case pubsub.EventBookingRejected:
		err = p.notifier.SendBookingRejected(event, dryRun)
	case pubsub.EventProofUploaded:
		err = p.notifier.SendProofUploaded(event, dryRun)
	default:
		log.Warn("Unknown booking event type", "type", event.Type, "bookingID", event.BookingID)
		return fmt.Errorf("%w: unknown event type %q", ErrUnprocessable, event.Type)
	}

	if err != nil {
		p.metrics.IncNotificationsFailed()
		// A retry would resend to the notifiers that already delivered.
		var delivery *notifier.DeliveryError
		if errors.As(err, &delivery) && delivery.Partial() {
			log.Warn("Notification partially delivered", "error", err, "type", event.Type, "bookingID", event.BookingID)
			return nil
		}
		log.Error("Failed to send notification", "error", err, "type", event.Type, "bookingID", event.BookingID)
		return err
	}
	p.metrics.IncNotificationsSent()
	return nil
}
