package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-reservations/internal/metrics"
	"github.com/mauv0809/court-reservations/internal/notifier"
	"github.com/mauv0809/court-reservations/internal/pubsub"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier posts booking activity to the administrators' Slack channel.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendBookingCreated(event *pubsub.BookingEvent, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatBookingCreated(event), dryRun)
	return err
}

func (s *Notifier) SendBookingApproved(event *pubsub.BookingEvent, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatDecision(event, "✅ Reservation approved"), dryRun)
	return err
}

func (s *Notifier) SendBookingRejected(event *pubsub.BookingEvent, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatDecision(event, "❌ Reservation rejected"), dryRun)
	return err
}

func (s *Notifier) SendProofUploaded(event *pubsub.BookingEvent, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatProofUploaded(event), dryRun)
	return err
}

func plainSection(text string) slack.Block {
	return slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil)
}

func details(event *pubsub.BookingEvent) string {
	return fmt.Sprintf("Space: %s\nDate: %s\nTime: %s", event.CourtName, event.Date, event.Slot)
}

// formatBookingCreated announces a new pre-reservation awaiting payment.
func (s *Notifier) formatBookingCreated(event *pubsub.BookingEvent) slack.Message {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", "📅 New pre-reservation", true, false)),
		plainSection(details(event)),
		plainSection(fmt.Sprintf("Requested by: %s (%s)\nAmount: %.2f EUR", event.UserName, event.UserEmail, event.Total)),
		slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", "Waiting for payment proof. Booking "+event.BookingID, false, false)),
	}
	return slack.NewBlockMessage(blocks...)
}

// formatDecision reports an administrator's approval or rejection.
func (s *Notifier) formatDecision(event *pubsub.BookingEvent, title string) slack.Message {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", title, true, false)),
		plainSection(details(event) + "\nUser: " + event.UserName),
	}
	if event.Reason != "" {
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", "Reason: "+event.Reason, false, false)))
	}
	return slack.NewBlockMessage(blocks...)
}

// formatProofUploaded asks administrators to verify a payment.
func (s *Notifier) formatProofUploaded(event *pubsub.BookingEvent) slack.Message {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", "🧾 Payment proof uploaded", true, false)),
		plainSection(details(event)),
		plainSection(fmt.Sprintf("User: %s (%s)\nAmount: %.2f EUR", event.UserName, event.UserEmail, event.Total)),
		slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", "Approve or reject booking "+event.BookingID, false, false)),
	}
	return slack.NewBlockMessage(blocks...)
}
