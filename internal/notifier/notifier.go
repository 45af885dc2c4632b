package notifier

import (
	"errors"
	"fmt"

	"github.com/mauv0809/court-reservations/internal/pubsub"
)

// Notifier defines a high-level interface for sending notifications about booking events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// A user requested a slot and owes the payment.
	SendBookingCreated(event *pubsub.BookingEvent, dryRun bool) error
	// Administrator decisions
	SendBookingApproved(event *pubsub.BookingEvent, dryRun bool) error
	SendBookingRejected(event *pubsub.BookingEvent, dryRun bool) error
	// A payment proof is waiting for verification.
	SendProofUploaded(event *pubsub.BookingEvent, dryRun bool) error
}

// Fanout delivers every notification to all of its notifiers and joins their errors.
type Fanout []Notifier

var _ Notifier = Fanout(nil)

// DeliveryError reports how many notifiers of a Fanout failed for one event.
type DeliveryError struct {
	Failed int
	Total  int
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%d of %d notifiers failed: %v", e.Failed, e.Total, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Partial reports whether at least one notifier delivered the event.
func (e *DeliveryError) Partial() bool {
	return e.Failed < e.Total
}

func (f Fanout) each(send func(Notifier) error) error {
	var errs []error
	for _, n := range f {
		if err := send(n); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &DeliveryError{Failed: len(errs), Total: len(f), Err: errors.Join(errs...)}
}

func (f Fanout) SendBookingCreated(event *pubsub.BookingEvent, dryRun bool) error {
	return f.each(func(n Notifier) error { return n.SendBookingCreated(event, dryRun) })
}

func (f Fanout) SendBookingApproved(event *pubsub.BookingEvent, dryRun bool) error {
	return f.each(func(n Notifier) error { return n.SendBookingApproved(event, dryRun) })
}

func (f Fanout) SendBookingRejected(event *pubsub.BookingEvent, dryRun bool) error {
	return f.each(func(n Notifier) error { return n.SendBookingRejected(event, dryRun) })
}

func (f Fanout) SendProofUploaded(event *pubsub.BookingEvent, dryRun bool) error {
	return f.each(func(n Notifier) error { return n.SendProofUploaded(event, dryRun) })
}
