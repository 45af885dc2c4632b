package email

import (
	"testing"

	"github.com/mauv0809/court-reservations/internal/pubsub"
	"github.com/stretchr/testify/assert"
)

func testEvent() *pubsub.BookingEvent {
	return &pubsub.BookingEvent{
		BookingID: "b1",
		CourtName: "Grass Court",
		UserName:  "Ana",
		UserEmail: "ana@example.com",
		Date:      "2026-10-19",
		Slot:      "19:00-20:30",
		Total:     55,
		Reason:    "payment not verified",
	}
}

func TestFormatBookingCreated(t *testing.T) {
	n := NewNotifier("admin@example.com", "ES12 3456", "12345", "961393959")
	msg := n.formatBookingCreated(testEvent())

	assert.Equal(t, "ana@example.com", msg.To)
	assert.Equal(t, "Pre-reservation received: Grass Court, 2026-10-19, 19:00-20:30", msg.Subject)
	assert.Contains(t, msg.Body, "Amount due: 55.00 EUR.")
	assert.Contains(t, msg.Body, "Bank transfer: ES12 3456")
	assert.Contains(t, msg.Body, "Bizum: 12345")
}

func TestFormatDecisionsAndProof(t *testing.T) {
	n := NewNotifier("admin@example.com", "", "12345", "961393959")

	assert.Contains(t, n.formatBookingApproved(testEvent()).Subject, "confirmed")
	rejected := n.formatBookingRejected(testEvent())
	assert.Contains(t, rejected.Body, "rejected: payment not verified")

	proof := n.formatProofUploaded(testEvent())
	assert.Equal(t, "admin@example.com", proof.To)
	assert.Contains(t, proof.Body, "Booking: b1")
}

func TestSendNeverFails(t *testing.T) {
	n := NewNotifier("", "", "12345", "961393959")
	assert.NoError(t, n.SendBookingCreated(testEvent(), false))
	assert.NoError(t, n.SendBookingApproved(testEvent(), true))
	assert.NoError(t, n.SendProofUploaded(testEvent(), false), "missing admin address is skipped")
}
