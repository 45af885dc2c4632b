// Package email renders the messages sent to users about their bookings.
// Delivery is stubbed: messages are logged, never sent.
package email

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-reservations/internal/notifier"
	"github.com/mauv0809/court-reservations/internal/pubsub"
)

var _ notifier.Notifier = &Notifier{}

// Message is a rendered e-mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Notifier logs the e-mails a booking event would produce.
type Notifier struct {
	adminEmail   string
	bankAccount  string
	bizumNumber  string
	contactPhone string
}

// NewNotifier creates an e-mail Notifier. Proof uploads are addressed to adminEmail.
func NewNotifier(adminEmail, bankAccount, bizumNumber, contactPhone string) *Notifier {
	return &Notifier{
		adminEmail:   adminEmail,
		bankAccount:  bankAccount,
		bizumNumber:  bizumNumber,
		contactPhone: contactPhone,
	}
}

func (n *Notifier) send(msg Message, dryRun bool) error {
	if msg.To == "" {
		log.Warn("Skipping e-mail without recipient", "subject", msg.Subject)
		return nil
	}
	if dryRun {
		log.Info("[Dry Run] Would send e-mail", "to", msg.To, "subject", msg.Subject)
		return nil
	}
	log.Info("E-mail (not delivered)", "to", msg.To, "subject", msg.Subject, "body", msg.Body)
	return nil
}

func (n *Notifier) SendBookingCreated(event *pubsub.BookingEvent, dryRun bool) error {
	return n.send(n.formatBookingCreated(event), dryRun)
}

func (n *Notifier) SendBookingApproved(event *pubsub.BookingEvent, dryRun bool) error {
	return n.send(n.formatBookingApproved(event), dryRun)
}

func (n *Notifier) SendBookingRejected(event *pubsub.BookingEvent, dryRun bool) error {
	return n.send(n.formatBookingRejected(event), dryRun)
}

func (n *Notifier) SendProofUploaded(event *pubsub.BookingEvent, dryRun bool) error {
	return n.send(n.formatProofUploaded(event), dryRun)
}

func summary(event *pubsub.BookingEvent) string {
	return fmt.Sprintf("%s, %s, %s", event.CourtName, event.Date, event.Slot)
}

func (n *Notifier) formatBookingCreated(event *pubsub.BookingEvent) Message {
	var body strings.Builder
	fmt.Fprintf(&body, "Hello %s,\n\nWe have pre-reserved %s for you.\n", event.UserName, summary(event))
	fmt.Fprintf(&body, "Amount due: %.2f EUR.\n\n", event.Total)
	if n.bankAccount != "" {
		fmt.Fprintf(&body, "Bank transfer: %s\n", n.bankAccount)
	}
	fmt.Fprintf(&body, "Bizum: %s\n\n", n.bizumNumber)
	body.WriteString("Upload the payment proof from your reservations page so we can confirm the booking.\n")
	fmt.Fprintf(&body, "Questions? Call %s.\n", n.contactPhone)
	return Message{To: event.UserEmail, Subject: "Pre-reservation received: " + summary(event), Body: body.String()}
}

func (n *Notifier) formatBookingApproved(event *pubsub.BookingEvent) Message {
	body := fmt.Sprintf("Hello %s,\n\nYour payment was verified and %s is confirmed.\n", event.UserName, summary(event))
	return Message{To: event.UserEmail, Subject: "Reservation confirmed: " + summary(event), Body: body}
}

func (n *Notifier) formatBookingRejected(event *pubsub.BookingEvent) Message {
	body := fmt.Sprintf("Hello %s,\n\nYour request for %s was rejected: %s.\nCall %s if you think this is a mistake.\n",
		event.UserName, summary(event), event.Reason, n.contactPhone)
	return Message{To: event.UserEmail, Subject: "Reservation rejected: " + summary(event), Body: body}
}

func (n *Notifier) formatProofUploaded(event *pubsub.BookingEvent) Message {
	body := fmt.Sprintf("%s (%s) uploaded a payment proof for %s, %.2f EUR.\nBooking: %s\n",
		event.UserName, event.UserEmail, summary(event), event.Total, event.BookingID)
	return Message{To: n.adminEmail, Subject: "Payment proof to verify: " + summary(event), Body: body}
}
