package pubsub

import (
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client   *pubsub.Client
	prefix   string
	teardown func()
}

// Handler receives an encoded event delivered by the loopback client.
type Handler func(topic EventType, data []byte) error

type loopback struct {
	handler Handler
	wg      sync.WaitGroup
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventBookingCreated  EventType = "booking-created"
	EventBookingApproved EventType = "booking-approved"
	EventBookingRejected EventType = "booking-rejected"
	EventProofUploaded   EventType = "proof-uploaded"
)

// BookingEvent is the payload published for every booking lifecycle change.
type BookingEvent struct {
	Type       EventType `msgpack:"type"`
	BookingID  string    `msgpack:"bookingId"`
	CourtID    string    `msgpack:"courtId"`
	CourtName  string    `msgpack:"courtName"`
	UserID     string    `msgpack:"userId"`
	UserName   string    `msgpack:"userName"`
	UserEmail  string    `msgpack:"userEmail"`
	Date       string    `msgpack:"date"`
	Slot       string    `msgpack:"slot"`
	Total      float64   `msgpack:"total"`
	Reason     string    `msgpack:"reason,omitempty"`
	DryRun     bool      `msgpack:"dryRun"`
	OccurredAt time.Time `msgpack:"occurredAt"`
}
