package pubsub

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopbackDeliversEncodedEvent(t *testing.T) {
	var mu sync.Mutex
	var gotTopic EventType
	var gotData []byte
	client := NewLoopback(func(topic EventType, data []byte) error {
		mu.Lock()
		defer mu.Unlock()
		gotTopic = topic
		gotData = data
		return nil
	})

	event := BookingEvent{
		Type:       EventBookingCreated,
		BookingID:  "b1",
		CourtName:  "Padel Court 1",
		Date:       "2026-10-19",
		Slot:       "19:00-20:30",
		Total:      18,
		OccurredAt: time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, client.SendMessage(EventBookingCreated, event))
	client.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, EventBookingCreated, gotTopic)

	var decoded BookingEvent
	require.NoError(t, client.ProcessMessage(gotData, &decoded))
	assert.Equal(t, event.BookingID, decoded.BookingID)
	assert.Equal(t, event.Slot, decoded.Slot)
	assert.Equal(t, event.Total, decoded.Total)
	assert.True(t, event.OccurredAt.Equal(decoded.OccurredAt))
}

func TestProcessMessageRejectsGarbage(t *testing.T) {
	var decoded BookingEvent
	assert.Error(t, NewMock().ProcessMessage([]byte{0xc1}, &decoded))
}
