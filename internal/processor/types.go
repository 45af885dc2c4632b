package processor

import (
	"github.com/mauv0809/court-reservations/internal/metrics"
	"github.com/mauv0809/court-reservations/internal/pubsub"
)

// Processor turns booking events into notifications.
type Processor struct {
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
}
