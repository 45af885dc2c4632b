package pubsub

import (
	"context"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// New creates a client publishing to Google Cloud Pub/Sub. Topic names are the
// event type prefixed with prefix.
func New(projectID, prefix string) PubSubClient {
	ctx := context.Background()
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	teardown := func() {
		pubSubC.Close()
	}

	return &client{
		client:   pubSubC,
		prefix:   prefix,
		teardown: teardown,
	}
}

func (c *client) SendMessage(topic EventType, data any) error {
	ctx := context.Background()
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	message := &pubsub.Message{
		Data:       msgpackData,
		Attributes: map[string]string{"type": string(topic)},
	}
	topicName := c.prefix + string(topic)
	result := c.client.Topic(topicName).Publish(ctx, message)
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topicName)
		return err
	}
	log.Info("SendMessage", "serverID", serverID, "topic", topicName)
	return nil
}

func (c *client) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func (c *client) Close() {
	c.teardown()
}

// NewLoopback creates a client that delivers encoded events to handler in
// process. It is used when no Google Cloud project is configured.
func NewLoopback(handler Handler) PubSubClient {
	return &loopback{handler: handler}
}

func (l *loopback) SendMessage(topic EventType, data any) error {
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := l.handler(topic, msgpackData); err != nil {
			log.Error("Loopback handler failed", "error", err, "topic", topic)
		}
	}()
	log.Debug("SendMessage (loopback)", "topic", topic)
	return nil
}

func (l *loopback) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

// Close waits for in-flight deliveries.
func (l *loopback) Close() {
	l.wg.Wait()
}

func decode(data []byte, returnValue any) error {
	// Unmarshal the MessagePack data into the provided pointer struct
	err := msgpack.Unmarshal(data, returnValue)
	if err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return err
	}
	return nil
}
