package notify

import (
	"context"
	"encoding/json"
	"fmt"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/tumblera/tumblera-backend/pkg/logger"
	"github.com/tumblera/tumblera-backend/pkg/pubsub"
)

// Announcer publishes order events. Callers treat delivery as best-effort.
type Announcer interface {
	AnnounceOrderPlaced(ctx context.Context, event OrderPlaced) error
}

type topicPublisher interface {
	Publish(ctx context.Context, msg *gcppubsub.Message) *gcppubsub.PublishResult
}

// Publisher emits order events on the configured Pub/Sub topic.
type Publisher struct {
	topic topicPublisher
	logg  *logger.Logger
}

// NewPublisher wires the announcer against the Pub/Sub client.
func NewPublisher(client *pubsub.Client, logg *logger.Logger) (*Publisher, error) {
	if client == nil {
		return nil, fmt.Errorf("pubsub client is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	topic := client.OrdersPublisher()
	if topic == nil {
		return nil, fmt.Errorf("orders topic is not configured")
	}
	return &Publisher{topic: topic, logg: logg}, nil
}

// AnnounceOrderPlaced publishes the event and waits for the server ack.
func (p *Publisher) AnnounceOrderPlaced(ctx context.Context, event OrderPlaced) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding order event: %w", err)
	}

	result := p.topic.Publish(ctx, &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_type": EventTypeOrderPlaced,
			"event_id":   event.EventID,
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publishing order event: %w", err)
	}

	p.logg.Info(p.logg.WithField(ctx, "event_id", event.EventID), "order event published")
	return nil
}
