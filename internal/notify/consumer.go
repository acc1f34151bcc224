package notify

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/tumblera/tumblera-backend/pkg/logger"
)

// Consumer drains the order-events subscription and hands each event to the
// email service.
type Consumer struct {
	svc          Service
	subscription *pubsub.Subscriber
	logg         *logger.Logger
}

// NewConsumer builds the order-events consumer.
func NewConsumer(svc Service, subscription *pubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if svc == nil {
		return nil, fmt.Errorf("notify service required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("orders subscription required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{svc: svc, subscription: subscription, logg: logg}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if c.process(ctx, msg) {
			msg.Ack()
			return
		}
		msg.Nack()
	})
}

// process reports whether the message should be acked.
func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) bool {
	eventType := msg.Attributes["event_type"]
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	})

	if eventType != EventTypeOrderPlaced {
		c.logg.Info(logCtx, "skipping unhandled event")
		return true
	}

	var event OrderPlaced
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		// Malformed payloads never become valid on redelivery.
		c.logg.Error(logCtx, "failed to decode order event", err)
		return true
	}

	if err := c.svc.HandleOrderPlaced(ctx, event); err != nil {
		c.logg.Error(logCtx, "order event handling failed", err)
		return false
	}
	return true
}
