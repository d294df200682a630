package events

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/Pesokrava/reviews_app/internal/config"
	"github.com/Pesokrava/reviews_app/internal/pkg/logger"
)

// Consumer handles consuming events from NATS
type Consumer struct {
	nc     *nats.Conn
	logger *logger.Logger
	sub    *nats.Subscription
}

// NewConsumer creates a new NATS consumer
func NewConsumer(cfg *config.Config, log *logger.Logger) (*Consumer, error) {
	nc, err := nats.Connect(cfg.NATS.URL, nats.Name("reviews-notifier"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Infof("Connected to NATS at %s", cfg.NATS.URL)

	return &Consumer{
		nc:     nc,
		logger: log,
	}, nil
}

// Subscribe subscribes to a NATS subject and hands every payload to handler
func (c *Consumer) Subscribe(subject string, handler func(data []byte) error) error {
	sub, err := c.nc.Subscribe(subject, func(msg *nats.Msg) {
		if err := handler(msg.Data); err != nil {
			c.logger.Errorf(err, "Failed to handle message on subject %s", subject)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", subject, err)
	}

	c.sub = sub
	c.logger.Infof("Subscribed to NATS subject: %s", subject)
	return nil
}

// Close unsubscribes and closes the NATS connection
func (c *Consumer) Close() {
	if c.sub != nil {
		if err := c.sub.Unsubscribe(); err != nil {
			c.logger.Warnf("Failed to unsubscribe from NATS: %v", err)
		}
	}
	if c.nc != nil {
		c.nc.Close()
		c.logger.Info("NATS consumer connection closed")
	}
}

// ReviewEvent mirrors the payload the review service publishes. Only the
// fields the notifier logs are decoded.
type ReviewEvent struct {
	ID        string `json:"id"`
	EventType string `json:"event_type"`
	ReviewID  *int64 `json:"review_id,omitempty"`
	ProductID *int64 `json:"product_id,omitempty"`
	Rating    *int   `json:"rating,omitempty"`
}

// LoggingHandler returns a handler that logs each review event as one
// structured line
func LoggingHandler(log *logger.Logger) func(data []byte) error {
	return func(data []byte) error {
		var event ReviewEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return fmt.Errorf("failed to unmarshal event: %w", err)
		}

		fields := map[string]any{
			"event_id":   event.ID,
			"event_type": event.EventType,
		}
		if event.ReviewID != nil {
			fields["review_id"] = *event.ReviewID
		}
		if event.ProductID != nil {
			fields["product_id"] = *event.ProductID
		}
		if event.Rating != nil {
			fields["rating"] = *event.Rating
		}

		log.WithFields(fields).Info("Review event received")
		return nil
	}
}
