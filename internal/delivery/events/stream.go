package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Pesokrava/reviews_app/internal/domain"
	"github.com/Pesokrava/reviews_app/internal/pkg/logger"
)

const (
	// StreamName is the JetStream stream for review events
	StreamName = "REVIEWS"

	// streamMaxAge bounds how long events are retained for late subscribers
	streamMaxAge = 24 * time.Hour
)

// StreamManager is the part of nats.JetStreamContext used to bootstrap the stream
type StreamManager interface {
	StreamInfo(stream string, opts ...nats.JSOpt) (*nats.StreamInfo, error)
	AddStream(cfg *nats.StreamConfig, opts ...nats.JSOpt) (*nats.StreamInfo, error)
}

// EnsureStream creates the review events stream when it does not exist yet.
// Retention is limits based, events age out after a day.
func EnsureStream(js StreamManager, log *logger.Logger) error {
	stream, err := js.StreamInfo(StreamName)

	if errors.Is(err, nats.ErrStreamNotFound) {
		log.WithFields(map[string]any{
			"stream":  StreamName,
			"subject": domain.ReviewEventSubject,
		}).Info("Creating JetStream stream")

		_, err = js.AddStream(&nats.StreamConfig{
			Name:        StreamName,
			Subjects:    []string{domain.ReviewEventSubject},
			Retention:   nats.LimitsPolicy,
			Storage:     nats.FileStorage,
			Replicas:    1,
			MaxAge:      streamMaxAge,
			Discard:     nats.DiscardOld,
			Description: "Review change events",
		})
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}

		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to get stream info: %w", err)
	}

	log.WithFields(map[string]any{
		"stream":   stream.Config.Name,
		"messages": stream.State.Msgs,
	}).Info("JetStream stream already exists")

	return nil
}
