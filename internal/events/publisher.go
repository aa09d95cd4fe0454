package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/gonotes/internal/logger"
)

// asyncPublishTimeout bounds each fire-and-forget publish.
const asyncPublishTimeout = 5 * time.Second

// Publisher appends note events to a Redis stream.
type Publisher struct {
	client *redis.Client
	log    logger.Logger
}

// NewPublisher creates a Publisher. Returns nil if client is nil, and a nil
// Publisher is safe to call: all methods are no-ops.
func NewPublisher(client *redis.Client, log logger.Logger) *Publisher {
	if client == nil {
		return nil
	}
	return &Publisher{
		client: client,
		log:    log,
	}
}

// Publish appends an event to the stream, assigning an event id and
// timestamp when the caller left them empty.
func (p *Publisher) Publish(ctx context.Context, event NoteEvent) error {
	if p == nil || p.client == nil {
		return nil
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamName,
		Values: map[string]any{
			"event": string(payload),
		},
	})
	if publishErr := result.Err(); publishErr != nil {
		return fmt.Errorf("publish to stream: %w", publishErr)
	}

	p.log.Debug("Published note event",
		logger.String("event_type", string(event.EventType)),
		logger.Int64("note_id", event.NoteID),
		logger.String("stream_id", result.Val()),
	)
	return nil
}

// PublishAsync publishes in a goroutine; failures are logged, never returned.
// Handlers use this so a slow or absent Redis cannot delay a request.
func (p *Publisher) PublishAsync(event NoteEvent) {
	if p == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		defer cancel()

		if err := p.Publish(ctx, event); err != nil {
			p.log.Error("Async publish failed",
				logger.String("event_type", string(event.EventType)),
				logger.Int64("note_id", event.NoteID),
				logger.Error(err),
			)
		}
	}()
}
