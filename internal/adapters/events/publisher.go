package events

import (
	"context"
	"log/slog"
)

// LoggingPublisher stands in for kafka when no brokers are configured: cart
// events land in the structured log instead of a topic.
type LoggingPublisher struct {
	logger *slog.Logger
}

func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	return &LoggingPublisher{logger: logger}
}

func (p *LoggingPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	p.logger.InfoContext(ctx, "cart event logged, kafka not configured",
		"module", "events.logging",
		"event_type", eventType,
		"partition_key", partitionKey,
		"payload_bytes", len(payload),
	)
	return nil
}
