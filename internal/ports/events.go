package ports

import "context"

// EventPublisher emits storefront integration events. Payloads arrive
// pre-encoded; the partition key keeps a single user's cart events ordered
// downstream.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}
