package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hobbyforge/storefront/internal/application"
	"github.com/hobbyforge/storefront/internal/ports"
)

const EventCartUpdated = "cart.updated"

type cartUpdatedEnvelope struct {
	UserID     string    `json:"user_id,omitempty"`
	State      string    `json:"state"`
	LineCount  int       `json:"line_count"`
	Subtotal   string    `json:"subtotal"`
	Tax        string    `json:"tax"`
	Total      string    `json:"total"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewCartEventBridge returns an engine subscriber that publishes a
// cart.updated envelope after every committed cart change. Publish failures
// are logged and swallowed; event delivery never blocks a cart mutation.
func NewCartEventBridge(publisher ports.EventPublisher, provider ports.IdentityProvider, logger *slog.Logger) func(application.Snapshot) {
	return func(snap application.Snapshot) {
		ctx := context.Background()
		envelope := cartUpdatedEnvelope{
			State:      string(snap.State),
			LineCount:  len(snap.Lines),
			Subtotal:   snap.Totals.Subtotal.StringFixed(2),
			Tax:        snap.Totals.Tax.StringFixed(2),
			Total:      snap.Totals.Total.StringFixed(2),
			OccurredAt: time.Now().UTC(),
		}
		partitionKey := "anonymous"
		if identity, present := provider.Current(); present {
			envelope.UserID = identity.UserID.String()
			partitionKey = envelope.UserID
		}
		payload, err := json.Marshal(envelope)
		if err != nil {
			logger.ErrorContext(ctx, "marshal cart event", "module", "events.cart", "error", err)
			return
		}
		if err := publisher.Publish(ctx, EventCartUpdated, payload, partitionKey); err != nil {
			logger.WarnContext(ctx, "publish cart event", "module", "events.cart", "error", err)
		}
	}
}
