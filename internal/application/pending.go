package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hobbyforge/storefront/internal/domain"
	"github.com/hobbyforge/storefront/internal/ports"
)

const pendingActionKey = "cart:pending_action"

// PendingBridge holds at most one deferred cart action for the browsing
// session. Setting a new action overwrites any unconsumed one
// (last-intent-wins). The engine never auto-replays: the presentation layer
// consumes the action after a successful authentication and replays it
// through AddItem, keeping the authentication flow and the cart flow
// decoupled.
type PendingBridge struct {
	kv    ports.KeyValue
	nowFn func() time.Time
}

func NewPendingBridge(kv ports.KeyValue) (*PendingBridge, error) {
	if kv == nil {
		return nil, fmt.Errorf("pending bridge: key-value store is required")
	}
	return &PendingBridge{kv: kv, nowFn: func() time.Time { return time.Now().UTC() }}, nil
}

func (b *PendingBridge) Set(ctx context.Context, action domain.PendingCartAction) error {
	if action.CreatedAt.IsZero() {
		action.CreatedAt = b.nowFn()
	}
	raw, err := json.Marshal(action)
	if err != nil {
		return err
	}
	return b.kv.Set(ctx, ports.ScopeSession, pendingActionKey, raw)
}

func (b *PendingBridge) HasPending(ctx context.Context) bool {
	_, found, err := b.kv.Get(ctx, ports.ScopeSession, pendingActionKey)
	return err == nil && found
}

// Consume returns the pending action, if any, and deletes it. A stored value
// that fails to decode is discarded as if no action was pending.
func (b *PendingBridge) Consume(ctx context.Context) (domain.PendingCartAction, bool, error) {
	raw, found, err := b.kv.Get(ctx, ports.ScopeSession, pendingActionKey)
	if err != nil {
		return domain.PendingCartAction{}, false, err
	}
	if !found {
		return domain.PendingCartAction{}, false, nil
	}
	if err := b.kv.Delete(ctx, ports.ScopeSession, pendingActionKey); err != nil {
		return domain.PendingCartAction{}, false, err
	}
	var action domain.PendingCartAction
	if err := json.Unmarshal(raw, &action); err != nil {
		return domain.PendingCartAction{}, false, nil
	}
	return action, true, nil
}
