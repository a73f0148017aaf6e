package ports

import "context"

// Scope selects the lifetime of keys written through a KeyValue store.
type Scope string

const (
	// ScopeSession keys live as long as the browsing session.
	ScopeSession Scope = "session"
	// ScopePersistent keys survive across sessions.
	ScopePersistent Scope = "persistent"
	// ScopeMemory keys live only for the current process.
	ScopeMemory Scope = "memory"
)

// KeyValue is a small scoped key-value store. Get returns found=false for a
// missing key rather than an error.
type KeyValue interface {
	Get(ctx context.Context, scope Scope, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, scope Scope, key string, value []byte) error
	Delete(ctx context.Context, scope Scope, key string) error
}
