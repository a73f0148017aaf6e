package application

import (
	"github.com/shopspring/decimal"

	"github.com/hobbyforge/storefront/internal/domain"
)

type Config struct {
	ServiceName string
	TaxRate     decimal.Decimal
}

// State tracks identity presence inside the engine.
type State string

const (
	// StateUnauthenticated means no identity is present; the cart is empty
	// in memory and mutations never reach the persistence gateway.
	StateUnauthenticated State = "unauthenticated"
	// StateLoading means an identity just became present and the full-cart
	// fetch is in flight. Mutations are permitted to race with the load.
	StateLoading State = "loading"
	// StateReady means the in-memory cart reflects the gateway.
	StateReady State = "ready"
)

// Snapshot is what subscribers observe after every committed mutation. Lines
// are a copy; mutating them does not affect the engine.
type Snapshot struct {
	Lines   []domain.CartLine
	Totals  domain.Totals
	State   State
	Loading bool
}
