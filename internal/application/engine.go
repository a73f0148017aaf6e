package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/hobbyforge/storefront/internal/domain"
	"github.com/hobbyforge/storefront/internal/ports"
)

// Engine owns the in-memory cart for the current identity and keeps it
// synchronized with the persistence gateway. The gateway's copy is
// authoritative and outlives the in-memory cart: sign-out clears memory only.
//
// The mutex guards the in-memory state; it is never held across a gateway
// call. Two concurrent mutations of different products therefore commute,
// while two concurrent mutations of the same product can read a stale
// quantity and resolve last-write-wins. That weak-consistency window is a
// deliberate trade-off for a single-user cart, kept as-is rather than
// strengthened with a per-product mutation queue.
type Engine struct {
	cfg       Config
	carts     ports.CartRepository
	identity  ports.IdentityProvider
	notifier  ports.Notifier
	navigator ports.Navigator
	bridge    *PendingBridge
	logger    *slog.Logger

	mu          sync.Mutex
	lines       map[uuid.UUID]domain.CartLine
	state       State
	generation  uint64
	subscribers []func(Snapshot)
}

type Dependencies struct {
	Config    Config
	Carts     ports.CartRepository
	Identity  ports.IdentityProvider
	Notifier  ports.Notifier
	Navigator ports.Navigator
	Bridge    *PendingBridge
	Logger    *slog.Logger
}

// NewEngine wires the engine and subscribes it once to identity changes.
// Missing dependencies are a wiring mistake, reported at construction time.
func NewEngine(deps Dependencies) (*Engine, error) {
	switch {
	case deps.Carts == nil:
		return nil, fmt.Errorf("cart engine: cart repository is required")
	case deps.Identity == nil:
		return nil, fmt.Errorf("cart engine: identity provider is required")
	case deps.Notifier == nil:
		return nil, fmt.Errorf("cart engine: notifier is required")
	case deps.Navigator == nil:
		return nil, fmt.Errorf("cart engine: navigator is required")
	case deps.Bridge == nil:
		return nil, fmt.Errorf("cart engine: pending-action bridge is required")
	}
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "storefront-cart"
	}
	if cfg.TaxRate.IsZero() {
		cfg.TaxRate = domain.DefaultTaxRate
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		cfg:       cfg,
		carts:     deps.Carts,
		identity:  deps.Identity,
		notifier:  deps.Notifier,
		navigator: deps.Navigator,
		bridge:    deps.Bridge,
		logger:    logger,
		lines:     make(map[uuid.UUID]domain.CartLine),
		state:     StateUnauthenticated,
	}
	e.identity.Subscribe(func(identity domain.Identity, present bool) {
		e.onIdentityChange(context.Background(), identity, present)
	})
	return e, nil
}

func (e *Engine) onIdentityChange(ctx context.Context, identity domain.Identity, present bool) {
	if !present {
		e.mu.Lock()
		e.generation++
		e.lines = make(map[uuid.UUID]domain.CartLine)
		e.state = StateUnauthenticated
		e.mu.Unlock()
		e.logger.InfoContext(ctx, "identity cleared, cart memory dropped", "module", "cart.engine")
		e.publish()
		return
	}
	if err := e.Load(ctx, identity); err != nil {
		e.logger.WarnContext(ctx, "cart load after sign-in failed", "module", "cart.engine", "error", err)
	}
}

// Load fetches every persisted line for the identity, joined with current
// product data, and replaces the in-memory cart wholesale. On fetch failure
// the cart is left empty, the failure is surfaced as a notice, and the
// engine still settles in Ready so the UI never spins forever. A load whose
// identity generation is no longer current is dropped on resolution.
func (e *Engine) Load(ctx context.Context, identity domain.Identity) error {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.state = StateLoading
	e.mu.Unlock()
	e.publish()

	rows, err := e.carts.ListLines(ctx, identity)

	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		e.logger.InfoContext(ctx, "stale cart load dropped", "module", "cart.engine", "user_id", identity.UserID)
		return nil
	}
	e.lines = make(map[uuid.UUID]domain.CartLine, len(rows))
	if err == nil {
		for _, row := range rows {
			e.lines[row.ProductID] = domain.CartLine{
				ProductID: row.ProductID,
				Quantity:  row.Quantity,
				Product:   row.Product,
			}
		}
	}
	e.state = StateReady
	e.mu.Unlock()

	if err != nil {
		e.notifier.Notify(ctx, ports.Notice{
			Severity:    ports.SeverityDestructive,
			Title:       "Error",
			Description: "Failed to load cart. Please try again.",
		})
		e.publish()
		return err
	}
	e.publish()
	return nil
}

// Subscribe registers fn to observe every committed cart change. There is no
// unsubscribe; subscribers live as long as the engine.
func (e *Engine) Subscribe(fn func(Snapshot)) {
	e.mu.Lock()
	e.subscribers = append(e.subscribers, fn)
	e.mu.Unlock()
}

func (e *Engine) publish() {
	snap := e.Snapshot()
	e.mu.Lock()
	subs := make([]func(Snapshot), len(e.subscribers))
	copy(subs, e.subscribers)
	e.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

// Snapshot returns the current lines and derived totals. Totals are pure
// functions of the lines, recomputed on every observation.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	lines := make([]domain.CartLine, 0, len(e.lines))
	for _, line := range e.lines {
		lines = append(lines, line)
	}
	state := e.state
	e.mu.Unlock()

	sort.Slice(lines, func(i, j int) bool {
		return lines[i].Product.Name < lines[j].Product.Name
	})
	return Snapshot{
		Lines:   lines,
		Totals:  domain.ComputeTotals(lines, e.cfg.TaxRate),
		State:   state,
		Loading: state == StateLoading,
	}
}

// Lines returns a copy of the current in-memory cart lines.
func (e *Engine) Lines() []domain.CartLine {
	return e.Snapshot().Lines
}

// Totals computes subtotal, tax and total for the current cart.
func (e *Engine) Totals() domain.Totals {
	return e.Snapshot().Totals
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}
