package application_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hobbyforge/storefront/internal/adapters/cache"
	identityadapter "github.com/hobbyforge/storefront/internal/adapters/identity"
	"github.com/hobbyforge/storefront/internal/application"
	"github.com/hobbyforge/storefront/internal/domain"
	"github.com/hobbyforge/storefront/internal/ports"
)

type fakeCartRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]map[uuid.UUID]ports.CartRow

	listCalls      int
	insertCalls    int
	updateCalls    int
	deleteCalls    int
	deleteAllCalls int

	failList      error
	failInsert    error
	failUpdate    error
	failDelete    error
	failDeleteAll error

	listEntered chan struct{}
	listRelease chan struct{}
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{rows: make(map[uuid.UUID]map[uuid.UUID]ports.CartRow)}
}

func (r *fakeCartRepo) seed(userID uuid.UUID, product domain.Product, quantity int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rows[userID] == nil {
		r.rows[userID] = make(map[uuid.UUID]ports.CartRow)
	}
	r.rows[userID][product.ProductID] = ports.CartRow{ProductID: product.ProductID, Quantity: quantity, Product: product}
}

func (r *fakeCartRepo) rowCount(userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows[userID])
}

func (r *fakeCartRepo) totalCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listCalls + r.insertCalls + r.updateCalls + r.deleteCalls + r.deleteAllCalls
}

func (r *fakeCartRepo) ListLines(_ context.Context, identity domain.Identity) ([]ports.CartRow, error) {
	r.mu.Lock()
	r.listCalls++
	entered, release := r.listEntered, r.listRelease
	r.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
		<-release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failList != nil {
		return nil, r.failList
	}
	out := make([]ports.CartRow, 0, len(r.rows[identity.UserID]))
	for _, row := range r.rows[identity.UserID] {
		out = append(out, row)
	}
	return out, nil
}

func (r *fakeCartRepo) InsertLine(_ context.Context, identity domain.Identity, productID uuid.UUID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertCalls++
	if r.failInsert != nil {
		return r.failInsert
	}
	if r.rows[identity.UserID] == nil {
		r.rows[identity.UserID] = make(map[uuid.UUID]ports.CartRow)
	}
	r.rows[identity.UserID][productID] = ports.CartRow{ProductID: productID, Quantity: quantity}
	return nil
}

func (r *fakeCartRepo) UpdateLineQuantity(_ context.Context, identity domain.Identity, productID uuid.UUID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	if r.failUpdate != nil {
		return r.failUpdate
	}
	row, ok := r.rows[identity.UserID][productID]
	if !ok {
		return domain.ErrNotFound
	}
	row.Quantity = quantity
	r.rows[identity.UserID][productID] = row
	return nil
}

func (r *fakeCartRepo) DeleteLine(_ context.Context, identity domain.Identity, productID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteCalls++
	if r.failDelete != nil {
		return r.failDelete
	}
	delete(r.rows[identity.UserID], productID)
	return nil
}

func (r *fakeCartRepo) DeleteAllLines(_ context.Context, identity domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteAllCalls++
	if r.failDeleteAll != nil {
		return r.failDeleteAll
	}
	delete(r.rows, identity.UserID)
	return nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []ports.Notice
}

func (n *recordingNotifier) Notify(_ context.Context, notice ports.Notice) {
	n.mu.Lock()
	n.notices = append(n.notices, notice)
	n.mu.Unlock()
}

func (n *recordingNotifier) countBySeverity(severity ports.Severity) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, notice := range n.notices {
		if notice.Severity == severity {
			count++
		}
	}
	return count
}

type recordingNavigator struct {
	mu        sync.Mutex
	redirects int
}

func (n *recordingNavigator) RedirectToSignIn(_ context.Context) {
	n.mu.Lock()
	n.redirects++
	n.mu.Unlock()
}

func (n *recordingNavigator) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.redirects
}

type fixture struct {
	engine    *application.Engine
	carts     *fakeCartRepo
	provider  *identityadapter.MemoryProvider
	bridge    *application.PendingBridge
	notifier  *recordingNotifier
	navigator *recordingNavigator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	carts := newFakeCartRepo()
	provider := identityadapter.NewMemoryProvider()
	bridge, err := application.NewPendingBridge(cache.NewMemoryKeyValue())
	if err != nil {
		t.Fatalf("new pending bridge: %v", err)
	}
	notifier := &recordingNotifier{}
	navigator := &recordingNavigator{}
	engine, err := application.NewEngine(application.Dependencies{
		Carts:     carts,
		Identity:  provider,
		Notifier:  notifier,
		Navigator: navigator,
		Bridge:    bridge,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return &fixture{
		engine:    engine,
		carts:     carts,
		provider:  provider,
		bridge:    bridge,
		notifier:  notifier,
		navigator: navigator,
	}
}

func testProduct(name string, price string) domain.Product {
	p, err := decimal.NewFromString(price)
	if err != nil {
		panic(err)
	}
	return domain.Product{
		ProductID: uuid.New(),
		Name:      name,
		Price:     p,
		Category:  domain.CategoryModelKits,
		InStock:   true,
	}
}

func TestNewEngineRequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := application.NewEngine(application.Dependencies{}); err == nil {
		t.Fatalf("expected construction error for missing dependencies")
	}
}

func TestAddItemInsertsSingleLine(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.provider.SignIn(domain.Identity{UserID: uuid.New()})
	product := testProduct("RX-78-2", "25.00")

	if err := f.engine.AddItem(context.Background(), product, 2); err != nil {
		t.Fatalf("add item: %v", err)
	}

	lines := f.engine.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", lines[0].Quantity)
	}
	if f.carts.insertCalls != 1 {
		t.Fatalf("expected exactly one insert call, got %d", f.carts.insertCalls)
	}
}

func TestAddItemAccumulatesExistingLine(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	user := uuid.New()
	product := testProduct("Zaku II", "18.50")
	f.carts.seed(user, product, 3)
	f.provider.SignIn(domain.Identity{UserID: user})

	if err := f.engine.AddItem(context.Background(), product, 2); err != nil {
		t.Fatalf("add item: %v", err)
	}

	lines := f.engine.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected a single accumulated line, got %d", len(lines))
	}
	if lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", lines[0].Quantity)
	}
	if f.carts.insertCalls != 0 || f.carts.updateCalls != 1 {
		t.Fatalf("expected update path, got inserts=%d updates=%d", f.carts.insertCalls, f.carts.updateCalls)
	}
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.provider.SignIn(domain.Identity{UserID: uuid.New()})

	err := f.engine.AddItem(context.Background(), testProduct("Gouf", "20.00"), 0)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if f.carts.totalCalls() != 1 { // sign-in load only
		t.Fatalf("expected no gateway mutation, calls=%d", f.carts.totalCalls())
	}
}

func TestGuestHandoff(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	product := testProduct("Freedom", "32.00")

	if err := f.engine.AddItem(ctx, product, 2); err != nil {
		t.Fatalf("guest add should not error: %v", err)
	}

	if f.carts.totalCalls() != 0 {
		t.Fatalf("guest add must not reach the gateway, calls=%d", f.carts.totalCalls())
	}
	if !f.bridge.HasPending(ctx) {
		t.Fatalf("expected pending action after guest add")
	}
	if f.navigator.count() != 1 {
		t.Fatalf("expected exactly one sign-in redirect, got %d", f.navigator.count())
	}
	if len(f.engine.Lines()) != 0 {
		t.Fatalf("guest add must not mutate the in-memory cart")
	}

	action, found, err := f.bridge.Consume(ctx)
	if err != nil || !found {
		t.Fatalf("consume pending: found=%v err=%v", found, err)
	}
	if action.ProductID != product.ProductID || action.Quantity != 2 {
		t.Fatalf("unexpected pending action %+v", action)
	}
	if f.bridge.HasPending(ctx) {
		t.Fatalf("pending action should be gone after consume")
	}
}

func TestPendingActionLastIntentWins(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	first := testProduct("Sazabi", "45.00")
	second := testProduct("Nu Gundam", "48.00")

	if err := f.engine.AddItem(ctx, first, 1); err != nil {
		t.Fatalf("first guest add: %v", err)
	}
	if err := f.engine.AddItem(ctx, second, 4); err != nil {
		t.Fatalf("second guest add: %v", err)
	}

	action, found, err := f.bridge.Consume(ctx)
	if err != nil || !found {
		t.Fatalf("consume pending: found=%v err=%v", found, err)
	}
	if action.ProductID != second.ProductID || action.Quantity != 4 {
		t.Fatalf("expected last intent to win, got %+v", action)
	}
}

func TestUpdateQuantityUnderflowRemoves(t *testing.T) {
	t.Parallel()

	for _, quantity := range []int{0, -5} {
		f := newFixture(t)
		user := uuid.New()
		product := testProduct("Wing Zero", "29.99")
		f.carts.seed(user, product, 2)
		f.provider.SignIn(domain.Identity{UserID: user})

		if err := f.engine.UpdateQuantity(context.Background(), product.ProductID, quantity); err != nil {
			t.Fatalf("update to %d: %v", quantity, err)
		}
		if len(f.engine.Lines()) != 0 {
			t.Fatalf("quantity %d should remove the line", quantity)
		}
		if f.carts.deleteCalls != 1 {
			t.Fatalf("quantity %d should route through delete, calls=%d", quantity, f.carts.deleteCalls)
		}
		if f.carts.rowCount(user) != 0 {
			t.Fatalf("quantity %d should delete the persisted row", quantity)
		}
	}
}

func TestClearCartRemovesEverything(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	user := uuid.New()
	for i, name := range []string{"Barbatos", "Exia", "Unicorn"} {
		f.carts.seed(user, testProduct(name, "10.00"), i+1)
	}
	f.provider.SignIn(domain.Identity{UserID: user})
	if len(f.engine.Lines()) != 3 {
		t.Fatalf("expected 3 lines after load, got %d", len(f.engine.Lines()))
	}

	if err := f.engine.ClearCart(context.Background()); err != nil {
		t.Fatalf("clear cart: %v", err)
	}
	if len(f.engine.Lines()) != 0 {
		t.Fatalf("expected empty cart after clear")
	}
	if f.carts.deleteAllCalls != 1 {
		t.Fatalf("expected one bulk delete, got %d", f.carts.deleteAllCalls)
	}
	if f.carts.rowCount(user) != 0 {
		t.Fatalf("expected no persisted rows after clear")
	}
}

func TestRemoveItemFailureKeepsMemory(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	user := uuid.New()
	product := testProduct("Strike", "22.00")
	f.carts.seed(user, product, 1)
	f.provider.SignIn(domain.Identity{UserID: user})
	f.carts.failDelete = domain.ErrStorageUnavailable

	if err := f.engine.RemoveItem(context.Background(), product.ProductID); err == nil {
		t.Fatalf("expected remove failure")
	}
	if len(f.engine.Lines()) != 1 {
		t.Fatalf("failed remove must leave the in-memory line")
	}
	if got := f.notifier.countBySeverity(ports.SeverityDestructive); got != 1 {
		t.Fatalf("expected exactly one destructive notice, got %d", got)
	}
}

func TestAddItemFailureLeavesMemoryUntouched(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.provider.SignIn(domain.Identity{UserID: uuid.New()})
	f.carts.failInsert = domain.ErrStorageUnavailable

	if err := f.engine.AddItem(context.Background(), testProduct("Deathscythe", "27.00"), 1); err == nil {
		t.Fatalf("expected insert failure")
	}
	if len(f.engine.Lines()) != 0 {
		t.Fatalf("failed add must not mutate the in-memory cart")
	}
	if got := f.notifier.countBySeverity(ports.SeverityDestructive); got != 1 {
		t.Fatalf("expected exactly one destructive notice, got %d", got)
	}
}

func TestSignOutClearsMemoryNotStorage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	user := uuid.New()
	for _, name := range []string{"Kampfer", "Dom", "Gelgoog"} {
		f.carts.seed(user, testProduct(name, "15.00"), 1)
	}
	f.provider.SignIn(domain.Identity{UserID: user})
	if len(f.engine.Lines()) != 3 {
		t.Fatalf("expected 3 lines after load")
	}

	f.provider.SignOut()

	if len(f.engine.Lines()) != 0 {
		t.Fatalf("sign-out must clear the in-memory cart")
	}
	if f.engine.State() != application.StateUnauthenticated {
		t.Fatalf("expected unauthenticated state, got %s", f.engine.State())
	}
	if f.carts.rowCount(user) != 3 {
		t.Fatalf("sign-out must never touch persisted rows, got %d", f.carts.rowCount(user))
	}
}

func TestLoadFailureSettlesReady(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.carts.failList = domain.ErrStorageUnavailable

	f.provider.SignIn(domain.Identity{UserID: uuid.New()})

	if f.engine.State() != application.StateReady {
		t.Fatalf("engine must settle in ready after a failed load, got %s", f.engine.State())
	}
	if len(f.engine.Lines()) != 0 {
		t.Fatalf("failed load leaves the cart empty")
	}
	if got := f.notifier.countBySeverity(ports.SeverityDestructive); got != 1 {
		t.Fatalf("expected one destructive notice for the failed load, got %d", got)
	}
}

func TestStaleLoadIsDropped(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	user := uuid.New()
	f.carts.seed(user, testProduct("Qubeley", "38.00"), 2)

	f.carts.listEntered = make(chan struct{})
	f.carts.listRelease = make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = f.engine.Load(context.Background(), domain.Identity{UserID: user})
	}()

	<-f.carts.listEntered
	// Sign-out while the fetch is in flight; its result must not be
	// committed for an identity that is no longer current.
	f.carts.listEntered = nil
	f.provider.SignOut()
	close(f.carts.listRelease)
	<-done

	if len(f.engine.Lines()) != 0 {
		t.Fatalf("stale load result must be dropped")
	}
	if f.engine.State() != application.StateUnauthenticated {
		t.Fatalf("expected unauthenticated state, got %s", f.engine.State())
	}
}

func TestSubscribersObserveCommittedMutations(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.provider.SignIn(domain.Identity{UserID: uuid.New()})

	var mu sync.Mutex
	var snapshots []application.Snapshot
	f.engine.Subscribe(func(snap application.Snapshot) {
		mu.Lock()
		snapshots = append(snapshots, snap)
		mu.Unlock()
	})

	product := testProduct("Turn A", "33.00")
	if err := f.engine.AddItem(context.Background(), product, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := f.engine.UpdateQuantity(context.Background(), product.ProductID, 3); err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if err := f.engine.RemoveItem(context.Background(), product.ProductID); err != nil {
		t.Fatalf("remove item: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(snapshots) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(snapshots))
	}
	if len(snapshots[0].Lines) != 1 || snapshots[0].Lines[0].Quantity != 1 {
		t.Fatalf("unexpected first snapshot %+v", snapshots[0])
	}
	if snapshots[1].Lines[0].Quantity != 3 {
		t.Fatalf("unexpected second snapshot %+v", snapshots[1])
	}
	if len(snapshots[2].Lines) != 0 {
		t.Fatalf("unexpected third snapshot %+v", snapshots[2])
	}
}

func TestMutationsWithoutIdentityAreSilentNoOps(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	if err := f.engine.RemoveItem(ctx, uuid.New()); err != nil {
		t.Fatalf("remove without identity: %v", err)
	}
	if err := f.engine.UpdateQuantity(ctx, uuid.New(), 5); err != nil {
		t.Fatalf("update without identity: %v", err)
	}
	if err := f.engine.ClearCart(ctx); err != nil {
		t.Fatalf("clear without identity: %v", err)
	}
	if f.carts.totalCalls() != 0 {
		t.Fatalf("no gateway call expected, got %d", f.carts.totalCalls())
	}
	if len(f.notifier.notices) != 0 {
		t.Fatalf("no notices expected, got %d", len(f.notifier.notices))
	}
}
