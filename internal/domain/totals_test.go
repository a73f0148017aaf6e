package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hobbyforge/storefront/internal/domain"
)

func line(price string, quantity int) domain.CartLine {
	p, err := decimal.NewFromString(price)
	if err != nil {
		panic(err)
	}
	id := uuid.New()
	return domain.CartLine{
		ProductID: id,
		Quantity:  quantity,
		Product:   domain.Product{ProductID: id, Name: "kit", Price: p, Category: domain.CategoryModelKits},
	}
}

func TestComputeTotalsScenario(t *testing.T) {
	t.Parallel()

	lines := []domain.CartLine{line("10.00", 2), line("5.00", 1)}
	totals := domain.ComputeTotals(lines, domain.DefaultTaxRate)

	if got := totals.Subtotal.StringFixed(2); got != "25.00" {
		t.Fatalf("subtotal = %s, want 25.00", got)
	}
	if got := totals.Tax.StringFixed(2); got != "2.00" {
		t.Fatalf("tax = %s, want 2.00", got)
	}
	if got := totals.Total.StringFixed(2); got != "27.00" {
		t.Fatalf("total = %s, want 27.00", got)
	}
}

func TestComputeTotalsIsPure(t *testing.T) {
	t.Parallel()

	lines := []domain.CartLine{line("19.99", 3), line("7.25", 2)}
	first := domain.ComputeTotals(lines, domain.DefaultTaxRate)
	for i := 0; i < 5; i++ {
		again := domain.ComputeTotals(lines, domain.DefaultTaxRate)
		if !again.Subtotal.Equal(first.Subtotal) || !again.Tax.Equal(first.Tax) || !again.Total.Equal(first.Total) {
			t.Fatalf("totals changed between observations: %+v vs %+v", first, again)
		}
	}
}

func TestComputeTotalsRoundingAndIdentity(t *testing.T) {
	t.Parallel()

	// 3 * 6.99 = 20.97; 8% of that is 1.6776, which must round to 1.68.
	totals := domain.ComputeTotals([]domain.CartLine{line("6.99", 3)}, domain.DefaultTaxRate)
	if got := totals.Tax.StringFixed(2); got != "1.68" {
		t.Fatalf("tax = %s, want 1.68", got)
	}
	if !totals.Total.Equal(totals.Subtotal.Add(totals.Tax)) {
		t.Fatalf("total must equal subtotal + tax exactly")
	}
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	t.Parallel()

	totals := domain.ComputeTotals(nil, domain.DefaultTaxRate)
	if !totals.Subtotal.IsZero() || !totals.Tax.IsZero() || !totals.Total.IsZero() {
		t.Fatalf("empty cart totals must be zero, got %+v", totals)
	}
}
