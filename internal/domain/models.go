package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Grade string

const (
	GradeHG Grade = "HG"
	GradeRG Grade = "RG"
	GradeMG Grade = "MG"
	GradePG Grade = "PG"
)

type Category string

const (
	CategoryModelKits   Category = "Model Kits"
	CategoryTools       Category = "Tools"
	CategoryPaint       Category = "Paint"
	CategoryAccessories Category = "Accessories"
)

// Identity is the signed-in user. Absence of an identity is expressed by the
// boolean returned alongside it, never by a zero UUID.
type Identity struct {
	UserID uuid.UUID
}

// Product is read-only to the cart: the catalog owns it, the cart carries a
// denormalized snapshot per line for display and totals. Price or stock
// changes in the catalog are not reconciled into existing lines.
type Product struct {
	ProductID   uuid.UUID
	Name        string
	Grade       *Grade
	Scale       *string
	Price       decimal.Decimal
	ImageURL    string
	Category    Category
	Description string
	InStock     bool
}

// CartLine ties one product to a quantity. At most one line exists per
// (identity, product) pair; quantity is always >= 1.
type CartLine struct {
	ProductID uuid.UUID
	Quantity  int
	Product   Product
}

type PendingActionKind string

const PendingActionAdd PendingActionKind = "add"

// PendingCartAction is the single deferred intent held during a guest
// handoff. It is scoped to the browsing session, not to any identity.
type PendingCartAction struct {
	Kind      PendingActionKind `json:"kind"`
	ProductID uuid.UUID         `json:"product_id"`
	Quantity  int               `json:"quantity"`
	CreatedAt time.Time         `json:"created_at"`
}
