package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/hobbyforge/storefront/internal/domain"
)

// CartRow is one persisted cart line joined with its current product data.
type CartRow struct {
	ProductID uuid.UUID
	Quantity  int
	Product   domain.Product
}

// CartRepository is the persistence gateway for cart lines. Every call is
// network-bound and may fail transiently; implementations wrap such failures
// in domain.ErrStorageUnavailable and never retry.
type CartRepository interface {
	ListLines(ctx context.Context, identity domain.Identity) ([]CartRow, error)
	InsertLine(ctx context.Context, identity domain.Identity, productID uuid.UUID, quantity int) error
	UpdateLineQuantity(ctx context.Context, identity domain.Identity, productID uuid.UUID, quantity int) error
	DeleteLine(ctx context.Context, identity domain.Identity, productID uuid.UUID) error
	DeleteAllLines(ctx context.Context, identity domain.Identity) error
}

type ProductFilter struct {
	Grade    *domain.Grade
	Category *domain.Category
	InStock  *bool
}

type ProductRepository interface {
	Get(ctx context.Context, productID uuid.UUID) (domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
}
