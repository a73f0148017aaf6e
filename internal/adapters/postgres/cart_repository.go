package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hobbyforge/storefront/internal/domain"
	"github.com/hobbyforge/storefront/internal/ports"
)

type cartRepository struct {
	db *gorm.DB
}

func (r *cartRepository) ListLines(ctx context.Context, identity domain.Identity) ([]ports.CartRow, error) {
	var items []cartItemModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", identity.UserID).Find(&items).Error; err != nil {
		return nil, asTransient("list cart items", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	var products []productModel
	if err := r.db.WithContext(ctx).Where("product_id IN ?", ids).Find(&products).Error; err != nil {
		return nil, asTransient("list cart products", err)
	}
	byID := make(map[uuid.UUID]productModel, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}

	rows := make([]ports.CartRow, 0, len(items))
	for _, item := range items {
		p, ok := byID[item.ProductID]
		if !ok {
			// Product removed from the catalog after it was carted; the
			// line cannot be displayed or priced, so it is skipped.
			continue
		}
		rows = append(rows, ports.CartRow{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Product:   toDomainProduct(p),
		})
	}
	return rows, nil
}

func (r *cartRepository) InsertLine(ctx context.Context, identity domain.Identity, productID uuid.UUID, quantity int) error {
	now := time.Now().UTC()
	rec := cartItemModel{
		UserID:    identity.UserID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return asTransient("insert cart item", err)
	}
	return nil
}

func (r *cartRepository) UpdateLineQuantity(ctx context.Context, identity domain.Identity, productID uuid.UUID, quantity int) error {
	res := r.db.WithContext(ctx).Model(&cartItemModel{}).
		Where("user_id = ? AND product_id = ?", identity.UserID, productID).
		Updates(map[string]any{"quantity": quantity, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return asTransient("update cart item", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *cartRepository) DeleteLine(ctx context.Context, identity domain.Identity, productID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", identity.UserID, productID).
		Delete(&cartItemModel{}).Error
	if err != nil {
		return asTransient("delete cart item", err)
	}
	return nil
}

func (r *cartRepository) DeleteAllLines(ctx context.Context, identity domain.Identity) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ?", identity.UserID).
		Delete(&cartItemModel{}).Error
	if err != nil {
		return asTransient("delete all cart items", err)
	}
	return nil
}
