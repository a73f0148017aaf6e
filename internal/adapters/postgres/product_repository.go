package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hobbyforge/storefront/internal/domain"
	"github.com/hobbyforge/storefront/internal/ports"
)

type productRepository struct {
	db *gorm.DB
}

func (r *productRepository) Get(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	var rec productModel
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, domain.ErrNotFound
		}
		return domain.Product{}, asTransient("get product", err)
	}
	return toDomainProduct(rec), nil
}

func (r *productRepository) List(ctx context.Context, filter ports.ProductFilter) ([]domain.Product, error) {
	q := r.db.WithContext(ctx).Model(&productModel{})
	if filter.Grade != nil {
		q = q.Where("grade = ?", string(*filter.Grade))
	}
	if filter.Category != nil {
		q = q.Where("category = ?", string(*filter.Category))
	}
	if filter.InStock != nil {
		q = q.Where("in_stock = ?", *filter.InStock)
	}
	var recs []productModel
	if err := q.Order("name ASC").Find(&recs).Error; err != nil {
		return nil, asTransient("list products", err)
	}
	products := make([]domain.Product, 0, len(recs))
	for _, rec := range recs {
		products = append(products, toDomainProduct(rec))
	}
	return products, nil
}
