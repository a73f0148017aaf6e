package postgres

import "github.com/hobbyforge/storefront/internal/domain"

func toDomainProduct(m productModel) domain.Product {
	p := domain.Product{
		ProductID: m.ProductID, Name: m.Name, Scale: m.Scale, Price: m.Price,
		ImageURL: m.ImageURL, Category: domain.Category(m.Category),
		Description: m.Description, InStock: m.InStock,
	}
	if m.Grade != nil {
		grade := domain.Grade(*m.Grade)
		p.Grade = &grade
	}
	return p
}
