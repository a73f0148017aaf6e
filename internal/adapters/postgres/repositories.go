package postgres

import (
	"gorm.io/gorm"

	"github.com/hobbyforge/storefront/internal/ports"
)

type Repositories struct {
	Carts    ports.CartRepository
	Products ports.ProductRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Carts:    &cartRepository{db: db},
		Products: &productRepository{db: db},
	}
}
