package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type productModel struct {
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string          `gorm:"column:name"`
	Grade       *string         `gorm:"column:grade"`
	Scale       *string         `gorm:"column:scale"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2)"`
	ImageURL    string          `gorm:"column:image_url"`
	Category    string          `gorm:"column:category"`
	Description string          `gorm:"column:description"`
	InStock     bool            `gorm:"column:in_stock"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productModel) TableName() string { return "products" }

type cartItemModel struct {
	CartItemID uuid.UUID `gorm:"column:cart_item_id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id"`
	ProductID  uuid.UUID `gorm:"column:product_id"`
	Quantity   int       `gorm:"column:quantity"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (cartItemModel) TableName() string { return "cart_items" }
