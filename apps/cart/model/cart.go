package model

import (
	"time"

	productmodel "go-storefront/apps/product/model"
	"go-storefront/pkg/money"
)

// CartItem is one product line in a user's cart. A user holds at most one
// line per product.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// Line is a cart item joined with its active product.
type Line struct {
	ID       uint                  `json:"id"`
	Quantity int                   `json:"quantity"`
	Subtotal money.Amount          `json:"subtotal"`
	Product  *productmodel.Product `json:"product"`
}

// Cart is the computed view of a user's cart.
type Cart struct {
	UserID        uint         `json:"user_id"`
	Items         []Line       `json:"items"`
	TotalQuantity int          `json:"total_quantity"`
	TotalPrice    money.Amount `json:"total_price"`
}
