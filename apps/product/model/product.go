package model

import (
	"time"

	"go-storefront/pkg/lifecycle"
	"go-storefront/pkg/money"
)

// Product is a sellable item owned by a seller.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(50);not null" json:"name"`
	Description *string         `gorm:"type:varchar(500)" json:"description"`
	Price       money.Amount    `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    *string         `gorm:"type:varchar(200)" json:"image_url"`
	Stock       int             `gorm:"not null" json:"stock"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	SellerID    uint            `gorm:"not null;index" json:"seller_id"`
	State       lifecycle.State `gorm:"column:is_active;not null;index" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// OwnedBy reports whether sellerID owns the product.
func (p *Product) OwnedBy(sellerID uint) bool {
	return p.SellerID == sellerID
}
