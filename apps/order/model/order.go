package model

import (
	"time"

	"go-storefront/pkg/lifecycle"
	"go-storefront/pkg/money"
)

const (
	StatusPlaced = "placed"
)

// Order is created from a cart at checkout.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderNo     string          `gorm:"type:varchar(64);uniqueIndex" json:"order_no"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	TotalAmount money.Amount    `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status      string          `gorm:"type:varchar(20);not null" json:"status"`
	State       lifecycle.State `gorm:"column:is_active;not null;index" json:"is_active"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OrderItem snapshots the product at checkout time.
type OrderItem struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	OrderID     uint         `gorm:"index" json:"order_id"`
	ProductID   uint         `gorm:"index" json:"product_id"`
	ProductName string       `gorm:"type:varchar(50)" json:"product_name"`
	UnitPrice   money.Amount `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity    int          `gorm:"not null" json:"quantity"`
	CreatedAt   time.Time    `json:"created_at"`
}

func (Order) TableName() string {
	return "orders"
}

func (OrderItem) TableName() string {
	return "order_items"
}
