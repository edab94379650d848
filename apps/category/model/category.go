package model

import (
	"time"

	"go-storefront/pkg/lifecycle"
)

// Category groups products and may be nested under a parent.
type Category struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(50);not null" json:"name"`
	ParentID  *uint           `gorm:"index" json:"parent_id"`
	State     lifecycle.State `gorm:"column:is_active;not null;index" json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}
