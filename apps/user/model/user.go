package model

import (
	"time"

	"go-storefront/pkg/lifecycle"
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleSeller
}

type User struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Email          string          `gorm:"type:varchar(191);uniqueIndex;not null" json:"email"`
	HashedPassword string          `gorm:"type:varchar(255);not null" json:"-"`
	Role           Role            `gorm:"type:varchar(20);not null" json:"role"`
	State          lifecycle.State `gorm:"column:is_active;not null;index" json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName pins the table name.
func (User) TableName() string {
	return "users"
}

func (u *User) IsSeller() bool {
	return u.Role == RoleSeller
}
