package repository

import (
	"context"
	"errors"

	"go-storefront/apps/order/model"
	"go-storefront/pkg/lifecycle"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn in a single database transaction.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// Create stores the order and its items through tx.
func Create(tx *gorm.DB, o *model.Order) error {
	o.State = lifecycle.Active
	return tx.Create(o).Error
}

// ListForUser returns the user's orders, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID uint) ([]model.Order, error) {
	orders := make([]model.Order, 0)
	err := r.db.WithContext(ctx).
		Scopes(lifecycle.OnlyActive).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *Repository) FindForUser(ctx context.Context, userID, id uint) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Scopes(lifecycle.OnlyActive).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
