package repository

import (
	"context"
	"errors"

	"go-storefront/apps/cart/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context, userID uint) ([]model.CartItem, error) {
	return ListForUser(r.db.WithContext(ctx), userID)
}

// ListForUser reads a user's lines through db, which may be a transaction.
func ListForUser(db *gorm.DB, userID uint) ([]model.CartItem, error) {
	items := make([]model.CartItem, 0)
	err := db.Where("user_id = ?", userID).Order("id ASC").Find(&items).Error
	return items, err
}

func (r *Repository) Find(ctx context.Context, userID, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Upsert writes the line with an absolute quantity.
func (r *Repository) Upsert(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(item).Error
}

func (r *Repository) Remove(ctx context.Context, userID, productID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).Delete(&model.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) Clear(ctx context.Context, userID uint) error {
	return ClearForUser(r.db.WithContext(ctx), userID)
}

func ClearForUser(db *gorm.DB, userID uint) error {
	return db.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
}
