package repository

import (
	"context"
	"errors"

	"go-storefront/apps/category/model"
	"go-storefront/pkg/lifecycle"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, c *model.Category) error {
	c.State = lifecycle.Active
	return r.db.WithContext(ctx).Create(c).Error
}

// FindActive returns the Active category with id, or nil when there is none.
func (r *Repository) FindActive(ctx context.Context, id uint) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).Scopes(lifecycle.OnlyActive).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) ListActive(ctx context.Context) ([]model.Category, error) {
	categories := make([]model.Category, 0)
	err := r.db.WithContext(ctx).Scopes(lifecycle.OnlyActive).Order("id ASC").Find(&categories).Error
	return categories, err
}

// ParentOf returns the parent id of a category in any state. It backs the
// ancestor walk, which must see Inactive links too.
func (r *Repository) ParentOf(ctx context.Context, id uint) (*uint, bool, error) {
	var c model.Category
	err := r.db.WithContext(ctx).Select("id", "parent_id").First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return c.ParentID, true, nil
}

// Replace overwrites name and parent of an Active category. It reports false
// when the row is no longer Active.
func (r *Repository) Replace(ctx context.Context, c *model.Category) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Category{}).
			Scopes(lifecycle.OnlyActive).
			Where("id = ?", c.ID).
			Updates(map[string]interface{}{"name": c.Name, "parent_id": c.ParentID})
		if res.Error != nil {
			return res.Error
		}
		changed = res.RowsAffected > 0
		if !changed {
			return nil
		}
		return tx.First(c, c.ID).Error
	})
	return changed, err
}

func (r *Repository) Deactivate(ctx context.Context, id uint) (bool, error) {
	return lifecycle.Deactivate(r.db.WithContext(ctx), &model.Category{}, id)
}
