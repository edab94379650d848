package repository

import (
	"context"
	"errors"

	"go-storefront/apps/product/model"
	"go-storefront/pkg/lifecycle"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, p *model.Product) error {
	p.State = lifecycle.Active
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(p).Error
	})
}

// FindActive returns the Active product with id, or nil when there is none.
func (r *Repository) FindActive(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Scopes(lifecycle.OnlyActive).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindActiveByIDs loads the Active products among ids, keyed by id.
func (r *Repository) FindActiveByIDs(ctx context.Context, ids []uint) (map[uint]*model.Product, error) {
	out := make(map[uint]*model.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var products []model.Product
	if err := r.db.WithContext(ctx).Scopes(lifecycle.OnlyActive).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for i := range products {
		out[products[i].ID] = &products[i]
	}
	return out, nil
}

func (r *Repository) Count(ctx context.Context, f *Filter) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Scopes(f.Scope()).Count(&total).Error
	return total, err
}

// Page returns one window of the filtered set in id order.
func (r *Repository) Page(ctx context.Context, f *Filter, offset, limit int) ([]model.Product, error) {
	products := make([]model.Product, 0, limit)
	err := r.db.WithContext(ctx).
		Scopes(f.Scope()).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error
	return products, err
}

// Replace overwrites every mutable field of an Active product in one
// transaction. It reports false when the row is no longer Active.
func (r *Repository) Replace(ctx context.Context, p *model.Product) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).
			Scopes(lifecycle.OnlyActive).
			Where("id = ?", p.ID).
			Updates(map[string]interface{}{
				"name":        p.Name,
				"description": p.Description,
				"price":       p.Price,
				"image_url":   p.ImageURL,
				"stock":       p.Stock,
				"category_id": p.CategoryID,
			})
		if res.Error != nil {
			return res.Error
		}
		changed = res.RowsAffected > 0
		if !changed {
			return nil
		}
		return tx.First(p, p.ID).Error
	})
	return changed, err
}

func (r *Repository) Deactivate(ctx context.Context, id uint) (bool, error) {
	return lifecycle.Deactivate(r.db.WithContext(ctx), &model.Product{}, id)
}

// ReserveStock decrements stock inside tx when enough units remain. It
// reports false when the product is gone or short.
func ReserveStock(tx *gorm.DB, productID uint, qty int) (bool, error) {
	res := tx.Model(&model.Product{}).
		Scopes(lifecycle.OnlyActive).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
