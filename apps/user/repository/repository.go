package repository

import (
	"context"
	"errors"

	"go-storefront/apps/user/model"
	"go-storefront/pkg/lifecycle"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an Active user. A duplicate email surfaces as
// gorm.ErrDuplicatedKey.
func (r *Repository) Create(ctx context.Context, u *model.User) error {
	u.State = lifecycle.Active
	return r.db.WithContext(ctx).Create(u).Error
}

// EmailTaken checks uniqueness across every state: a deactivated account
// still holds its address.
func (r *Repository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *Repository) FindActive(ctx context.Context, id uint) (*model.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *Repository) FindActiveByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindActiveSeller returns the Active user with id when it has the seller
// role, nil otherwise.
func (r *Repository) FindActiveSeller(ctx context.Context, id uint) (*model.User, error) {
	u, err := r.FindActive(ctx, id)
	if err != nil || u == nil || !u.IsSeller() {
		return nil, err
	}
	return u, nil
}

func (r *Repository) ListActive(ctx context.Context) ([]model.User, error) {
	users := make([]model.User, 0)
	err := r.db.WithContext(ctx).Scopes(lifecycle.OnlyActive).Order("id ASC").Find(&users).Error
	return users, err
}

func (r *Repository) Deactivate(ctx context.Context, id uint) (bool, error) {
	return lifecycle.Deactivate(r.db.WithContext(ctx), &model.User{}, id)
}

func (r *Repository) findOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Scopes(lifecycle.OnlyActive).Where(query, arg).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
