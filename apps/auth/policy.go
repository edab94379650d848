// Package auth decides who may act on which resource. Token validity is
// checked upstream by the gateway middleware; the policy re-loads the user
// so that deactivation takes effect immediately.
package auth

import (
	"context"

	productmodel "go-storefront/apps/product/model"
	usermodel "go-storefront/apps/user/model"
	"go-storefront/pkg/errs"
	"go-storefront/pkg/jwt"
)

type UserFinder interface {
	FindActive(ctx context.Context, id uint) (*usermodel.User, error)
}

type Policy struct {
	users UserFinder
}

func NewPolicy(users UserFinder) *Policy {
	return &Policy{users: users}
}

// RequireUser resolves the token subject to an Active user.
func (p *Policy) RequireUser(ctx context.Context, claims *jwt.Claims) (*usermodel.User, error) {
	if claims == nil {
		return nil, errs.ErrMissingToken
	}
	u, err := p.users.FindActive(ctx, claims.UserId)
	if err != nil {
		return nil, errs.Internal("load current user", err)
	}
	if u == nil || u.Email != claims.Email() {
		return nil, errs.ErrUserInactive
	}
	return u, nil
}

// RequireSeller resolves the token subject to an Active seller.
func (p *Policy) RequireSeller(ctx context.Context, claims *jwt.Claims) (*usermodel.User, error) {
	if claims == nil {
		return nil, errs.ErrMissingToken
	}
	u, err := p.users.FindActive(ctx, claims.UserId)
	if err != nil {
		return nil, errs.Internal("load current user", err)
	}
	if u == nil || u.Email != claims.Email() || !u.IsSeller() {
		return nil, errs.ErrForbidden.WithMessage("Only active sellers can perform this action")
	}
	return u, nil
}

// RequireOwnership allows only the seller that owns the product.
func RequireOwnership(product *productmodel.Product, user *usermodel.User) error {
	if product == nil || user == nil || !product.OwnedBy(user.ID) {
		return errs.ErrForbidden.WithMessage("You can only modify your own products")
	}
	return nil
}
