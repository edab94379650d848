package service

import (
	"context"

	"go-storefront/apps/cart/model"
	"go-storefront/apps/cart/repository"
	productmodel "go-storefront/apps/product/model"
	"go-storefront/pkg/errs"
	"go-storefront/pkg/money"
)

type ProductFinder interface {
	FindActive(ctx context.Context, id uint) (*productmodel.Product, error)
	FindActiveByIDs(ctx context.Context, ids []uint) (map[uint]*productmodel.Product, error)
}

type Service struct {
	repo     *repository.Repository
	products ProductFinder
}

func New(repo *repository.Repository, products ProductFinder) *Service {
	return &Service{repo: repo, products: products}
}

// Get builds the cart view. Lines whose product is no longer Active are
// skipped and not totalled.
func (s *Service) Get(ctx context.Context, userID uint) (*model.Cart, error) {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, errs.Internal("list cart", err)
	}
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.products.FindActiveByIDs(ctx, ids)
	if err != nil {
		return nil, errs.Internal("load cart products", err)
	}

	cart := &model.Cart{UserID: userID, Items: make([]model.Line, 0, len(items)), TotalPrice: money.Zero()}
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			continue
		}
		subtotal := p.Price.Mul(it.Quantity)
		cart.Items = append(cart.Items, model.Line{ID: it.ID, Quantity: it.Quantity, Subtotal: subtotal, Product: p})
		cart.TotalQuantity += it.Quantity
		cart.TotalPrice = cart.TotalPrice.Add(subtotal)
	}
	return cart, nil
}

// Add puts quantity units of a product in the cart, on top of any existing
// line.
func (s *Service) Add(ctx context.Context, userID, productID uint, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, errQuantity
	}
	existing, err := s.repo.Find(ctx, userID, productID)
	if err != nil {
		return nil, errs.Internal("load cart line", err)
	}
	if existing != nil {
		quantity += existing.Quantity
	}
	if err := s.put(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// SetQuantity replaces the quantity of an existing line.
func (s *Service) SetQuantity(ctx context.Context, userID, productID uint, quantity int) (*model.Cart, error) {
	existing, err := s.repo.Find(ctx, userID, productID)
	if err != nil {
		return nil, errs.Internal("load cart line", err)
	}
	if existing == nil {
		return nil, errs.ErrNotFound.WithMessage("Cart item not found")
	}
	if err := s.put(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *Service) Remove(ctx context.Context, userID, productID uint) (*model.Cart, error) {
	removed, err := s.repo.Remove(ctx, userID, productID)
	if err != nil {
		return nil, errs.Internal("remove cart line", err)
	}
	if !removed {
		return nil, errs.ErrNotFound.WithMessage("Cart item not found")
	}
	return s.Get(ctx, userID)
}

func (s *Service) Clear(ctx context.Context, userID uint) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return errs.Internal("clear cart", err)
	}
	return nil
}

var errQuantity = errs.Validation("ValidationError", "quantity must be at least 1")

func (s *Service) put(ctx context.Context, userID, productID uint, quantity int) error {
	if quantity < 1 {
		return errQuantity
	}
	p, err := s.products.FindActive(ctx, productID)
	if err != nil {
		return errs.Internal("load product", err)
	}
	if p == nil {
		return errs.ErrNotFound.WithMessage("Product not found")
	}
	if quantity > p.Stock {
		return errs.ErrInsufficientStock.WithMessage("only %d units of product %d are available", p.Stock, p.ID)
	}
	if err := s.repo.Upsert(ctx, &model.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}); err != nil {
		return errs.Internal("save cart line", err)
	}
	return nil
}
