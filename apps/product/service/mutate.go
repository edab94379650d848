package service

import (
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"go-storefront/apps/auth"
	"go-storefront/apps/product/model"
	usermodel "go-storefront/apps/user/model"
	"go-storefront/pkg/errs"
	"go-storefront/pkg/money"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	minNameLen        = 3
	maxNameLen        = 50
	maxDescriptionLen = 500
	maxImageURLLen    = 200
)

// maxPrice is the first value that no longer fits DECIMAL(10,2).
var maxPrice = decimal.New(1, 8)

// Input carries every writable product field. Image, when set, replaces
// ImageURL with the URL of the stored upload.
type Input struct {
	Name        string
	Description *string
	Price       money.Amount
	ImageURL    *string
	Stock       int
	CategoryID  uint
	Image       io.Reader
}

func (in *Input) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if n := utf8.RuneCountInString(in.Name); n < minNameLen || n > maxNameLen {
		return errs.ErrInvalidProduct.WithMessage("name must be between %d and %d characters", minNameLen, maxNameLen)
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > maxDescriptionLen {
		return errs.ErrInvalidProduct.WithMessage("description must be at most %d characters", maxDescriptionLen)
	}
	if !in.Price.IsPositive() {
		return errs.ErrInvalidProduct.WithMessage("price must be greater than 0")
	}
	if in.Price.GreaterThanOrEqual(maxPrice) || !in.Price.Equal(in.Price.Round(money.Scale)) {
		return errs.ErrInvalidProduct.WithMessage("price must fit 8 integer digits and 2 decimal places")
	}
	if in.Stock < 0 {
		return errs.ErrInvalidProduct.WithMessage("stock must not be negative")
	}
	if in.ImageURL != nil && utf8.RuneCountInString(*in.ImageURL) > maxImageURLLen {
		return errs.ErrInvalidProduct.WithMessage("image_url must be at most %d characters", maxImageURLLen)
	}
	if in.CategoryID == 0 {
		return errs.ErrInvalidProduct.WithMessage("category_id is required")
	}
	return nil
}

// Create stores a new product owned by seller.
func (s *Service) Create(ctx context.Context, seller *usermodel.User, in Input) (*model.Product, error) {
	if err := s.prepare(ctx, &in); err != nil {
		return nil, err
	}
	newURL, err := s.saveImage(in.Image)
	if err != nil {
		return nil, err
	}

	p := in.product()
	p.SellerID = seller.ID
	if newURL != "" {
		p.ImageURL = &newURL
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.discardImage(newURL)
		return nil, errs.Internal("create product", err)
	}

	s.InvalidateListings(ctx)
	s.log.Info("product created", zap.Uint("id", p.ID), zap.Uint("seller_id", seller.ID))
	return p, nil
}

// Owned loads an Active product and checks that seller owns it.
func (s *Service) Owned(ctx context.Context, seller *usermodel.User, id uint) (*model.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwnership(p, seller); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces every field of a product owned by seller. The previous
// image file is removed only after the new row is committed.
func (s *Service) Update(ctx context.Context, seller *usermodel.User, id uint, in Input) (*model.Product, error) {
	current, err := s.Owned(ctx, seller, id)
	if err != nil {
		return nil, err
	}
	if err := s.prepare(ctx, &in); err != nil {
		return nil, err
	}
	newURL, err := s.saveImage(in.Image)
	if err != nil {
		return nil, err
	}

	p := in.product()
	p.ID = id
	if newURL != "" {
		p.ImageURL = &newURL
	}
	changed, err := s.repo.Replace(ctx, p)
	if err != nil {
		s.discardImage(newURL)
		return nil, errs.Internal("update product", err)
	}
	if !changed {
		s.discardImage(newURL)
		return nil, errs.ErrNotFound.WithMessage("Product not found")
	}

	if old := current.ImageURL; old != nil && (p.ImageURL == nil || *p.ImageURL != *old) {
		s.discardImage(*old)
	}
	s.InvalidateListings(ctx)
	return p, nil
}

// Delete soft-deletes a product owned by seller. The image stays on disk
// with the Inactive row.
func (s *Service) Delete(ctx context.Context, seller *usermodel.User, id uint) error {
	if _, err := s.Owned(ctx, seller, id); err != nil {
		return err
	}
	changed, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return errs.Internal("delete product", err)
	}
	if !changed {
		return errs.ErrNotFound.WithMessage("Product not found")
	}
	s.InvalidateListings(ctx)
	s.log.Info("product deactivated", zap.Uint("id", id))
	return nil
}

// prepare validates the fields, then the category reference.
func (s *Service) prepare(ctx context.Context, in *Input) error {
	if err := in.validate(); err != nil {
		return err
	}
	c, err := s.categories.FindActive(ctx, in.CategoryID)
	if err != nil {
		return errs.Internal("check category", err)
	}
	if c == nil {
		return errs.ErrCategoryNotFound.WithMessage("Category with id %d not found", in.CategoryID)
	}
	return nil
}

func (in *Input) product() *model.Product {
	return &model.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       money.New(in.Price.Decimal),
		ImageURL:    in.ImageURL,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
	}
}

func (s *Service) saveImage(r io.Reader) (string, error) {
	if r == nil {
		return "", nil
	}
	if s.images == nil {
		return "", errs.ErrInvalidImage.WithMessage("image uploads are disabled")
	}
	return s.images.Save(r)
}

func (s *Service) discardImage(url string) {
	if url == "" || s.images == nil {
		return
	}
	if err := s.images.Remove(url); err != nil {
		s.log.Warn("removing product image failed", zap.String("url", url), zap.Error(err))
	}
}
