package service

import (
	"context"

	"go-storefront/apps/product/model"
	"go-storefront/apps/product/repository"
	"go-storefront/pkg/errs"
	"go-storefront/pkg/tracer"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Filters is a catalog query. Nil fields are not applied.
type Filters struct {
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	CategoryID *uint            `json:"category_id,omitempty"`
	MinPrice   *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice   *decimal.Decimal `json:"max_price,omitempty"`
	InStock    *bool            `json:"in_stock,omitempty"`
	SellerID   *uint            `json:"seller_id,omitempty"`
}

// ProductList is one page of a catalog query.
type ProductList struct {
	Items    []model.Product `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// ListProducts validates the filters, then counts and pages the matching
// Active products in id order.
func (s *Service) ListProducts(ctx context.Context, f Filters) (*ProductList, error) {
	ctx, span := tracer.Tracer("product").Start(ctx, "ListProducts")
	defer span.End()

	if err := validateFilters(f); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, f); err != nil {
		return nil, err
	}

	key := s.cacheKey(ctx, f)
	if key != "" {
		var cached ProductList
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("product list cache read failed", zap.Error(err))
		}
		if hit {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &cached, nil
		}
	}

	filter := BuildFilter(f)
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, errs.Internal("count products", err)
	}
	span.SetAttributes(attribute.Int64("products.total", total))

	result := &ProductList{Items: []model.Product{}, Total: total, Page: f.Page, PageSize: f.PageSize}
	if total > 0 {
		maxPage := (total + int64(f.PageSize) - 1) / int64(f.PageSize)
		if int64(f.Page) > maxPage {
			return nil, errs.ErrPageOutOfRange.WithMessage("page %d is out of range, last page is %d", f.Page, maxPage)
		}
		items, err := s.repo.Page(ctx, filter, (f.Page-1)*f.PageSize, f.PageSize)
		if err != nil {
			return nil, errs.Internal("list products", err)
		}
		result.Items = items
	}

	if key != "" {
		if err := s.cache.Set(ctx, key, result); err != nil {
			s.log.Warn("product list cache write failed", zap.Error(err))
		}
	}
	return result, nil
}

// ListByCategory lists the products of an Active category.
func (s *Service) ListByCategory(ctx context.Context, categoryID uint, f Filters) (*ProductList, error) {
	c, err := s.categories.FindActive(ctx, categoryID)
	if err != nil {
		return nil, errs.Internal("check category", err)
	}
	if c == nil {
		return nil, errs.ErrNotFound.WithMessage("Category not found")
	}
	f.CategoryID = &categoryID
	return s.ListProducts(ctx, f)
}

// validateFilters checks everything that needs no store access.
// An inverted price range is reported before any other problem.
func validateFilters(f Filters) error {
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return errs.ErrInvalidRange
	}
	if f.Page < 1 || f.PageSize < 1 || f.PageSize > MaxPageSize {
		return errs.ErrInvalidPagination
	}
	if (f.MinPrice != nil && f.MinPrice.IsNegative()) || (f.MaxPrice != nil && f.MaxPrice.IsNegative()) {
		return errs.ErrInvalidPrice
	}
	return nil
}

func (s *Service) checkReferences(ctx context.Context, f Filters) error {
	if f.CategoryID != nil {
		c, err := s.categories.FindActive(ctx, *f.CategoryID)
		if err != nil {
			return errs.Internal("check category", err)
		}
		if c == nil {
			return errs.ErrCategoryNotFound.WithMessage("Category with id %d not found", *f.CategoryID)
		}
	}
	if f.SellerID != nil {
		u, err := s.sellers.FindActiveSeller(ctx, *f.SellerID)
		if err != nil {
			return errs.Internal("check seller", err)
		}
		if u == nil {
			return errs.ErrSellerNotFound.WithMessage("Seller with id %d not found", *f.SellerID)
		}
	}
	return nil
}

// BuildFilter turns validated filters into store predicates.
func BuildFilter(f Filters) *repository.Filter {
	filter := repository.NewFilter()
	if f.CategoryID != nil {
		filter.Category(*f.CategoryID)
	}
	if f.MinPrice != nil {
		filter.MinPrice(*f.MinPrice)
	}
	if f.MaxPrice != nil {
		filter.MaxPrice(*f.MaxPrice)
	}
	if f.InStock != nil {
		filter.InStock(*f.InStock)
	}
	if f.SellerID != nil {
		filter.Seller(*f.SellerID)
	}
	return filter
}

func (s *Service) cacheKey(ctx context.Context, f Filters) string {
	if s.cache == nil {
		return ""
	}
	key, err := s.cache.Key(ctx, f)
	if err != nil {
		s.log.Warn("product list cache key failed", zap.Error(err))
		return ""
	}
	return key
}
