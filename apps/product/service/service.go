package service

import (
	"context"
	"io"

	categorymodel "go-storefront/apps/category/model"
	"go-storefront/apps/product/model"
	"go-storefront/apps/product/repository"
	usermodel "go-storefront/apps/user/model"
	"go-storefront/pkg/errs"

	"go.uber.org/zap"
)

type CategoryFinder interface {
	FindActive(ctx context.Context, id uint) (*categorymodel.Category, error)
}

type SellerFinder interface {
	FindActiveSeller(ctx context.Context, id uint) (*usermodel.User, error)
}

// ImageStore persists uploaded product images and returns their public URL.
type ImageStore interface {
	Save(r io.Reader) (string, error)
	Remove(url string) error
}

// ListCache stores rendered list pages. Keys taken before Invalidate must
// never be served afterwards.
type ListCache interface {
	Key(ctx context.Context, query interface{}) (string, error)
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Invalidate(ctx context.Context) error
}

type Service struct {
	repo       *repository.Repository
	categories CategoryFinder
	sellers    SellerFinder
	images     ImageStore
	cache      ListCache
	log        *zap.Logger
}

type Option func(*Service)

// WithCache enables the list page cache.
func WithCache(c ListCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func New(repo *repository.Repository, categories CategoryFinder, sellers SellerFinder, images ImageStore, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		categories: categories,
		sellers:    sellers,
		images:     images,
		log:        log.Named("product"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns an Active product.
func (s *Service) Get(ctx context.Context, id uint) (*model.Product, error) {
	p, err := s.repo.FindActive(ctx, id)
	if err != nil {
		return nil, errs.Internal("get product", err)
	}
	if p == nil {
		return nil, errs.ErrNotFound.WithMessage("Product not found")
	}
	return p, nil
}

// InvalidateListings drops cached list pages. Stock changes made outside this
// service call it too.
func (s *Service) InvalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("product list cache invalidation failed", zap.Error(err))
	}
}
