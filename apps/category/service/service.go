package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"go-storefront/apps/category/model"
	"go-storefront/apps/category/repository"
	"go-storefront/pkg/errs"

	"go.uber.org/zap"
)

const (
	minNameLen = 3
	maxNameLen = 50
	// maxDepth bounds the ancestor walk in case the stored tree is already corrupt.
	maxDepth = 64
)

type Input struct {
	Name     string
	ParentID *uint
}

type Service struct {
	repo *repository.Repository
	log  *zap.Logger
}

func New(repo *repository.Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log.Named("category")}
}

func (s *Service) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, errs.Internal("list categories", err)
	}
	return categories, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*model.Category, error) {
	c, err := s.repo.FindActive(ctx, id)
	if err != nil {
		return nil, errs.Internal("get category", err)
	}
	if c == nil {
		return nil, errs.ErrNotFound.WithMessage("Category not found")
	}
	return c, nil
}

// FindActive returns the Active category or nil. Other services use it to
// check references.
func (s *Service) FindActive(ctx context.Context, id uint) (*model.Category, error) {
	return s.repo.FindActive(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (*model.Category, error) {
	name, err := validateName(in.Name)
	if err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, in.ParentID); err != nil {
		return nil, err
	}

	c := &model.Category{Name: name, ParentID: in.ParentID}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, errs.Internal("create category", err)
	}
	s.log.Info("category created", zap.Uint("id", c.ID))
	return c, nil
}

// Update replaces name and parent of an Active category.
func (s *Service) Update(ctx context.Context, id uint, in Input) (*model.Category, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	name, err := validateName(in.Name)
	if err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, in.ParentID); err != nil {
		return nil, err
	}
	if err := s.checkNoCycle(ctx, id, in.ParentID); err != nil {
		return nil, err
	}

	c := &model.Category{ID: id, Name: name, ParentID: in.ParentID}
	changed, err := s.repo.Replace(ctx, c)
	if err != nil {
		return nil, errs.Internal("update category", err)
	}
	if !changed {
		return nil, errs.ErrNotFound.WithMessage("Category not found")
	}
	return c, nil
}

// Delete marks the category Inactive. Children and products keep their
// reference.
func (s *Service) Delete(ctx context.Context, id uint) error {
	changed, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return errs.Internal("delete category", err)
	}
	if !changed {
		return errs.ErrNotFound.WithMessage("Category not found")
	}
	s.log.Info("category deactivated", zap.Uint("id", id))
	return nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < minNameLen || n > maxNameLen {
		return "", errs.Validation("ValidationError", "name must be between %d and %d characters", minNameLen, maxNameLen)
	}
	return name, nil
}

func (s *Service) checkParent(ctx context.Context, parentID *uint) error {
	if parentID == nil {
		return nil
	}
	parent, err := s.repo.FindActive(ctx, *parentID)
	if err != nil {
		return errs.Internal("check parent category", err)
	}
	if parent == nil {
		return errs.ErrParentNotFound.WithMessage("Parent category with id %d not found", *parentID)
	}
	return nil
}

// checkNoCycle walks up from the new parent and fails if it reaches id.
func (s *Service) checkNoCycle(ctx context.Context, id uint, parentID *uint) error {
	next := parentID
	for depth := 0; next != nil && depth < maxDepth; depth++ {
		if *next == id {
			return errs.ErrInvalidParent
		}
		parent, found, err := s.repo.ParentOf(ctx, *next)
		if err != nil {
			return errs.Internal("walk category parents", err)
		}
		if !found {
			return nil
		}
		next = parent
	}
	return nil
}
