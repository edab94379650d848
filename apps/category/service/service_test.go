package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go-storefront/apps/category/model"
	"go-storefront/apps/category/repository"
	"go-storefront/pkg/database"
	"go-storefront/pkg/errs"

	"go.uber.org/zap"
)

func newService(t *testing.T) *Service {
	t.Helper()
	db, err := database.OpenMemory(strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&model.Category{}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return New(repository.New(db), zap.NewNop())
}

func uintPtr(v uint) *uint {
	return &v
}

func TestCreateAndList(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	books, err := s.Create(ctx, Input{Name: "  Books "})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if books.Name != "Books" || !books.State.IsActive() {
		t.Errorf("Expected trimmed active category, got %+v", books)
	}
	child, err := s.Create(ctx, Input{Name: "Programming", ParentID: &books.ID})
	if err != nil {
		t.Fatalf("Create child returned error: %v", err)
	}
	if child.ParentID == nil || *child.ParentID != books.ID {
		t.Errorf("Expected parent %d, got %v", books.ID, child.ParentID)
	}

	list, err := s.List(ctx)
	if err != nil || len(list) != 2 {
		t.Errorf("Expected 2 categories, got %v, %v", list, err)
	}
}

func TestCreateValidation(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, Input{Name: "ab"}); errs.KindOf(err) != errs.KindValidation {
		t.Errorf("Expected validation error for short name, got %v", err)
	}
	if _, err := s.Create(ctx, Input{Name: strings.Repeat("n", 51)}); errs.KindOf(err) != errs.KindValidation {
		t.Errorf("Expected validation error for long name, got %v", err)
	}
	if _, err := s.Create(ctx, Input{Name: "Orphan", ParentID: uintPtr(42)}); !errors.Is(err, errs.ErrParentNotFound) {
		t.Errorf("Expected ParentNotFound, got %v", err)
	}

	parent, _ := s.Create(ctx, Input{Name: "Old"})
	if err := s.Delete(ctx, parent.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create(ctx, Input{Name: "Child", ParentID: &parent.ID}); !errors.Is(err, errs.ErrParentNotFound) {
		t.Errorf("Expected ParentNotFound for inactive parent, got %v", err)
	}
}

func TestUpdateRejectsCycles(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	root, _ := s.Create(ctx, Input{Name: "Root"})
	mid, _ := s.Create(ctx, Input{Name: "Middle", ParentID: &root.ID})
	leaf, _ := s.Create(ctx, Input{Name: "Leaf", ParentID: &mid.ID})

	if _, err := s.Update(ctx, root.ID, Input{Name: "Root", ParentID: &leaf.ID}); !errors.Is(err, errs.ErrInvalidParent) {
		t.Errorf("Expected InvalidParent for a cycle, got %v", err)
	}
	if _, err := s.Update(ctx, mid.ID, Input{Name: "Middle", ParentID: &mid.ID}); !errors.Is(err, errs.ErrInvalidParent) {
		t.Errorf("Expected InvalidParent for self parent, got %v", err)
	}

	moved, err := s.Update(ctx, leaf.ID, Input{Name: "Leaf Renamed"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if moved.Name != "Leaf Renamed" || moved.ParentID != nil {
		t.Errorf("Expected full replace to clear parent, got %+v", moved)
	}
}

func TestDeleteIsSoftAndNotRepeatable(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	c, _ := s.Create(ctx, Input{Name: "Books"})

	if err := s.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := s.Delete(ctx, c.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Expected NotFound on second delete, got %v", err)
	}
	if _, err := s.Get(ctx, c.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Expected inactive category to be hidden, got %v", err)
	}
	if _, err := s.Update(ctx, c.ID, Input{Name: "Books"}); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Expected NotFound when updating inactive category, got %v", err)
	}
}
