package service

import (
	"context"
	"strings"
	"testing"

	categorymodel "go-storefront/apps/category/model"
	categoryrepo "go-storefront/apps/category/repository"
	"go-storefront/apps/product/model"
	"go-storefront/apps/product/repository"
	usermodel "go-storefront/apps/user/model"
	userrepo "go-storefront/apps/user/repository"
	"go-storefront/pkg/database"
	"go-storefront/pkg/media"
	"go-storefront/pkg/money"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	svc    *Service
	images *media.Store

	books  *categorymodel.Category
	garden *categorymodel.Category
	alice  *usermodel.User
	bob    *usermodel.User
	buyer  *usermodel.User
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory(strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	if err != nil {
		t.Fatalf("OpenMemory returned error: %v", err)
	}
	if err := db.AutoMigrate(&usermodel.User{}, &categorymodel.Category{}, &model.Product{}); err != nil {
		t.Fatalf("AutoMigrate returned error: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()
	db := newTestDB(t)

	users := userrepo.New(db)
	categories := categoryrepo.New(db)
	images, err := media.NewStore(t.TempDir(), "/media", 0)
	if err != nil {
		t.Fatal(err)
	}

	f := &fixture{
		db:     db,
		images: images,
		svc:    New(repository.New(db), categories, users, images, zap.NewNop(), opts...),
		books:  &categorymodel.Category{Name: "Books"},
		garden: &categorymodel.Category{Name: "Garden"},
		alice:  &usermodel.User{Email: "alice@example.com", HashedPassword: "x", Role: usermodel.RoleSeller},
		bob:    &usermodel.User{Email: "bob@example.com", HashedPassword: "x", Role: usermodel.RoleSeller},
		buyer:  &usermodel.User{Email: "buyer@example.com", HashedPassword: "x", Role: usermodel.RoleBuyer},
	}
	for _, c := range []*categorymodel.Category{f.books, f.garden} {
		if err := categories.Create(ctx, c); err != nil {
			t.Fatal(err)
		}
	}
	for _, u := range []*usermodel.User{f.alice, f.bob, f.buyer} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func (f *fixture) addProduct(t *testing.T, name, price string, stock int, categoryID uint, seller *usermodel.User) *model.Product {
	t.Helper()
	p, err := f.svc.Create(context.Background(), seller, Input{
		Name:       name,
		Price:      money.MustParse(price),
		Stock:      stock,
		CategoryID: categoryID,
	})
	if err != nil {
		t.Fatalf("Create(%s) returned error: %v", name, err)
	}
	return p
}

func uintPtr(v uint) *uint {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}

func strPtr(v string) *string {
	return &v
}
