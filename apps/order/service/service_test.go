package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	cartmodel "go-storefront/apps/cart/model"
	"go-storefront/apps/order/model"
	"go-storefront/apps/order/repository"
	productmodel "go-storefront/apps/product/model"
	"go-storefront/pkg/database"
	"go-storefront/pkg/errs"
	"go-storefront/pkg/lifecycle"
	"go-storefront/pkg/money"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const buyerID = 7

type recordingPublisher struct {
	keys   []string
	events []interface{}
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, key string, event interface{}) error {
	r.keys = append(r.keys, key)
	r.events = append(r.events, event)
	return r.err
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateListings(context.Context) {
	c.calls++
}

type harness struct {
	svc      *Service
	db       *gorm.DB
	events   *recordingPublisher
	listings *countingInvalidator
}

func setup(t *testing.T) *harness {
	t.Helper()
	db, err := database.OpenMemory(strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&productmodel.Product{}, &cartmodel.CartItem{}, &model.Order{}, &model.OrderItem{}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	h := &harness{db: db, events: &recordingPublisher{}, listings: &countingInvalidator{}}
	h.svc = New(repository.New(db), h.listings, zap.NewNop(), WithPublisher(h.events))
	return h
}

func (h *harness) product(t *testing.T, name, price string, stock int) *productmodel.Product {
	t.Helper()
	p := &productmodel.Product{Name: name, Price: money.MustParse(price), Stock: stock, CategoryID: 1, SellerID: 1, State: lifecycle.Active}
	if err := h.db.Create(p).Error; err != nil {
		t.Fatal(err)
	}
	return p
}

func (h *harness) inCart(t *testing.T, productID uint, qty int) {
	t.Helper()
	if err := h.db.Create(&cartmodel.CartItem{UserID: buyerID, ProductID: productID, Quantity: qty}).Error; err != nil {
		t.Fatal(err)
	}
}

func (h *harness) stock(t *testing.T, id uint) int {
	t.Helper()
	var p productmodel.Product
	if err := h.db.First(&p, id).Error; err != nil {
		t.Fatal(err)
	}
	return p.Stock
}

func (h *harness) cartSize(t *testing.T) int64 {
	t.Helper()
	var n int64
	h.db.Model(&cartmodel.CartItem{}).Where("user_id = ?", buyerID).Count(&n)
	return n
}

func TestCheckout(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	guide := h.product(t, "Go Guide", "19.99", 5)
	pen := h.product(t, "Pen", "1.50", 10)
	h.inCart(t, guide.ID, 2)
	h.inCart(t, pen.ID, 3)

	order, err := h.svc.Checkout(ctx, buyerID)
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}
	if order.TotalAmount.String() != "44.48" || len(order.Items) != 2 || order.Status != model.StatusPlaced {
		t.Errorf("Unexpected order %+v", order)
	}
	if order.Items[0].UnitPrice.String() != "19.99" || order.Items[0].ProductName != "Go Guide" {
		t.Errorf("Expected captured price and name, got %+v", order.Items[0])
	}
	if h.stock(t, guide.ID) != 3 || h.stock(t, pen.ID) != 7 {
		t.Errorf("Expected stock to be decremented")
	}
	if h.cartSize(t) != 0 {
		t.Errorf("Expected cart to be cleared")
	}
	if len(h.events.keys) != 1 || h.events.keys[0] != RoutingKeyPlaced {
		t.Errorf("Expected one order.placed event, got %v", h.events.keys)
	}
	if ev, ok := h.events.events[0].(PlacedEvent); !ok || ev.OrderNo != order.OrderNo || len(ev.Items) != 2 {
		t.Errorf("Unexpected event payload %+v", h.events.events[0])
	}
	if h.listings.calls != 1 {
		t.Errorf("Expected listings to be invalidated once, got %d", h.listings.calls)
	}

	got, err := h.svc.Get(ctx, buyerID, order.ID)
	if err != nil || got.OrderNo != order.OrderNo || len(got.Items) != 2 {
		t.Errorf("Expected stored order, got %+v, %v", got, err)
	}
	if _, err := h.svc.Get(ctx, buyerID+1, order.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Expected other users to get NotFound, got %v", err)
	}
	orders, err := h.svc.List(ctx, buyerID)
	if err != nil || len(orders) != 1 {
		t.Errorf("Expected one order, got %v, %v", orders, err)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	h := setup(t)
	if _, err := h.svc.Checkout(context.Background(), buyerID); !errors.Is(err, errs.ErrEmptyCart) {
		t.Errorf("Expected EmptyCart, got %v", err)
	}
	if len(h.events.keys) != 0 {
		t.Errorf("Expected no events")
	}
}

func TestCheckoutRollsBackOnShortStock(t *testing.T) {
	h := setup(t)
	guide := h.product(t, "Go Guide", "19.99", 5)
	pen := h.product(t, "Pen", "1.50", 1)
	h.inCart(t, guide.ID, 2)
	h.inCart(t, pen.ID, 3)

	if _, err := h.svc.Checkout(context.Background(), buyerID); !errors.Is(err, errs.ErrInsufficientStock) {
		t.Fatalf("Expected InsufficientStock, got %v", err)
	}
	if h.stock(t, guide.ID) != 5 {
		t.Errorf("Expected the first reservation to be rolled back")
	}
	if h.cartSize(t) != 2 {
		t.Errorf("Expected the cart to be kept")
	}
	var orders int64
	h.db.Model(&model.Order{}).Count(&orders)
	if orders != 0 {
		t.Errorf("Expected no order rows, got %d", orders)
	}
}

func TestCheckoutPublishFailureKeepsOrder(t *testing.T) {
	h := setup(t)
	h.events.err = errors.New("channel closed")
	guide := h.product(t, "Go Guide", "19.99", 5)
	h.inCart(t, guide.ID, 1)

	order, err := h.svc.Checkout(context.Background(), buyerID)
	if err != nil || order == nil {
		t.Fatalf("Expected checkout to succeed, got %v", err)
	}
}
