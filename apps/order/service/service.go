package service

import (
	"context"
	"errors"
	"time"

	cartrepo "go-storefront/apps/cart/repository"
	"go-storefront/apps/order/model"
	"go-storefront/apps/order/repository"
	productmodel "go-storefront/apps/product/model"
	productrepo "go-storefront/apps/product/repository"
	"go-storefront/pkg/errs"
	"go-storefront/pkg/lifecycle"
	"go-storefront/pkg/money"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RoutingKeyPlaced is published after a checkout commits.
const RoutingKeyPlaced = "order.placed"

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event interface{}) error
}

// ListingInvalidator drops cached catalog pages after stock changes.
type ListingInvalidator interface {
	InvalidateListings(ctx context.Context)
}

// PlacedEvent is the payload of order.placed.
type PlacedEvent struct {
	OrderID     uint         `json:"order_id"`
	OrderNo     string       `json:"order_no"`
	UserID      uint         `json:"user_id"`
	TotalAmount money.Amount `json:"total_amount"`
	Items       []PlacedItem `json:"items"`
	PlacedAt    time.Time    `json:"placed_at"`
}

type PlacedItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type Service struct {
	repo     *repository.Repository
	listings ListingInvalidator
	events   EventPublisher
	log      *zap.Logger
}

type Option func(*Service)

// WithPublisher enables order events.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) {
		s.events = p
	}
}

func New(repo *repository.Repository, listings ListingInvalidator, log *zap.Logger, opts ...Option) *Service {
	s := &Service{repo: repo, listings: listings, log: log.Named("order")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout turns the user's cart into an order in one transaction: stock is
// reserved, prices are captured and the cart is emptied.
func (s *Service) Checkout(ctx context.Context, userID uint) (*model.Order, error) {
	var order *model.Order
	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		items, err := cartrepo.ListForUser(tx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return errs.ErrEmptyCart
		}

		ids := make([]uint, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ProductID)
		}
		var products []productmodel.Product
		if err := tx.Scopes(lifecycle.OnlyActive).Where("id IN ?", ids).Find(&products).Error; err != nil {
			return err
		}
		byID := make(map[uint]*productmodel.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		order = &model.Order{OrderNo: uuid.NewString(), UserID: userID, Status: model.StatusPlaced}
		total := money.Zero()
		for _, it := range items {
			p, ok := byID[it.ProductID]
			if !ok {
				return errs.ErrInsufficientStock.WithMessage("product %d is no longer available", it.ProductID)
			}
			reserved, err := productrepo.ReserveStock(tx, p.ID, it.Quantity)
			if err != nil {
				return err
			}
			if !reserved {
				return errs.ErrInsufficientStock.WithMessage("only %d units of product %d are available", p.Stock, p.ID)
			}
			order.Items = append(order.Items, model.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				UnitPrice:   p.Price,
				Quantity:    it.Quantity,
			})
			total = total.Add(p.Price.Mul(it.Quantity))
		}
		order.TotalAmount = total

		if err := repository.Create(tx, order); err != nil {
			return err
		}
		return cartrepo.ClearForUser(tx, userID)
	})
	if err != nil {
		var e *errs.Error
		if errors.As(err, &e) {
			return nil, err
		}
		return nil, errs.Internal("checkout", err)
	}

	s.log.Info("order placed", zap.String("order_no", order.OrderNo), zap.Uint("user_id", userID))
	if s.listings != nil {
		s.listings.InvalidateListings(ctx)
	}
	s.publishPlaced(ctx, order)
	return order, nil
}

// publishPlaced is best effort: the order is already committed.
func (s *Service) publishPlaced(ctx context.Context, o *model.Order) {
	if s.events == nil {
		return
	}
	ev := PlacedEvent{
		OrderID:     o.ID,
		OrderNo:     o.OrderNo,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		Items:       make([]PlacedItem, 0, len(o.Items)),
		PlacedAt:    o.CreatedAt,
	}
	for _, it := range o.Items {
		ev.Items = append(ev.Items, PlacedItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	if err := s.events.Publish(ctx, RoutingKeyPlaced, ev); err != nil {
		s.log.Warn("publishing order event failed", zap.String("order_no", o.OrderNo), zap.Error(err))
	}
}

func (s *Service) List(ctx context.Context, userID uint) ([]model.Order, error) {
	orders, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, errs.Internal("list orders", err)
	}
	return orders, nil
}

// Get returns one of the user's orders. Other users' orders are reported as
// missing.
func (s *Service) Get(ctx context.Context, userID, id uint) (*model.Order, error) {
	o, err := s.repo.FindForUser(ctx, userID, id)
	if err != nil {
		return nil, errs.Internal("get order", err)
	}
	if o == nil {
		return nil, errs.ErrNotFound.WithMessage("Order not found")
	}
	return o, nil
}
