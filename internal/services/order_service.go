package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"shopapi/internal/domain"
	"shopapi/internal/repos"
)

// Transactor runs fn inside a single database transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(tx *repos.Tx) error) error
}

type CartReader interface {
	Items(ctx context.Context, userID string) ([]domain.CartItem, error)
}

type OrderReader interface {
	Get(ctx context.Context, id string) (domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListLatest(ctx context.Context, limit int) ([]domain.Order, error)
}

type OrderService struct {
	Store  Transactor
	Carts  CartReader
	Orders OrderReader
	Cache  Invalidator
}

func NewOrderService(store Transactor, carts CartReader, orders OrderReader, cache Invalidator) *OrderService {
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &OrderService{Store: store, Carts: carts, Orders: orders, Cache: cache}
}

// Place turns the user's whole cart into one completed order. Order, items,
// stock decrements and cart clearing commit together or not at all.
func (s *OrderService) Place(ctx context.Context, userID string) (domain.Order, error) {
	items, err := s.Carts.Items(ctx, userID)
	if err != nil {
		return domain.Order{}, err
	}
	if len(items) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	var order domain.Order
	err = s.Store.InTx(ctx, func(tx *repos.Tx) error {
		// Re-read inside the transaction; this snapshot is what gets ordered.
		items, err := tx.Carts.Items(ctx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}
		sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

		order = domain.Order{
			ID:         uuid.NewString(),
			UserID:     userID,
			TotalPrice: domain.Total(items),
			Status:     domain.OrderCompleted,
		}
		if err := tx.Orders.Create(ctx, &order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		ids := make([]string, 0, len(items))
		for _, it := range items {
			oi := domain.OrderItem{
				ID:          uuid.NewString(),
				OrderID:     order.ID,
				ProductID:   it.ProductID,
				Quantity:    it.Quantity,
				PriceAtTime: it.PriceAtTime,
			}
			if err := tx.Orders.InsertItem(ctx, &oi); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
			if err := tx.Stock.Decrement(ctx, it.ProductID, it.Quantity); err != nil {
				if errors.Is(err, repos.ErrInsufficientStock) {
					return fmt.Errorf("%w for product %s", ErrOutOfStock, it.ProductID)
				}
				return fmt.Errorf("decrement stock: %w", err)
			}
			order.Items = append(order.Items, oi)
			ids = append(ids, it.ID)
		}

		n, err := tx.Carts.DeleteItems(ctx, userID, ids)
		if err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		if n != int64(len(ids)) {
			return ErrCartChanged
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	touched := make([]string, len(order.Items))
	for i, it := range order.Items {
		touched[i] = it.ProductID
	}
	s.Cache.Invalidate(ctx, touched...)
	return order, nil
}

// History returns the user's orders newest first with their items.
func (s *OrderService) History(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.Orders.ListByUser(ctx, userID)
}

func (s *OrderService) Latest(ctx context.Context, limit int) ([]domain.Order, error) {
	return s.Orders.ListLatest(ctx, limit)
}

func (s *OrderService) Get(ctx context.Context, id string) (domain.Order, error) {
	return s.Orders.Get(ctx, id)
}
