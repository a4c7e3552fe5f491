package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"shopapi/internal/domain"
	"shopapi/internal/repos"
	"shopapi/internal/validate"
)

type CartService struct {
	Carts    *repos.CartRepo
	Products ProductReader
}

func NewCartService(carts *repos.CartRepo, products ProductReader) *CartService {
	return &CartService{Carts: carts, Products: products}
}

type AddToCartInput struct {
	ProductID string `json:"productId" validate:"required,rid"`
	Quantity  int    `json:"quantity" validate:"min=1,max=100"`
}

// Add puts quantity units of a product into the user's cart. The current
// product price is snapshotted on the first add only.
func (s *CartService) Add(ctx context.Context, userID string, in AddToCartInput) (domain.CartItem, error) {
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if err := validate.Struct(in); err != nil {
		return domain.CartItem{}, err
	}
	p, err := s.Products.Get(ctx, in.ProductID)
	if err != nil {
		return domain.CartItem{}, err
	}
	if p.Stock <= 0 {
		return domain.CartItem{}, fmt.Errorf("%w: no stock left for %s", ErrOutOfStock, p.Name)
	}
	return s.Carts.UpsertItem(ctx, userID, p.ID, in.Quantity, p.Price)
}

type CartView struct {
	Items []domain.CartItem `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

func (s *CartService) View(ctx context.Context, userID string) (CartView, error) {
	items, err := s.Carts.View(ctx, userID)
	if err != nil {
		return CartView{}, err
	}
	return CartView{Items: items, Total: domain.Total(items)}, nil
}

// Remove deletes one of the user's cart rows; other users' rows are NotFound.
func (s *CartService) Remove(ctx context.Context, userID, itemID string) error {
	return s.Carts.Remove(ctx, userID, itemID)
}
