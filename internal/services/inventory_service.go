package services

import (
	"context"

	"shopapi/internal/domain"
	"shopapi/internal/repos"
	"shopapi/internal/validate"
)

const lowStockThreshold = 5

type InventoryService struct {
	Inv   *repos.InventoryRepo
	Cache Invalidator
}

func NewInventoryService(inv *repos.InventoryRepo, cache Invalidator) *InventoryService {
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &InventoryService{Inv: inv, Cache: cache}
}

// Availability converts stock into IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *InventoryService) Availability(ctx context.Context, productID string) (domain.Availability, error) {
	qty, err := s.Inv.Qty(ctx, productID)
	if err != nil {
		return domain.Availability{}, err
	}
	return availability(qty), nil
}

func availability(qty int) domain.Availability {
	status := "OUT_OF_STOCK"
	switch {
	case qty >= lowStockThreshold:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: qty}
}

// SetStock overwrites a product's stock level (admin restock).
func (s *InventoryService) SetStock(ctx context.Context, productID string, qty int) (domain.Availability, error) {
	if qty < 0 {
		return domain.Availability{}, validate.Invalid("stock must not be negative")
	}
	if err := s.Inv.SetQty(ctx, productID, qty); err != nil {
		return domain.Availability{}, err
	}
	s.Cache.Invalidate(ctx, productID)
	return availability(qty), nil
}
