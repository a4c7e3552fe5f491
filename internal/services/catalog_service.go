package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopapi/internal/domain"
	"shopapi/internal/repos"
	"shopapi/internal/validate"
)

// ProductReader is a single-product lookup, usually the Redis cache.
type ProductReader interface {
	Get(ctx context.Context, id string) (domain.Product, error)
}

// Invalidator drops cached product entries.
type Invalidator interface {
	Invalidate(ctx context.Context, ids ...string)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, ...string) {}

type CatalogService struct {
	Products   *repos.ProductRepo
	Categories *repos.CategoryRepo
	Store      Transactor
	Reader     ProductReader
	Cache      Invalidator
}

func NewCatalogService(products *repos.ProductRepo, categories *repos.CategoryRepo, store Transactor, reader ProductReader, cache Invalidator) *CatalogService {
	if reader == nil {
		reader = products
	}
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &CatalogService{Products: products, Categories: categories, Store: store, Reader: reader, Cache: cache}
}

type ProductInput struct {
	Name        string           `json:"name" validate:"required,min=2,max=200"`
	Description string           `json:"description" validate:"max=2000"`
	Price       *decimal.Decimal `json:"price" validate:"-"`
	Stock       int              `json:"stock" validate:"min=0"`
	CategoryID  string           `json:"categoryId" validate:"required,rid"`
	ImageURL    string           `json:"imageUrl" validate:"omitempty,url,max=500"`
}

// ProductPatch carries the fields of a partial product update; nil means unchanged.
type ProductPatch struct {
	Name        *string          `json:"name" validate:"omitempty,min=2,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price" validate:"-"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0"`
	CategoryID  *string          `json:"categoryId" validate:"omitempty,rid"`
	ImageURL    *string          `json:"imageUrl" validate:"omitempty,url,max=500"`
}

func checkPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return validate.Invalid("price must not be negative")
	}
	if !p.Equal(p.Round(2)) {
		return validate.Invalid("price must have at most two decimal places")
	}
	return nil
}

func (s *CatalogService) requireCategory(ctx context.Context, id string) error {
	if _, err := s.Categories.Get(ctx, id); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return fmt.Errorf("category %s: %w", id, repos.ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return domain.Product{}, err
	}
	if in.Price == nil {
		return domain.Product{}, validate.Invalid("price is required")
	}
	if err := checkPrice(*in.Price); err != nil {
		return domain.Product{}, err
	}
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return domain.Product{}, err
	}
	p := domain.Product{
		ID:          uuid.NewString(),
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Description: in.Description,
		Price:       *in.Price,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
	}
	if err := s.Products.Create(ctx, &p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// UpdateProduct applies a partial update. Stock is never written back from
// the row read here; a stock change goes through the inventory overwrite so
// concurrent placements keep their decrements.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (domain.Product, error) {
	if err := validate.Struct(patch); err != nil {
		return domain.Product{}, err
	}
	if patch.Price != nil {
		if err := checkPrice(*patch.Price); err != nil {
			return domain.Product{}, err
		}
	}
	if patch.CategoryID != nil {
		if err := s.requireCategory(ctx, *patch.CategoryID); err != nil {
			return domain.Product{}, err
		}
	}

	var p domain.Product
	err := s.Store.InTx(ctx, func(tx *repos.Tx) error {
		cur, err := tx.Products.Get(ctx, id)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			cur.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			cur.Description = *patch.Description
		}
		if patch.Price != nil {
			cur.Price = *patch.Price
		}
		if patch.ImageURL != nil {
			cur.ImageURL = *patch.ImageURL
		}
		if patch.CategoryID != nil {
			cur.CategoryID = *patch.CategoryID
		}
		if err := tx.Products.Update(ctx, &cur); err != nil {
			return err
		}
		if patch.Stock != nil {
			if err := tx.Stock.SetQty(ctx, id, *patch.Stock); err != nil {
				return err
			}
		}
		p, err = tx.Products.Get(ctx, id)
		return err
	})
	if err != nil {
		return domain.Product{}, err
	}
	s.Cache.Invalidate(ctx, p.ID)
	return p, nil
}

// DeleteProduct removes the product and any cart lines holding it.
// Products with order history are kept.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	err := s.Store.InTx(ctx, func(tx *repos.Tx) error {
		return tx.Products.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, id)
	return nil
}

func (s *CatalogService) AssignCategory(ctx context.Context, productID, categoryID string) (domain.Product, error) {
	if err := s.requireCategory(ctx, categoryID); err != nil {
		return domain.Product{}, err
	}
	if err := s.Products.AssignCategory(ctx, productID, categoryID); err != nil {
		return domain.Product{}, err
	}
	s.Cache.Invalidate(ctx, productID)
	return s.Products.Get(ctx, productID)
}

func (s *CatalogService) Product(ctx context.Context, id string) (domain.Product, error) {
	return s.Reader.Get(ctx, id)
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.Products.ListAll(ctx)
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ProductQuery is the customer-facing listing filter.
type ProductQuery struct {
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	CategoryID string
	Search     string
	Page       int
	Limit      int
}

type ProductPage struct {
	Products []domain.Product `json:"products"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
	Results  int              `json:"results"`
}

func (s *CatalogService) FilterProducts(ctx context.Context, q ProductQuery) (ProductPage, error) {
	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		return ProductPage{}, validate.Invalid("minPrice must not exceed maxPrice")
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	products, err := s.Products.Filter(ctx, repos.ProductFilter{
		MinPrice:   q.MinPrice,
		MaxPrice:   q.MaxPrice,
		CategoryID: q.CategoryID,
		Search:     strings.TrimSpace(q.Search),
		Limit:      q.Limit,
		Offset:     (q.Page - 1) * q.Limit,
	})
	if err != nil {
		return ProductPage{}, err
	}
	return ProductPage{Products: products, Page: q.Page, Limit: q.Limit, Results: len(products)}, nil
}

type CategoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (domain.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return domain.Category{}, err
	}
	c := domain.Category{ID: uuid.NewString(), Name: in.Name, Description: in.Description}
	if err := s.Categories.Create(ctx, &c); err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, in CategoryInput) (domain.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return domain.Category{}, err
	}
	c, err := s.Categories.Get(ctx, id)
	if err != nil {
		return domain.Category{}, err
	}
	c.Name, c.Description = in.Name, in.Description
	if err := s.Categories.Update(ctx, &c); err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

// DeleteCategory fails with repos.ErrInUse while products reference the category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return s.Categories.Delete(ctx, id)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.Categories.List(ctx)
}
