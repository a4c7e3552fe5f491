package handlers

import (
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"

	"shopapi/internal/cache"
	"shopapi/internal/config"
	"shopapi/internal/repos"
	"shopapi/internal/services"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler      *AuthHandler
	CategoryHandler  *CategoryHandler
	ProductHandler   *ProductHandler
	InventoryHandler *InventoryHandler
	SearchHandler    *SearchHandler
	CartHandler      *CartHandler
	OrderHandler     *OrderHandler
	AdminHandler     *AdminHandler
}

// NewDeps wires repositories, services and handlers. rdb may be nil, in
// which case product lookups go straight to the database.
func NewDeps(db *sqlx.DB, cfg config.Config, rdb *redis.Client) *Deps {
	store := repos.NewStore(db)
	userRepo := repos.NewUserRepo(db)
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	products := cache.NewProductCache(prodRepo, rdb, cfg.CacheTTL)

	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiresIn)
	catalogSvc := services.NewCatalogService(prodRepo, catRepo, store, products, products)
	invSvc := services.NewInventoryService(invRepo, products)
	cartSvc := services.NewCartService(cartRepo, products)
	orderSvc := services.NewOrderService(store, cartRepo, orderRepo, products)

	return &Deps{
		Auth:             authSvc,
		AuthHandler:      &AuthHandler{Auth: authSvc, CookieDays: cfg.JWTCookieExpDays},
		CategoryHandler:  &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		SearchHandler:    &SearchHandler{Catalog: catalogSvc},
		CartHandler:      &CartHandler{Cart: cartSvc},
		OrderHandler:     &OrderHandler{Order: orderSvc},
		AdminHandler:     &AdminHandler{Order: orderSvc},
	}
}
