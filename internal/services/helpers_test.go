package services_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"shopapi/internal/domain"
	"shopapi/internal/repos"
	"shopapi/internal/services"
)

type fixture struct {
	db      *sqlx.DB
	store   *repos.Store
	users   *repos.UserRepo
	carts   *repos.CartRepo
	orders  *repos.OrderRepo
	prods   *repos.ProductRepo
	cats    *repos.CategoryRepo
	inv     *repos.InventoryRepo
	cart    *services.CartService
	order   *services.OrderService
	catalog *services.CatalogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := repos.OpenDB(repos.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{
		db:     db,
		store:  repos.NewStore(db),
		users:  repos.NewUserRepo(db),
		carts:  repos.NewCartRepo(db),
		orders: repos.NewOrderRepo(db),
		prods:  repos.NewProductRepo(db),
		cats:   repos.NewCategoryRepo(db),
		inv:    repos.NewInventoryRepo(db),
	}
	f.cart = services.NewCartService(f.carts, f.prods)
	f.order = services.NewOrderService(f.store, f.carts, f.orders, nil)
	f.catalog = services.NewCatalogService(f.prods, f.cats, f.store, nil, nil)

	require.NoError(t, f.cats.Create(context.Background(), &domain.Category{ID: "cat-1", Name: "General"}))
	return f
}

func (f *fixture) user(t *testing.T, id string) string {
	t.Helper()
	require.NoError(t, f.users.Create(context.Background(), &domain.User{
		ID: id, Email: id + "@shop.test", Name: id, Hash: "x", Role: domain.RoleCustomer,
	}))
	return id
}

func (f *fixture) product(t *testing.T, id, price string, stock int) string {
	t.Helper()
	require.NoError(t, f.prods.Create(context.Background(), &domain.Product{
		ID: id, CategoryID: "cat-1", Name: id, Price: money(price), Stock: stock,
	}))
	return id
}

func (f *fixture) add(t *testing.T, userID, productID string, qty int) domain.CartItem {
	t.Helper()
	it, err := f.cart.Add(context.Background(), userID, services.AddToCartInput{ProductID: productID, Quantity: qty})
	require.NoError(t, err)
	return it
}

func (f *fixture) stock(t *testing.T, productID string) int {
	t.Helper()
	n, err := f.inv.Qty(context.Background(), productID)
	require.NoError(t, err)
	return n
}

func (f *fixture) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.Get(&n, `SELECT COUNT(*) FROM `+table))
	return n
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func price(s string) *decimal.Decimal {
	d := money(s)
	return &d
}

func requireMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, money(want).Equal(got), "want %s, got %s", want, got)
}
