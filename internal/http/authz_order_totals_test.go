package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderDTO struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Status     string          `json:"status"`
	Items      []struct {
		ProductID   string          `json:"productId"`
		Quantity    int             `json:"quantity"`
		PriceAtTime decimal.Decimal `json:"priceAtTime"`
		Product     *struct {
			Name string `json:"name"`
		} `json:"product"`
	} `json:"orderItems"`
}

func TestOrderTotalsRecomputed(t *testing.T) {
	app, db := newTestApp(t)
	alice := login(t, app, "alice@shop.test")

	// Client-supplied prices are ignored.
	resp, env := do(t, app, "POST", "/api/v1/cart/add", alice, map[string]any{"productId": "prod-headphones", "quantity": 2, "price": "0.01"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)
	resp, _ = do(t, app, "POST", "/api/v1/cart/add", alice, map[string]any{"productId": "prod-speaker", "quantity": 1})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, env = do(t, app, "POST", "/api/v1/order/place", alice, map[string]any{"total": "1.00"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)

	var o orderDTO
	decode(t, env, &o)
	assert.True(t, decimal.RequireFromString("389.48").Equal(o.TotalPrice), "total %s", o.TotalPrice)
	assert.Equal(t, "completed", o.Status)
	require.Len(t, o.Items, 2)

	var stock int
	require.NoError(t, db.Get(&stock, `SELECT stock FROM products WHERE id = 'prod-headphones'`))
	assert.Equal(t, 23, stock)
	require.NoError(t, db.Get(&stock, `SELECT stock FROM products WHERE id = 'prod-speaker'`))
	assert.Equal(t, 9, stock)

	resp, env = do(t, app, "GET", "/api/v1/cart/view", alice, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var cart struct {
		Items []any           `json:"items"`
		Total decimal.Decimal `json:"total"`
	}
	decode(t, env, &cart)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total.IsZero())

	resp, env = do(t, app, "GET", "/api/v1/order/history", alice, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var hist struct {
		Results int        `json:"results"`
		Orders  []orderDTO `json:"orders"`
	}
	decode(t, env, &hist)
	require.Equal(t, 1, hist.Results)
	assert.Equal(t, o.ID, hist.Orders[0].ID)
	require.NotNil(t, hist.Orders[0].Items[0].Product)
	assert.NotEmpty(t, hist.Orders[0].Items[0].Product.Name)

	// Owner and admin can read it; another customer cannot.
	resp, _ = do(t, app, "GET", "/api/v1/order/"+o.ID, alice, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = do(t, app, "GET", "/api/v1/order/"+o.ID, login(t, app, "admin@shop.test"), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = do(t, app, "GET", "/api/v1/order/"+o.ID, login(t, app, "bob@shop.test"), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPlaceOrderRejections(t *testing.T) {
	app, db := newTestApp(t)
	bob := login(t, app, "bob@shop.test")

	resp, env := do(t, app, "POST", "/api/v1/order/place", bob, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Your cart is empty", env.Message)

	resp, _ = do(t, app, "POST", "/api/v1/cart/add", bob, map[string]any{"productId": "prod-mouse", "quantity": 1})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "mouse has no stock")

	resp, _ = do(t, app, "POST", "/api/v1/cart/add", bob, map[string]any{"productId": "prod-kettle", "quantity": 20})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, env = do(t, app, "POST", "/api/v1/order/place", bob, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, env.Message, "insufficient stock")

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM orders`))
	assert.Zero(t, n)
	require.NoError(t, db.Get(&n, `SELECT stock FROM products WHERE id = 'prod-kettle'`))
	assert.Equal(t, 15, n)
}

func TestCartRemoveOnlyOwnItems(t *testing.T) {
	app, _ := newTestApp(t)
	alice := login(t, app, "alice@shop.test")
	bob := login(t, app, "bob@shop.test")

	resp, env := do(t, app, "POST", "/api/v1/cart/add", alice, map[string]any{"productId": "prod-keyboard", "quantity": 1})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var item struct {
		ID string `json:"id"`
	}
	decode(t, env, &item)

	resp, _ = do(t, app, "DELETE", "/api/v1/cart/delete/"+item.ID, bob, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp, _ = do(t, app, "DELETE", "/api/v1/cart/delete/"+item.ID, alice, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
