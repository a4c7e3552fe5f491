package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminCatalogLifecycle(t *testing.T) {
	app, _ := newTestApp(t)
	admin := login(t, app, "admin@shop.test")
	alice := login(t, app, "alice@shop.test")

	resp, env := do(t, app, "POST", "/api/v1/categories/create", admin, map[string]string{"name": "Garden", "description": "Outdoor"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)
	var cat struct {
		ID string `json:"id"`
	}
	decode(t, env, &cat)

	resp, _ = do(t, app, "POST", "/api/v1/categories/create", admin, map[string]string{"name": "garden"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, env = do(t, app, "POST", "/api/v1/products/create", admin, map[string]any{
		"name": "Hose", "price": "24.90", "stock": 3, "categoryId": cat.ID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)
	var prod struct {
		ID    string `json:"id"`
		Stock int    `json:"stock"`
	}
	decode(t, env, &prod)

	resp, env = do(t, app, "GET", "/api/v1/products/"+prod.ID+"/availability", alice, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var avail struct {
		Status string `json:"status"`
		Qty    int    `json:"qty"`
	}
	decode(t, env, &avail)
	assert.Equal(t, "LOW_STOCK", avail.Status)

	resp, env = do(t, app, "PUT", "/api/v1/products/update/"+prod.ID, admin, map[string]any{"stock": 12})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	decode(t, env, &prod)
	assert.Equal(t, 12, prod.Stock)

	resp, env = do(t, app, "GET", "/api/v1/products/list/filters?categoryId="+cat.ID+"&search=hos", alice, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var page struct {
		Results  int `json:"results"`
		Products []struct {
			ID string `json:"id"`
		} `json:"products"`
	}
	decode(t, env, &page)
	require.Equal(t, 1, page.Results)
	assert.Equal(t, prod.ID, page.Products[0].ID)

	resp, _ = do(t, app, "DELETE", "/api/v1/categories/delete/"+cat.ID, admin, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = do(t, app, "PUT", "/api/v1/products/assign-category/"+prod.ID, admin, map[string]string{"categoryId": "cat-home"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = do(t, app, "DELETE", "/api/v1/categories/delete/"+cat.ID, admin, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, app, "DELETE", "/api/v1/products/delete/"+prod.ID, admin, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, app, "GET", "/api/v1/products/"+prod.ID, alice, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteOrderedProductConflicts(t *testing.T) {
	app, _ := newTestApp(t)
	admin := login(t, app, "admin@shop.test")
	alice := login(t, app, "alice@shop.test")

	resp, _ := do(t, app, "POST", "/api/v1/cart/add", alice, map[string]any{"productId": "prod-kettle", "quantity": 1})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp, _ = do(t, app, "POST", "/api/v1/order/place", alice, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = do(t, app, "DELETE", "/api/v1/products/delete/prod-kettle", admin, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
