package handlers_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordsSeededAreHashed(t *testing.T) {
	_, db := newTestApp(t)

	var hashes []string
	require.NoError(t, db.Select(&hashes, `SELECT password_hash FROM users`))
	require.NotEmpty(t, hashes)
	for _, h := range hashes {
		assert.NotEqual(t, seedPassword, h)
		assert.True(t, strings.HasPrefix(h, "$2"), "expected bcrypt hash, got %q", h)
	}
}

func TestSignupLoginLogout(t *testing.T) {
	app, _ := newTestApp(t)

	resp, env := do(t, app, "POST", "/api/v1/auth/signup", "", map[string]string{
		"name": "Carol", "email": "Carol@Shop.test", "password": "secret1", "role": "admin",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)
	assert.Equal(t, "success", env.Status)

	var out struct {
		Token string `json:"token"`
		User  struct {
			Email    string `json:"email"`
			Role     string `json:"role"`
			Password string `json:"password"`
		} `json:"user"`
	}
	decode(t, env, &out)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "carol@shop.test", out.User.Email)
	assert.Equal(t, "customer", out.User.Role, "signup never grants admin")
	assert.NotContains(t, string(env.Data), "password")

	resp, _ = do(t, app, "POST", "/api/v1/auth/signup", "", map[string]string{
		"name": "Carol", "email": "carol@shop.test", "password": "secret1",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, env = do(t, app, "POST", "/api/v1/auth/login", "", map[string]string{"email": "carol@shop.test", "password": "secret1"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var jwtCookie string
	for _, c := range resp.Cookies() {
		if c.Name == "jwt" {
			jwtCookie = c.Value
			assert.True(t, c.HttpOnly)
		}
	}
	require.NotEmpty(t, jwtCookie)

	// The cookie alone authenticates.
	req := httptest.NewRequest("GET", "/api/v1/cart/view", nil)
	req.Header.Set("Cookie", "jwt="+jwtCookie)
	r2, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, r2.StatusCode)

	resp, _ = do(t, app, "POST", "/api/v1/auth/logout", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == "jwt" {
			assert.Empty(t, c.Value)
		}
	}
}

func TestLoginFailures(t *testing.T) {
	app, _ := newTestApp(t)

	resp, env := do(t, app, "POST", "/api/v1/auth/login", "", map[string]string{"email": "alice@shop.test", "password": "nope"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "fail", env.Status)
	assert.Equal(t, "invalid email or password", env.Message)

	resp, env = do(t, app, "POST", "/api/v1/auth/login", "", map[string]string{"email": "ghost@shop.test", "password": seedPassword})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid email or password", env.Message)

	resp, _ = do(t, app, "POST", "/api/v1/auth/login", "", map[string]string{"email": "alice@shop.test"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
