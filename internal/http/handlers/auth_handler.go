package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"shopapi/internal/domain"
	applog "shopapi/internal/log"
	"shopapi/internal/repos"
	"shopapi/internal/services"
)

type AuthHandler struct {
	Auth       *services.AuthService
	CookieDays int
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) setCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     cookieJWT,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   c.Protocol() == "https",
	})
}

func (h *AuthHandler) cookieExpiry() time.Time {
	days := h.CookieDays
	if days <= 0 {
		days = 1
	}
	return time.Now().Add(time.Duration(days) * 24 * time.Hour)
}

type authResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in services.SignupInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	tok, u, err := h.Auth.Signup(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, repos.ErrDuplicate) {
			applog.Security(c, "auth.signup.fail", map[string]any{"reason": "duplicate_email"})
			return fiber.NewError(fiber.StatusConflict, "email already registered")
		}
		return err
	}
	h.setCookie(c, tok, h.cookieExpiry())
	c.Locals(localUserID, u.ID)
	applog.Audit(c, "auth.signup", map[string]any{"email": u.Email})
	return ok(c, fiber.StatusCreated, authResult{Token: tok, User: u})
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if in.Email == "" || in.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "please provide email and password")
	}
	tok, u, err := h.Auth.Login(c.UserContext(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrBadCreds) {
			applog.Security(c, "auth.login.fail", map[string]any{"email": in.Email})
		}
		return err
	}
	h.setCookie(c, tok, h.cookieExpiry())
	c.Locals(localUserID, u.ID)
	applog.Audit(c, "auth.login.success", map[string]any{"email": u.Email})
	return ok(c, fiber.StatusOK, authResult{Token: tok, User: u})
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.setCookie(c, "", time.Now().Add(-time.Hour))
	applog.Audit(c, "auth.logout", nil)
	return ok(c, fiber.StatusOK, nil)
}
