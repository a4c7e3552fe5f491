package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"shopapi/internal/domain"
	applog "shopapi/internal/log"
	"shopapi/internal/services"
)

const (
	localIdentity = "identity"
	localUserID   = "user_id"
	cookieJWT     = "jwt"
)

func bearer(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return c.Cookies(cookieJWT)
}

// RequireAuth verifies the bearer token (or jwt cookie) and stores the caller identity.
func RequireAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearer(c)
		if tok == "" {
			return services.ErrUnauthenticated
		}
		id, err := auth.Authenticate(c.UserContext(), tok)
		if err != nil {
			return err
		}
		c.Locals(localIdentity, id)
		c.Locals(localUserID, id.ID)
		return c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := c.Locals(localIdentity).(domain.Identity)
		if !ok {
			return services.ErrUnauthenticated
		}
		for _, r := range roles {
			if id.Role == r {
				return c.Next()
			}
		}
		applog.Security(c, "access.denied.role", map[string]any{"role": id.Role, "need": roles})
		return services.ErrForbidden
	}
}

func identity(c *fiber.Ctx) domain.Identity {
	id, _ := c.Locals(localIdentity).(domain.Identity)
	return id
}
