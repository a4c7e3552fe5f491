package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"shopapi/internal/domain"
	applog "shopapi/internal/log"
	"shopapi/internal/repos"
	"shopapi/internal/services"
)

type OrderHandler struct {
	Order *services.OrderService
}

// POST /api/v1/order/place
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	uid := identity(c).ID
	o, err := h.Order.Place(c.UserContext(), uid)
	if err != nil {
		if errors.Is(err, services.ErrOutOfStock) || errors.Is(err, services.ErrCartChanged) {
			applog.Info(c, "order.place.rejected", map[string]any{"reason": err.Error()})
		}
		return err
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": o.ID,
		"total":    o.TotalPrice.StringFixed(2),
		"lines":    len(o.Items),
	})
	return ok(c, fiber.StatusCreated, o)
}

// GET /api/v1/order/history
func (h *OrderHandler) History(c *fiber.Ctx) error {
	orders, err := h.Order.History(c.UserContext(), identity(c).ID)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{"results": len(orders), "orders": orders})
}

// GET /api/v1/order/:id
// Owners and admins may view an order; everyone else gets 404.
func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid, err := pathID(c, "id")
	if err != nil {
		return err
	}
	o, err := h.Order.Get(c.UserContext(), oid)
	if err != nil {
		return err
	}
	id := identity(c)
	if o.UserID != id.ID && id.Role != domain.RoleAdmin {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return repos.ErrNotFound
	}
	return ok(c, fiber.StatusOK, o)
}
