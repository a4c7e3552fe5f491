package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopapi/internal/services"
)

type AdminHandler struct {
	Order *services.OrderService
}

// GET /api/v1/order/list?limit=
func (h *AdminHandler) Orders(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	if limit < 1 || limit > 500 {
		limit = 100
	}
	orders, err := h.Order.Latest(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{"results": len(orders), "orders": orders})
}
