package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "shopapi/internal/log"
	"shopapi/internal/services"
)

type CartHandler struct {
	Cart *services.CartService
}

// POST /api/v1/cart/add
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in services.AddToCartInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	it, err := h.Cart.Add(c.UserContext(), identity(c).ID, in)
	if err != nil {
		return err
	}
	applog.Info(c, "cart.add", map[string]any{"product_id": it.ProductID, "quantity": it.Quantity})
	return ok(c, fiber.StatusCreated, it)
}

// GET /api/v1/cart/view
func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(c.UserContext(), identity(c).ID)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, cv)
}

// DELETE /api/v1/cart/delete/:cartItemId
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, err := pathID(c, "cartItemId")
	if err != nil {
		return err
	}
	if err := h.Cart.Remove(c.UserContext(), identity(c).ID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
