package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "shopapi/internal/log"
	"shopapi/internal/services"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

// GET /api/v1/products/:id/availability
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	a, err := h.Inv.Availability(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, a)
}

type stockInput struct {
	Stock *int `json:"stock"`
}

// PUT /api/v1/products/stock/:id
func (h *InventoryHandler) SetStock(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in stockInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if in.Stock == nil {
		return fiber.NewError(fiber.StatusBadRequest, "stock is required")
	}
	a, err := h.Inv.SetStock(c.UserContext(), id, *in.Stock)
	if err != nil {
		return err
	}
	applog.Audit(c, "inventory.set", map[string]any{"product_id": id, "stock": *in.Stock})
	return ok(c, fiber.StatusOK, a)
}
