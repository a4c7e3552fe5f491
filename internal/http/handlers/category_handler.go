package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "shopapi/internal/log"
	"shopapi/internal/repos"
	"shopapi/internal/services"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

func categoryConflict(err error) error {
	if errors.Is(err, repos.ErrDuplicate) {
		return fiber.NewError(fiber.StatusConflict, "a category with this name already exists")
	}
	return err
}

// POST /api/v1/categories/create
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in services.CategoryInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	cat, err := h.Catalog.CreateCategory(c.UserContext(), in)
	if err != nil {
		return categoryConflict(err)
	}
	applog.Audit(c, "category.create", map[string]any{"category_id": cat.ID})
	return ok(c, fiber.StatusCreated, cat)
}

// PUT /api/v1/categories/update/:id
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in services.CategoryInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	cat, err := h.Catalog.UpdateCategory(c.UserContext(), id, in)
	if err != nil {
		return categoryConflict(err)
	}
	applog.Audit(c, "category.update", map[string]any{"category_id": id})
	return ok(c, fiber.StatusOK, cat)
}

// DELETE /api/v1/categories/delete/:id
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Catalog.DeleteCategory(c.UserContext(), id); err != nil {
		if errors.Is(err, repos.ErrInUse) {
			return fiber.NewError(fiber.StatusConflict, "category still has products")
		}
		return err
	}
	applog.Audit(c, "category.delete", map[string]any{"category_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/v1/categories/list
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{"results": len(cats), "categories": cats})
}
