package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "shopapi/internal/log"
	"shopapi/internal/services"
	"shopapi/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

func pathID(c *fiber.Ctx, name string) (string, error) {
	id, good := validate.ID(c.Params(name))
	if !good {
		applog.Security(c, "validation.fail", map[string]any{"field": name})
		return "", validate.Invalid("invalid %s", name)
	}
	return id, nil
}

// POST /api/v1/products/create
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	p, err := h.Catalog.CreateProduct(c.UserContext(), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID})
	return ok(c, fiber.StatusCreated, p)
}

// PUT /api/v1/products/update/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var patch services.ProductPatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}
	p, err := h.Catalog.UpdateProduct(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	applog.Audit(c, "product.update", map[string]any{"product_id": id})
	return ok(c, fiber.StatusOK, p)
}

// DELETE /api/v1/products/delete/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Catalog.DeleteProduct(c.UserContext(), id); err != nil {
		return err
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/v1/products/list
func (h *ProductHandler) List(c *fiber.Ctx) error {
	ps, err := h.Catalog.ListProducts(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{"results": len(ps), "products": ps})
}

// GET /api/v1/products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.Catalog.Product(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, p)
}

type assignInput struct {
	CategoryID string `json:"categoryId"`
}

// PUT /api/v1/products/assign-category/:productId
func (h *ProductHandler) AssignCategory(c *fiber.Ctx) error {
	pid, err := pathID(c, "productId")
	if err != nil {
		return err
	}
	var in assignInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	cid, good := validate.ID(in.CategoryID)
	if !good {
		return validate.Invalid("categoryId is required")
	}
	p, err := h.Catalog.AssignCategory(c.UserContext(), pid, cid)
	if err != nil {
		return err
	}
	applog.Audit(c, "product.assign_category", map[string]any{"product_id": pid, "category_id": cid})
	return ok(c, fiber.StatusOK, p)
}

func queryDecimal(c *fiber.Ctx, key string) (*decimal.Decimal, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": key})
		return nil, validate.Invalid("%s must be a number", key)
	}
	return &d, nil
}
