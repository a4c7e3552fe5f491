package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "shopapi/internal/log"
	"shopapi/internal/services"
	"shopapi/internal/validate"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

const maxSearchLen = 50

// GET /api/v1/products/list/filters?minPrice=&maxPrice=&categoryId=&search=&page=&limit=
func (h *SearchHandler) Filter(c *fiber.Ctx) error {
	minP, err := queryDecimal(c, "minPrice")
	if err != nil {
		return err
	}
	maxP, err := queryDecimal(c, "maxPrice")
	if err != nil {
		return err
	}
	category := strings.TrimSpace(c.Query("categoryId"))
	if category != "" {
		if _, good := validate.ID(category); !good {
			applog.Security(c, "validation.fail", map[string]any{"field": "categoryId"})
			return validate.Invalid("invalid categoryId")
		}
	}
	search := strings.TrimSpace(c.Query("search"))
	if r := []rune(search); len(r) > maxSearchLen {
		search = string(r[:maxSearchLen])
	}

	page, err := h.Catalog.FilterProducts(c.UserContext(), services.ProductQuery{
		MinPrice:   minP,
		MaxPrice:   maxP,
		CategoryID: category,
		Search:     search,
		Page:       c.QueryInt("page", 1),
		Limit:      c.QueryInt("limit", 10),
	})
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, page)
}
