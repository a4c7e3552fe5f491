package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"shopapi/internal/config"
	"shopapi/internal/domain"
	applog "shopapi/internal/log"
)

// NewApp builds the fiber app with middleware and every route mounted.
func NewApp(cfg config.Config, d *Deps) *fiber.App {
	bodyLimit := cfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = 50 * 1024
	}
	app := fiber.New(fiber.Config{
		AppName:      "shopapi",
		ErrorHandler: ErrorHandler,
		BodyLimit:    bodyLimit,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(applog.AccessLog())
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New())
	app.Use(compress.New())

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	reqs, window := cfg.RateLimitMax, cfg.RateLimitWindow
	if reqs <= 0 {
		reqs = 100
	}
	if window <= 0 {
		window = time.Minute
	}
	api := app.Group("/api/v1", limiter.New(limiter.Config{
		Max:        reqs,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.limit.hit", nil)
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests from this IP, please try again later.")
		},
	}))

	authn := RequireAuth(d.Auth)
	admin := RequireRole(domain.RoleAdmin)
	customer := RequireRole(domain.RoleCustomer)

	// Auth
	auth := api.Group("/auth")
	auth.Post("/signup", d.AuthHandler.Signup)
	auth.Post("/login", d.AuthHandler.Login)
	auth.Post("/logout", d.AuthHandler.Logout)

	// Products
	products := api.Group("/products", authn)
	products.Post("/create", admin, d.ProductHandler.Create)
	products.Put("/update/:id", admin, d.ProductHandler.Update)
	products.Delete("/delete/:id", admin, d.ProductHandler.Delete)
	products.Get("/list", admin, d.ProductHandler.List)
	products.Put("/assign-category/:productId", admin, d.ProductHandler.AssignCategory)
	products.Put("/stock/:id", admin, d.InventoryHandler.SetStock)
	products.Get("/list/filters", customer, d.SearchHandler.Filter)
	products.Get("/:id/availability", customer, d.InventoryHandler.Check)
	products.Get("/:id", d.ProductHandler.Detail)

	// Categories
	categories := api.Group("/categories", authn, admin)
	categories.Post("/create", d.CategoryHandler.Create)
	categories.Put("/update/:id", d.CategoryHandler.Update)
	categories.Delete("/delete/:id", d.CategoryHandler.Delete)
	categories.Get("/list", d.CategoryHandler.List)

	// Cart
	cart := api.Group("/cart", authn, customer)
	cart.Post("/add", d.CartHandler.Add)
	cart.Get("/view", d.CartHandler.View)
	cart.Delete("/delete/:cartItemId", d.CartHandler.Remove)

	// Orders
	order := api.Group("/order", authn)
	order.Post("/place", customer, d.OrderHandler.Place)
	order.Get("/history", customer, d.OrderHandler.History)
	order.Get("/list", admin, d.AdminHandler.Orders)
	order.Get("/:id", d.OrderHandler.View)

	// 404
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Can't find "+c.OriginalURL()+" on this server!")
	})
	return app
}
