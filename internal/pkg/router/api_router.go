package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/fixlocal/fixlocal/app/controllers"
	"github.com/fixlocal/fixlocal/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	// Wire the handlers to the repositories before any route can fire.
	controllers.InitializePricingControllers()

	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))

	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})

	// Coverage matrix
	app.Get("/coverage", controllers.HandleGetCoverage)

	// Pricing table CRUD and bulk reconciliation. Writes require the admin
	// API key; the bulk endpoint gets its own rate limit because a single
	// request already carries a batch.
	adminKey := middleware.AdminAPIKeyMiddleware()
	app.Get("/pricing", controllers.HandleListPricing)
	app.Post("/pricing", adminKey, controllers.HandleCreatePricing)
	app.Put("/pricing", adminKey, controllers.HandleUpdatePricing)
	app.Delete("/pricing", adminKey, controllers.HandleDeletePricing)
	app.Post("/pricing/bulk", adminKey, limiter.New(limiter.Config{Max: 10}), controllers.HandleBulkPricing)

	// Booking-time quote
	app.Get("/quote", controllers.HandleGetQuote)

	// Catalog dimensions (read only)
	catalog := app.Group("/catalog")
	catalog.Get("/device-types", controllers.HandleGetDeviceTypes)
	catalog.Get("/brands", controllers.HandleGetBrands)
	catalog.Get("/models", controllers.HandleGetDeviceModels)
	catalog.Get("/services", controllers.HandleGetServices)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
