package controllers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/fixlocal/fixlocal/app/repository"
	"github.com/fixlocal/fixlocal/internal/pkg/coverage"
	"github.com/fixlocal/fixlocal/internal/pkg/pricing"
	"github.com/fixlocal/fixlocal/internal/pkg/quote"
)

var (
	bulkResolver    *pricing.BulkResolver
	coverageBuilder *coverage.Builder
	quoteResolver   *quote.Resolver
)

// InitializePricingControllers wires the handlers to the global repository
// factory. Must run after repository.InitializeFactory.
func InitializePricingControllers() {
	repos := repository.GetGlobalRepositories()
	bulkResolver = pricing.NewBulkResolver(repos.Pricing)
	coverageBuilder = coverage.NewBuilder(repos.Catalog)
	quoteResolver = quote.NewResolver(repository.NewQuoteStore(repos.Catalog, repos.Pricing))
}

// parseIDQuery reads a required positive integer "id" query parameter.
func parseIDQuery(c *fiber.Ctx) (uint, bool) {
	raw := c.Query("id")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parseQueryUint parses a positive integer query value.
func parseQueryUint(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid value %q", raw)
	}
	return uint(id), nil
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": message})
}

func internalError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": message})
}
