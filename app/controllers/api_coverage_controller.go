package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fixlocal/fixlocal/internal/pkg/logging"
)

// HandleGetCoverage builds the full coverage matrix across the active catalog
// and returns every combination with its existing or fallback price.
func HandleGetCoverage(c *fiber.Ctx) error {
	matrix, err := coverageBuilder.Build(c.Context())
	if err != nil {
		logging.Module("coverage").Error("failed to build coverage matrix", zap.Error(err))
		return internalError(c, "Failed to build coverage matrix")
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"coverage": matrix.Cells,
		"summary":  matrix.Summary,
	})
}
