package controllers

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fixlocal/fixlocal/app/models"
	"github.com/fixlocal/fixlocal/internal/pkg/cache"
	"github.com/fixlocal/fixlocal/internal/pkg/logging"
	"github.com/fixlocal/fixlocal/internal/pkg/quote"
)

const quoteCacheTTL = 30 * time.Minute

// HandleGetQuote resolves a price quote for one catalog combination. Resolved
// quotes are cached; a cache miss or cache outage falls through to the
// resolver, which always produces a price.
func HandleGetQuote(c *fiber.Ctx) error {
	deviceType := strings.TrimSpace(c.Query("device_type"))
	brand := strings.TrimSpace(c.Query("brand"))
	model := strings.TrimSpace(c.Query("model"))
	service := strings.TrimSpace(c.Query("service"))
	if deviceType == "" || brand == "" || model == "" || service == "" {
		return badRequest(c, "device_type, brand, model and service are required")
	}

	tier := models.TierStandard
	if raw := c.Query("tier"); raw != "" {
		parsed, err := models.ParsePricingTier(raw)
		if err != nil {
			return badRequest(c, err.Error())
		}
		tier = parsed
	}

	log := logging.Module("quote")
	cacheKey := quoteCacheKey(deviceType, brand, model, service, tier)
	if cached, err := cache.Get(cacheKey); err == nil && cached != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	result, err := quoteResolver.Resolve(c.Context(), quote.Request{
		DeviceType: deviceType,
		Brand:      brand,
		Model:      model,
		Service:    service,
		Tier:       tier,
	})
	if err != nil {
		log.Error("failed to resolve quote", zap.Error(err))
		return internalError(c, "Failed to resolve quote")
	}

	body, err := json.Marshal(fiber.Map{"success": true, "quote": result})
	if err != nil {
		return internalError(c, "Failed to encode quote")
	}
	if err := cache.Set(cacheKey, string(body), quoteCacheTTL); err != nil {
		log.Warn("failed to cache quote", zap.String("key", cacheKey), zap.Error(err))
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

func quoteCacheKey(deviceType, brand, model, service string, tier models.PricingTier) string {
	return strings.ToLower(fmt.Sprintf("quote:%s:%s:%s:%s:%s", deviceType, brand, model, service, tier))
}
