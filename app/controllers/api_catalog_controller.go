package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fixlocal/fixlocal/app/models"
	"github.com/fixlocal/fixlocal/app/repository"
	"github.com/fixlocal/fixlocal/internal/pkg/logging"
)

// HandleGetDeviceTypes lists the active device types.
func HandleGetDeviceTypes(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetCatalogRepository()
	types, err := repo.DeviceTypes(c.Context())
	if err != nil {
		logging.Module("catalog").Error("failed to list device types", zap.Error(err))
		return internalError(c, "Failed to load device types")
	}
	return c.JSON(fiber.Map{"success": true, "device_types": types})
}

// HandleGetBrands lists the active brands, optionally filtered by device type.
func HandleGetBrands(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetCatalogRepository()
	brands, err := repo.Brands(c.Context())
	if err != nil {
		logging.Module("catalog").Error("failed to list brands", zap.Error(err))
		return internalError(c, "Failed to load brands")
	}
	if raw := c.Query("device_type_id"); raw != "" {
		typeID, err := parseQueryUint(raw)
		if err != nil {
			return badRequest(c, "device_type_id must be a positive integer")
		}
		filtered := make([]models.Brand, 0, len(brands))
		for _, brand := range brands {
			if brand.DeviceTypeID == typeID {
				filtered = append(filtered, brand)
			}
		}
		brands = filtered
	}
	return c.JSON(fiber.Map{"success": true, "brands": brands})
}

// HandleGetDeviceModels lists the active device models, optionally filtered
// by brand.
func HandleGetDeviceModels(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetCatalogRepository()
	deviceModels, err := repo.DeviceModels(c.Context())
	if err != nil {
		logging.Module("catalog").Error("failed to list device models", zap.Error(err))
		return internalError(c, "Failed to load device models")
	}
	if raw := c.Query("brand_id"); raw != "" {
		brandID, err := parseQueryUint(raw)
		if err != nil {
			return badRequest(c, "brand_id must be a positive integer")
		}
		filtered := make([]models.DeviceModel, 0, len(deviceModels))
		for _, deviceModel := range deviceModels {
			if deviceModel.BrandID == brandID {
				filtered = append(filtered, deviceModel)
			}
		}
		deviceModels = filtered
	}
	return c.JSON(fiber.Map{"success": true, "models": deviceModels})
}

// HandleGetServices lists the active services, optionally filtered by device
// type.
func HandleGetServices(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetCatalogRepository()
	services, err := repo.Services(c.Context())
	if err != nil {
		logging.Module("catalog").Error("failed to list services", zap.Error(err))
		return internalError(c, "Failed to load services")
	}
	if raw := c.Query("device_type_id"); raw != "" {
		typeID, err := parseQueryUint(raw)
		if err != nil {
			return badRequest(c, "device_type_id must be a positive integer")
		}
		filtered := make([]models.Service, 0, len(services))
		for _, service := range services {
			if service.DeviceTypeID == typeID {
				filtered = append(filtered, service)
			}
		}
		services = filtered
	}
	return c.JSON(fiber.Map{"success": true, "services": services})
}
