package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/fixlocal/fixlocal/app/repository"
	"github.com/fixlocal/fixlocal/internal/pkg/cache"
	"github.com/fixlocal/fixlocal/internal/pkg/database"
	"github.com/fixlocal/fixlocal/internal/pkg/env"
	"github.com/fixlocal/fixlocal/internal/pkg/logging"
	"github.com/fixlocal/fixlocal/internal/pkg/router"
)

func main() {
	app := NewApplication()
	defer logging.Sync()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	logging.Setup()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	// Prices serialize as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true

	app := fiber.New(fiber.Config{
		AppName: "fixlocal-pricing",
	})

	app.Use(recover.New(), logger.New())

	router.InstallRouter(app)

	return app
}
