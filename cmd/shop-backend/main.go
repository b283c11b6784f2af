package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/glabrego/homefeed/internal/backend"
	"github.com/glabrego/homefeed/internal/config"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("config error: %v", err)
	}
	cfg, err := config.LoadBackendFromEnv()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	catalog := backend.NewCatalog(backend.SampleProducts(), cfg.PageSize)
	if cfg.CatalogPath != "" {
		catalog, err = backend.LoadCatalogFile(cfg.CatalogPath, cfg.PageSize)
		if err != nil {
			log.Fatalf("catalog error: %v", err)
		}
	}

	app := fiber.New()
	app.Use(logger.New())
	setupCORS(app)
	backend.NewHandler(catalog).RegisterRoutes(app)

	log.Printf("serving %d pages of products on %s", catalog.PageCount(), cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("listen error: %v", err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,HEAD",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
}
