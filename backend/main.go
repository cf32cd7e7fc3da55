package main

import (
	"log"

	"cupomgo/backend/config"
	"cupomgo/backend/middleware"
	"cupomgo/backend/models"
	"cupomgo/backend/routes"
	"cupomgo/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.LoginHistory{},
		&models.UserProgression{},
		&models.CouponUse{},
	); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, cfg, logger)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
