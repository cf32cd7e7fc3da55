package routes

import (
	"log"

	"cupomgo/backend/config"
	"cupomgo/backend/controllers"
	"cupomgo/backend/middleware"
	"cupomgo/backend/progression"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *log.Logger) {
	repo := progression.NewGormRepository(db, logger)
	service := progression.NewService(repo, logger)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg, service)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Coupon routes
	couponController := controllers.NewCouponController(cfg, service)
	coupons := app.Group("/api/coupons", authMiddleware)
	coupons.Post("/use", couponController.UseCoupon)
	coupons.Get("/history", couponController.GetHistory)

	// Gamification routes
	gamificationController := controllers.NewGamificationController(cfg, service)
	g := app.Group("/api/gamification", authMiddleware)
	g.Get("/progress", gamificationController.GetProgress)
	g.Get("/levels", gamificationController.GetLevels)
	g.Get("/achievements", gamificationController.GetAchievements)

	// Analytics routes
	analyticsController := controllers.NewAnalyticsController(db, cfg)
	app.Get("/api/analytics/overview", authMiddleware, analyticsController.GetOverview)
}
