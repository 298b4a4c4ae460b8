package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/lenbersih/lenbersih-api/internal/config"
	"github.com/lenbersih/lenbersih-api/internal/handlers"
	"github.com/lenbersih/lenbersih-api/internal/metrics"
	"github.com/lenbersih/lenbersih-api/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	reportHandler *handlers.ReportHandler,
	captchaHandler *handlers.CaptchaHandler,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
) {
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// CAPTCHA
	api.Get("/captcha/new", captchaHandler.New)
	api.Post("/captcha/validate", captchaHandler.Validate)

	// Reports — public intake surface
	api.Get("/reports", reportHandler.List)
	api.Post("/reports", reportHandler.Create)
	api.Get("/reports/track/:code", reportHandler.Track)
	api.Get("/statuses", reportHandler.Statuses)

	// Auth — stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/activate", authHandler.Activate)
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)

	// Back-office review workflow (JWT + admin group required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db))
	admin.Get("/reports", reportHandler.AdminList)
	admin.Get("/reports/:id", reportHandler.AdminGet)
	admin.Put("/reports/:id/status", reportHandler.UpdateStatus)
	admin.Put("/reports/:id/approve", reportHandler.Approve)
	admin.Delete("/reports/:id", reportHandler.Delete)

	// SPA shell
	app.Static("/", "./web/static")
}
