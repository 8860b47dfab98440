package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/mohitbansal25082006/MannSahay-sub001/internal/config"
	"github.com/mohitbansal25082006/MannSahay-sub001/internal/handlers"
	"github.com/mohitbansal25082006/MannSahay-sub001/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	healthHandler *handlers.HealthHandler,
	contentHandler *handlers.ContentHandler,
	moderationHandler *handlers.ModerationHandler,
	notificationHandler *handlers.NotificationHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Content (protected)
	api.Post("/content", middleware.JWTProtected(cfg), contentHandler.CreateContent)
	api.Get("/content/:id", middleware.JWTProtected(cfg), contentHandler.GetContent)
	api.Put("/content/:id", middleware.JWTProtected(cfg), contentHandler.EditContent)

	// Reports — stricter rate limit, reporting is abuse-prone
	reports := api.Group("/reports", limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	reports.Post("/", middleware.JWTProtected(cfg), contentHandler.ReportContent)

	// Notifications (protected)
	api.Get("/notifications", middleware.JWTProtected(cfg), notificationHandler.ListNotifications)
	api.Put("/notifications/:id/read", middleware.JWTProtected(cfg), notificationHandler.MarkRead)

	// Moderator panel (protected + moderator required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.ModeratorRequired(db, cfg))
	admin.Get("/moderation/flags", moderationHandler.ListFlags)
	admin.Get("/moderation/queue", moderationHandler.ReviewQueue)
	admin.Put("/moderation/content/:id", moderationHandler.ReviewContent)
}
