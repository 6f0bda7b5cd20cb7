// Package app wires repositories, services and handlers into a Fiber app.
package app

import (
	"time"

	"foodgram/internal/config"
	"foodgram/internal/handlers"
	"foodgram/internal/middleware"
	"foodgram/internal/repositories"
	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Requests per minute and client IP accepted on /api/auth.
const authRateLimit = 20

// NewApp builds the HTTP application. publisher may be nil to disable
// domain events.
func NewApp(cfg *config.Config, db *gorm.DB, publisher services.EventPublisher) (*fiber.App, *services.AuthService) {
	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	recipeRepo := repositories.NewGORMRecipeRepository(db)
	relationRepo := repositories.NewGORMRelationRepository(db)
	subRepo := repositories.NewGORMSubscriptionRepository(db)
	ingredientRepo := repositories.NewGORMIngredientRepository(db)
	tagRepo := repositories.NewGORMTagRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Users.DefaultAvatar)
	shortLinkService := services.NewShortLinkService(recipeRepo, services.ShortLinkConfig{
		Length:      cfg.ShortLink.Length,
		MaxAttempts: cfg.ShortLink.MaxAttempts,
		SiteDomain:  cfg.Server.SiteDomain,
	})
	recipeService := services.NewRecipeService(recipeRepo, ingredientRepo, tagRepo, relationRepo, subRepo, shortLinkService, publisher)
	relationService := services.NewRelationService(recipeRepo, relationRepo, publisher)
	shoppingService := services.NewShoppingListService(relationRepo, userRepo)
	subscriptionService := services.NewSubscriptionService(userRepo, subRepo, recipeRepo, publisher)
	userService := services.NewUserService(userRepo, subRepo, cfg.Users.DefaultAvatar)
	catalogService := services.NewCatalogService(ingredientRepo, tagRepo)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, relationService, shoppingService, shortLinkService)
	userHandler := handlers.NewUserHandler(userService, subscriptionService, authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)

	app := fiber.New(fiber.Config{
		AppName:      "foodgram",
		ErrorHandler: handlers.ErrorHandler,
	})

	// --- Middleware ---
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger())
	app.Use(fiberrecover.New())

	authRequired := middleware.AuthRequired(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	// --- API Routes ---
	api := app.Group("/api")
	authHandler.RegisterRoutes(api, limiter.New(limiter.Config{
		Max:        authRateLimit,
		Expiration: time.Minute,
	}))
	recipeHandler.RegisterRoutes(api, authRequired, optionalAuth)
	userHandler.RegisterRoutes(api, authRequired, optionalAuth)
	catalogHandler.RegisterRoutes(api)
	recipeHandler.RegisterShortLinkRoutes(app)

	// --- Operational endpoints ---
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "degraded",
				"time":     time.Now().Format(time.RFC3339),
				"database": "unreachable",
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "connected",
			"events":   publisher != nil,
		})
	})

	return app, authService
}
