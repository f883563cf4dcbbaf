package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/caisse-api/internal/config"
	domainRepo "github.com/sangkips/caisse-api/internal/domain/repository"
	"github.com/sangkips/caisse-api/internal/presentation/http/handler"
	"github.com/sangkips/caisse-api/internal/presentation/http/middleware"
	"github.com/sirupsen/logrus"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Order   *handler.OrderHandler
	Cart    *handler.CartHandler
	Invoice *handler.InvoiceHandler
	Printer *handler.PrinterHandler
	Menu    *handler.MenuHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	Log             *logrus.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
	RestaurantRepo  domainRepo.RestaurantRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Per-restaurant rate limiter
	rateLimiter := middleware.NewRestaurantRateLimiter(middleware.RateLimiterConfigFor(
		deps.Cfg.RateLimit.Requests,
		time.Duration(deps.Cfg.RateLimit.Duration)*time.Second,
	))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "ok",
			"service":    deps.Cfg.App.Name,
			"rate_limit": rateLimiter.Stats(),
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		scoped := v1.Group("")
		scoped.Use(middleware.RestaurantMiddleware(deps.RestaurantRepo))
		scoped.Use(rateLimiter.Middleware())

		registerScopedRoutes(scoped, h, deps)
	}

	return router
}

func registerScopedRoutes(scoped *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Restaurant and menu
	scoped.GET("/restaurant", h.Menu.GetRestaurant)
	scoped.GET("/menu/items", h.Menu.ListItems)
	scoped.GET("/menu/items/:id", h.Menu.GetItem)

	// Orders
	registerOrderRoutes(scoped, h, deps)

	// Printer
	printer := scoped.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
	}
}

func registerOrderRoutes(scoped *gin.RouterGroup, h *Handlers, deps *Deps) {
	orders := scoped.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.POST("", h.Order.Create)
		orders.GET("/:id", h.Order.Get)
		orders.PUT("/:id/status", h.Order.UpdateStatus)
		orders.POST("/:id/cancel", h.Order.Cancel)
		orders.DELETE("/:id", h.Order.Delete)

		// Cart
		orders.GET("/:id/cart", h.Cart.Get)
		orders.POST("/:id/items", h.Cart.AddItem)
		orders.POST("/:id/lines", h.Cart.AddLine)
		orders.PATCH("/:id/lines/:line_id", h.Cart.SetQuantity)
		orders.DELETE("/:id/lines/:line_id", h.Cart.RemoveLine)
		orders.GET("/:id/totals", h.Cart.Totals)

		// Confirmation and invoice
		orders.POST("/:id/confirm", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			Log:  deps.Log,
		}), h.Order.Confirm)
		orders.GET("/:id/invoice", h.Invoice.Get)
		orders.POST("/:id/print", h.Printer.PrintOrder)
	}
}
