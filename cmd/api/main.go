package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/caisse-api/internal/application/service"
	"github.com/sangkips/caisse-api/internal/config"
	"github.com/sangkips/caisse-api/internal/infrastructure/database"
	"github.com/sangkips/caisse-api/internal/infrastructure/repository"
	"github.com/sangkips/caisse-api/internal/presentation/http/handler"
	"github.com/sangkips/caisse-api/internal/presentation/http/routes"
	"github.com/sangkips/caisse-api/pkg/cache"
	"github.com/sangkips/caisse-api/pkg/logger"
	"github.com/sangkips/caisse-api/pkg/printer"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.App.LogLevel, cfg.App.Env)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Open(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	if cfg.App.SeedDemoData {
		if err := database.SeedDemoData(db, log); err != nil {
			log.WithError(err).Warn("Failed to seed demo data")
		}
	}

	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Replayable responses outlive their TTL until purged
	if n, err := idempotencyRepo.Purge(context.Background(), time.Now()); err != nil {
		log.WithError(err).Warn("Failed to purge expired stored responses")
	} else if n > 0 {
		log.WithField("count", n).Info("Purged expired stored responses")
	}

	// Invoice cache: redis when configured, otherwise nothing is cached
	cacheCtx, cancelCache := context.WithTimeout(context.Background(), 2*time.Second)
	invoiceCache, err := cache.Open(cacheCtx, cfg.Redis.Addr, cfg.App.Name)
	cancelCache()
	if err != nil {
		log.WithError(err).WithField("addr", cfg.Redis.Addr).Warn("Redis unreachable, invoice cache disabled")
	}

	// Initialize thermal printer
	thermalPrinter, err := printer.New(printer.Config{
		Type:         cfg.Printer.Type,
		USBPath:      cfg.Printer.USBPath,
		Address:      cfg.Printer.Address,
		DialTimeout:  3 * time.Second,
		WriteTimeout: 5 * time.Second,
	})
	if err != nil {
		log.WithError(err).Warn("Failed to initialize printer")
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()

	// Initialize repositories
	txManager := repository.NewTxManager(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderLineRepo := repository.NewOrderLineRepository(db)

	// Initialize services
	defaultLoc := cfg.Restaurant.Location()
	invoiceService := service.NewInvoiceService(service.InvoiceOptions{
		CharWidth:    cfg.Invoice.CharWidth,
		PaperWidthMM: cfg.Invoice.PaperWidthMM,
		DateLayout:   cfg.Invoice.DateLayout,
		Location:     defaultLoc,
		CacheTTL:     cfg.Invoice.CacheTTL,
	}, orderRepo, orderLineRepo, restaurantRepo, invoiceCache, log)
	printerService := service.NewPrinterService(thermalPrinter, invoiceService, orderRepo, log)
	orderService := service.NewOrderService(service.OrderServiceConfig{
		PrintOnConfirm: cfg.Printer.PrintOnConfirm,
		DefaultTZ:      defaultLoc,
	}, txManager, orderRepo, orderLineRepo, restaurantRepo, invoiceService, printerService, log)
	cartService := service.NewCartService(txManager, orderRepo, orderLineRepo, catalogRepo, log)
	catalogService := service.NewCatalogService(catalogRepo, restaurantRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Order:   handler.NewOrderHandler(orderService),
		Cart:    handler.NewCartHandler(cartService),
		Invoice: handler.NewInvoiceHandler(invoiceService),
		Printer: handler.NewPrinterHandler(printerService),
		Menu:    handler.NewMenuHandler(catalogService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		Log:             log,
		IdempotencyRepo: idempotencyRepo,
		RestaurantRepo:  restaurantRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.WithFields(logrus.Fields{
		"service": cfg.App.Name,
		"port":    port,
		"env":     cfg.App.Env,
	}).Info("Starting server")

	if err := router.Run(":" + port); err != nil {
		log.WithError(err).Error("Failed to start server")
		os.Exit(1)
	}
}
