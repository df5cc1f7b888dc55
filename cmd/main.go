package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"inventory-service/internal/handler"
	mid "inventory-service/internal/middleware"
	"inventory-service/pkg/config"
	"inventory-service/pkg/database"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"
)

func main() {
	// Load configuration (reads .env if present)
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting inventory-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize Echo instance
	e := echo.New()
	e.Validator = handler.NewRequestValidator()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Category API routes
	categoryAPI := e.Group("/api/categories")
	categoryAPI.GET("", handler.ListCategories)
	categoryAPI.GET("/deleted", handler.ListDeletedCategories)
	categoryAPI.GET("/:id", handler.GetCategory)
	categoryAPI.POST("", handler.CreateCategory)
	categoryAPI.PUT("/:id", handler.UpdateCategory)
	categoryAPI.DELETE("/:id", handler.DeleteCategory)
	categoryAPI.PUT("/restore/:id", handler.RestoreCategory)

	// Product API routes
	productAPI := e.Group("/api/products")
	productAPI.GET("", handler.ListProducts)
	productAPI.GET("/deleted", handler.ListDeletedProducts)
	productAPI.GET("/with-inventory", handler.ListProductsWithInventory)
	productAPI.GET("/search", handler.SearchProducts)
	productAPI.GET("/category/:category_id", handler.ListProductsByCategory)
	productAPI.GET("/:id", handler.GetProduct)
	productAPI.POST("", handler.CreateProduct)
	productAPI.PUT("/:id", handler.UpdateProduct)
	productAPI.DELETE("/:id", handler.DeleteProduct)
	productAPI.PUT("/restore/:id", handler.RestoreProduct)

	// Inventory API routes
	inventoryAPI := e.Group("/api/inventory")
	inventoryAPI.GET("", handler.ListInventory)
	inventoryAPI.GET("/low-stock", handler.ListLowStock)
	inventoryAPI.GET("/:id", handler.GetInventory)
	inventoryAPI.GET("/product/:product_id", handler.GetInventoryByProduct)
	inventoryAPI.POST("", handler.CreateInventory)
	inventoryAPI.PUT("/:id", handler.UpdateInventory)
	inventoryAPI.POST("/:id/restock", handler.RestockInventory)
	inventoryAPI.PUT("/product/:product_id/restock", handler.RestockProduct)

	// Sale API routes
	saleAPI := e.Group("/api/sales")
	saleAPI.GET("", handler.ListSales)
	saleAPI.GET("/summary", handler.GetSalesSummary)
	saleAPI.GET("/by-period", handler.GetSalesByPeriod)
	saleAPI.GET("/by-category", handler.GetSalesByCategory)
	saleAPI.GET("/by-platform", handler.GetSalesByPlatform)
	saleAPI.GET("/compare-periods", handler.ComparePeriods)
	saleAPI.GET("/:id", handler.GetSale)
	saleAPI.POST("", handler.CreateSale)
	saleAPI.PUT("/:id", handler.UpdateSale)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
