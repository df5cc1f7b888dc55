package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-service/internal/store"
	"inventory-service/pkg/database"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"
)

// ProductRequest defines the structure for product creation requests
type ProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	SKU         string  `json:"sku" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	CategoryID  uint    `json:"category_id" validate:"required"`
}

// ProductUpdateRequest defines the structure for product update requests;
// absent fields are left unchanged
type ProductUpdateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	SKU         *string  `json:"sku"`
	Price       *float64 `json:"price"`
	CategoryID  *uint    `json:"category_id"`
}

// ListProducts handles retrieving active products with optional filtering
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	st := store.NewProductStore(database.GetDB())
	ctx := c.Request().Context()
	page := pageFromQuery(c)

	// Filter by category if specified
	if v := c.QueryParam("category_id"); v != "" {
		categoryID, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			log.Warn("Invalid category_id parameter", zap.String("value", v))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category_id"})
		}
		products, err := st.ListByCategory(ctx, uint(categoryID), page)
		if err != nil {
			return respondError(c, log, err)
		}
		log.Info("Products retrieved by category",
			zap.Uint64("category_id", categoryID),
			zap.Int("count", len(products)))
		return c.JSON(http.StatusOK, products)
	}

	// Search by name if specified
	if query := c.QueryParam("search"); query != "" {
		products, err := st.SearchByName(ctx, query, page)
		if err != nil {
			return respondError(c, log, err)
		}
		log.Info("Products retrieved by search",
			zap.String("query", query),
			zap.Int("count", len(products)))
		return c.JSON(http.StatusOK, products)
	}

	products, err := st.ListActive(ctx, page)
	if err != nil {
		return respondError(c, log, err)
	}
	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// ListProductsWithInventory retrieves active products merged with their
// inventory information; products without an inventory record are omitted
func ListProductsWithInventory(c echo.Context) error {
	log := logger.FromContext(c)

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	st := store.NewProductStore(database.GetDB())
	products, err := st.ListActiveWithInventory(c.Request().Context(), pageFromQuery(c))
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Products with inventory retrieved", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// ListDeletedProducts retrieves all soft-deleted products
func ListDeletedProducts(c echo.Context) error {
	log := logger.FromContext(c)

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	st := store.NewProductStore(database.GetDB())
	products, err := st.ListDeleted(c.Request().Context(), pageFromQuery(c))
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Deleted products retrieved", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// ListProductsByCategory retrieves active products in an active category
func ListProductsByCategory(c echo.Context) error {
	log := logger.FromContext(c)

	categoryID, err := idFromParam(c, "category_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	st := store.NewProductStore(database.GetDB())
	products, err := st.ListByCategory(c.Request().Context(), categoryID, pageFromQuery(c))
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Products retrieved by category",
		zap.Uint("category_id", categoryID),
		zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// SearchProducts searches active products by name
func SearchProducts(c echo.Context) error {
	log := logger.FromContext(c)

	query := c.QueryParam("query")
	if query == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "query parameter is required"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	st := store.NewProductStore(database.GetDB())
	products, err := st.SearchByName(c.Request().Context(), query, pageFromQuery(c))
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Products retrieved by search",
		zap.String("query", query),
		zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles retrieving a single product by ID
func GetProduct(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := idFromParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	st := store.NewProductStore(database.GetDB())
	product, err := st.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, log, err)
	}
	if product.IsDeleted() {
		log.Warn("Product is deleted", zap.Uint("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	log.Info("Product retrieved successfully",
		zap.Uint("product_id", product.ID),
		zap.String("product_name", product.Name),
		zap.String("product_sku", product.SKU))
	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles creating a new product
func CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new product")

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	log.Info("Product creation request",
		zap.String("name", req.Name),
		zap.String("sku", req.SKU),
		zap.Float64("price", req.Price),
		zap.Uint("category_id", req.CategoryID))

	// Track DB operations
	defer prometheus.TrackDBOperation("insert")(time.Now())

	st := store.NewProductStore(database.GetDB())
	product, err := st.Create(c.Request().Context(), store.ProductCreate{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return respondError(c, log, err)
	}

	prometheus.RecordProductOperation("create")
	log.Info("Product created successfully",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.String("sku", product.SKU))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles updating an existing product
func UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := idFromParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	log.Info("Updating product", zap.Uint("product_id", id))

	var req ProductUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint("product_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("update")(time.Now())

	st := store.NewProductStore(database.GetDB())
	product, err := st.Update(c.Request().Context(), id, store.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return respondError(c, log, err)
	}

	prometheus.RecordProductOperation("update")
	log.Info("Product updated successfully",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.String("sku", product.SKU))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles soft-deleting a product
func DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := idFromParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	log.Info("Deleting product", zap.Uint("product_id", id))

	// Track DB operations
	defer prometheus.TrackDBOperation("delete")(time.Now())

	st := store.NewProductStore(database.GetDB())
	product, err := st.Delete(c.Request().Context(), id)
	if err != nil {
		return respondError(c, log, err)
	}

	prometheus.RecordProductOperation("delete")
	log.Info("Product deleted successfully", zap.Uint("product_id", product.ID))
	return c.JSON(http.StatusOK, product)
}

// RestoreProduct restores a previously deleted product
func RestoreProduct(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := idFromParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	log.Info("Restoring product", zap.Uint("product_id", id))

	// Track DB operations
	defer prometheus.TrackDBOperation("update")(time.Now())

	st := store.NewProductStore(database.GetDB())
	product, err := st.Restore(c.Request().Context(), id)
	if err != nil {
		return respondError(c, log, err)
	}

	prometheus.RecordProductOperation("restore")
	log.Info("Product restored successfully", zap.Uint("product_id", product.ID))
	return c.JSON(http.StatusOK, product)
}
