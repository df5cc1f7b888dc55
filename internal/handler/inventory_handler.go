package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-service/internal/store"
	"inventory-service/pkg/database"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"
)

// InventoryRequest defines the structure for inventory creation requests
type InventoryRequest struct {
	ProductID         uint `json:"product_id" validate:"required"`
	Quantity          int  `json:"quantity" validate:"gte=0"`
	LowStockThreshold int  `json:"low_stock_threshold" validate:"gte=0"`
}

// InventoryUpdateRequest defines the structure for inventory update requests;
// absent fields are left unchanged
type InventoryUpdateRequest struct {
	Quantity          *int       `json:"quantity"`
	LowStockThreshold *int       `json:"low_stock_threshold"`
	LastRestockDate   *time.Time `json:"last_restock_date"`
}

// RestockRequest defines the structure for restock requests
type RestockRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

// ListInventory retrieves all inventory records
func ListInventory(c echo.Context) error {
	log := logger.FromContext(c)

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	st := store.NewInventoryStore(database.GetDB())
	items, err := st.List(c.Request().Context(), pageFromQuery(c))
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Inventory retrieved successfully", zap.Int("count", len(items)))
	return c.JSON(http.StatusOK, items)
}

// ListLowStock retrieves inventory records at or below their threshold
func ListLowStock(c echo.Context) error {
	log := logger.FromContext(c)

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	st := store.NewInventoryStore(database.GetDB())
	items, err := st.ListLowStock(c.Request().Context(), pageFromQuery(c))
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Low stock items retrieved", zap.Int("count", len(items)))
	return c.JSON(http.StatusOK, items)
}

// GetInventory retrieves an inventory record by ID
func GetInventory(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := idFromParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid inventory id"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	st := store.NewInventoryStore(database.GetDB())
	inventory, err := st.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Inventory retrieved successfully",
		zap.Uint("inventory_id", inventory.ID),
		zap.Uint("product_id", inventory.ProductID))
	return c.JSON(http.StatusOK, inventory)
}

// GetInventoryByProduct retrieves the inventory record for an active product
func GetInventoryByProduct(c echo.Context) error {
	log := logger.FromContext(c)

	productID, err := idFromParam(c, "product_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	ctx := c.Request().Context()
	products := store.NewProductStore(database.GetDB())
	product, err := products.Get(ctx, productID)
	if err != nil {
		return respondError(c, log, err)
	}
	if product.IsDeleted() {
		log.Warn("Product is deleted", zap.Uint("product_id", productID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	st := store.NewInventoryStore(database.GetDB())
	inventory, err := st.GetByProduct(ctx, productID)
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Inventory retrieved by product",
		zap.Uint("inventory_id", inventory.ID),
		zap.Uint("product_id", productID))
	return c.JSON(http.StatusOK, inventory)
}

// CreateInventory creates the stock record for a product
func CreateInventory(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating inventory record")

	var req InventoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("insert")(time.Now())

	st := store.NewInventoryStore(database.GetDB())
	inventory, err := st.Create(c.Request().Context(), store.InventoryCreate{
		ProductID:         req.ProductID,
		Quantity:          req.Quantity,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		return respondError(c, log, err)
	}

	prometheus.RecordInventoryOperation("create")
	prometheus.UpdateProductInventory(inventory.ProductID, inventory.Quantity)
	log.Info("Inventory created successfully",
		zap.Uint("inventory_id", inventory.ID),
		zap.Uint("product_id", inventory.ProductID),
		zap.Int("quantity", inventory.Quantity))
	return c.JSON(http.StatusCreated, inventory)
}

// UpdateInventory applies a partial update to an inventory record
func UpdateInventory(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := idFromParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid inventory id"})
	}
	log.Info("Updating inventory", zap.Uint("inventory_id", id))

	var req InventoryUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint("inventory_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("update")(time.Now())

	st := store.NewInventoryStore(database.GetDB())
	inventory, err := st.Update(c.Request().Context(), id, store.InventoryUpdate{
		Quantity:          req.Quantity,
		LowStockThreshold: req.LowStockThreshold,
		LastRestockDate:   req.LastRestockDate,
	})
	if err != nil {
		return respondError(c, log, err)
	}

	prometheus.RecordInventoryOperation("update")
	prometheus.UpdateProductInventory(inventory.ProductID, inventory.Quantity)
	log.Info("Inventory updated successfully",
		zap.Uint("inventory_id", inventory.ID),
		zap.Int("quantity", inventory.Quantity))
	return c.JSON(http.StatusOK, inventory)
}

// RestockInventory adds stock by inventory ID
func RestockInventory(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := idFromParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid inventory id"})
	}

	var req RestockRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint("inventory_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("update")(time.Now())

	ctx := c.Request().Context()
	st := store.NewInventoryStore(database.GetDB())
	existing, err := st.Get(ctx, id)
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Restocking inventory",
		zap.Uint("inventory_id", id),
		zap.Uint("product_id", existing.ProductID),
		zap.Int("quantity", req.Quantity))

	inventory, err := st.Restock(ctx, existing.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, log, err)
	}

	prometheus.RecordInventoryOperation("restock")
	prometheus.UpdateProductInventory(inventory.ProductID, inventory.Quantity)
	log.Info("Inventory restocked successfully",
		zap.Uint("inventory_id", inventory.ID),
		zap.Int("quantity", inventory.Quantity))
	return c.JSON(http.StatusOK, inventory)
}

// RestockProduct adds stock by product ID
func RestockProduct(c echo.Context) error {
	log := logger.FromContext(c)

	productID, err := idFromParam(c, "product_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var req RestockRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint("product_id", productID), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	log.Info("Restocking product",
		zap.Uint("product_id", productID),
		zap.Int("quantity", req.Quantity))

	// Track DB operations
	defer prometheus.TrackDBOperation("update")(time.Now())

	st := store.NewInventoryStore(database.GetDB())
	inventory, err := st.Restock(c.Request().Context(), productID, req.Quantity)
	if err != nil {
		return respondError(c, log, err)
	}

	prometheus.RecordInventoryOperation("restock")
	prometheus.UpdateProductInventory(inventory.ProductID, inventory.Quantity)
	log.Info("Product restocked successfully",
		zap.Uint("product_id", productID),
		zap.Int("quantity", inventory.Quantity))
	return c.JSON(http.StatusOK, inventory)
}
