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

// SaleRequest defines the structure for sale creation requests. SaleDate is
// optional and defaults to the time of recording.
type SaleRequest struct {
	ProductID  uint       `json:"product_id" validate:"required"`
	Quantity   int        `json:"quantity" validate:"required,gt=0"`
	UnitPrice  float64    `json:"unit_price" validate:"required,gt=0"`
	TotalPrice float64    `json:"total_price" validate:"required,gt=0"`
	Platform   string     `json:"platform" validate:"required"`
	OrderID    string     `json:"order_id" validate:"required"`
	SaleDate   *time.Time `json:"sale_date"`
}

// SaleUpdateRequest defines the structure for generic sale updates; absent
// fields are left unchanged
type SaleUpdateRequest struct {
	Quantity   *int       `json:"quantity"`
	UnitPrice  *float64   `json:"unit_price"`
	TotalPrice *float64   `json:"total_price"`
	SaleDate   *time.Time `json:"sale_date"`
	Platform   *string    `json:"platform"`
	OrderID    *string    `json:"order_id"`
}

// ListSales retrieves sales with optional filtering. Filters are applied in
// priority order: date range, then product, then platform.
func ListSales(c echo.Context) error {
	log := logger.FromContext(c)

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	st := store.NewSaleStore(database.GetDB())
	ctx := c.Request().Context()
	page := pageFromQuery(c)

	start, end, err := dateRangeFromQuery(c)
	if err != nil {
		log.Warn("Invalid date parameter", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be in YYYY-MM-DD format"})
	}

	if start != nil && end != nil {
		sales, err := st.ListByDateRange(ctx, *start, *end, page)
		if err != nil {
			return respondError(c, log, err)
		}
		log.Info("Sales retrieved by date range", zap.Int("count", len(sales)))
		return c.JSON(http.StatusOK, sales)
	}

	if v := c.QueryParam("product_id"); v != "" {
		productID, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product_id"})
		}
		sales, err := st.ListByProduct(ctx, uint(productID), page)
		if err != nil {
			return respondError(c, log, err)
		}
		log.Info("Sales retrieved by product",
			zap.Uint64("product_id", productID),
			zap.Int("count", len(sales)))
		return c.JSON(http.StatusOK, sales)
	}

	if platform := c.QueryParam("platform"); platform != "" {
		sales, err := st.ListByPlatform(ctx, platform, page)
		if err != nil {
			return respondError(c, log, err)
		}
		log.Info("Sales retrieved by platform",
			zap.String("platform", platform),
			zap.Int("count", len(sales)))
		return c.JSON(http.StatusOK, sales)
	}

	sales, err := st.List(ctx, page)
	if err != nil {
		return respondError(c, log, err)
	}
	log.Info("Sales retrieved successfully", zap.Int("count", len(sales)))
	return c.JSON(http.StatusOK, sales)
}

// GetSale retrieves a single sale by ID
func GetSale(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := idFromParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sale id"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	st := store.NewSaleStore(database.GetDB())
	sale, err := st.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Sale retrieved successfully", zap.Uint("sale_id", sale.ID))
	return c.JSON(http.StatusOK, sale)
}

// CreateSale records a sale and decrements inventory atomically
func CreateSale(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Recording new sale")

	var req SaleRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	log.Info("Sale creation request",
		zap.Uint("product_id", req.ProductID),
		zap.Int("quantity", req.Quantity),
		zap.Float64("total_price", req.TotalPrice),
		zap.String("platform", req.Platform),
		zap.String("order_id", req.OrderID))

	// Track DB operations
	defer prometheus.TrackDBOperation("insert")(time.Now())

	ctx := c.Request().Context()
	st := store.NewSaleStore(database.GetDB())
	sale, err := st.Record(ctx, store.SaleCreate{
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		TotalPrice: req.TotalPrice,
		Platform:   req.Platform,
		OrderID:    req.OrderID,
		SaleDate:   req.SaleDate,
	})
	if err != nil {
		return respondError(c, log, err)
	}

	prometheus.RecordSale(sale.Platform, sale.TotalPrice)
	if inventory, err := store.NewInventoryStore(database.GetDB()).GetByProduct(ctx, sale.ProductID); err == nil {
		prometheus.UpdateProductInventory(inventory.ProductID, inventory.Quantity)
	}

	log.Info("Sale recorded successfully",
		zap.Uint("sale_id", sale.ID),
		zap.Uint("product_id", sale.ProductID),
		zap.Int("quantity", sale.Quantity))
	return c.JSON(http.StatusCreated, sale)
}

// UpdateSale applies a generic field update to a sale record
func UpdateSale(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := idFromParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sale id"})
	}
	log.Info("Updating sale", zap.Uint("sale_id", id))

	var req SaleUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint("sale_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("update")(time.Now())

	st := store.NewSaleStore(database.GetDB())
	sale, err := st.Update(c.Request().Context(), id, store.SaleUpdate{
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		TotalPrice: req.TotalPrice,
		SaleDate:   req.SaleDate,
		Platform:   req.Platform,
		OrderID:    req.OrderID,
	})
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Sale updated successfully", zap.Uint("sale_id", sale.ID))
	return c.JSON(http.StatusOK, sale)
}
