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

// GetSalesSummary returns sale totals plus the per-platform breakdown for an
// optional date range
func GetSalesSummary(c echo.Context) error {
	log := logger.FromContext(c)

	start, end, err := dateRangeFromQuery(c)
	if err != nil {
		log.Warn("Invalid date parameter", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be in YYYY-MM-DD format"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	st := store.NewReportStore(database.GetDB())
	summary, err := st.SummaryWithPlatforms(c.Request().Context(), start, end)
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Sales summary computed",
		zap.Int64("total_sales", summary.TotalSales),
		zap.Float64("total_revenue", summary.TotalRevenue),
		zap.Int("platforms", len(summary.SalesByPlatform)))
	return c.JSON(http.StatusOK, summary)
}

// GetSalesByPeriod returns sales bucketed by calendar period
func GetSalesByPeriod(c echo.Context) error {
	log := logger.FromContext(c)

	periodType := c.QueryParam("period_type")

	startParam := c.QueryParam("start_date")
	endParam := c.QueryParam("end_date")
	if startParam == "" || endParam == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date and end_date are required"})
	}
	startDate, err := parseDate(startParam)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be in YYYY-MM-DD format"})
	}
	endDate, err := parseDate(endParam)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be in YYYY-MM-DD format"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	st := store.NewReportStore(database.GetDB())
	buckets, err := st.ByPeriod(c.Request().Context(), periodType, startOfDay(startDate), endOfDay(endDate))
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Sales by period computed",
		zap.String("period_type", periodType),
		zap.Int("buckets", len(buckets)))
	return c.JSON(http.StatusOK, buckets)
}

// GetSalesByCategory returns sales aggregated per category
func GetSalesByCategory(c echo.Context) error {
	log := logger.FromContext(c)

	start, end, err := dateRangeFromQuery(c)
	if err != nil {
		log.Warn("Invalid date parameter", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be in YYYY-MM-DD format"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	st := store.NewReportStore(database.GetDB())
	result, err := st.ByCategory(c.Request().Context(), start, end)
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Sales by category computed", zap.Int("categories", len(result)))
	return c.JSON(http.StatusOK, result)
}

// GetSalesByPlatform returns sales aggregated per platform
func GetSalesByPlatform(c echo.Context) error {
	log := logger.FromContext(c)

	start, end, err := dateRangeFromQuery(c)
	if err != nil {
		log.Warn("Invalid date parameter", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be in YYYY-MM-DD format"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	st := store.NewReportStore(database.GetDB())
	result, err := st.ByPlatform(c.Request().Context(), start, end)
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Sales by platform computed", zap.Int("platforms", len(result)))
	return c.JSON(http.StatusOK, result)
}

// ComparePeriods compares sale totals between two date ranges
func ComparePeriods(c echo.Context) error {
	log := logger.FromContext(c)

	names := []string{"period1_start", "period1_end", "period2_start", "period2_end"}
	dates := make([]time.Time, len(names))
	for i, name := range names {
		value := c.QueryParam(name)
		if value == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": name + " is required"})
		}
		d, err := parseDate(value)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be in YYYY-MM-DD format"})
		}
		dates[i] = d
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	st := store.NewReportStore(database.GetDB())
	comparison, err := st.ComparePeriods(c.Request().Context(),
		startOfDay(dates[0]), endOfDay(dates[1]),
		startOfDay(dates[2]), endOfDay(dates[3]),
	)
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Period comparison computed")
	return c.JSON(http.StatusOK, comparison)
}
