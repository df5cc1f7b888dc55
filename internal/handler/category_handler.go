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

// CategoryRequest defines the structure for category creation requests
type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// CategoryUpdateRequest defines the structure for category update requests;
// absent fields are left unchanged
type CategoryUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// ListCategories retrieves all active categories
func ListCategories(c echo.Context) error {
	log := logger.FromContext(c)

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	st := store.NewCategoryStore(database.GetDB())
	categories, err := st.ListActive(c.Request().Context(), pageFromQuery(c))
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Categories retrieved successfully", zap.Int("count", len(categories)))
	return c.JSON(http.StatusOK, categories)
}

// ListDeletedCategories retrieves all soft-deleted categories
func ListDeletedCategories(c echo.Context) error {
	log := logger.FromContext(c)

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	st := store.NewCategoryStore(database.GetDB())
	categories, err := st.ListDeleted(c.Request().Context(), pageFromQuery(c))
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Deleted categories retrieved", zap.Int("count", len(categories)))
	return c.JSON(http.StatusOK, categories)
}

// GetCategory retrieves a specific category by ID
func GetCategory(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := idFromParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("query")(time.Now())

	st := store.NewCategoryStore(database.GetDB())
	category, err := st.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, log, err)
	}
	// Deletion-state filtering is the boundary's call: a deleted category is
	// not part of the public catalog.
	if category.IsDeleted() {
		log.Warn("Category is deleted", zap.Uint("category_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
	}

	log.Info("Category retrieved successfully",
		zap.Uint("category_id", category.ID),
		zap.String("category_name", category.Name))
	return c.JSON(http.StatusOK, category)
}

// CreateCategory adds a new category
func CreateCategory(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new category")

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("insert")(time.Now())

	st := store.NewCategoryStore(database.GetDB())
	category, err := st.Create(c.Request().Context(), store.CategoryCreate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, log, err)
	}

	prometheus.RecordCategoryOperation("create")
	log.Info("Category created successfully",
		zap.Uint("category_id", category.ID),
		zap.String("name", category.Name))
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory updates an existing category
func UpdateCategory(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := idFromParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}
	log.Info("Updating category", zap.Uint("category_id", id))

	var req CategoryUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint("category_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	// Track DB operations
	defer prometheus.TrackDBOperation("update")(time.Now())

	st := store.NewCategoryStore(database.GetDB())
	category, err := st.Update(c.Request().Context(), id, store.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, log, err)
	}

	prometheus.RecordCategoryOperation("update")
	log.Info("Category updated successfully",
		zap.Uint("category_id", category.ID),
		zap.String("name", category.Name))
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory soft-deletes a category; blocked while active products
// still reference it
func DeleteCategory(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := idFromParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}
	log.Info("Deleting category", zap.Uint("category_id", id))

	// Track DB operations
	defer prometheus.TrackDBOperation("delete")(time.Now())

	st := store.NewCategoryStore(database.GetDB())
	category, err := st.Delete(c.Request().Context(), id)
	if err != nil {
		return respondError(c, log, err)
	}

	prometheus.RecordCategoryOperation("delete")
	log.Info("Category deleted successfully", zap.Uint("category_id", category.ID))
	return c.JSON(http.StatusOK, category)
}

// RestoreCategory restores a previously deleted category
func RestoreCategory(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := idFromParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}
	log.Info("Restoring category", zap.Uint("category_id", id))

	// Track DB operations
	defer prometheus.TrackDBOperation("update")(time.Now())

	st := store.NewCategoryStore(database.GetDB())
	category, err := st.Restore(c.Request().Context(), id)
	if err != nil {
		return respondError(c, log, err)
	}

	prometheus.RecordCategoryOperation("restore")
	log.Info("Category restored successfully", zap.Uint("category_id", category.ID))
	return c.JSON(http.StatusOK, category)
}
