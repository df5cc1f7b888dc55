package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"inventory-service/internal/model"
)

// ProductStore owns the product soft-delete lifecycle. The category reference
// is validated at create/move time only: deleting a category later does not
// retroactively invalidate products that point at it.
type ProductStore struct {
	db *gorm.DB
}

func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

// ProductCreate holds the fields accepted when creating a product.
type ProductCreate struct {
	Name        string
	Description string
	SKU         string
	Price       float64
	CategoryID  uint
}

// ProductUpdate holds optional fields for a partial update; nil means
// "leave unchanged".
type ProductUpdate struct {
	Name        *string
	Description *string
	SKU         *string
	Price       *float64
	CategoryID  *uint
}

func (s *ProductStore) Create(ctx context.Context, in ProductCreate) (*model.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, validationf("product name must not be empty")
	}
	if strings.TrimSpace(in.SKU) == "" {
		return nil, validationf("product sku must not be empty")
	}
	if in.Price <= 0 {
		return nil, validationf("product price must be positive")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("sku = ? AND deleted_at IS NULL", in.SKU).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, conflictf("product with sku %q already exists", in.SKU)
	}

	var category model.Category
	err := s.db.WithContext(ctx).First(&category, in.CategoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalidReferencef("category %d does not exist", in.CategoryID)
	}
	if err != nil {
		return nil, err
	}
	if category.IsDeleted() {
		return nil, invalidReferencef("cannot create product in deleted category %d, restore the category first", in.CategoryID)
	}

	product := model.Product{
		Name:        in.Name,
		Description: in.Description,
		SKU:         in.SKU,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Get returns the product regardless of deletion state; filtering on DeletedAt
// is the caller's responsibility, mirroring CategoryStore.Get.
func (s *ProductStore) Get(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("product %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductStore) ListActive(ctx context.Context, page Page) ([]model.Product, error) {
	var products []model.Product
	err := page.apply(s.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("id")).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductStore) ListDeleted(ctx context.Context, page Page) ([]model.Product, error) {
	var products []model.Product
	err := page.apply(s.db.WithContext(ctx).
		Where("deleted_at IS NOT NULL").
		Order("id")).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// ListByCategory returns active products in an active category. A missing or
// deleted category is NotFound.
func (s *ProductStore) ListByCategory(ctx context.Context, categoryID uint, page Page) ([]model.Product, error) {
	var category model.Category
	err := s.db.WithContext(ctx).First(&category, categoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("category %d not found", categoryID)
	}
	if err != nil {
		return nil, err
	}
	if category.IsDeleted() {
		return nil, notFoundf("category %d not found", categoryID)
	}

	var products []model.Product
	err = page.apply(s.db.WithContext(ctx).
		Where("category_id = ? AND deleted_at IS NULL", categoryID).
		Order("id")).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// ProductWithInventory is a product merged with its stock record for the
// combined listing.
type ProductWithInventory struct {
	model.Product
	InventoryQuantity int  `json:"inventory_quantity"`
	LowStockThreshold int  `json:"low_stock_threshold"`
	IsLowStock        bool `json:"is_low_stock"`
}

// ListActiveWithInventory returns active products merged with their inventory
// quantity and threshold. Products that have no inventory record yet are
// skipped, so the result may be shorter than the requested page.
func (s *ProductStore) ListActiveWithInventory(ctx context.Context, page Page) ([]ProductWithInventory, error) {
	products, err := s.ListActive(ctx, page)
	if err != nil {
		return nil, err
	}

	result := make([]ProductWithInventory, 0, len(products))
	for _, product := range products {
		var inventory model.Inventory
		err := s.db.WithContext(ctx).Where("product_id = ?", product.ID).First(&inventory).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		result = append(result, ProductWithInventory{
			Product:           product,
			InventoryQuantity: inventory.Quantity,
			LowStockThreshold: inventory.LowStockThreshold,
			IsLowStock:        inventory.IsLowStock,
		})
	}
	return result, nil
}

// SearchByName is a case-insensitive containment match over active products.
func (s *ProductStore) SearchByName(ctx context.Context, query string, page Page) ([]model.Product, error) {
	var products []model.Product
	pattern := "%" + strings.ToLower(query) + "%"
	err := page.apply(s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? AND deleted_at IS NULL", pattern).
		Order("id")).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Update applies a partial field update and refreshes UpdatedAt. Supplying a
// new CategoryID re-validates the category: missing is InvalidReference,
// deleted is InvalidState.
func (s *ProductStore) Update(ctx context.Context, id uint, in ProductUpdate) (*model.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.IsDeleted() {
		return nil, invalidStatef("cannot update deleted product %d, restore it first", id)
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, validationf("product name must not be empty")
		}
		updates["name"] = *in.Name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.SKU != nil {
		if strings.TrimSpace(*in.SKU) == "" {
			return nil, validationf("product sku must not be empty")
		}
		if *in.SKU != product.SKU {
			var count int64
			if err := s.db.WithContext(ctx).Model(&model.Product{}).
				Where("sku = ? AND id != ? AND deleted_at IS NULL", *in.SKU, id).
				Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, conflictf("product with sku %q already exists", *in.SKU)
			}
		}
		updates["sku"] = *in.SKU
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, validationf("product price must be positive")
		}
		updates["price"] = *in.Price
	}
	if in.CategoryID != nil {
		var category model.Category
		err := s.db.WithContext(ctx).First(&category, *in.CategoryID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidReferencef("category %d does not exist", *in.CategoryID)
		}
		if err != nil {
			return nil, err
		}
		if category.IsDeleted() {
			return nil, invalidStatef("cannot move product to deleted category %d, restore the category first", *in.CategoryID)
		}
		updates["category_id"] = *in.CategoryID
	}
	if len(updates) == 0 {
		return product, nil
	}

	if err := s.db.WithContext(ctx).Model(product).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes the product without touching UpdatedAt. Inventory and
// sales referencing the product are left in place; listings and reports filter
// them out at query time.
func (s *ProductStore) Delete(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.IsDeleted() {
		return nil, notFoundf("product %d already deleted", id)
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(product).
		UpdateColumn("deleted_at", now).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Restore clears DeletedAt without touching UpdatedAt.
func (s *ProductStore) Restore(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsDeleted() {
		return nil, invalidStatef("product %d is not deleted", id)
	}

	if err := s.db.WithContext(ctx).Model(product).
		UpdateColumn("deleted_at", nil).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}
