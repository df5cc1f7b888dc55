package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"inventory-service/internal/model"
)

// DefaultLowStockThreshold is used when a caller creates inventory without an
// explicit threshold.
const DefaultLowStockThreshold = 10

// InventoryStore manages the one-to-one stock record per product. AdjustStock
// is the single mutation primitive shared by the restock path and the sale
// decrement path.
type InventoryStore struct {
	db *gorm.DB
}

func NewInventoryStore(db *gorm.DB) *InventoryStore {
	return &InventoryStore{db: db}
}

// InventoryCreate holds the fields accepted when creating an inventory record.
// A zero LowStockThreshold means "use the default".
type InventoryCreate struct {
	ProductID         uint
	Quantity          int
	LowStockThreshold int
}

// InventoryUpdate holds optional fields for a partial update; nil means
// "leave unchanged".
type InventoryUpdate struct {
	Quantity          *int
	LowStockThreshold *int
	LastRestockDate   *time.Time
}

func (s *InventoryStore) Create(ctx context.Context, in InventoryCreate) (*model.Inventory, error) {
	if in.Quantity < 0 {
		return nil, validationf("inventory quantity must not be negative")
	}
	if in.LowStockThreshold == 0 {
		in.LowStockThreshold = DefaultLowStockThreshold
	}
	if in.LowStockThreshold < 1 {
		return nil, validationf("low stock threshold must be at least 1")
	}

	var product model.Product
	err := s.db.WithContext(ctx).First(&product, in.ProductID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalidReferencef("product %d does not exist", in.ProductID)
	}
	if err != nil {
		return nil, err
	}
	if product.IsDeleted() {
		return nil, invalidReferencef("cannot create inventory for deleted product %d", in.ProductID)
	}

	// One inventory row per product, ever, deleted products included.
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Inventory{}).
		Where("product_id = ?", in.ProductID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, conflictf("inventory already exists for product %d", in.ProductID)
	}

	inventory := model.Inventory{
		ProductID:         in.ProductID,
		Quantity:          in.Quantity,
		LowStockThreshold: in.LowStockThreshold,
	}
	if err := s.db.WithContext(ctx).Create(&inventory).Error; err != nil {
		return nil, err
	}
	return &inventory, nil
}

func (s *InventoryStore) Get(ctx context.Context, id uint) (*model.Inventory, error) {
	var inventory model.Inventory
	err := s.db.WithContext(ctx).First(&inventory, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("inventory %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &inventory, nil
}

func (s *InventoryStore) GetByProduct(ctx context.Context, productID uint) (*model.Inventory, error) {
	var inventory model.Inventory
	err := s.db.WithContext(ctx).Where("product_id = ?", productID).First(&inventory).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("inventory not found for product %d", productID)
	}
	if err != nil {
		return nil, err
	}
	return &inventory, nil
}

func (s *InventoryStore) List(ctx context.Context, page Page) ([]model.Inventory, error) {
	var items []model.Inventory
	err := page.apply(s.db.WithContext(ctx).Order("id")).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListLowStock returns rows at or below their threshold, independent of any
// product-deletion filter.
func (s *InventoryStore) ListLowStock(ctx context.Context, page Page) ([]model.Inventory, error) {
	var items []model.Inventory
	err := page.apply(s.db.WithContext(ctx).
		Where("quantity <= low_stock_threshold").
		Order("id")).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Update applies a partial update of quantity, threshold or last restock date.
func (s *InventoryStore) Update(ctx context.Context, id uint, in InventoryUpdate) (*model.Inventory, error) {
	inventory, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, validationf("inventory quantity must not be negative")
		}
		updates["quantity"] = *in.Quantity
	}
	if in.LowStockThreshold != nil {
		if *in.LowStockThreshold < 1 {
			return nil, validationf("low stock threshold must be at least 1")
		}
		updates["low_stock_threshold"] = *in.LowStockThreshold
	}
	if in.LastRestockDate != nil {
		updates["last_restock_date"] = *in.LastRestockDate
	}
	if len(updates) == 0 {
		return inventory, nil
	}

	if err := s.db.WithContext(ctx).Model(inventory).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// AdjustStock atomically applies quantity += delta in place, so concurrent
// adjustments never lose updates. It does not clamp: callers decrementing must
// pre-validate that the result stays non-negative (the sale path additionally
// guards the decrement inside its transaction).
func (s *InventoryStore) AdjustStock(ctx context.Context, productID uint, delta int, isRestock bool) (*model.Inventory, error) {
	updates := map[string]interface{}{
		"quantity": gorm.Expr("quantity + ?", delta),
	}
	if isRestock && delta > 0 {
		updates["last_restock_date"] = time.Now()
	}

	res := s.db.WithContext(ctx).Model(&model.Inventory{}).
		Where("product_id = ?", productID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, notFoundf("inventory not found for product %d", productID)
	}
	return s.GetByProduct(ctx, productID)
}

// Restock adds stock to an active product's inventory and stamps
// LastRestockDate.
func (s *InventoryStore) Restock(ctx context.Context, productID uint, quantity int) (*model.Inventory, error) {
	if quantity <= 0 {
		return nil, validationf("quantity must be positive for restocking")
	}

	var product model.Product
	err := s.db.WithContext(ctx).First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("product %d not found", productID)
	}
	if err != nil {
		return nil, err
	}
	if product.IsDeleted() {
		return nil, invalidStatef("cannot restock deleted product %d", productID)
	}

	return s.AdjustStock(ctx, productID, quantity, true)
}
