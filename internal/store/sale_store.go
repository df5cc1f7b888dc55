package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"inventory-service/internal/model"
)

// SaleStore records sales and serves the sale listings. Recording a sale and
// decrementing inventory commit or roll back together; a sale must never be
// persisted without its stock decrement.
type SaleStore struct {
	db *gorm.DB
}

func NewSaleStore(db *gorm.DB) *SaleStore {
	return &SaleStore{db: db}
}

// SaleCreate holds the fields accepted when recording a sale. TotalPrice is
// taken as-is and never checked against UnitPrice*Quantity. A nil SaleDate
// defaults to the time of recording.
type SaleCreate struct {
	ProductID  uint
	Quantity   int
	UnitPrice  float64
	TotalPrice float64
	Platform   string
	OrderID    string
	SaleDate   *time.Time
}

// SaleUpdate holds optional fields for the generic sale update; nil means
// "leave unchanged". It does not touch inventory.
type SaleUpdate struct {
	Quantity   *int
	UnitPrice  *float64
	TotalPrice *float64
	SaleDate   *time.Time
	Platform   *string
	OrderID    *string
}

// Record validates the product and stock, then inserts the sale and decrements
// inventory in a single transaction. The decrement is guarded with
// "quantity >= ?" so two racing sales cannot both pass the stock check and
// drive the quantity negative; the loser rolls back with InsufficientStock.
func (s *SaleStore) Record(ctx context.Context, in SaleCreate) (*model.Sale, error) {
	if in.Quantity <= 0 {
		return nil, validationf("sale quantity must be positive")
	}
	if in.UnitPrice <= 0 {
		return nil, validationf("sale unit price must be positive")
	}
	if in.TotalPrice <= 0 {
		return nil, validationf("sale total price must be positive")
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
		return nil, invalidStatef("cannot record sale for deleted product %d", in.ProductID)
	}

	var inventory model.Inventory
	err = s.db.WithContext(ctx).Where("product_id = ?", in.ProductID).First(&inventory).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalidReferencef("no inventory found for product %d", in.ProductID)
	}
	if err != nil {
		return nil, err
	}
	if inventory.Quantity < in.Quantity {
		return nil, insufficientStockf("insufficient stock for product %d: available %d, requested %d",
			in.ProductID, inventory.Quantity, in.Quantity)
	}

	saleDate := time.Now()
	if in.SaleDate != nil {
		saleDate = *in.SaleDate
	}
	sale := model.Sale{
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		UnitPrice:  in.UnitPrice,
		TotalPrice: in.TotalPrice,
		SaleDate:   saleDate,
		Platform:   in.Platform,
		OrderID:    in.OrderID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}
		res := tx.Model(&model.Inventory{}).
			Where("product_id = ? AND quantity >= ?", in.ProductID, in.Quantity).
			Updates(map[string]interface{}{
				"quantity": gorm.Expr("quantity - ?", in.Quantity),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Stock was consumed by a concurrent sale between the check above
			// and this decrement; abort so the sale insert rolls back too.
			return insufficientStockf("insufficient stock for product %d: requested %d",
				in.ProductID, in.Quantity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (s *SaleStore) Get(ctx context.Context, id uint) (*model.Sale, error) {
	var sale model.Sale
	err := s.db.WithContext(ctx).First(&sale, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("sale %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// Update is the generic field update for a sale record. It deliberately does
// not recompute inventory; corrections to stock go through InventoryStore.
func (s *SaleStore) Update(ctx context.Context, id uint, in SaleUpdate) (*model.Sale, error) {
	sale, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Quantity != nil {
		if *in.Quantity <= 0 {
			return nil, validationf("sale quantity must be positive")
		}
		updates["quantity"] = *in.Quantity
	}
	if in.UnitPrice != nil {
		if *in.UnitPrice <= 0 {
			return nil, validationf("sale unit price must be positive")
		}
		updates["unit_price"] = *in.UnitPrice
	}
	if in.TotalPrice != nil {
		if *in.TotalPrice <= 0 {
			return nil, validationf("sale total price must be positive")
		}
		updates["total_price"] = *in.TotalPrice
	}
	if in.SaleDate != nil {
		updates["sale_date"] = *in.SaleDate
	}
	if in.Platform != nil {
		updates["platform"] = *in.Platform
	}
	if in.OrderID != nil {
		updates["order_id"] = *in.OrderID
	}
	if len(updates) == 0 {
		return sale, nil
	}

	if err := s.db.WithContext(ctx).Model(sale).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// visible scopes sale queries to sales whose product is currently non-deleted.
// This is a live view re-evaluated at query time: deleting a product hides its
// sales, restoring it brings them back.
func (s *SaleStore) visible(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&model.Sale{}).
		Joins("JOIN products ON products.id = sales.product_id").
		Where("products.deleted_at IS NULL")
}

func (s *SaleStore) List(ctx context.Context, page Page) ([]model.Sale, error) {
	var sales []model.Sale
	err := page.apply(s.visible(ctx).Order("sales.sale_date DESC")).Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (s *SaleStore) ListByProduct(ctx context.Context, productID uint, page Page) ([]model.Sale, error) {
	var sales []model.Sale
	err := page.apply(s.visible(ctx).
		Where("sales.product_id = ?", productID).
		Order("sales.sale_date DESC")).
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (s *SaleStore) ListByPlatform(ctx context.Context, platform string, page Page) ([]model.Sale, error) {
	var sales []model.Sale
	err := page.apply(s.visible(ctx).
		Where("sales.platform = ?", platform).
		Order("sales.sale_date DESC")).
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

// ListByDateRange returns sales with sale_date in [start, end], both inclusive.
func (s *SaleStore) ListByDateRange(ctx context.Context, start, end time.Time, page Page) ([]model.Sale, error) {
	var sales []model.Sale
	err := page.apply(s.visible(ctx).
		Where("sales.sale_date >= ? AND sales.sale_date <= ?", start, end).
		Order("sales.sale_date DESC")).
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}
