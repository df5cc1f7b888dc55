package model

import (
	"time"

	"gorm.io/gorm"
)

// Inventory is the stock record for a product, at most one per product across
// all time. It has no soft-delete of its own; its lifetime follows the product.
type Inventory struct {
	ID                uint       `json:"id" gorm:"primarykey"`
	ProductID         uint       `json:"product_id" gorm:"not null;uniqueIndex"`
	Quantity          int        `json:"quantity" gorm:"not null;default:0"`
	LowStockThreshold int        `json:"low_stock_threshold" gorm:"not null;default:10"`
	LastRestockDate   *time.Time `json:"last_restock_date"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// IsLowStock is derived from Quantity and LowStockThreshold; it is not a
	// stored column.
	IsLowStock bool `json:"is_low_stock" gorm:"-"`
}

// AfterFind recomputes the derived low-stock flag on every read.
func (i *Inventory) AfterFind(tx *gorm.DB) error {
	i.IsLowStock = i.Quantity <= i.LowStockThreshold
	return nil
}

// AfterCreate keeps the derived flag consistent on freshly inserted rows.
func (i *Inventory) AfterCreate(tx *gorm.DB) error {
	i.IsLowStock = i.Quantity <= i.LowStockThreshold
	return nil
}
