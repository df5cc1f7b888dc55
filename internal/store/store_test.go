package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"inventory-service/internal/model"
)

// newTestDB opens an in-memory SQLite database with the full schema. The pool
// is pinned to a single connection so every query sees the same memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.Inventory{},
		&model.Sale{},
	))
	return db
}

func createCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()
	category, err := NewCategoryStore(db).Create(context.Background(), CategoryCreate{Name: name})
	require.NoError(t, err)
	return category
}

func createProduct(t *testing.T, db *gorm.DB, categoryID uint, sku string) *model.Product {
	t.Helper()
	product, err := NewProductStore(db).Create(context.Background(), ProductCreate{
		Name:       "Product " + sku,
		SKU:        sku,
		Price:      10.0,
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	return product
}

func createInventory(t *testing.T, db *gorm.DB, productID uint, quantity, threshold int) *model.Inventory {
	t.Helper()
	inventory, err := NewInventoryStore(db).Create(context.Background(), InventoryCreate{
		ProductID:         productID,
		Quantity:          quantity,
		LowStockThreshold: threshold,
	})
	require.NoError(t, err)
	return inventory
}

func recordSale(t *testing.T, db *gorm.DB, productID uint, quantity int, totalPrice float64, platform string, saleDate time.Time) *model.Sale {
	t.Helper()
	sale, err := NewSaleStore(db).Record(context.Background(), SaleCreate{
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  totalPrice / float64(quantity),
		TotalPrice: totalPrice,
		Platform:   platform,
		OrderID:    "ORD-TEST",
		SaleDate:   &saleDate,
	})
	require.NoError(t, err)
	return sale
}

func strPtr(s string) *string    { return &s }
func intPtr(i int) *int          { return &i }
func uintPtr(u uint) *uint       { return &u }
func floatPtr(f float64) *float64 { return &f }
