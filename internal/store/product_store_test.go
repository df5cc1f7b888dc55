package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductStore_CreateRejectsDuplicateActiveSKU(t *testing.T) {
	db := newTestDB(t)
	st := NewProductStore(db)
	ctx := context.Background()

	category := createCategory(t, db, "Books")
	createProduct(t, db, category.ID, "SKU-1")

	_, err := st.Create(ctx, ProductCreate{
		Name: "Another", SKU: "SKU-1", Price: 5.0, CategoryID: category.ID,
	})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestProductStore_DeletedSKUCanBeReused(t *testing.T) {
	db := newTestDB(t)
	st := NewProductStore(db)
	ctx := context.Background()

	category := createCategory(t, db, "Books")
	product := createProduct(t, db, category.ID, "SKU-1")

	_, err := st.Delete(ctx, product.ID)
	require.NoError(t, err)

	replacement, err := st.Create(ctx, ProductCreate{
		Name: "Replacement", SKU: "SKU-1", Price: 5.0, CategoryID: category.ID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, product.ID, replacement.ID)
}

func TestProductStore_CreateValidation(t *testing.T) {
	db := newTestDB(t)
	st := NewProductStore(db)
	ctx := context.Background()

	category := createCategory(t, db, "Books")

	_, err := st.Create(ctx, ProductCreate{Name: "", SKU: "S", Price: 1, CategoryID: category.ID})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = st.Create(ctx, ProductCreate{Name: "N", SKU: " ", Price: 1, CategoryID: category.ID})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = st.Create(ctx, ProductCreate{Name: "N", SKU: "S", Price: 0, CategoryID: category.ID})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = st.Create(ctx, ProductCreate{Name: "N", SKU: "S", Price: -4.5, CategoryID: category.ID})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestProductStore_CreateCategoryReference(t *testing.T) {
	db := newTestDB(t)
	products := NewProductStore(db)
	categories := NewCategoryStore(db)
	ctx := context.Background()

	_, err := products.Create(ctx, ProductCreate{Name: "N", SKU: "S-1", Price: 1, CategoryID: 999})
	require.Error(t, err)
	assert.Equal(t, KindInvalidReference, KindOf(err))

	category := createCategory(t, db, "Books")
	_, err = categories.Delete(ctx, category.ID)
	require.NoError(t, err)

	_, err = products.Create(ctx, ProductCreate{Name: "N", SKU: "S-1", Price: 1, CategoryID: category.ID})
	require.Error(t, err)
	assert.Equal(t, KindInvalidReference, KindOf(err))
}

func TestProductStore_UpdateCategoryReference(t *testing.T) {
	db := newTestDB(t)
	products := NewProductStore(db)
	categories := NewCategoryStore(db)
	ctx := context.Background()

	books := createCategory(t, db, "Books")
	games := createCategory(t, db, "Games")
	product := createProduct(t, db, books.ID, "SKU-1")

	// Moving to a missing category is a reference error.
	_, err := products.Update(ctx, product.ID, ProductUpdate{CategoryID: uintPtr(999)})
	require.Error(t, err)
	assert.Equal(t, KindInvalidReference, KindOf(err))

	// Moving to a soft-deleted category is a state error.
	_, err = categories.Delete(ctx, games.ID)
	require.NoError(t, err)
	_, err = products.Update(ctx, product.ID, ProductUpdate{CategoryID: uintPtr(games.ID)})
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))

	// The product keeps its original category after both failures.
	unchanged, err := products.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, books.ID, unchanged.CategoryID)
}

func TestProductStore_UpdateDeletedProduct(t *testing.T) {
	db := newTestDB(t)
	st := NewProductStore(db)
	ctx := context.Background()

	category := createCategory(t, db, "Books")
	product := createProduct(t, db, category.ID, "SKU-1")
	_, err := st.Delete(ctx, product.ID)
	require.NoError(t, err)

	_, err = st.Update(ctx, product.ID, ProductUpdate{Price: floatPtr(20)})
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestProductStore_UpdateSKUConflict(t *testing.T) {
	db := newTestDB(t)
	st := NewProductStore(db)
	ctx := context.Background()

	category := createCategory(t, db, "Books")
	createProduct(t, db, category.ID, "SKU-1")
	other := createProduct(t, db, category.ID, "SKU-2")

	_, err := st.Update(ctx, other.ID, ProductUpdate{SKU: strPtr("SKU-1")})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	// Re-submitting its own SKU is not a conflict.
	updated, err := st.Update(ctx, other.ID, ProductUpdate{SKU: strPtr("SKU-2"), Price: floatPtr(12.5)})
	require.NoError(t, err)
	assert.Equal(t, "SKU-2", updated.SKU)
	assert.InDelta(t, 12.5, updated.Price, 0.001)
}

func TestProductStore_DeleteAndRestorePreserveUpdatedAt(t *testing.T) {
	db := newTestDB(t)
	st := NewProductStore(db)
	ctx := context.Background()

	category := createCategory(t, db, "Books")
	product := createProduct(t, db, category.ID, "SKU-1")

	before, err := st.Get(ctx, product.ID)
	require.NoError(t, err)

	deleted, err := st.Delete(ctx, product.ID)
	require.NoError(t, err)
	assert.NotNil(t, deleted.DeletedAt)
	assert.True(t, deleted.UpdatedAt.Equal(before.UpdatedAt))

	restored, err := st.Restore(ctx, product.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	assert.True(t, restored.UpdatedAt.Equal(before.UpdatedAt))
}

func TestProductStore_RestoreNotDeleted(t *testing.T) {
	db := newTestDB(t)
	st := NewProductStore(db)

	category := createCategory(t, db, "Books")
	product := createProduct(t, db, category.ID, "SKU-1")

	_, err := st.Restore(context.Background(), product.ID)
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestProductStore_ListByCategory(t *testing.T) {
	db := newTestDB(t)
	products := NewProductStore(db)
	categories := NewCategoryStore(db)
	ctx := context.Background()

	books := createCategory(t, db, "Books")
	games := createCategory(t, db, "Games")
	createProduct(t, db, books.ID, "B-1")
	b2 := createProduct(t, db, books.ID, "B-2")
	createProduct(t, db, games.ID, "G-1")

	listed, err := products.ListByCategory(ctx, books.ID, Page{})
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	// Soft-deleted products drop out of the category listing.
	_, err = products.Delete(ctx, b2.ID)
	require.NoError(t, err)
	listed, err = products.ListByCategory(ctx, books.ID, Page{})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	_, err = products.ListByCategory(ctx, 999, Page{})
	assert.Equal(t, KindNotFound, KindOf(err))

	// A deleted category behaves as missing.
	_, err = NewProductStore(db).Delete(ctx, listed[0].ID)
	require.NoError(t, err)
	_, err = categories.Delete(ctx, books.ID)
	require.NoError(t, err)
	_, err = products.ListByCategory(ctx, books.ID, Page{})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestProductStore_ListActiveWithInventory(t *testing.T) {
	db := newTestDB(t)
	st := NewProductStore(db)
	ctx := context.Background()

	category := createCategory(t, db, "Books")
	stocked := createProduct(t, db, category.ID, "SKU-1")
	low := createProduct(t, db, category.ID, "SKU-2")
	bare := createProduct(t, db, category.ID, "SKU-3")
	deleted := createProduct(t, db, category.ID, "SKU-4")

	createInventory(t, db, stocked.ID, 50, 5)
	createInventory(t, db, low.ID, 2, 5)
	createInventory(t, db, deleted.ID, 10, 5)
	_, err := st.Delete(ctx, deleted.ID)
	require.NoError(t, err)

	merged, err := st.ListActiveWithInventory(ctx, Page{})
	require.NoError(t, err)
	require.Len(t, merged, 2, "no-inventory and deleted products are omitted")

	assert.Equal(t, stocked.ID, merged[0].ID)
	assert.Equal(t, "SKU-1", merged[0].SKU)
	assert.Equal(t, 50, merged[0].InventoryQuantity)
	assert.Equal(t, 5, merged[0].LowStockThreshold)
	assert.False(t, merged[0].IsLowStock)

	assert.Equal(t, low.ID, merged[1].ID)
	assert.Equal(t, 2, merged[1].InventoryQuantity)
	assert.True(t, merged[1].IsLowStock)

	for _, m := range merged {
		assert.NotEqual(t, bare.ID, m.ID)
		assert.NotEqual(t, deleted.ID, m.ID)
	}
}

func TestProductStore_SearchByNameCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	st := NewProductStore(db)
	ctx := context.Background()

	category := createCategory(t, db, "Electronics")

	_, err := st.Create(ctx, ProductCreate{Name: "Wireless Mouse", SKU: "WM-1", Price: 25, CategoryID: category.ID})
	require.NoError(t, err)
	_, err = st.Create(ctx, ProductCreate{Name: "USB Keyboard", SKU: "KB-1", Price: 40, CategoryID: category.ID})
	require.NoError(t, err)
	gaming, err := st.Create(ctx, ProductCreate{Name: "Gaming MOUSE Pad", SKU: "MP-1", Price: 12, CategoryID: category.ID})
	require.NoError(t, err)

	results, err := st.SearchByName(ctx, "mouse", Page{})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = st.SearchByName(ctx, "MoUsE", Page{})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// Deleted products are excluded from search.
	_, err = st.Delete(ctx, gaming.ID)
	require.NoError(t, err)
	results, err = st.SearchByName(ctx, "mouse", Page{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Wireless Mouse", results[0].Name)
}
