package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportStore_SummaryEmpty(t *testing.T) {
	db := newTestDB(t)
	st := NewReportStore(db)

	summary, err := st.Summary(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalSales)
	assert.Zero(t, summary.TotalRevenue)
	assert.Zero(t, summary.AverageOrderValue)
	assert.Zero(t, summary.TotalUnitsSold)
}

func TestReportStore_SummaryTotalsAndBounds(t *testing.T) {
	db := newTestDB(t)
	st := NewReportStore(db)
	ctx := context.Background()

	category := createCategory(t, db, "Books")
	product := createProduct(t, db, category.ID, "SKU-1")
	createInventory(t, db, product.ID, 100, 2)

	jan10 := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	jan20 := time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)
	recordSale(t, db, product.ID, 2, 30.0, "amazon", jan10)
	recordSale(t, db, product.ID, 3, 60.0, "ebay", jan20)

	summary, err := st.Summary(ctx, nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.TotalSales)
	assert.InDelta(t, 90.0, summary.TotalRevenue, 0.001)
	assert.InDelta(t, 45.0, summary.AverageOrderValue, 0.001)
	assert.EqualValues(t, 5, summary.TotalUnitsSold)

	// Bounds are inclusive on both ends.
	summary, err = st.Summary(ctx, &jan10, &jan20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.TotalSales)

	after := jan10.Add(time.Second)
	summary, err = st.Summary(ctx, &after, &jan20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, summary.TotalSales)
	assert.InDelta(t, 60.0, summary.TotalRevenue, 0.001)
}

func TestReportStore_SummaryWithPlatforms(t *testing.T) {
	db := newTestDB(t)
	st := NewReportStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	// Empty set: zero totals and an empty (not nil) breakdown.
	summary, err := st.SummaryWithPlatforms(ctx, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalSales)
	assert.NotNil(t, summary.SalesByPlatform)
	assert.Empty(t, summary.SalesByPlatform)

	category := createCategory(t, db, "Books")
	product := createProduct(t, db, category.ID, "SKU-1")
	createInventory(t, db, product.ID, 100, 2)

	recordSale(t, db, product.ID, 1, 10.0, "amazon", now)
	recordSale(t, db, product.ID, 2, 30.0, "ebay", now)
	recordSale(t, db, product.ID, 1, 5.0, "amazon", now)

	summary, err = st.SummaryWithPlatforms(ctx, nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, summary.TotalSales)
	assert.InDelta(t, 45.0, summary.TotalRevenue, 0.001)
	assert.EqualValues(t, 4, summary.TotalUnitsSold)

	require.Len(t, summary.SalesByPlatform, 2)
	assert.Equal(t, "ebay", summary.SalesByPlatform[0].Platform)
	assert.InDelta(t, 30.0, summary.SalesByPlatform[0].TotalRevenue, 0.001)
	assert.Equal(t, "amazon", summary.SalesByPlatform[1].Platform)
	assert.EqualValues(t, 2, summary.SalesByPlatform[1].SalesCount)
	assert.InDelta(t, 15.0, summary.SalesByPlatform[1].TotalRevenue, 0.001)
}

func TestReportStore_ExcludesDeletedProducts(t *testing.T) {
	db := newTestDB(t)
	reports := NewReportStore(db)
	products := NewProductStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	category := createCategory(t, db, "Books")
	kept := createProduct(t, db, category.ID, "SKU-1")
	doomed := createProduct(t, db, category.ID, "SKU-2")
	createInventory(t, db, kept.ID, 100, 2)
	createInventory(t, db, doomed.ID, 100, 2)

	recordSale(t, db, kept.ID, 1, 10.0, "amazon", now)
	recordSale(t, db, doomed.ID, 1, 90.0, "amazon", now)

	_, err := products.Delete(ctx, doomed.ID)
	require.NoError(t, err)

	summary, err := reports.Summary(ctx, nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, summary.TotalSales)
	assert.InDelta(t, 10.0, summary.TotalRevenue, 0.001)

	// Restoring the product brings its revenue back into the report.
	_, err = products.Restore(ctx, doomed.ID)
	require.NoError(t, err)
	summary, err = reports.Summary(ctx, nil, nil)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, summary.TotalRevenue, 0.001)
}

func TestReportStore_ByPeriodLabels(t *testing.T) {
	db := newTestDB(t)
	st := NewReportStore(db)
	ctx := context.Background()

	category := createCategory(t, db, "Books")
	product := createProduct(t, db, category.ID, "SKU-1")
	createInventory(t, db, product.ID, 100, 2)

	// 2025-01-06 is a Monday, ISO week 2 of 2025.
	jan06 := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	jan07 := time.Date(2025, 1, 7, 10, 0, 0, 0, time.UTC)
	feb01 := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	recordSale(t, db, product.ID, 1, 10.0, "amazon", jan06)
	recordSale(t, db, product.ID, 1, 20.0, "amazon", jan07)
	recordSale(t, db, product.ID, 1, 30.0, "amazon", feb01)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)

	daily, err := st.ByPeriod(ctx, PeriodDay, start, end)
	require.NoError(t, err)
	require.Len(t, daily, 3)
	assert.Equal(t, "2025-01-06", daily[0].Period)
	assert.Equal(t, "2025-01-07", daily[1].Period)
	assert.Equal(t, "2025-02-01", daily[2].Period)

	weekly, err := st.ByPeriod(ctx, PeriodWeek, start, end)
	require.NoError(t, err)
	require.Len(t, weekly, 2)
	assert.Equal(t, "2025-W02", weekly[0].Period)
	assert.EqualValues(t, 2, weekly[0].SalesCount)
	assert.InDelta(t, 30.0, weekly[0].TotalRevenue, 0.001)
	assert.Equal(t, "2025-W05", weekly[1].Period)

	monthly, err := st.ByPeriod(ctx, PeriodMonth, start, end)
	require.NoError(t, err)
	require.Len(t, monthly, 2)
	assert.Equal(t, "2025-01", monthly[0].Period)
	assert.Equal(t, "2025-02", monthly[1].Period)

	yearly, err := st.ByPeriod(ctx, PeriodYear, start, end)
	require.NoError(t, err)
	require.Len(t, yearly, 1)
	assert.Equal(t, "2025", yearly[0].Period)
	assert.EqualValues(t, 3, yearly[0].SalesCount)
	assert.InDelta(t, 60.0, yearly[0].TotalRevenue, 0.001)

	_, err = st.ByPeriod(ctx, "quarter", start, end)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestReportStore_ByCategoryOrdering(t *testing.T) {
	db := newTestDB(t)
	st := NewReportStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	books := createCategory(t, db, "Books")
	games := createCategory(t, db, "Games")
	b := createProduct(t, db, books.ID, "B-1")
	g := createProduct(t, db, games.ID, "G-1")
	createInventory(t, db, b.ID, 100, 2)
	createInventory(t, db, g.ID, 100, 2)

	recordSale(t, db, b.ID, 1, 10.0, "amazon", now)
	recordSale(t, db, g.ID, 1, 50.0, "amazon", now)
	recordSale(t, db, g.ID, 1, 25.0, "ebay", now)

	result, err := st.ByCategory(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Games", result[0].CategoryName)
	assert.EqualValues(t, 2, result[0].SalesCount)
	assert.InDelta(t, 75.0, result[0].TotalRevenue, 0.001)
	assert.Equal(t, "Books", result[1].CategoryName)
}

func TestReportStore_ByPlatformOrdering(t *testing.T) {
	db := newTestDB(t)
	st := NewReportStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	category := createCategory(t, db, "Books")
	product := createProduct(t, db, category.ID, "SKU-1")
	createInventory(t, db, product.ID, 100, 2)

	recordSale(t, db, product.ID, 1, 10.0, "amazon", now)
	recordSale(t, db, product.ID, 1, 40.0, "ebay", now)
	recordSale(t, db, product.ID, 1, 5.0, "amazon", now)

	result, err := st.ByPlatform(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "ebay", result[0].Platform)
	assert.InDelta(t, 40.0, result[0].TotalRevenue, 0.001)
	assert.Equal(t, "amazon", result[1].Platform)
	assert.EqualValues(t, 2, result[1].SalesCount)
	assert.InDelta(t, 15.0, result[1].TotalRevenue, 0.001)
}

func TestReportStore_ComparePeriods(t *testing.T) {
	db := newTestDB(t)
	st := NewReportStore(db)
	ctx := context.Background()

	category := createCategory(t, db, "Books")
	product := createProduct(t, db, category.ID, "SKU-1")
	createInventory(t, db, product.ID, 100, 2)

	jan15 := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	feb15 := time.Date(2025, 2, 15, 12, 0, 0, 0, time.UTC)
	recordSale(t, db, product.ID, 1, 100.0, "amazon", jan15)
	recordSale(t, db, product.ID, 1, 100.0, "amazon", feb15)
	recordSale(t, db, product.ID, 1, 50.0, "ebay", feb15)

	janStart := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	janEnd := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)
	febStart := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	febEnd := time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC)

	cmp, err := st.ComparePeriods(ctx, janStart, janEnd, febStart, febEnd)
	require.NoError(t, err)

	assert.EqualValues(t, 1, cmp.Period1.TotalSales)
	assert.EqualValues(t, 2, cmp.Period2.TotalSales)
	assert.InDelta(t, 100.0, cmp.Period1.TotalRevenue, 0.001)
	assert.InDelta(t, 150.0, cmp.Period2.TotalRevenue, 0.001)

	assert.InDelta(t, 1.0, cmp.Changes.SalesChange.Absolute, 0.001)
	require.NotNil(t, cmp.Changes.SalesChange.Percentage)
	assert.InDelta(t, 100.0, *cmp.Changes.SalesChange.Percentage, 0.001)

	assert.InDelta(t, 50.0, cmp.Changes.RevenueChange.Absolute, 0.001)
	require.NotNil(t, cmp.Changes.RevenueChange.Percentage)
	assert.InDelta(t, 50.0, *cmp.Changes.RevenueChange.Percentage, 0.001)

	// AOV goes from 100 to 75.
	assert.InDelta(t, -25.0, cmp.Changes.AOVChange.Absolute, 0.001)
	require.NotNil(t, cmp.Changes.AOVChange.Percentage)
	assert.InDelta(t, -25.0, *cmp.Changes.AOVChange.Percentage, 0.001)
}

func TestReportStore_ComparePeriodsZeroBaseline(t *testing.T) {
	db := newTestDB(t)
	st := NewReportStore(db)
	ctx := context.Background()

	category := createCategory(t, db, "Books")
	product := createProduct(t, db, category.ID, "SKU-1")
	createInventory(t, db, product.ID, 100, 2)

	feb15 := time.Date(2025, 2, 15, 12, 0, 0, 0, time.UTC)
	recordSale(t, db, product.ID, 1, 50.0, "amazon", feb15)

	janStart := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	janEnd := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)
	febStart := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	febEnd := time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC)

	cmp, err := st.ComparePeriods(ctx, janStart, janEnd, febStart, febEnd)
	require.NoError(t, err)

	// Percentage change off an empty baseline is undefined, not zero.
	assert.Nil(t, cmp.Changes.SalesChange.Percentage)
	assert.Nil(t, cmp.Changes.RevenueChange.Percentage)
	assert.Nil(t, cmp.Changes.AOVChange.Percentage)
	assert.InDelta(t, 1.0, cmp.Changes.SalesChange.Absolute, 0.001)
	assert.InDelta(t, 50.0, cmp.Changes.RevenueChange.Absolute, 0.001)
}
