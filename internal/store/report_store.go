package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"inventory-service/internal/model"
)

// Period granularities accepted by ByPeriod.
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// ReportStore is the read-only aggregation surface over sales. Every query
// joins products and only counts sales whose product is currently non-deleted;
// optional [start, end] bounds are inclusive on both ends.
type ReportStore struct {
	db *gorm.DB
}

func NewReportStore(db *gorm.DB) *ReportStore {
	return &ReportStore{db: db}
}

// Summary aggregates sale count, revenue, average order value and units sold.
type Summary struct {
	TotalSales        int64   `json:"total_sales"`
	TotalRevenue      float64 `json:"total_revenue"`
	AverageOrderValue float64 `json:"average_order_value"`
	TotalUnitsSold    int64   `json:"total_units_sold"`
}

// PeriodBucket is one calendar bucket of the by-period report.
type PeriodBucket struct {
	Period       string  `json:"period"`
	SalesCount   int64   `json:"sales_count"`
	TotalRevenue float64 `json:"total_revenue"`
}

// CategorySales is one row of the by-category report.
type CategorySales struct {
	CategoryName string  `json:"category_name"`
	SalesCount   int64   `json:"sales_count"`
	TotalRevenue float64 `json:"total_revenue"`
}

// PlatformSales is one row of the by-platform report.
type PlatformSales struct {
	Platform     string  `json:"platform"`
	SalesCount   int64   `json:"sales_count"`
	TotalRevenue float64 `json:"total_revenue"`
}

// Change is an absolute delta plus a percentage relative to the period-1
// baseline. Percentage is nil when the baseline is zero: the change is
// undefined there, not zero.
type Change struct {
	Absolute   float64  `json:"absolute"`
	Percentage *float64 `json:"percentage"`
}

// PeriodSummary is one side of a period comparison.
type PeriodSummary struct {
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	TotalSales        int64     `json:"total_sales"`
	TotalRevenue      float64   `json:"total_revenue"`
	AverageOrderValue float64   `json:"average_order_value"`
}

// PeriodComparison holds two period summaries and their deltas.
type PeriodComparison struct {
	Period1 PeriodSummary     `json:"period1"`
	Period2 PeriodSummary     `json:"period2"`
	Changes ComparisonChanges `json:"changes"`
}

// ComparisonChanges groups the deltas of a period comparison.
type ComparisonChanges struct {
	SalesChange   Change `json:"sales_change"`
	RevenueChange Change `json:"revenue_change"`
	AOVChange     Change `json:"aov_change"`
}

// visible scopes report queries to sales of currently non-deleted products,
// optionally bounded by the inclusive date range.
func (s *ReportStore) visible(ctx context.Context, start, end *time.Time) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&model.Sale{}).
		Joins("JOIN products ON products.id = sales.product_id").
		Where("products.deleted_at IS NULL")
	if start != nil {
		q = q.Where("sales.sale_date >= ?", *start)
	}
	if end != nil {
		q = q.Where("sales.sale_date <= ?", *end)
	}
	return q
}

// Summary returns the sales totals for the optional date range. An empty
// result set yields zeros, never an error.
func (s *ReportStore) Summary(ctx context.Context, start, end *time.Time) (*Summary, error) {
	var summary Summary
	err := s.visible(ctx, start, end).
		Select("COUNT(sales.id) AS total_sales, " +
			"COALESCE(SUM(sales.total_price), 0) AS total_revenue, " +
			"COALESCE(AVG(sales.total_price), 0) AS average_order_value, " +
			"COALESCE(SUM(sales.quantity), 0) AS total_units_sold").
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// SummaryWithPlatforms is the summary endpoint payload: the four totals plus
// the per-platform breakdown over the same range.
type SummaryWithPlatforms struct {
	Summary
	SalesByPlatform []PlatformSales `json:"sales_by_platform"`
}

// SummaryWithPlatforms composes Summary with the ByPlatform breakdown.
func (s *ReportStore) SummaryWithPlatforms(ctx context.Context, start, end *time.Time) (*SummaryWithPlatforms, error) {
	summary, err := s.Summary(ctx, start, end)
	if err != nil {
		return nil, err
	}
	platforms, err := s.ByPlatform(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if platforms == nil {
		platforms = []PlatformSales{}
	}
	return &SummaryWithPlatforms{Summary: *summary, SalesByPlatform: platforms}, nil
}

// ByPeriod buckets sales by calendar period between start and end, ascending
// by period label. Bucketing happens in Go so the label format does not depend
// on the SQL dialect; weeks use ISO week numbering.
func (s *ReportStore) ByPeriod(ctx context.Context, periodType string, start, end time.Time) ([]PeriodBucket, error) {
	switch periodType {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
	default:
		return nil, validationf("period_type must be one of: day, week, month, year")
	}

	var rows []struct {
		SaleDate   time.Time
		TotalPrice float64
	}
	err := s.visible(ctx, &start, &end).
		Select("sales.sale_date AS sale_date, sales.total_price AS total_price").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	buckets := map[string]*PeriodBucket{}
	for _, row := range rows {
		label := periodLabel(row.SaleDate, periodType)
		bucket, ok := buckets[label]
		if !ok {
			bucket = &PeriodBucket{Period: label}
			buckets[label] = bucket
		}
		bucket.SalesCount++
		bucket.TotalRevenue += row.TotalPrice
	}

	result := make([]PeriodBucket, 0, len(buckets))
	for _, bucket := range buckets {
		result = append(result, *bucket)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Period < result[j].Period
	})
	return result, nil
}

func periodLabel(t time.Time, periodType string) string {
	switch periodType {
	case PeriodDay:
		return t.Format("2006-01-02")
	case PeriodWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case PeriodMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006")
	}
}

// ByCategory aggregates sales per category name, descending by revenue.
func (s *ReportStore) ByCategory(ctx context.Context, start, end *time.Time) ([]CategorySales, error) {
	var result []CategorySales
	err := s.visible(ctx, start, end).
		Joins("JOIN categories ON categories.id = products.category_id").
		Select("categories.name AS category_name, " +
			"COUNT(sales.id) AS sales_count, " +
			"COALESCE(SUM(sales.total_price), 0) AS total_revenue").
		Group("categories.name").
		Order("total_revenue DESC").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ByPlatform aggregates sales per platform label, descending by revenue.
func (s *ReportStore) ByPlatform(ctx context.Context, start, end *time.Time) ([]PlatformSales, error) {
	var result []PlatformSales
	err := s.visible(ctx, start, end).
		Select("sales.platform AS platform, " +
			"COUNT(sales.id) AS sales_count, " +
			"COALESCE(SUM(sales.total_price), 0) AS total_revenue").
		Group("sales.platform").
		Order("total_revenue DESC").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ComparePeriods summarizes two date ranges and reports absolute and
// percentage deltas, period 2 relative to period 1.
func (s *ReportStore) ComparePeriods(ctx context.Context, p1Start, p1End, p2Start, p2End time.Time) (*PeriodComparison, error) {
	p1, err := s.Summary(ctx, &p1Start, &p1End)
	if err != nil {
		return nil, err
	}
	p2, err := s.Summary(ctx, &p2Start, &p2End)
	if err != nil {
		return nil, err
	}

	return &PeriodComparison{
		Period1: PeriodSummary{
			StartDate:         p1Start,
			EndDate:           p1End,
			TotalSales:        p1.TotalSales,
			TotalRevenue:      p1.TotalRevenue,
			AverageOrderValue: p1.AverageOrderValue,
		},
		Period2: PeriodSummary{
			StartDate:         p2Start,
			EndDate:           p2End,
			TotalSales:        p2.TotalSales,
			TotalRevenue:      p2.TotalRevenue,
			AverageOrderValue: p2.AverageOrderValue,
		},
		Changes: ComparisonChanges{
			SalesChange:   changeBetween(float64(p1.TotalSales), float64(p2.TotalSales)),
			RevenueChange: changeBetween(p1.TotalRevenue, p2.TotalRevenue),
			AOVChange:     changeBetween(p1.AverageOrderValue, p2.AverageOrderValue),
		},
	}, nil
}

func changeBetween(baseline, current float64) Change {
	change := Change{Absolute: current - baseline}
	if baseline != 0 {
		pct := change.Absolute / baseline * 100
		change.Percentage = &pct
	}
	return change
}
