package model

import "time"

// Sale is a recorded transaction. TotalPrice is caller-supplied and never
// derived from UnitPrice*Quantity (discounts, fees and rounding live upstream).
//
// Sales are never deleted and outlive their product; listings and reports
// exclude sales whose product is currently soft-deleted, re-evaluated at query
// time.
type Sale struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	ProductID  uint      `json:"product_id" gorm:"not null;index"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	UnitPrice  float64   `json:"unit_price" gorm:"not null"`
	TotalPrice float64   `json:"total_price" gorm:"not null"`
	SaleDate   time.Time `json:"sale_date" gorm:"not null;index"`
	Platform   string    `json:"platform" gorm:"type:varchar(50);not null;index"`
	OrderID    string    `json:"order_id" gorm:"type:varchar(100);not null;index"`
}
