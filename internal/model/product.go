package model

import "time"

// Product represents the product master data. SKU uniqueness is enforced only
// among non-deleted products, so a deleted product's SKU may be reused.
//
// CategoryID is validated against an active category at create/move time only;
// deleting the category afterwards does not retroactively invalidate products.
type Product struct {
	ID          uint       `json:"id" gorm:"primarykey"`
	Name        string     `json:"name" gorm:"type:varchar(100);not null;index"`
	Description string     `json:"description" gorm:"type:varchar(500)"`
	SKU         string     `json:"sku" gorm:"type:varchar(50);not null;index"`
	Price       float64    `json:"price" gorm:"not null"`
	CategoryID  uint       `json:"category_id" gorm:"not null;index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at" gorm:"index"`
}

// IsDeleted reports whether the product is soft-deleted.
func (p *Product) IsDeleted() bool {
	return p.DeletedAt != nil
}
