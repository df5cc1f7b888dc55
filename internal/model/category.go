package model

import "time"

// Category groups products. Deletion is soft: DeletedAt doubles as the
// "is deleted" flag and the audit timestamp of when it happened.
//
// DeletedAt is a plain nullable column rather than gorm.DeletedAt on purpose:
// deleted rows must stay visible to Get and the deleted listings, and the
// delete/restore toggle must not touch UpdatedAt, so deletion filtering is
// done explicitly in the store layer.
type Category struct {
	ID          uint       `json:"id" gorm:"primarykey"`
	Name        string     `json:"name" gorm:"type:varchar(100);not null;index"`
	Description string     `json:"description" gorm:"type:varchar(255)"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at" gorm:"index"`
}

// IsDeleted reports whether the category is soft-deleted.
func (c *Category) IsDeleted() bool {
	return c.DeletedAt != nil
}
