package store

import "gorm.io/gorm"

// DefaultLimit is applied when a caller does not supply a page size.
const DefaultLimit = 100

// Page is an offset/limit pair accepted by every listing operation.
type Page struct {
	Skip  int
	Limit int
}

func (p Page) normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	return p
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	p = p.normalize()
	return q.Offset(p.Skip).Limit(p.Limit)
}
