package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64
	Name        string
	Description string
	Brand       string
	Category    string
	Price       decimal.Decimal
	Stock       int64
	Images      []Image
	CreatedAt   time.Time
}

type Image struct {
	ID        int64
	ProductID int64
	URL       string
}

// ListFilter matches products whose fields contain the given values,
// case-insensitively. Empty fields match everything.
type ListFilter struct {
	Category string
	Brand    string
	Name     string
}
