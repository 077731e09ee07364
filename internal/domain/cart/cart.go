package cart

import (
	"time"

	"github.com/shopspring/decimal"

	domproduct "example.com/shop-backend/internal/domain/product"
)

// Cart is the per-user collection of items awaiting purchase. Exactly one
// exists per user; it is created lazily on first access and never deleted.
type Cart struct {
	ID        int64
	UserID    int64
	Items     []Item
	CreatedAt time.Time
}

// Item is one cart line. PriceAtTime is snapshotted from the product price
// when the line is first created and survives quantity merges.
type Item struct {
	ID          int64
	CartID      int64
	ProductID   int64
	Quantity    int64
	PriceAtTime decimal.Decimal
	Product     *domproduct.Product
}

// View is a cart together with its derived aggregates.
type View struct {
	Cart
	TotalItems int64
	TotalPrice decimal.Decimal
}

// Totals computes the derived aggregates over a cart's items: the sum of
// quantities and the sum of priceAtTime x quantity. Every read path derives
// its numbers from this one function, never from a stored total.
func Totals(items []Item) (int64, decimal.Decimal) {
	var count int64
	total := decimal.Zero
	for _, item := range items {
		count += item.Quantity
		total = total.Add(item.PriceAtTime.Mul(decimal.NewFromInt(item.Quantity)))
	}
	return count, total
}
