package cart

import (
	"errors"
	"fmt"
)

var (
	ErrItemNotFound        = errors.New("cart item not found")
	ErrQuantityNotPositive = errors.New("quantity must be greater than zero")
	ErrEmptyCart           = errors.New("cart is empty")
)

// InsufficientStockError carries the product identity and the
// available/requested amounts so the client message can name them.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Available   int64
	Requested   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}
