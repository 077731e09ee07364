package cart

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	// GetOrCreate resolves the user's cart, inserting an empty one if none
	// exists. The storage layer must enforce uniqueness on user_id so that
	// concurrent first accesses converge on a single row. Items are returned
	// with their product (including images) attached, in insertion order.
	GetOrCreate(ctx context.Context, userID int64) (*Cart, error)
	FindItemByProduct(ctx context.Context, cartID, productID int64) (*Item, error)
	GetItem(ctx context.Context, cartID, itemID int64) (*Item, error)
	// UpsertItem writes the absolute quantity for (cartID, productID). On a
	// conflicting row the stored price_at_time is left untouched.
	UpsertItem(ctx context.Context, cartID, productID, quantity int64, priceAtTime decimal.Decimal) (*Item, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID, quantity int64) (*Item, error)
	DeleteItem(ctx context.Context, cartID, itemID int64) error
	Clear(ctx context.Context, cartID int64) error
}
