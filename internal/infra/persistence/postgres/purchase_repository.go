package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domcart "example.com/shop-backend/internal/domain/cart"
	domproduct "example.com/shop-backend/internal/domain/product"
)

// PurchaseRepository commits a checkout in one transaction: per-line
// conditional stock decrements followed by clearing the cart. Any line
// failing rolls back every decrement already made.
type PurchaseRepository struct {
	db *pgxpool.Pool
}

func NewPurchaseRepository(db *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) Complete(ctx context.Context, cartID int64, items []domcart.Item) (retErr error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	for _, item := range items {
		tag, err := tx.Exec(ctx, `
            UPDATE products SET stock = stock - $2
            WHERE id = $1 AND stock >= $2
        `, item.ProductID, item.Quantity)
		if err != nil {
			retErr = err
			return retErr
		}
		if tag.RowsAffected() == 0 {
			// No row matched: the product vanished or stock ran short since
			// the cart view was loaded. Re-read to tell the two apart.
			var name string
			var stock int64
			err := tx.QueryRow(ctx, `
                SELECT name, stock FROM products WHERE id = $1
            `, item.ProductID).Scan(&name, &stock)
			if errors.Is(err, pgx.ErrNoRows) {
				retErr = fmt.Errorf("product %d: %w", item.ProductID, domproduct.ErrProductNotFound)
				return retErr
			}
			if err != nil {
				retErr = err
				return retErr
			}
			retErr = &domcart.InsufficientStockError{
				ProductID:   item.ProductID,
				ProductName: name,
				Available:   stock,
				Requested:   item.Quantity,
			}
			return retErr
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		retErr = err
		return retErr
	}

	if err := tx.Commit(ctx); err != nil {
		retErr = err
		return retErr
	}
	return nil
}
