package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domcart "example.com/shop-backend/internal/domain/cart"
	domproduct "example.com/shop-backend/internal/domain/product"
)

type CartRepository struct {
	db *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) GetOrCreate(ctx context.Context, userID int64) (*domcart.Cart, error) {
	// Insert-then-fetch: the unique index on user_id makes concurrent first
	// accesses converge on one row instead of racing an existence check.
	_, err := r.db.Exec(ctx, `
        INSERT INTO carts (user_id) VALUES ($1)
        ON CONFLICT (user_id) DO NOTHING
    `, userID)
	if err != nil {
		return nil, err
	}

	var c domcart.Cart
	err = r.db.QueryRow(ctx, `
        SELECT id, user_id, created_at FROM carts WHERE user_id = $1
    `, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}

	c.Items, err = r.listItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CartRepository) listItems(ctx context.Context, cartID int64) ([]domcart.Item, error) {
	rows, err := r.db.Query(ctx, `
        SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.price_at_time::text,
               p.name, p.description, p.brand, p.category, p.price::text, p.stock, p.created_at
        FROM cart_items ci
        JOIN products p ON p.id = ci.product_id
        WHERE ci.cart_id = $1
        ORDER BY ci.id
    `, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domcart.Item{}
	var productIDs []int64
	for rows.Next() {
		var item domcart.Item
		var p domproduct.Product
		var itemPrice, productPrice string
		if err := rows.Scan(
			&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &itemPrice,
			&p.Name, &p.Description, &p.Brand, &p.Category, &productPrice, &p.Stock, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		if item.PriceAtTime, err = decimal.NewFromString(itemPrice); err != nil {
			return nil, err
		}
		if p.Price, err = decimal.NewFromString(productPrice); err != nil {
			return nil, err
		}
		p.ID = item.ProductID
		item.Product = &p
		items = append(items, item)
		productIDs = append(productIDs, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(items) > 0 {
		images, err := r.imagesByProduct(ctx, productIDs)
		if err != nil {
			return nil, err
		}
		for i := range items {
			items[i].Product.Images = images[items[i].ProductID]
		}
	}
	return items, nil
}

func (r *CartRepository) imagesByProduct(ctx context.Context, productIDs []int64) (map[int64][]domproduct.Image, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, product_id, url FROM product_images
        WHERE product_id = ANY($1)
        ORDER BY id
    `, productIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := make(map[int64][]domproduct.Image)
	for rows.Next() {
		var img domproduct.Image
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL); err != nil {
			return nil, err
		}
		images[img.ProductID] = append(images[img.ProductID], img)
	}
	return images, rows.Err()
}

func (r *CartRepository) FindItemByProduct(ctx context.Context, cartID, productID int64) (*domcart.Item, error) {
	return r.scanItem(r.db.QueryRow(ctx, `
        SELECT id, cart_id, product_id, quantity, price_at_time::text
        FROM cart_items
        WHERE cart_id = $1 AND product_id = $2
    `, cartID, productID))
}

func (r *CartRepository) GetItem(ctx context.Context, cartID, itemID int64) (*domcart.Item, error) {
	return r.scanItem(r.db.QueryRow(ctx, `
        SELECT id, cart_id, product_id, quantity, price_at_time::text
        FROM cart_items
        WHERE cart_id = $1 AND id = $2
    `, cartID, itemID))
}

func (r *CartRepository) UpsertItem(ctx context.Context, cartID, productID, quantity int64, priceAtTime decimal.Decimal) (*domcart.Item, error) {
	// price_at_time is absent from the conflict update so a merged line keeps
	// its first-add snapshot.
	return r.scanItem(r.db.QueryRow(ctx, `
        INSERT INTO cart_items (cart_id, product_id, quantity, price_at_time)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity
        RETURNING id, cart_id, product_id, quantity, price_at_time::text
    `, cartID, productID, quantity, priceAtTime.String()))
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID, quantity int64) (*domcart.Item, error) {
	return r.scanItem(r.db.QueryRow(ctx, `
        UPDATE cart_items SET quantity = $3
        WHERE cart_id = $1 AND id = $2
        RETURNING id, cart_id, product_id, quantity, price_at_time::text
    `, cartID, itemID, quantity))
}

func (r *CartRepository) DeleteItem(ctx context.Context, cartID, itemID int64) error {
	tag, err := r.db.Exec(ctx, `
        DELETE FROM cart_items WHERE cart_id = $1 AND id = $2
    `, cartID, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domcart.ErrItemNotFound
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, cartID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	return err
}

func (r *CartRepository) scanItem(row pgx.Row) (*domcart.Item, error) {
	var item domcart.Item
	var price string
	err := row.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domcart.ErrItemNotFound
		}
		return nil, err
	}
	if item.PriceAtTime, err = decimal.NewFromString(price); err != nil {
		return nil, err
	}
	return &item, nil
}
