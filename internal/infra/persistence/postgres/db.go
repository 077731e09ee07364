package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Migrate creates the schema. The unique index on carts.user_id and the
// (cart_id, product_id) constraint on cart_items back the one-cart-per-user
// and one-line-per-product invariants at the write level.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS users (
            id            BIGSERIAL PRIMARY KEY,
            name          TEXT NOT NULL,
            email         TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
            created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );

        CREATE TABLE IF NOT EXISTS products (
            id          BIGSERIAL PRIMARY KEY,
            name        TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            brand       TEXT NOT NULL DEFAULT '',
            category    TEXT NOT NULL DEFAULT '',
            price       NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
            stock       BIGINT NOT NULL DEFAULT 0 CHECK (stock >= 0),
            created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );

        CREATE TABLE IF NOT EXISTS product_images (
            id         BIGSERIAL PRIMARY KEY,
            product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
            url        TEXT NOT NULL
        );

        CREATE TABLE IF NOT EXISTS carts (
            id         BIGSERIAL PRIMARY KEY,
            user_id    BIGINT NOT NULL UNIQUE REFERENCES users(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );

        CREATE TABLE IF NOT EXISTS cart_items (
            id            BIGSERIAL PRIMARY KEY,
            cart_id       BIGINT NOT NULL REFERENCES carts(id),
            product_id    BIGINT NOT NULL REFERENCES products(id),
            quantity      BIGINT NOT NULL CHECK (quantity > 0),
            price_at_time NUMERIC(12,2) NOT NULL,
            UNIQUE (cart_id, product_id)
        );
    `)
	return err
}
