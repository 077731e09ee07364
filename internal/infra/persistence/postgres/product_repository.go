package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domproduct "example.com/shop-backend/internal/domain/product"
)

type ProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	err := r.db.QueryRow(ctx, `
        INSERT INTO products (name, description, brand, category, price, stock)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `, p.Name, p.Description, p.Brand, p.Category, p.Price.String(), p.Stock).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	for i := range p.Images {
		img := &p.Images[i]
		img.ProductID = p.ID
		err := r.db.QueryRow(ctx, `
            INSERT INTO product_images (product_id, url) VALUES ($1, $2)
            RETURNING id
        `, img.ProductID, img.URL).Scan(&img.ID)
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE products SET name = $2, description = $3, brand = $4, category = $5, price = $6, stock = $7
        WHERE id = $1
    `, p.ID, p.Name, p.Description, p.Brand, p.Category, p.Price.String(), p.Stock)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domproduct.ErrProductNotFound
	}
	return p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domproduct.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	var p domproduct.Product
	var price string
	err := r.db.QueryRow(ctx, `
        SELECT id, name, description, brand, category, price::text, stock, created_at
        FROM products WHERE id = $1
    `, id).Scan(&p.ID, &p.Name, &p.Description, &p.Brand, &p.Category, &price, &p.Stock, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domproduct.ErrProductNotFound
		}
		return nil, err
	}
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return nil, err
	}

	if p.Images, err = r.listImages(ctx, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context, filter domproduct.ListFilter) ([]*domproduct.Product, error) {
	query := `
        SELECT id, name, description, brand, category, price::text, stock, created_at
        FROM products
    `
	var clauses []string
	var args []any

	if filter.Category != "" {
		args = append(args, "%"+filter.Category+"%")
		clauses = append(clauses, fmt.Sprintf("category ILIKE $%d", len(args)))
	}
	if filter.Brand != "" {
		args = append(args, "%"+filter.Brand+"%")
		clauses = append(clauses, fmt.Sprintf("brand ILIKE $%d", len(args)))
	}
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domproduct.Product
	for rows.Next() {
		var p domproduct.Product
		var price string
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Brand, &p.Category, &price, &p.Stock, &p.CreatedAt); err != nil {
			return nil, err
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range products {
		if p.Images, err = r.listImages(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (r *ProductRepository) listImages(ctx context.Context, productID int64) ([]domproduct.Image, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, product_id, url FROM product_images
        WHERE product_id = $1
        ORDER BY id
    `, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []domproduct.Image
	for rows.Next() {
		var img domproduct.Image
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}
