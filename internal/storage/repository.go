package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/glabrego/homefeed/internal/shop"
)

// Repository caches every product the client has fetched.
type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return NewRepositoryFromDB(db), nil
}

func NewRepositoryFromDB(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	statements := []string{`
CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  description TEXT,
  image_url TEXT,
  price TEXT NOT NULL,
  fetched_at TEXT NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS products_category_idx ON products (category)`,
		`CREATE TABLE IF NOT EXISTS cart_items (
  product_id INTEGER PRIMARY KEY,
  added_at TEXT NOT NULL
)`,
	}
	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

func (r *Repository) SaveProducts(ctx context.Context, products []shop.Product) error {
	if len(products) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO products (id, name, category, description, image_url, price, fetched_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  name=excluded.name,
  category=excluded.category,
  description=excluded.description,
  image_url=excluded.image_url,
  price=excluded.price,
  fetched_at=excluded.fetched_at
`)
	if err != nil {
		return fmt.Errorf("prepare save statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, p := range products {
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Category, p.Description, p.ImageURL, p.Price.String(), now); err != nil {
			return fmt.Errorf("save product %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repository) ListProducts(ctx context.Context, limit int) ([]shop.Product, error) {
	if limit < 1 {
		limit = 20
	}
	return r.queryProducts(ctx, `
SELECT id, name, category, description, image_url, price
FROM products
ORDER BY id
LIMIT ?
`, limit)
}

func (r *Repository) ListProductsByCategory(ctx context.Context, category string) ([]shop.Product, error) {
	return r.queryProducts(ctx, `
SELECT id, name, category, description, image_url, price
FROM products
WHERE category = ?
ORDER BY id
`, category)
}

func (r *Repository) CountProducts(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

func (r *Repository) AddToCart(ctx context.Context, productID int64) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO cart_items (product_id, added_at)
VALUES (?, ?)
ON CONFLICT(product_id) DO NOTHING
`, productID, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("add product %d to cart: %w", productID, err)
	}
	return nil
}

func (r *Repository) RemoveFromCart(ctx context.Context, productID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE product_id = ?`, productID); err != nil {
		return fmt.Errorf("remove product %d from cart: %w", productID, err)
	}
	return nil
}

func (r *Repository) IsInCart(ctx context.Context, productID int64) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cart_items WHERE product_id = ?`, productID).Scan(&count); err != nil {
		return false, fmt.Errorf("check cart for product %d: %w", productID, err)
	}
	return count > 0, nil
}

func (r *Repository) CartCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cart_items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count cart items: %w", err)
	}
	return count, nil
}

func (r *Repository) queryProducts(ctx context.Context, query string, args ...any) ([]shop.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]shop.Product, 0)
	for rows.Next() {
		var p shop.Product
		var description, imageURL sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &description, &imageURL, &p.Price); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.Description = description.String
		p.ImageURL = imageURL.String
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return products, nil
}
