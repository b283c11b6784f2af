package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"github.com/glabrego/homefeed/internal/shop"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "homefeed.db")
	repo, err := NewRepository(dbPath)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	return repo
}

func TestRepository_SaveAndListProducts(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	products := []shop.Product{
		{ID: 2, Name: "Mug", Category: "Kitchen", Price: decimal.RequireFromString("4.50")},
		{ID: 1, Name: "Shirt", Category: "Clothes", Description: "<p>cotton</p>", ImageURL: "shirt.png", Price: decimal.RequireFromString("21.9")},
	}
	if err := repo.SaveProducts(ctx, products); err != nil {
		t.Fatalf("SaveProducts returned error: %v", err)
	}

	listed, err := repo.ListProducts(ctx, 10)
	if err != nil {
		t.Fatalf("ListProducts returned error: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 products, got %d", len(listed))
	}
	if !listed[0].Equal(products[1]) {
		t.Fatalf("expected shirt first, got %+v", listed[0])
	}
	if !listed[1].Price.Equal(decimal.RequireFromString("4.5")) {
		t.Fatalf("unexpected price: %s", listed[1].Price)
	}

	count, err := repo.CountProducts(ctx)
	if err != nil {
		t.Fatalf("CountProducts returned error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
}

func TestRepository_SaveProducts_Upserts(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	p := shop.Product{ID: 10, Name: "Original", Category: "a", Price: decimal.NewFromInt(1)}
	if err := repo.SaveProducts(ctx, []shop.Product{p}); err != nil {
		t.Fatalf("initial SaveProducts returned error: %v", err)
	}
	p.Name = "Updated"
	p.Category = "b"
	if err := repo.SaveProducts(ctx, []shop.Product{p}); err != nil {
		t.Fatalf("second SaveProducts returned error: %v", err)
	}

	listed, err := repo.ListProductsByCategory(ctx, "b")
	if err != nil {
		t.Fatalf("ListProductsByCategory returned error: %v", err)
	}
	if len(listed) != 1 || listed[0].Name != "Updated" {
		t.Fatalf("unexpected products: %+v", listed)
	}
	if old, _ := repo.ListProductsByCategory(ctx, "a"); len(old) != 0 {
		t.Fatalf("expected no products left in old category, got %+v", old)
	}
}

func TestRepository_ListProductsByCategory(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	products := []shop.Product{
		{ID: 3, Name: "Beanie", Category: "Hats", Price: decimal.NewFromInt(12)},
		{ID: 1, Name: "Cap", Category: "Hats", Price: decimal.NewFromInt(14)},
		{ID: 2, Name: "Tee", Category: "Shirts", Price: decimal.NewFromInt(20)},
	}
	if err := repo.SaveProducts(ctx, products); err != nil {
		t.Fatalf("SaveProducts returned error: %v", err)
	}

	hats, err := repo.ListProductsByCategory(ctx, "Hats")
	if err != nil {
		t.Fatalf("ListProductsByCategory returned error: %v", err)
	}
	if len(hats) != 2 || hats[0].ID != 1 || hats[1].ID != 3 {
		t.Fatalf("expected hats ordered by id, got %+v", hats)
	}

	none, err := repo.ListProductsByCategory(ctx, "Shoes")
	if err != nil {
		t.Fatalf("ListProductsByCategory returned error: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", none)
	}
}

func TestRepository_Cart(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if in, err := repo.IsInCart(ctx, 7); err != nil || in {
		t.Fatalf("expected empty cart, got in=%t err=%v", in, err)
	}
	if err := repo.AddToCart(ctx, 7); err != nil {
		t.Fatalf("AddToCart returned error: %v", err)
	}
	if err := repo.AddToCart(ctx, 7); err != nil {
		t.Fatalf("second AddToCart returned error: %v", err)
	}
	if in, err := repo.IsInCart(ctx, 7); err != nil || !in {
		t.Fatalf("expected product 7 in cart, got in=%t err=%v", in, err)
	}
	if count, err := repo.CartCount(ctx); err != nil || count != 1 {
		t.Fatalf("expected one cart item, got %d %v", count, err)
	}

	if err := repo.RemoveFromCart(ctx, 7); err != nil {
		t.Fatalf("RemoveFromCart returned error: %v", err)
	}
	if in, _ := repo.IsInCart(ctx, 7); in {
		t.Fatal("expected product 7 removed from cart")
	}
}

func TestRepository_AddToCart_ExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New returned error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO cart_items").WillReturnError(errors.New("read-only"))

	repo := NewRepositoryFromDB(db)
	if err := repo.AddToCart(context.Background(), 1); err == nil {
		t.Fatal("expected cart error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRepository_SaveProducts_RollsBackOnExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New returned error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO products").
		ExpectExec().
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	repo := NewRepositoryFromDB(db)
	err = repo.SaveProducts(context.Background(), []shop.Product{{ID: 1, Name: "x", Category: "c"}})
	if err == nil {
		t.Fatal("expected save error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRepository_ListProducts_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New returned error: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "category", "description", "image_url", "price"}).
		AddRow(1, "Shirt", "Clothes", nil, nil, "not-a-price")
	mock.ExpectQuery("SELECT id, name, category").WillReturnRows(rows)

	repo := NewRepositoryFromDB(db)
	if _, err := repo.ListProducts(context.Background(), 5); err == nil {
		t.Fatal("expected scan error for malformed price")
	}
}

func TestRepository_CountProducts_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New returned error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("locked"))

	repo := NewRepositoryFromDB(db)
	if _, err := repo.CountProducts(context.Background()); err == nil {
		t.Fatal("expected count error")
	}
}
