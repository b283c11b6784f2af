package feed

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/glabrego/homefeed/internal/shop"
)

type fakeBackend struct {
	pages        map[int][]shop.Product
	pageErr      error
	category     []shop.Product
	categoryErr  error
	requested    []int
	lastCategory string
}

func (f *fakeBackend) Products(_ context.Context, page int) ([]shop.Product, error) {
	f.requested = append(f.requested, page)
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	return f.pages[page], nil
}

func (f *fakeBackend) ProductsOfCategory(_ context.Context, category string) ([]shop.Product, error) {
	f.lastCategory = category
	if f.categoryErr != nil {
		return nil, f.categoryErr
	}
	return f.category, nil
}

func product(id int64, category string) shop.Product {
	return shop.Product{
		ID:          id,
		Name:        "name",
		Category:    category,
		Description: "description",
		ImageURL:    "image",
		Price:       decimal.RequireFromString("21.9"),
	}
}

func itemsDiff(want, got []Item) string {
	return cmp.Diff(want, got, cmp.Comparer(func(a, b Item) bool {
		if a == nil || b == nil {
			return a == nil && b == nil
		}
		return a.Equal(b)
	}))
}

func TestGroup_SplitsCategoriesAndCountsRemainder(t *testing.T) {
	products := []shop.Product{
		product(1, "category1"),
		product(2, "category1"),
		product(6, "category2"),
		product(3, "category1"),
		product(4, "category1"),
		product(5, "category1"),
	}

	got := Group(products, 3)
	want := []Item{
		SectionHeader{Name: "category1"},
		ProductItem{Product: products[0]},
		ProductItem{Product: products[1]},
		ProductItem{Product: products[3]},
		AdditionalItemsLoadable{MoreItemsCount: 2, CategoryName: "category1"},
		SectionHeader{Name: "category2"},
		ProductItem{Product: products[2]},
	}
	if diff := itemsDiff(want, got); diff != "" {
		t.Fatalf("unexpected grouping (-want +got):\n%s", diff)
	}
}

func TestGroup_EmptyPage(t *testing.T) {
	if got := Group(nil, 3); len(got) != 0 {
		t.Fatalf("expected no items, got %v", got)
	}
}

func TestPagingLoader_AdvancesUntilEmptyPage(t *testing.T) {
	backend := &fakeBackend{pages: map[int][]shop.Product{
		1: {product(1, "a")},
		2: {product(2, "b")},
	}}
	loader := NewPagingLoader(backend)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := loader.NextPage(ctx); err != nil {
			t.Fatalf("NextPage returned error: %v", err)
		}
	}
	if diff := cmp.Diff([]int{1, 2, 3}, backend.requested); diff != "" {
		t.Fatalf("unexpected page requests (-want +got):\n%s", diff)
	}
}

func TestPagingLoader_ErrorKeepsPage(t *testing.T) {
	backend := &fakeBackend{pageErr: errors.New("offline")}
	loader := NewPagingLoader(backend)

	if _, err := loader.NextPage(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	backend.pageErr = nil
	if _, err := loader.NextPage(context.Background()); err != nil {
		t.Fatalf("NextPage returned error: %v", err)
	}
	if diff := cmp.Diff([]int{1, 1}, backend.requested); diff != "" {
		t.Fatalf("expected retry of page 1 (-want +got):\n%s", diff)
	}
}

// slowBackend blocks every Products call until release is closed.
type slowBackend struct {
	mu        sync.Mutex
	requested []int
	started   chan int
	release   chan struct{}
}

func newSlowBackend() *slowBackend {
	return &slowBackend{started: make(chan int, 8), release: make(chan struct{})}
}

func (b *slowBackend) Products(_ context.Context, page int) ([]shop.Product, error) {
	b.mu.Lock()
	b.requested = append(b.requested, page)
	b.mu.Unlock()
	b.started <- page
	<-b.release
	return []shop.Product{product(int64(100+page), "c")}, nil
}

func (b *slowBackend) ProductsOfCategory(context.Context, string) ([]shop.Product, error) {
	return nil, nil
}

func TestPagingLoader_OverlappingNextPageCallsFetchConsecutivePages(t *testing.T) {
	backend := newSlowBackend()
	loader := NewPagingLoader(backend)

	var wg sync.WaitGroup
	results := make(chan int64, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			products, err := loader.NextPage(context.Background())
			if err != nil || len(products) != 1 {
				t.Errorf("unexpected NextPage result: %v %v", products, err)
				return
			}
			results <- products[0].ID
		}()
	}
	<-backend.started
	close(backend.release)
	wg.Wait()
	close(results)

	seen := map[int64]bool{}
	for id := range results {
		seen[id] = true
	}
	if !seen[101] || !seen[102] {
		t.Fatalf("expected pages 1 and 2 once each, got %v", seen)
	}

	if _, err := loader.NextPage(context.Background()); err != nil {
		t.Fatalf("NextPage returned error: %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, backend.requested); diff != "" {
		t.Fatalf("unexpected page requests (-want +got):\n%s", diff)
	}
}

func TestPagingLoader_OverlappingNewestPageCallsFetchOnce(t *testing.T) {
	backend := newSlowBackend()
	loader := NewPagingLoader(backend)

	var wg sync.WaitGroup
	var mu sync.Mutex
	total := 0
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			products, err := loader.NewestPage(context.Background())
			if err != nil {
				t.Errorf("NewestPage returned error: %v", err)
				return
			}
			mu.Lock()
			total += len(products)
			mu.Unlock()
		}()
	}
	<-backend.started
	close(backend.release)
	wg.Wait()

	if total != 1 {
		t.Fatalf("expected the newest page exactly once, got %d products", total)
	}
	if diff := cmp.Diff([]int{0}, backend.requested); diff != "" {
		t.Fatalf("unexpected page requests (-want +got):\n%s", diff)
	}
}

func TestPagingLoader_NewestPageOnlyOnce(t *testing.T) {
	backend := &fakeBackend{pages: map[int][]shop.Product{0: {product(10, "c")}}}
	loader := NewPagingLoader(backend)

	first, err := loader.NewestPage(context.Background())
	if err != nil || len(first) != 1 {
		t.Fatalf("unexpected first newest page: %v %v", first, err)
	}
	second, err := loader.NewestPage(context.Background())
	if err != nil || len(second) != 0 {
		t.Fatalf("expected empty second newest page, got %v %v", second, err)
	}
	if len(backend.requested) != 1 {
		t.Fatalf("expected one backend call, got %v", backend.requested)
	}
}

func TestHomeLoader_GroupsPagesAndLoadsCategory(t *testing.T) {
	firstPage := []shop.Product{
		product(1, "category1"),
		product(2, "category1"),
		product(3, "category1"),
		product(4, "category1"),
		product(5, "category1"),
	}
	backend := &fakeBackend{
		pages:    map[int][]shop.Product{1: firstPage},
		category: firstPage,
	}
	loader := NewHomeLoader(backend, 0)

	items, err := loader.LoadFirstPage(context.Background())
	if err != nil {
		t.Fatalf("LoadFirstPage returned error: %v", err)
	}
	want := []Item{
		SectionHeader{Name: "category1"},
		ProductItem{Product: firstPage[0]},
		ProductItem{Product: firstPage[1]},
		ProductItem{Product: firstPage[2]},
		AdditionalItemsLoadable{MoreItemsCount: 2, CategoryName: "category1"},
	}
	if diff := itemsDiff(want, items); diff != "" {
		t.Fatalf("unexpected first page (-want +got):\n%s", diff)
	}

	products, err := loader.LoadProductsOfCategory(context.Background(), "category1")
	if err != nil {
		t.Fatalf("LoadProductsOfCategory returned error: %v", err)
	}
	if len(products) != 5 || backend.lastCategory != "category1" {
		t.Fatalf("unexpected category load: %d products, category %q", len(products), backend.lastCategory)
	}

	backend.categoryErr = errors.New("offline")
	if _, err := loader.LoadProductsOfCategory(context.Background(), "category1"); err == nil {
		t.Fatal("expected category error")
	}
}

func TestItemEquality(t *testing.T) {
	a := AdditionalItemsLoadable{MoreItemsCount: 1, CategoryName: "c", LoadingError: errors.New("offline")}
	b := AdditionalItemsLoadable{MoreItemsCount: 1, CategoryName: "c", LoadingError: errors.New("offline")}
	if !a.Equal(b) {
		t.Fatal("expected loadables with equal error messages to be equal")
	}
	if a.Equal(SectionHeader{Name: "c"}) {
		t.Fatal("expected different variants to differ")
	}

	p1 := ProductItem{Product: product(1, "c")}
	p2 := p1
	p2.Product.Price = decimal.RequireFromString("21.90")
	if !p1.Equal(p2) {
		t.Fatal("expected prices to compare by value")
	}
}
