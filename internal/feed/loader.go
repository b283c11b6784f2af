package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/glabrego/homefeed/internal/shop"
)

// Backend is the product source behind the feed.
type Backend interface {
	Products(ctx context.Context, page int) ([]shop.Product, error)
	ProductsOfCategory(ctx context.Context, category string) ([]shop.Product, error)
}

// PagingLoader walks the backend pages. Page 0 holds the newest products and
// is only reachable through NewestPage; NextPage starts at page 1.
// Overlapping NextPage calls run one after the other, so each one fetches
// the page after the previous call's page. NewestPage is serialized the same
// way.
type PagingLoader struct {
	backend Backend

	nextMu      sync.Mutex
	currentPage int
	endReached  bool

	newestMu         sync.Mutex
	newestPageLoaded bool
}

func NewPagingLoader(backend Backend) *PagingLoader {
	return &PagingLoader{backend: backend, currentPage: 1}
}

func (l *PagingLoader) NextPage(ctx context.Context) ([]shop.Product, error) {
	l.nextMu.Lock()
	defer l.nextMu.Unlock()
	if l.endReached {
		return nil, nil
	}

	page := l.currentPage
	products, err := l.backend.Products(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("load page %d: %w", page, err)
	}
	l.currentPage++
	if len(products) == 0 {
		l.endReached = true
	}
	return products, nil
}

func (l *PagingLoader) NewestPage(ctx context.Context) ([]shop.Product, error) {
	l.newestMu.Lock()
	defer l.newestMu.Unlock()
	if l.newestPageLoaded {
		return nil, nil
	}

	products, err := l.backend.Products(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("load newest page: %w", err)
	}
	l.newestPageLoaded = true
	return products, nil
}

// HomeLoader serves grouped pages to the home presenter.
type HomeLoader struct {
	paging  *PagingLoader
	backend Backend
	visible int
}

func NewHomeLoader(backend Backend, visiblePerCategory int) *HomeLoader {
	if visiblePerCategory < 1 {
		visiblePerCategory = DefaultVisiblePerCategory
	}
	return &HomeLoader{
		paging:  NewPagingLoader(backend),
		backend: backend,
		visible: visiblePerCategory,
	}
}

func (l *HomeLoader) LoadFirstPage(ctx context.Context) ([]Item, error) {
	return l.LoadNextPage(ctx)
}

func (l *HomeLoader) LoadNextPage(ctx context.Context) ([]Item, error) {
	products, err := l.paging.NextPage(ctx)
	if err != nil {
		return nil, err
	}
	return Group(products, l.visible), nil
}

func (l *HomeLoader) LoadNewestPage(ctx context.Context) ([]Item, error) {
	products, err := l.paging.NewestPage(ctx)
	if err != nil {
		return nil, err
	}
	return Group(products, l.visible), nil
}

func (l *HomeLoader) LoadProductsOfCategory(ctx context.Context, category string) ([]shop.Product, error) {
	products, err := l.backend.ProductsOfCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("load category %q: %w", category, err)
	}
	return products, nil
}
