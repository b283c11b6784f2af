package app

import (
	"context"
	"fmt"
	"log"

	"github.com/glabrego/homefeed/internal/shop"
)

const DefaultCacheLimit = 500

type ShopClient interface {
	Products(ctx context.Context, page int) ([]shop.Product, error)
	ProductsOfCategory(ctx context.Context, category string) ([]shop.Product, error)
	Product(ctx context.Context, id int64) (shop.Product, error)
	Categories(ctx context.Context) ([]string, error)
	AllProducts(ctx context.Context) ([]shop.Product, error)
}

type Repository interface {
	SaveProducts(ctx context.Context, products []shop.Product) error
	ListProducts(ctx context.Context, limit int) ([]shop.Product, error)
	ListProductsByCategory(ctx context.Context, category string) ([]shop.Product, error)
	CountProducts(ctx context.Context) (int, error)
	AddToCart(ctx context.Context, productID int64) error
	RemoveFromCart(ctx context.Context, productID int64) error
	IsInCart(ctx context.Context, productID int64) (bool, error)
}

// Service fronts the backend client and records every fetched product in the
// local cache. It satisfies feed.Backend.
type Service struct {
	client ShopClient
	repo   Repository
	logger *log.Logger
}

func NewService(client ShopClient, repo Repository) *Service {
	return &Service{client: client, repo: repo}
}

// WithLogger makes the service report cache fallbacks to logger.
func (s *Service) WithLogger(logger *log.Logger) *Service {
	s.logger = logger
	return s
}

func (s *Service) Products(ctx context.Context, page int) ([]shop.Product, error) {
	products, err := s.client.Products(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("fetch products page %d: %w", page, err)
	}
	if err := s.repo.SaveProducts(ctx, products); err != nil {
		return nil, fmt.Errorf("save products to cache: %w", err)
	}
	return products, nil
}

func (s *Service) ProductsOfCategory(ctx context.Context, category string) ([]shop.Product, error) {
	products, err := s.client.ProductsOfCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("fetch products of category %q: %w", category, err)
	}
	if err := s.repo.SaveProducts(ctx, products); err != nil {
		return nil, fmt.Errorf("save products to cache: %w", err)
	}
	return products, nil
}

func (s *Service) ListCached(ctx context.Context, limit int) ([]shop.Product, error) {
	products, err := s.repo.ListProducts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load products from cache: %w", err)
	}
	return products, nil
}

func (s *Service) CachedCount(ctx context.Context) (int, error) {
	count, err := s.repo.CountProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("count cached products: %w", err)
	}
	return count, nil
}

func (s *Service) ProductDetail(ctx context.Context, id int64) (shop.ProductDetail, error) {
	product, err := s.client.Product(ctx, id)
	if err != nil {
		return shop.ProductDetail{}, fmt.Errorf("fetch product %d: %w", id, err)
	}
	if err := s.repo.SaveProducts(ctx, []shop.Product{product}); err != nil {
		return shop.ProductDetail{}, fmt.Errorf("save products to cache: %w", err)
	}
	inCart, err := s.repo.IsInCart(ctx, id)
	if err != nil {
		return shop.ProductDetail{}, err
	}
	return shop.ProductDetail{Product: product, InCart: inCart}, nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	names, err := s.client.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	return names, nil
}

// BrowseCategory lists every product of category. When the backend fails and
// the cache holds products of that category, the cached ones are returned.
func (s *Service) BrowseCategory(ctx context.Context, category string) (shop.Listing, error) {
	products, fetchErr := s.ProductsOfCategory(ctx, category)
	if fetchErr == nil {
		return shop.Listing{Products: products}, nil
	}
	cached, err := s.repo.ListProductsByCategory(ctx, category)
	if err != nil || len(cached) == 0 {
		return shop.Listing{}, fetchErr
	}
	s.logf("browse %s: serving %d cached products: %v", category, len(cached), fetchErr)
	return shop.Listing{Products: cached, FromCache: true}, nil
}

// Search matches query against the whole catalog, falling back to the cached
// products when the backend fails.
func (s *Service) Search(ctx context.Context, query string) (shop.Listing, error) {
	all, fetchErr := s.client.AllProducts(ctx)
	if fetchErr == nil {
		if err := s.repo.SaveProducts(ctx, all); err != nil {
			return shop.Listing{}, fmt.Errorf("save products to cache: %w", err)
		}
		return shop.Listing{Products: shop.Search(all, query)}, nil
	}
	cached, err := s.ListCached(ctx, DefaultCacheLimit)
	if err != nil || len(cached) == 0 {
		return shop.Listing{}, fmt.Errorf("search %q: %w", query, fetchErr)
	}
	s.logf("search %q: using %d cached products: %v", query, len(cached), fetchErr)
	return shop.Listing{Products: shop.Search(cached, query), FromCache: true}, nil
}

func (s *Service) AddToCart(ctx context.Context, id int64) error {
	return s.repo.AddToCart(ctx, id)
}

func (s *Service) RemoveFromCart(ctx context.Context, id int64) error {
	return s.repo.RemoveFromCart(ctx, id)
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
