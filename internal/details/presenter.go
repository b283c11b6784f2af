// Package details loads one product for its detail screen together with its
// cart membership.
package details

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/glabrego/homefeed/internal/load"
	"github.com/glabrego/homefeed/internal/shop"
)

const loadTimeout = 10 * time.Second

type Loader interface {
	ProductDetail(ctx context.Context, id int64) (shop.ProductDetail, error)
	AddToCart(ctx context.Context, id int64) error
	RemoveFromCart(ctx context.Context, id int64) error
}

type State = load.State[shop.ProductDetail]

type Presenter struct {
	loader Loader
	logger *log.Logger
	*load.Presenter[shop.ProductDetail]
}

func NewPresenter(loader Loader, logger *log.Logger) *Presenter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Presenter{
		loader:    loader,
		logger:    logger,
		Presenter: load.NewPresenter[shop.ProductDetail]("details", loadTimeout, logger),
	}
}

func (p *Presenter) LoadDetails(id int64) {
	p.logger.Printf("intent: load details of product %d", id)
	p.Load(func(ctx context.Context) (shop.ProductDetail, error) {
		return p.loader.ProductDetail(ctx, id)
	})
}

// AddToCart puts the product in the cart and reloads its details.
func (p *Presenter) AddToCart(id int64) {
	p.logger.Printf("intent: add product %d to cart", id)
	p.Load(func(ctx context.Context) (shop.ProductDetail, error) {
		if err := p.loader.AddToCart(ctx, id); err != nil {
			return shop.ProductDetail{}, fmt.Errorf("add to cart: %w", err)
		}
		return p.loader.ProductDetail(ctx, id)
	})
}

// RemoveFromCart takes the product out of the cart and reloads its details.
func (p *Presenter) RemoveFromCart(id int64) {
	p.logger.Printf("intent: remove product %d from cart", id)
	p.Load(func(ctx context.Context) (shop.ProductDetail, error) {
		if err := p.loader.RemoveFromCart(ctx, id); err != nil {
			return shop.ProductDetail{}, fmt.Errorf("remove from cart: %w", err)
		}
		return p.loader.ProductDetail(ctx, id)
	})
}
