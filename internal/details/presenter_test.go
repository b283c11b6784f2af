package details

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/glabrego/homefeed/internal/shop"
)

type fakeLoader struct {
	mu      sync.Mutex
	product shop.Product
	cart    map[int64]bool
	err     error
	cartErr error
}

func (f *fakeLoader) ProductDetail(_ context.Context, id int64) (shop.ProductDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return shop.ProductDetail{}, f.err
	}
	if id != f.product.ID {
		return shop.ProductDetail{}, errors.New("not found")
	}
	return shop.ProductDetail{Product: f.product, InCart: f.cart[id]}, nil
}

func (f *fakeLoader) AddToCart(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cartErr != nil {
		return f.cartErr
	}
	f.cart[id] = true
	return nil
}

func (f *fakeLoader) RemoveFromCart(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.cart, id)
	return nil
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		product: shop.Product{ID: 3, Name: "Beanie", Category: "Hats", Price: decimal.NewFromInt(12)},
		cart:    make(map[int64]bool),
	}
}

func settled(t *testing.T, p *Presenter) State {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case s := <-p.States():
			if !s.Loading {
				return s
			}
		case <-timeout:
			t.Fatal("timed out waiting for details")
		}
	}
}

func TestPresenter_LoadDetails(t *testing.T) {
	p := NewPresenter(newFakeLoader(), nil)
	t.Cleanup(p.Close)

	p.LoadDetails(3)
	s := settled(t, p)
	if !s.Loaded || s.Data.Name != "Beanie" || s.Data.InCart {
		t.Fatalf("unexpected details: %+v", s)
	}

	p.LoadDetails(9)
	if s := settled(t, p); s.Err == nil || s.Loaded {
		t.Fatalf("expected error for unknown product, got %+v", s)
	}
}

func TestPresenter_CartRoundTrip(t *testing.T) {
	loader := newFakeLoader()
	p := NewPresenter(loader, nil)
	t.Cleanup(p.Close)

	p.AddToCart(3)
	if s := settled(t, p); !s.Data.InCart {
		t.Fatalf("expected product in cart, got %+v", s)
	}

	p.RemoveFromCart(3)
	if s := settled(t, p); !s.Loaded || s.Data.InCart {
		t.Fatalf("expected product out of cart, got %+v", s)
	}
}

func TestPresenter_CartError(t *testing.T) {
	loader := newFakeLoader()
	loader.cartErr = errors.New("read-only")
	p := NewPresenter(loader, nil)
	t.Cleanup(p.Close)

	p.AddToCart(3)
	s := settled(t, p)
	if s.Err == nil || s.Err.Error() != "add to cart: read-only" {
		t.Fatalf("expected cart error, got %+v", s)
	}
}
