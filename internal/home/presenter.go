package home

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"github.com/glabrego/homefeed/internal/feed"
	"github.com/glabrego/homefeed/internal/shop"
)

const (
	pageLoadTimeout     = 10 * time.Second
	categoryLoadTimeout = 12 * time.Second
)

// FeedLoader supplies the home feed. Every call may fail with a transport error.
type FeedLoader interface {
	LoadFirstPage(ctx context.Context) ([]feed.Item, error)
	LoadNextPage(ctx context.Context) ([]feed.Item, error)
	LoadNewestPage(ctx context.Context) ([]feed.Item, error)
	LoadProductsOfCategory(ctx context.Context, category string) ([]shop.Product, error)
}

// Presenter turns intents into partial state changes and serves the folded
// view state stream. Loads run concurrently; their changes are merged onto a
// single channel so the reducer only ever sees one change at a time.
type Presenter struct {
	loader FeedLoader
	logger *log.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	changes chan PartialStateChange
	states  <-chan ViewState

	mu       sync.Mutex
	closed   bool
	inFlight map[string]bool
	wg       sync.WaitGroup

	// queued is the state after every change sent to changes so far. It runs
	// ahead of what the view has seen.
	emitMu sync.Mutex
	queued ViewState
}

func NewPresenter(loader FeedLoader, logger *log.Logger) *Presenter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan PartialStateChange, 16)
	return &Presenter{
		loader:   loader,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		changes:  changes,
		states:   Fold(ctx, InitialState(), changes),
		inFlight: make(map[string]bool),
		queued:   InitialState(),
	}
}

// States yields the initial state followed by every distinct reduced state.
func (p *Presenter) States() <-chan ViewState {
	return p.states
}

func (p *Presenter) LoadFirstPage() {
	p.logger.Printf("intent: load first page")
	p.run("first page", FirstPageLoading{}, pageLoadTimeout, func(ctx context.Context) PartialStateChange {
		items, err := p.loader.LoadFirstPage(ctx)
		if err != nil {
			return FirstPageError{Err: err}
		}
		return FirstPageLoaded{Data: items}
	})
}

func (p *Presenter) LoadNextPage() {
	p.logger.Printf("intent: load next page")
	p.run("next page", NextPageLoading{}, pageLoadTimeout, func(ctx context.Context) PartialStateChange {
		items, err := p.loader.LoadNextPage(ctx)
		if err != nil {
			return NextPageError{Err: err}
		}
		return NextPageLoaded{Data: items}
	})
}

func (p *Presenter) PullToRefresh() {
	p.logger.Printf("intent: pull to refresh")
	p.run("pull to refresh", PullToRefreshLoading{}, pageLoadTimeout, func(ctx context.Context) PartialStateChange {
		items, err := p.loader.LoadNewestPage(ctx)
		if err != nil {
			return PullToRefreshError{Err: err}
		}
		return PullToRefreshLoaded{Data: items}
	})
}

// LoadAllProductsOfCategory expands the category's run. The intent is ignored
// unless the queued feed still shows an idle loadable for the category.
func (p *Presenter) LoadAllProductsOfCategory(category string) {
	p.logger.Printf("intent: load more from category %s", category)
	if !p.canExpand(category) {
		p.logger.Printf("ignored expand of %s: no idle loadable", category)
		return
	}
	p.run("category "+category, CategoryExpandLoading{CategoryName: category}, categoryLoadTimeout, func(ctx context.Context) PartialStateChange {
		products, err := p.loader.LoadProductsOfCategory(ctx, category)
		if err != nil {
			return CategoryExpandError{CategoryName: category, Err: err}
		}
		return CategoryExpandLoaded{CategoryName: category, Data: feed.ProductItems(products)}
	})
}

// Close cancels in-flight loads and ends the state stream.
func (p *Presenter) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
}

// run starts one load. While a load with the same key is in flight, further
// intents for it are dropped.
func (p *Presenter) run(key string, loading PartialStateChange, timeout time.Duration, load func(ctx context.Context) PartialStateChange) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if p.inFlight[key] {
		p.logger.Printf("ignored %s: already loading", key)
		return
	}
	p.inFlight[key] = true

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if !p.emit(loading) {
			return
		}
		ctx, cancel := context.WithTimeout(p.ctx, timeout)
		defer cancel()
		result := load(ctx)
		if !p.emitResult(key, result) {
			p.logger.Printf("dropped %T after close", result)
		}
	}()
}

func (p *Presenter) canExpand(category string) bool {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()
	for _, item := range p.queued.Data {
		if loadable, ok := item.(feed.AdditionalItemsLoadable); ok && loadable.CategoryName == category {
			return !loadable.IsLoading
		}
	}
	return false
}

func (p *Presenter) emit(change PartialStateChange) bool {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()
	return p.send(change)
}

// emitResult frees key and queues the load's result in one step, so a new
// intent for key always queues its changes after this result.
func (p *Presenter) emitResult(key string, change PartialStateChange) bool {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()

	p.mu.Lock()
	delete(p.inFlight, key)
	p.mu.Unlock()

	return p.send(change)
}

// send must be called with emitMu held.
func (p *Presenter) send(change PartialStateChange) bool {
	select {
	case p.changes <- change:
		p.queued = Reduce(p.queued, change)
		return true
	case <-p.ctx.Done():
		return false
	}
}
