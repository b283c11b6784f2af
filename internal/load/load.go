// Package load runs the single-result loads behind the secondary screens:
// a product's details, the category menu, a category listing and search.
// Each screen shows the latest load only: starting a new load cancels the
// previous one and drops its result.
package load

import (
	"context"
	"io"
	"log"
	"sync"
	"time"
)

// State is what a screen shows for its load. The zero value means no load
// was requested yet.
type State[T any] struct {
	Loading bool
	Loaded  bool
	Data    T
	Err     error
}

type Presenter[T any] struct {
	name    string
	timeout time.Duration
	logger  *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	states chan State[T]
	wg     sync.WaitGroup

	mu       sync.Mutex
	closed   bool
	seq      int
	stopLoad context.CancelFunc

	// emitMu orders sends on states and guards current.
	emitMu  sync.Mutex
	current State[T]
}

func NewPresenter[T any](name string, timeout time.Duration, logger *log.Logger) *Presenter[T] {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Presenter[T]{
		name:    name,
		timeout: timeout,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		states:  make(chan State[T], 8),
	}
}

// States yields every state change. It is closed by Close.
func (p *Presenter[T]) States() <-chan State[T] {
	return p.states
}

// Load starts fn, replacing any load still in flight. While fn runs the
// previous data stays visible.
func (p *Presenter[T]) Load(fn func(ctx context.Context) (T, error)) {
	seq, ctx, ok := p.next(p.timeout, true)
	if !ok {
		return
	}
	go func() {
		defer p.wg.Done()
		defer ctx.cancel()

		if !p.publish(seq, func(s State[T]) State[T] {
			return State[T]{Loading: true, Loaded: s.Loaded, Data: s.Data}
		}) {
			return
		}

		data, err := fn(ctx)
		if err != nil && ctx.Err() != context.Canceled {
			p.logger.Printf("%s: load failed: %v", p.name, err)
		}
		p.publish(seq, func(State[T]) State[T] {
			if err != nil {
				return State[T]{Err: err}
			}
			return State[T]{Loaded: true, Data: data}
		})
	}()
}

// Reset cancels any load in flight and returns the screen to its zero state.
func (p *Presenter[T]) Reset() {
	seq, ctx, ok := p.next(0, false)
	if !ok {
		return
	}
	ctx.cancel()
	p.publish(seq, func(State[T]) State[T] { return State[T]{} })
}

// Close cancels the load in flight and closes the state stream.
func (p *Presenter[T]) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()

	p.emitMu.Lock()
	close(p.states)
	p.emitMu.Unlock()
}

type loadContext struct {
	context.Context
	cancel context.CancelFunc
}

// next makes a new load the latest one and cancels the one it replaces.
// track registers a goroutine that Close waits for.
func (p *Presenter[T]) next(timeout time.Duration, track bool) (int, loadContext, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, loadContext{}, false
	}
	if track {
		p.wg.Add(1)
	}
	if p.stopLoad != nil {
		p.stopLoad()
	}
	p.seq++

	var lc loadContext
	if timeout > 0 {
		lc.Context, lc.cancel = context.WithTimeout(p.ctx, timeout)
	} else {
		lc.Context, lc.cancel = context.WithCancel(p.ctx)
	}
	p.stopLoad = lc.cancel
	return p.seq, lc, true
}

// publish applies update to the current state and sends the result, unless a
// newer load has started since seq or the presenter is closed.
func (p *Presenter[T]) publish(seq int, update func(State[T]) State[T]) bool {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()

	p.mu.Lock()
	stale := p.closed || seq != p.seq
	p.mu.Unlock()
	if stale {
		return false
	}

	next := update(p.current)
	select {
	case p.states <- next:
		p.current = next
		return true
	case <-p.ctx.Done():
		return false
	}
}
