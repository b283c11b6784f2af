// Package search runs product searches for the search screen.
package search

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"github.com/glabrego/homefeed/internal/load"
	"github.com/glabrego/homefeed/internal/shop"
)

const searchTimeout = 15 * time.Second

type Searcher interface {
	Search(ctx context.Context, query string) (shop.Listing, error)
}

// Result is a finished search. An empty Products slice is a search that
// matched nothing.
type Result struct {
	Query string
	shop.Listing
}

// State is NotStarted as its zero value.
type State = load.State[Result]

type Presenter struct {
	searcher Searcher
	logger   *log.Logger
	*load.Presenter[Result]
}

func NewPresenter(searcher Searcher, logger *log.Logger) *Presenter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Presenter{
		searcher:  searcher,
		logger:    logger,
		Presenter: load.NewPresenter[Result]("search", searchTimeout, logger),
	}
}

// Search runs query. A blank query cancels any search in flight and returns
// to the not started state.
func (p *Presenter) Search(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		p.logger.Printf("intent: clear search")
		p.Reset()
		return
	}
	p.logger.Printf("intent: search %q", query)
	p.Load(func(ctx context.Context) (Result, error) {
		listing, err := p.searcher.Search(ctx, query)
		if err != nil {
			return Result{}, err
		}
		return Result{Query: query, Listing: listing}, nil
	})
}

// Empty reports whether s is a finished search without matches.
func Empty(s State) bool {
	return s.Loaded && len(s.Data.Products) == 0
}
