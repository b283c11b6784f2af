// Package category serves the category menu and the screen that lists every
// product of one category.
package category

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/glabrego/homefeed/internal/load"
	"github.com/glabrego/homefeed/internal/shop"
)

// Home is the menu entry that leads back to the home feed.
const Home = "Home"

const (
	menuTimeout   = 10 * time.Second
	browseTimeout = 12 * time.Second
)

type MenuItem struct {
	Name     string
	Selected bool
}

// MenuItems puts Home ahead of the categories and marks selected. An empty
// selection selects Home.
func MenuItems(categories []string, selected string) []MenuItem {
	if selected == "" {
		selected = Home
	}
	items := make([]MenuItem, 0, len(categories)+1)
	items = append(items, MenuItem{Name: Home, Selected: selected == Home})
	for _, name := range categories {
		if name == Home {
			continue
		}
		items = append(items, MenuItem{Name: name, Selected: name == selected})
	}
	return items
}

type Source interface {
	Categories(ctx context.Context) ([]string, error)
	BrowseCategory(ctx context.Context, category string) (shop.Listing, error)
}

type MenuState = load.State[[]string]

type MenuPresenter struct {
	source Source
	logger *log.Logger
	*load.Presenter[[]string]
}

func NewMenuPresenter(source Source, logger *log.Logger) *MenuPresenter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &MenuPresenter{
		source:    source,
		logger:    logger,
		Presenter: load.NewPresenter[[]string]("category menu", menuTimeout, logger),
	}
}

func (p *MenuPresenter) LoadCategories() {
	p.logger.Printf("intent: load categories")
	p.Load(p.source.Categories)
}

// Browse is a loaded category screen.
type Browse struct {
	Category string
	shop.Listing
}

type BrowseState = load.State[Browse]

type BrowsePresenter struct {
	source Source
	logger *log.Logger
	*load.Presenter[Browse]
}

func NewBrowsePresenter(source Source, logger *log.Logger) *BrowsePresenter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &BrowsePresenter{
		source:    source,
		logger:    logger,
		Presenter: load.NewPresenter[Browse]("category browse", browseTimeout, logger),
	}
}

func (p *BrowsePresenter) LoadCategory(name string) {
	p.logger.Printf("intent: browse category %s", name)
	p.Load(func(ctx context.Context) (Browse, error) {
		listing, err := p.source.BrowseCategory(ctx, name)
		if err != nil {
			return Browse{}, err
		}
		return Browse{Category: name, Listing: listing}, nil
	})
}
