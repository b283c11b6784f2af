package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/homefeed/internal/app"
	"github.com/glabrego/homefeed/internal/category"
	"github.com/glabrego/homefeed/internal/config"
	"github.com/glabrego/homefeed/internal/details"
	"github.com/glabrego/homefeed/internal/feed"
	"github.com/glabrego/homefeed/internal/home"
	"github.com/glabrego/homefeed/internal/search"
	"github.com/glabrego/homefeed/internal/shop"
	"github.com/glabrego/homefeed/internal/storage"
	"github.com/glabrego/homefeed/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	var logger *log.Logger
	if cfg.LogPath != "" {
		f, err := tea.LogToFile(cfg.LogPath, "homefeed")
		if err != nil {
			return fmt.Errorf("log file error: %w", err)
		}
		defer f.Close()
		logger = log.Default()
	}

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("storage init error: %w", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := repo.Init(ctx); err != nil {
		return fmt.Errorf("storage schema error: %w (check HOMEFEED_DB_PATH: %s)", err, cfg.DBPath)
	}

	client := shop.NewClient(cfg.APIBaseURL, nil)
	service := app.NewService(client, repo).WithLogger(logger)
	loader := feed.NewHomeLoader(service, cfg.VisiblePerCategory)

	presenter := home.NewPresenter(loader, logger)
	defer presenter.Close()
	detailsPresenter := details.NewPresenter(service, logger)
	defer detailsPresenter.Close()
	menuPresenter := category.NewMenuPresenter(service, logger)
	defer menuPresenter.Close()
	browsePresenter := category.NewBrowsePresenter(service, logger)
	defer browsePresenter.Close()
	searchPresenter := search.NewPresenter(service, logger)
	defer searchPresenter.Close()

	model := tui.NewModel(presenter, service).WithScreens(tui.Screens{
		Details: detailsPresenter,
		Menu:    menuPresenter,
		Browse:  browsePresenter,
		Search:  searchPresenter,
	})
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
