package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultAPIBaseURL         = "http://localhost:8080"
	defaultDBPath             = "homefeed.db"
	defaultVisiblePerCategory = 3
	defaultBackendAddr        = ":8080"
	defaultPageSize           = 10
)

// Config holds runtime settings for the terminal client.
type Config struct {
	APIBaseURL         string
	DBPath             string
	LogPath            string
	VisiblePerCategory int
}

// BackendConfig holds runtime settings for the product backend.
type BackendConfig struct {
	Addr        string
	CatalogPath string
	PageSize    int
}

// LoadDotEnv reads a .env file from the working directory when one exists.
// Variables already set in the environment win.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		APIBaseURL: os.Getenv("HOMEFEED_API_BASE_URL"),
		DBPath:     os.Getenv("HOMEFEED_DB_PATH"),
		LogPath:    os.Getenv("HOMEFEED_LOG_PATH"),
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}

	visible, err := intFromEnv("HOMEFEED_VISIBLE_PER_CATEGORY", defaultVisiblePerCategory)
	if err != nil {
		return Config{}, err
	}
	cfg.VisiblePerCategory = visible

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("APIBaseURL is required")
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.APIBaseURL[len(c.APIBaseURL)-1] == '/' {
		return fmt.Errorf("APIBaseURL must not end with '/': %s", c.APIBaseURL)
	}
	if c.VisiblePerCategory < 1 {
		return fmt.Errorf("VisiblePerCategory must be at least 1: %d", c.VisiblePerCategory)
	}
	return nil
}

func LoadBackendFromEnv() (BackendConfig, error) {
	cfg := BackendConfig{
		Addr:        os.Getenv("SHOP_BACKEND_ADDR"),
		CatalogPath: os.Getenv("SHOP_CATALOG_PATH"),
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultBackendAddr
	}

	pageSize, err := intFromEnv("SHOP_PAGE_SIZE", defaultPageSize)
	if err != nil {
		return BackendConfig{}, err
	}
	cfg.PageSize = pageSize

	if err := cfg.Validate(); err != nil {
		return BackendConfig{}, err
	}
	return cfg, nil
}

func (c BackendConfig) Validate() error {
	if c.Addr == "" {
		return errors.New("Addr is required")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("PageSize must be at least 1: %d", c.PageSize)
	}
	return nil
}

func intFromEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %s", key, raw)
	}
	return n, nil
}
