package config

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/dgallion1/docwheel/internal/layout"
	"github.com/dgallion1/docwheel/internal/parser"
	"github.com/dgallion1/docwheel/internal/pathstore"
	"github.com/dgallion1/docwheel/internal/store"
)

const (
	StoreFile      = "file"
	StoreSQLite    = "sqlite"
	StorePathstore = "pathstore"
)

type Config struct {
	Port string `toml:"port"`

	// Auth
	APIKey string `toml:"api_key"`

	// Document
	Document  string `toml:"document"`
	ParseMode string `toml:"parse_mode"`

	// Storage backend
	Store      string `toml:"store"`
	Root       string `toml:"root"`
	SQLitePath string `toml:"sqlite_path"`

	// Pathstore connection
	PathstoreURL    string `toml:"pathstore_url"`
	PathstoreAPIKey string `toml:"pathstore_api_key"`

	// Geometry
	Width       float64 `toml:"width"`
	Height      float64 `toml:"height"`
	Padding     float64 `toml:"padding"`
	MinLabelArc float64 `toml:"min_label_arc"`

	LogFile string `toml:"log_file"`
}

func defaults() Config {
	return Config{
		Port:        "8091",
		ParseMode:   parser.ModeLines,
		Store:       StoreFile,
		Root:        ".",
		SQLitePath:  "docwheel.sqlite",
		Width:       800,
		Height:      800,
		Padding:     layout.DefaultOptions().Padding,
		MinLabelArc: layout.DefaultOptions().MinLabelArc,
	}
}

// Load builds the configuration from defaults, then the TOML file named by
// WHEEL_CONFIG if set, then environment variables.
func Load() (Config, error) {
	cfg := defaults()
	if path := os.Getenv("WHEEL_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("WHEEL_API_KEY", cfg.APIKey)
	cfg.Document = envOr("WHEEL_DOCUMENT", cfg.Document)
	cfg.ParseMode = envOr("WHEEL_PARSE_MODE", cfg.ParseMode)
	cfg.Store = envOr("WHEEL_STORE", cfg.Store)
	cfg.Root = envOr("WHEEL_ROOT", cfg.Root)
	cfg.SQLitePath = envOr("WHEEL_SQLITE_PATH", cfg.SQLitePath)
	cfg.PathstoreURL = envOr("PATHSTORE_URL", cfg.PathstoreURL)
	cfg.PathstoreAPIKey = envOr("PATHSTORE_API_KEY", cfg.PathstoreAPIKey)
	cfg.Width = envFloat("WHEEL_WIDTH", cfg.Width)
	cfg.Height = envFloat("WHEEL_HEIGHT", cfg.Height)
	cfg.Padding = envFloat("WHEEL_PADDING", cfg.Padding)
	cfg.MinLabelArc = envFloat("WHEEL_MIN_LABEL_ARC", cfg.MinLabelArc)
	cfg.LogFile = envOr("WHEEL_LOG_FILE", cfg.LogFile)

	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 800
	}
	cfg.Padding = min(max(cfg.Padding, 0.5), 1)
	if cfg.MinLabelArc <= 0 {
		cfg.MinLabelArc = layout.DefaultOptions().MinLabelArc
	}

	return cfg, nil
}

// Validate checks the settings every host needs.
func (c Config) Validate() error {
	if _, err := parser.ForMode(c.ParseMode); err != nil {
		return err
	}
	switch c.Store {
	case StoreFile:
		if c.Root == "" {
			return fmt.Errorf("WHEEL_ROOT is required for the file store")
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("WHEEL_SQLITE_PATH is required for the sqlite store")
		}
	case StorePathstore:
		if c.PathstoreURL == "" {
			return fmt.Errorf("PATHSTORE_URL is required for the pathstore store")
		}
		if c.PathstoreAPIKey == "" {
			return fmt.Errorf("PATHSTORE_API_KEY is required for the pathstore store")
		}
	default:
		return fmt.Errorf("unknown WHEEL_STORE %q", c.Store)
	}
	return nil
}

// ValidateServer additionally checks what the HTTP host needs.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Document == "" {
		return fmt.Errorf("WHEEL_DOCUMENT is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("WHEEL_API_KEY is required")
	}
	return nil
}

// Options returns the layout options the configuration describes.
func (c Config) Options() layout.Options {
	opts := layout.DefaultOptions()
	opts.Padding = c.Padding
	opts.MinLabelArc = c.MinLabelArc
	return opts
}

// Scanner returns the header scanner for the configured parse mode.
func (c Config) Scanner() (parser.Scanner, error) {
	return parser.ForMode(c.ParseMode)
}

// OpenStore connects the configured backend. The returned close function
// releases it.
func (c Config) OpenStore(ctx context.Context) (store.Store, func(), error) {
	switch c.Store {
	case StoreSQLite:
		s, err := store.OpenSQLite(ctx, c.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case StorePathstore:
		ps := pathstore.NewClient(c.PathstoreURL, c.PathstoreAPIKey, "")
		return ps, ps.Close, nil
	default:
		return store.FileStore{Root: c.Root}, func() {}, nil
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
