package config

import (
	"flag"
	"os"
	"time"
)

// ClientConfig is the configuration container for the conflict review
// console. It is intentionally small: the console only needs to know where
// the sync server lives, how long to wait for it, and the request integrity
// hash key shared with the server.
type ClientConfig struct {
	// App holds the client-side application settings.
	App ClientApp `envPrefix:"APP_"`

	// Adapter holds the HTTP adapter settings used to reach the server.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds local storage settings for the offline operation queue.
	Storage ClientStorage `envPrefix:"STORAGE_"`
}

// ClientStorage groups local storage settings of the review console.
type ClientStorage struct {
	// DB is the local SQLite database used to queue operations composed
	// while the server is unreachable.
	DB ClientDB `envPrefix:"DB_"`
}

// ClientDB holds the local database connection settings.
type ClientDB struct {
	// DSN is the SQLite file path. An empty value falls back to
	// "record-sync.db" in the working directory.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// ClientApp holds application-level settings of the review console.
type ClientApp struct {
	// HashKey is the HMAC key shared with the server for request
	// integrity checking.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`
}

// Adapter holds configuration for the HTTP adapter the console uses to talk
// to the sync server.
type Adapter struct {
	// HTTPAddress is the base URL of the sync server
	// (e.g. "http://localhost:8080").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the per-request timeout for adapter calls.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// GetClientConfig loads and validates the review console configuration from
// environment variables and command-line flags, falling back to sensible
// defaults for anything left unset.
func GetClientConfig() (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}

	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	address := flags.String("a", "", "Sync server base URL")
	timeout := flags.Duration("request-timeout", 0, "Request timeout (e.g., 15s)")
	hashKey := flags.String("hash-key", "", "Request integrity hash key")
	dbPath := flags.String("d", "", "Local SQLite database path")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, err
	}

	// Env wins over flags, flags over defaults.
	if cfg.Adapter.HTTPAddress == "" {
		cfg.Adapter.HTTPAddress = *address
	}
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = *timeout
	}
	if cfg.App.HashKey == "" {
		cfg.App.HashKey = *hashKey
	}
	if cfg.Storage.DB.DSN == "" {
		cfg.Storage.DB.DSN = *dbPath
	}

	if cfg.Adapter.HTTPAddress == "" {
		cfg.Adapter.HTTPAddress = "http://localhost:8080"
	}
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = 15 * time.Second
	}
	if cfg.Storage.DB.DSN == "" {
		cfg.Storage.DB.DSN = "record-sync.db"
	}

	return cfg, cfg.validate()
}
