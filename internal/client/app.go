package client

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/MKhiriev/go-record-sync/internal/adapter"
	"github.com/MKhiriev/go-record-sync/internal/config"
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/service"
	"github.com/MKhiriev/go-record-sync/internal/store"
	"github.com/MKhiriev/go-record-sync/internal/tui"
	"github.com/MKhiriev/go-record-sync/internal/utils"
	"github.com/google/uuid"
)

type App struct {
	services *service.ClientServices
	tui      *tui.TUI
	logger   *logger.Logger
}

func NewApp() (*App, error) {
	log := logger.NewClientLogger("client")

	cfg, err := config.GetClientConfig()
	if err != nil {
		return nil, fmt.Errorf("load client config: %w", err)
	}

	utils.InitHasherPool(cfg.App.HashKey)

	storages, err := store.NewClientStorages(cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	serverAdapter := adapter.NewHTTPServerAdapter(adapter.HTTPClientConfig{
		BaseURL: cfg.Adapter.HTTPAddress,
		HashKey: cfg.App.HashKey,
		Timeout: cfg.Adapter.RequestTimeout,
	})

	svcs := service.NewClientServices(storages, serverAdapter, deviceID(), log)

	ui, err := tui.New(svcs, log)
	if err != nil {
		return nil, fmt.Errorf("create review console: %w", err)
	}

	return &App{services: svcs, tui: ui, logger: log}, nil
}

func (a *App) Run() error {
	ctx := context.Background()

	err := a.tui.Run(ctx)
	if errors.Is(err, tui.ErrUserQuit) {
		return nil
	}

	return err
}

// deviceID identifies this device in sync batches and per-device sync state.
// The hostname is stable across runs; a generated UUID is the fallback for
// environments without one.
func deviceID() string {
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return uuid.NewString()
}
