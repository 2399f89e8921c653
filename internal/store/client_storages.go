package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-record-sync/internal/config"
	"github.com/MKhiriev/go-record-sync/internal/logger"
)

// ClientStorages groups all client-side storage repositories into a single
// value that can be passed around the client application. Currently it holds
// only [OperationQueue]; additional repositories can be added here as the
// feature set grows.
type ClientStorages struct {
	// OperationQueue is the SQLite-backed queue of operations composed
	// while the server was unreachable.
	OperationQueue OperationQueue
}

// NewClientStorages initialises the client storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in cfg.DB.DSN,
//     creating the database file if it does not yet exist.
//  2. Ensures the queue schema exists.
//  3. Constructs and returns a [ClientStorages] value wired to a fresh
//     [OperationQueue].
//
// Returns an error if the database connection cannot be established or if
// schema setup fails.
func NewClientStorages(cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	ctx := context.Background()

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if _, err := db.ExecContext(ctx, createQueueTable); err != nil {
		return nil, fmt.Errorf("queue schema setup failed: %w", err)
	}

	return &ClientStorages{
		OperationQueue: NewOperationQueue(db, logger),
	}, nil
}
