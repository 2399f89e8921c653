package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/models"
)

// syncStateRepository is the PostgreSQL-backed implementation of
// [SyncStateRepository]. One row per (device_id, user_id) pair.
type syncStateRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSyncStateRepository constructs a [SyncStateRepository] backed by the
// provided database connection and logger.
func NewSyncStateRepository(db *DB, logger *logger.Logger) SyncStateRepository {
	logger.Debug().Msg("creating sync state repository")
	return &syncStateRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert writes the device's synchronization bookmark.
func (r *syncStateRepository) Upsert(ctx context.Context, state models.SyncState) error {
	log := logger.FromContext(ctx)

	_, err := r.db.ExecContext(ctx, upsertSyncState,
		state.DeviceID,
		state.UserID,
		state.LastSync,
		state.PendingOperations,
	)
	if err != nil {
		log.Err(err).Str("func", "*syncStateRepository.Upsert").Msg("error: upsert failed")
		return fmt.Errorf("%w: %w", ErrDatabaseExec, err)
	}

	return nil
}

// Get returns the bookmark for (deviceID, userID), or [ErrRecordNotFound]
// when the device has never synchronized.
func (r *syncStateRepository) Get(ctx context.Context, deviceID string, userID int64) (models.SyncState, error) {
	log := logger.FromContext(ctx)

	var state models.SyncState
	row := r.db.QueryRowContext(ctx, getSyncState, deviceID, userID)

	err := row.Scan(&state.DeviceID, &state.UserID, &state.LastSync, &state.PendingOperations)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SyncState{}, ErrRecordNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*syncStateRepository.Get").Msg("error: scanning error")
		return models.SyncState{}, fmt.Errorf("%w: %w", ErrDatabaseScan, err)
	}

	return state, nil
}
