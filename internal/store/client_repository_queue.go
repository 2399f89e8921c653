package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/models"
)

// operationQueue is the SQLite-backed implementation of [OperationQueue].
// Each row stores the full operation as a JSON payload so the typed entity
// round-trips untouched.
type operationQueue struct {
	logger *logger.Logger
	db     *DB
}

// NewOperationQueue constructs an [OperationQueue] backed by the provided
// local database connection and logger.
func NewOperationQueue(db *DB, logger *logger.Logger) OperationQueue {
	logger.Debug().Msg("creating operation queue")
	return &operationQueue{
		db:     db,
		logger: logger,
	}
}

// Enqueue stores an operation. Re-enqueueing the same operation ID replaces
// the stored payload, so an edit made while still offline supersedes the
// earlier queue entry.
func (q *operationQueue) Enqueue(ctx context.Context, op models.SyncOperation) error {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(op)
	if err != nil {
		log.Err(err).Str("func", "*operationQueue.Enqueue").Msg("error: operation encoding error")
		return fmt.Errorf("%w: %w", ErrMarshalPayload, err)
	}

	if _, err := q.db.ExecContext(ctx, enqueueOperation, op.ID, payload, time.Now()); err != nil {
		log.Err(err).Str("func", "*operationQueue.Enqueue").Msg("error: insert failed")
		return fmt.Errorf("%w: %w", ErrDatabaseExec, err)
	}

	return nil
}

// Pending returns all queued operations in enqueue order.
func (q *operationQueue) Pending(ctx context.Context) ([]models.SyncOperation, error) {
	log := logger.FromContext(ctx)

	rows, err := q.db.QueryContext(ctx, listQueuedOperations)
	if err != nil {
		log.Err(err).Str("func", "*operationQueue.Pending").Msg("error: query failed")
		return nil, fmt.Errorf("%w: %w", ErrDatabaseExec, err)
	}
	defer rows.Close()

	var ops []models.SyncOperation
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			log.Err(err).Str("func", "*operationQueue.Pending").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrDatabaseScan, err)
		}

		var op models.SyncOperation
		if err := json.Unmarshal(payload, &op); err != nil {
			log.Err(err).Str("func", "*operationQueue.Pending").Msg("error: operation decoding error")
			return nil, fmt.Errorf("%w: %w", ErrUnmarshalPayload, err)
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "*operationQueue.Pending").Msg("error: rows iteration error")
		return nil, fmt.Errorf("%w: %w", ErrDatabaseScan, err)
	}

	return ops, nil
}

// Remove deletes acknowledged operations. Unknown IDs are ignored.
func (q *operationQueue) Remove(ctx context.Context, operationIDs ...string) error {
	log := logger.FromContext(ctx)

	for _, id := range operationIDs {
		if _, err := q.db.ExecContext(ctx, removeQueuedOperation, id); err != nil {
			log.Err(err).Str("func", "*operationQueue.Remove").Msg("error: delete failed")
			return fmt.Errorf("%w: %w", ErrDatabaseExec, err)
		}
	}

	return nil
}

// Count returns the number of queued operations.
func (q *operationQueue) Count(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	var count int
	if err := q.db.QueryRowContext(ctx, countQueuedOperations).Scan(&count); err != nil {
		log.Err(err).Str("func", "*operationQueue.Count").Msg("error: scanning error")
		return 0, fmt.Errorf("%w: %w", ErrDatabaseScan, err)
	}

	return count, nil
}
