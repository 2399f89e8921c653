package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/models"
)

// conflictRepository is the PostgreSQL-backed implementation of
// [ConflictRepository]. Both sides of a conflict are stored as JSONB
// snapshots of the sync operations, so a pending conflict is fully
// reconstructable after a restart. The user_id column is denormalised from
// the local operation's author to keep per-user listings on an index.
type conflictRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewConflictRepository constructs a [ConflictRepository] backed by the
// provided database connection and logger.
func NewConflictRepository(db *DB, logger *logger.Logger) ConflictRepository {
	logger.Debug().Msg("creating conflict repository")
	return &conflictRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts the conflict or refreshes the operation snapshots of an
// existing one with the same ID.
func (r *conflictRepository) Upsert(ctx context.Context, conflict models.SyncConflict) error {
	log := logger.FromContext(ctx)

	localOp, err := json.Marshal(conflict.LocalVersion)
	if err != nil {
		log.Err(err).Str("func", "*conflictRepository.Upsert").Msg("error: local operation encoding error")
		return fmt.Errorf("%w: %w", ErrMarshalPayload, err)
	}
	remoteOp, err := json.Marshal(conflict.RemoteVersion)
	if err != nil {
		log.Err(err).Str("func", "*conflictRepository.Upsert").Msg("error: remote operation encoding error")
		return fmt.Errorf("%w: %w", ErrMarshalPayload, err)
	}

	_, err = r.db.ExecContext(ctx, upsertConflict,
		conflict.ID,
		conflict.EntityType,
		conflict.EntityID,
		conflict.LocalVersion.UserID,
		localOp,
		remoteOp,
		conflict.ConflictType,
		conflict.CreatedAt,
	)
	if err != nil {
		log.Err(err).Str("func", "*conflictRepository.Upsert").Msg("error: upsert failed")
		return fmt.Errorf("%w: %w", ErrDatabaseExec, err)
	}

	return nil
}

// GetByID returns the conflict with the given ID, resolved or not.
func (r *conflictRepository) GetByID(ctx context.Context, conflictID string) (models.SyncConflict, error) {
	row := r.db.QueryRowContext(ctx, getConflictByID, conflictID)

	conflict, err := r.scanConflict(ctx, row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SyncConflict{}, ErrConflictNotFound
	}

	return conflict, err
}

// ListPendingByUser returns unresolved conflicts whose local operation was
// authored by userID, oldest first.
func (r *conflictRepository) ListPendingByUser(ctx context.Context, userID int64) ([]models.SyncConflict, error) {
	return r.listPending(ctx, pendingConflictFilter{userID: &userID})
}

// ListPendingOlderThan returns unresolved conflicts created before the
// cutoff, oldest first.
func (r *conflictRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]models.SyncConflict, error) {
	return r.listPending(ctx, pendingConflictFilter{olderThan: &cutoff})
}

func (r *conflictRepository) listPending(ctx context.Context, filter pendingConflictFilter) ([]models.SyncConflict, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListPendingConflictsQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "*conflictRepository.listPending").Msg("error: query building error")
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*conflictRepository.listPending").Msg("error: query failed")
		return nil, fmt.Errorf("%w: %w", ErrDatabaseExec, err)
	}
	defer rows.Close()

	var conflicts []models.SyncConflict
	for rows.Next() {
		conflict, err := r.scanConflict(ctx, rows.Scan)
		if err != nil {
			return nil, err
		}
		conflicts = append(conflicts, conflict)
	}
	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "*conflictRepository.listPending").Msg("error: rows iteration error")
		return nil, fmt.Errorf("%w: %w", ErrDatabaseScan, err)
	}

	return conflicts, nil
}

// MarkResolved stamps the resolution outcome onto a pending conflict.
// Already-resolved and unknown conflicts both report [ErrConflictNotFound].
func (r *conflictRepository) MarkResolved(ctx context.Context, conflictID string, resolution models.ResolutionType, resolvedBy string, resolvedAt time.Time) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, markConflictResolved, conflictID, resolution, resolvedBy, resolvedAt)
	if err != nil {
		log.Err(err).Str("func", "*conflictRepository.MarkResolved").Msg("error: update failed")
		return fmt.Errorf("%w: %w", ErrDatabaseExec, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", "*conflictRepository.MarkResolved").Msg("error: rows affected error")
		return fmt.Errorf("%w: %w", ErrDatabaseExec, err)
	}
	if affected == 0 {
		return ErrConflictNotFound
	}

	return nil
}

// CountPending returns the number of unresolved conflicts.
func (r *conflictRepository) CountPending(ctx context.Context) (int, error) {
	return r.countPending(ctx, countPendingConflicts)
}

// CountPendingByUser returns the number of unresolved conflicts whose local
// operation was authored by userID.
func (r *conflictRepository) CountPendingByUser(ctx context.Context, userID int64) (int, error) {
	return r.countPending(ctx, countPendingConflictsByUser, userID)
}

func (r *conflictRepository) countPending(ctx context.Context, query string, args ...any) (int, error) {
	log := logger.FromContext(ctx)

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Err(err).Str("func", "*conflictRepository.countPending").Msg("error: scanning error")
		return 0, fmt.Errorf("%w: %w", ErrDatabaseScan, err)
	}

	return count, nil
}

// scanConflict reconstructs a [models.SyncConflict] from one row. The scan
// callback abstracts over *sql.Row and *sql.Rows.
func (r *conflictRepository) scanConflict(ctx context.Context, scan func(dest ...any) error) (models.SyncConflict, error) {
	log := logger.FromContext(ctx)

	var (
		conflict   models.SyncConflict
		localOp    []byte
		remoteOp   []byte
		resolution sql.NullString
		resolvedAt sql.NullTime
		resolvedBy sql.NullString
	)
	err := scan(
		&conflict.ID,
		&conflict.EntityType,
		&conflict.EntityID,
		&localOp,
		&remoteOp,
		&conflict.ConflictType,
		&resolution,
		&resolvedAt,
		&resolvedBy,
		&conflict.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SyncConflict{}, err
	}
	if err != nil {
		log.Err(err).Str("func", "*conflictRepository.scanConflict").Msg("error: scanning error")
		return models.SyncConflict{}, fmt.Errorf("%w: %w", ErrDatabaseScan, err)
	}

	if err := json.Unmarshal(localOp, &conflict.LocalVersion); err != nil {
		log.Err(err).Str("func", "*conflictRepository.scanConflict").Msg("error: local operation decoding error")
		return models.SyncConflict{}, fmt.Errorf("%w: %w", ErrUnmarshalPayload, err)
	}
	if err := json.Unmarshal(remoteOp, &conflict.RemoteVersion); err != nil {
		log.Err(err).Str("func", "*conflictRepository.scanConflict").Msg("error: remote operation decoding error")
		return models.SyncConflict{}, fmt.Errorf("%w: %w", ErrUnmarshalPayload, err)
	}

	if resolution.Valid {
		conflict.Resolution = models.ResolutionType(resolution.String)
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		conflict.ResolvedAt = &t
	}
	if resolvedBy.Valid {
		conflict.ResolvedBy = resolvedBy.String
	}

	return conflict, nil
}
