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
	"github.com/jackc/pgerrcode"
)

// entityRepository is the PostgreSQL-backed implementation of [EntityStore].
// Records live in the "records" table keyed by (entity_type, entity_id,
// org_id); the typed payload is stored as JSONB.
//
// Conditional writes use a CTE that performs the version-guarded mutation and
// reports the record's current version in the same round trip, so the caller
// can tell a missing record apart from a stale one without a second query.
type entityRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewEntityRepository constructs an [EntityStore] backed by the provided
// database connection and logger.
func NewEntityRepository(db *DB, logger *logger.Logger) EntityStore {
	logger.Debug().Msg("creating entity repository")
	return &entityRepository{
		db:     db,
		logger: logger,
	}
}

// Get returns the current record for (entityType, entityID) within the
// organization. Soft-deleted records are returned with Deleted=true so the
// detector can recognise delete conflicts.
func (r *entityRepository) Get(ctx context.Context, entityType models.EntityType, entityID string, orgID int64) (models.EntityRecord, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, getRecord, entityType, entityID, orgID)

	var (
		record  models.EntityRecord
		rawData []byte
	)
	err := row.Scan(
		&record.EntityType,
		&record.EntityID,
		&record.OrganizationID,
		&rawData,
		&record.Version,
		&record.UpdatedAt,
		&record.UpdatedBy,
		&record.Deleted,
		&record.Checksum,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.EntityRecord{}, ErrRecordNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*entityRepository.Get").Msg("error: scanning error")
		return models.EntityRecord{}, fmt.Errorf("%w: %w", ErrDatabaseScan, err)
	}

	record.Data, err = models.DecodeEntity(record.EntityType, rawData)
	if err != nil {
		log.Err(err).Str("func", "*entityRepository.Get").Msg("error: payload decoding error")
		return models.EntityRecord{}, fmt.Errorf("%w: %w", ErrUnmarshalPayload, err)
	}

	return record, nil
}

// Create inserts a new record. A primary-key collision maps to
// [ErrRecordAlreadyExists] so the engine can degrade the create to an update.
func (r *entityRepository) Create(ctx context.Context, record models.EntityRecord) error {
	log := logger.FromContext(ctx)

	rawData, err := marshalEntity(record.Data)
	if err != nil {
		log.Err(err).Str("func", "*entityRepository.Create").Msg("error: payload encoding error")
		return err
	}

	_, err = r.db.ExecContext(ctx, createRecord,
		record.EntityType,
		record.EntityID,
		record.OrganizationID,
		rawData,
		record.Version,
		record.UpdatedAt,
		record.UpdatedBy,
		record.Deleted,
		record.Checksum,
	)
	if err != nil {
		log.Err(err).Str("func", "*entityRepository.Create").Msg("error: insert failed")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return ErrRecordAlreadyExists
		default:
			return fmt.Errorf("%w: %w", ErrDatabaseExec, err)
		}
	}

	return nil
}

// Update overwrites the record's payload conditional on expectedVersion.
func (r *entityRepository) Update(ctx context.Context, record models.EntityRecord, expectedVersion int64) error {
	log := logger.FromContext(ctx)

	rawData, err := marshalEntity(record.Data)
	if err != nil {
		log.Err(err).Str("func", "*entityRepository.Update").Msg("error: payload encoding error")
		return err
	}

	row := r.db.QueryRowContext(ctx, updateRecord,
		record.EntityType,
		record.EntityID,
		record.OrganizationID,
		rawData,
		record.Version,
		record.UpdatedAt,
		record.UpdatedBy,
		record.Checksum,
		expectedVersion,
	)

	return r.scanConditionalWrite(ctx, row, "*entityRepository.Update")
}

// Delete removes the record permanently, conditional on expectedVersion.
func (r *entityRepository) Delete(ctx context.Context, entityType models.EntityType, entityID string, orgID int64, expectedVersion int64) error {
	row := r.db.QueryRowContext(ctx, deleteRecord, entityType, entityID, orgID, expectedVersion)
	return r.scanConditionalWrite(ctx, row, "*entityRepository.Delete")
}

// SoftDelete marks the record deleted and bumps its version, conditional on
// expectedVersion. The payload is left in place so a later manual resolution
// can still inspect it.
func (r *entityRepository) SoftDelete(ctx context.Context, entityType models.EntityType, entityID string, orgID int64, expectedVersion int64, deletedBy int64) error {
	row := r.db.QueryRowContext(ctx, softDeleteRecord, entityType, entityID, orgID, time.Now(), deletedBy, expectedVersion)
	return r.scanConditionalWrite(ctx, row, "*entityRepository.SoftDelete")
}

// scanConditionalWrite interprets the two-column result of a version-guarded
// CTE write:
//   - current_db_version NULL → the record does not exist → [ErrRecordNotFound]
//   - updated_id NULL         → the version guard failed  → [ErrVersionConflict]
func (r *entityRepository) scanConditionalWrite(ctx context.Context, row *sql.Row, funcName string) error {
	log := logger.FromContext(ctx)

	var (
		updatedID        sql.NullString
		currentDBVersion sql.NullInt64
	)
	if err := row.Scan(&updatedID, &currentDBVersion); err != nil {
		log.Err(err).Str("func", funcName).Msg("error: scanning error")
		return fmt.Errorf("%w: %w", ErrDatabaseScan, err)
	}

	if !currentDBVersion.Valid {
		return ErrRecordNotFound
	}
	if !updatedID.Valid {
		return ErrVersionConflict
	}

	return nil
}

// marshalEntity encodes a typed payload for JSONB storage. A nil payload is
// stored as SQL NULL.
func marshalEntity(entity models.Entity) ([]byte, error) {
	if entity == nil {
		return nil, nil
	}

	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMarshalPayload, err)
	}

	return raw, nil
}
