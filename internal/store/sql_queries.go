// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	createUser = `INSERT INTO users (login, password_hash, name, org_id)
    VALUES ($1, $2, $3, $4)
    RETURNING user_id, login, password_hash, name, org_id, created_at;`

	findUserByLogin = `SELECT user_id, login, password_hash, name, org_id, created_at
    FROM users
    WHERE login = $1;`

	getRecord = `
		SELECT
			entity_type,
			entity_id,
			org_id,
			data,
			version,
			updated_at,
			updated_by,
			deleted,
			checksum
		FROM records
		WHERE entity_type = $1 AND entity_id = $2 AND org_id = $3;`

	createRecord = `
		INSERT INTO records (
			entity_type,
			entity_id,
			org_id,
			data,
			version,
			updated_at,
			updated_by,
			deleted,
			checksum
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	// updateRecord applies the new payload only when the stored version still
	// equals the one the caller read. The CTE reports both outcomes in a
	// single round trip: updated_id is NULL when the conditional UPDATE
	// matched nothing, and current_db_version is NULL when the record does
	// not exist at all.
	updateRecord = `
       WITH target_record AS (
          SELECT entity_id, version
          FROM records
          WHERE entity_type = $1 AND entity_id = $2 AND org_id = $3
       ),
       updated_record AS (
          UPDATE records
          SET data = $4, version = $5, updated_at = $6, updated_by = $7, checksum = $8, deleted = false
          WHERE entity_type = $1
            AND entity_id = $2
            AND org_id = $3
            AND version = $9
          RETURNING entity_id
       )
       SELECT
          (SELECT entity_id FROM updated_record)  AS updated_id,
          (SELECT version FROM target_record)     AS current_db_version;`

	deleteRecord = `
       WITH target_record AS (
          SELECT entity_id, version
          FROM records
          WHERE entity_type = $1 AND entity_id = $2 AND org_id = $3
       ),
       deleted_record AS (
          DELETE FROM records
          WHERE entity_type = $1
            AND entity_id = $2
            AND org_id = $3
            AND version = $4
          RETURNING entity_id
       )
       SELECT
          (SELECT entity_id FROM deleted_record)  AS deleted_id,
          (SELECT version FROM target_record)     AS current_db_version;`

	softDeleteRecord = `
       WITH target_record AS (
          SELECT entity_id, version
          FROM records
          WHERE entity_type = $1 AND entity_id = $2 AND org_id = $3
       ),
       updated_record AS (
          UPDATE records
          SET deleted = true, version = version + 1, updated_at = $4, updated_by = $5
          WHERE entity_type = $1
            AND entity_id = $2
            AND org_id = $3
            AND version = $6
          RETURNING entity_id
       )
       SELECT
          (SELECT entity_id FROM updated_record)  AS updated_id,
          (SELECT version FROM target_record)     AS current_db_version;`

	upsertConflict = `
		INSERT INTO sync_conflicts (
			id,
			entity_type,
			entity_id,
			user_id,
			local_op,
			remote_op,
			conflict_type,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET local_op = EXCLUDED.local_op,
			remote_op = EXCLUDED.remote_op,
			conflict_type = EXCLUDED.conflict_type;`

	getConflictByID = `
		SELECT
			id,
			entity_type,
			entity_id,
			local_op,
			remote_op,
			conflict_type,
			resolution,
			resolved_at,
			resolved_by,
			created_at
		FROM sync_conflicts
		WHERE id = $1;`

	markConflictResolved = `
		UPDATE sync_conflicts
		SET resolution = $2, resolved_by = $3, resolved_at = $4
		WHERE id = $1 AND resolved_at IS NULL;`

	countPendingConflicts = `
		SELECT COUNT(*) FROM sync_conflicts WHERE resolved_at IS NULL;`

	countPendingConflictsByUser = `
		SELECT COUNT(*) FROM sync_conflicts WHERE resolved_at IS NULL AND user_id = $1;`

	upsertSyncState = `
		INSERT INTO sync_states (device_id, user_id, last_sync, pending_operations)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (device_id, user_id) DO UPDATE
		SET last_sync = EXCLUDED.last_sync,
			pending_operations = EXCLUDED.pending_operations;`

	getSyncState = `
		SELECT device_id, user_id, last_sync, pending_operations
		FROM sync_states
		WHERE device_id = $1 AND user_id = $2;`
)

// pendingConflictColumns is the column set scanned by every pending-conflict
// listing query. Order must match scanConflictRow.
var pendingConflictColumns = []string{
	"id",
	"entity_type",
	"entity_id",
	"local_op",
	"remote_op",
	"conflict_type",
	"resolution",
	"resolved_at",
	"resolved_by",
	"created_at",
}

// pendingConflictFilter narrows a pending-conflict listing. Nil fields are
// not applied.
type pendingConflictFilter struct {
	userID    *int64
	olderThan *time.Time
}

// buildListPendingConflictsQuery assembles the pending-conflict SELECT with
// the given filter, oldest conflicts first.
func buildListPendingConflictsQuery(filter pendingConflictFilter) (string, []any, error) {
	builder := sq.Select(pendingConflictColumns...).
		From("sync_conflicts").
		Where(sq.Eq{"resolved_at": nil}).
		OrderBy("created_at ASC").
		PlaceholderFormat(sq.Dollar)

	if filter.userID != nil {
		builder = builder.Where(sq.Eq{"user_id": *filter.userID})
	}
	if filter.olderThan != nil {
		builder = builder.Where(sq.Lt{"created_at": *filter.olderThan})
	}

	return builder.ToSql()
}
