// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	createQueueTable = `
		CREATE TABLE IF NOT EXISTS queued_operations (
			operation_id TEXT PRIMARY KEY,
			payload      TEXT NOT NULL,
			queued_at    TIMESTAMP NOT NULL
		);`

	enqueueOperation = `
		INSERT INTO queued_operations (operation_id, payload, queued_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (operation_id) DO UPDATE
		SET payload = EXCLUDED.payload;`

	listQueuedOperations = `
		SELECT payload
		FROM queued_operations
		ORDER BY queued_at ASC, operation_id ASC;`

	removeQueuedOperation = `
		DELETE FROM queued_operations
		WHERE operation_id = $1;`

	countQueuedOperations = `
		SELECT COUNT(*) FROM queued_operations;`
)
