package models

import "time"

// SyncResult is the aggregate outcome of one synchronize call. It is a value
// object assembled for the response and never persisted.
type SyncResult struct {
	// Success is false only when orchestration itself failed; per-operation
	// apply failures and pending conflicts do not clear it. Callers seeing
	// Success == false must treat server state as unknown and re-sync.
	Success bool `json:"success"`

	// OperationsApplied counts operations written to the entity store,
	// including auto-resolved conflict outcomes.
	OperationsApplied int `json:"operations_applied"`

	// Conflicts lists the conflicts still pending after the call, i.e.
	// those parked for manual review. Auto-resolved conflicts do not
	// appear here.
	Conflicts []SyncConflict `json:"conflicts,omitempty"`

	// Errors lists per-operation apply failures. A failed operation never
	// aborts the rest of the batch.
	Errors []SyncError `json:"errors,omitempty"`

	// State is the post-call sync-state snapshot for the device.
	State SyncState `json:"state"`
}

// SyncError attributes one failure to the operation that caused it.
type SyncError struct {
	OperationID string     `json:"operation_id"`
	EntityType  EntityType `json:"entity_type,omitempty"`
	EntityID    string     `json:"entity_id,omitempty"`
	Message     string     `json:"message"`
}

// SyncState is the per-(device, user) synchronization bookmark. It is
// upserted after every successful synchronize call.
type SyncState struct {
	DeviceID string    `json:"device_id"`
	UserID   int64     `json:"user_id"`
	LastSync time.Time `json:"last_sync"`

	// PendingOperations is the number of conflicts awaiting manual
	// resolution for the user at the end of the call.
	PendingOperations int `json:"pending_operations"`
}

// SyncStats is the engine-level counters snapshot exposed by the stats
// endpoint. All values are per engine instance; there is no global state.
type SyncStats struct {
	// PendingConflicts is the number of unresolved conflicts currently
	// parked in the durable conflict store.
	PendingConflicts int `json:"pending_conflicts"`

	// ProcessingRate is applied operations per second of cumulative
	// synchronize wall time.
	ProcessingRate float64 `json:"processing_rate"`

	// ErrorRate is failed operations over processed operations.
	ErrorRate float64 `json:"error_rate"`

	// AvgSyncTime is the mean duration of a synchronize call.
	AvgSyncTime time.Duration `json:"avg_sync_time"`
}
