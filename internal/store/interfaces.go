package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-record-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mocks.go -package=mock

// EntityStore is the CRUD backend for business records, scoped by
// organization. It is the engine's source of server truth during conflict
// detection and its write target during batch application.
//
// Concurrency precondition: Update, Delete, and SoftDelete take the version
// the caller read during detection and must apply conditionally on it
// (optimistic concurrency). Detection-then-apply is not atomic inside the
// engine; this conditional write is what keeps concurrent synchronize calls
// from silently overwriting each other.
type EntityStore interface {
	// Get returns the current record for (entityType, entityID) within the
	// organization, or ErrRecordNotFound.
	Get(ctx context.Context, entityType models.EntityType, entityID string, orgID int64) (models.EntityRecord, error)

	// Create inserts a new record. Returns ErrRecordAlreadyExists when a
	// live record with the same key is present.
	Create(ctx context.Context, record models.EntityRecord) error

	// Update overwrites the record's payload if and only if the stored
	// version equals expectedVersion. Returns ErrVersionConflict on
	// mismatch and ErrRecordNotFound when the record does not exist.
	Update(ctx context.Context, record models.EntityRecord, expectedVersion int64) error

	// Delete removes the record permanently, conditional on expectedVersion.
	Delete(ctx context.Context, entityType models.EntityType, entityID string, orgID int64, expectedVersion int64) error

	// SoftDelete marks the record deleted and bumps its version,
	// conditional on expectedVersion. Used for documents so that clients
	// holding stale copies can discover the deletion on their next sync.
	SoftDelete(ctx context.Context, entityType models.EntityType, entityID string, orgID int64, expectedVersion int64, deletedBy int64) error
}

// ConflictRepository durably persists conflicts awaiting manual resolution.
// Records are keyed by conflict ID and survive process restarts; pending
// conflicts are those whose resolved_at column is still NULL.
type ConflictRepository interface {
	// Upsert inserts the conflict or overwrites an existing record with the
	// same ID.
	Upsert(ctx context.Context, conflict models.SyncConflict) error

	// GetByID returns the conflict with the given ID, resolved or not, or
	// ErrConflictNotFound.
	GetByID(ctx context.Context, conflictID string) (models.SyncConflict, error)

	// ListPendingByUser returns unresolved conflicts whose local operation
	// was authored by userID, oldest first.
	ListPendingByUser(ctx context.Context, userID int64) ([]models.SyncConflict, error)

	// ListPendingOlderThan returns unresolved conflicts created before the
	// cutoff, oldest first. Used by the escalation worker.
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]models.SyncConflict, error)

	// MarkResolved stamps the resolution outcome onto the conflict and
	// removes it from the pending set. Returns ErrConflictNotFound when no
	// pending conflict with the given ID exists.
	MarkResolved(ctx context.Context, conflictID string, resolution models.ResolutionType, resolvedBy string, resolvedAt time.Time) error

	// CountPending returns the number of unresolved conflicts.
	CountPending(ctx context.Context) (int, error)

	// CountPendingByUser returns the number of unresolved conflicts whose
	// local operation was authored by userID.
	CountPendingByUser(ctx context.Context, userID int64) (int, error)
}

// SyncStateRepository persists the per-(device, user) synchronization
// bookmark upserted after each successful synchronize call.
type SyncStateRepository interface {
	Upsert(ctx context.Context, state models.SyncState) error
	Get(ctx context.Context, deviceID string, userID int64) (models.SyncState, error)
}

// UserRepository handles user account creation and lookup.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, user models.User) (models.User, error)
}

// AuditTrail is an append-only sink for security/integrity events: dropped
// operations and per-operation apply failures. Implementations must be safe
// for concurrent use.
type AuditTrail interface {
	Append(ctx context.Context, event AuditEvent) error
}

// AuditEvent is one line of the audit trail.
type AuditEvent struct {
	Time        time.Time         `json:"time"`
	Kind        string            `json:"kind"`
	OperationID string            `json:"operation_id,omitempty"`
	EntityType  models.EntityType `json:"entity_type,omitempty"`
	EntityID    string            `json:"entity_id,omitempty"`
	UserID      int64             `json:"user_id,omitempty"`
	DeviceID    string            `json:"device_id,omitempty"`
	Reason      string            `json:"reason"`
}

// Audit event kinds.
const (
	AuditOperationRejected = "operation_rejected"
	AuditApplyFailed       = "apply_failed"
	AuditConflictEscalated = "conflict_escalated"
)
