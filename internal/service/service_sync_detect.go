package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-record-sync/internal/store"
	"github.com/MKhiriev/go-record-sync/models"
)

// opPlan is the detection verdict for one operation: the operation itself,
// the server record it was compared against, and the conflict class if any.
// The record's version is carried to the apply stage so conditional writes
// are keyed on the exact state detection saw.
type opPlan struct {
	op     models.SyncOperation
	exists bool
	record models.EntityRecord

	// conflictType is empty when the operation can be applied directly.
	conflictType models.ConflictType
}

// detect compares one operation against current server state and classifies
// it. Detection rules are evaluated in a fixed order — version, concurrent,
// delete — and the first match wins, so every conflicted operation carries
// exactly one conflict type.
func (s *syncService) detect(ctx context.Context, op models.SyncOperation, orgID int64) (opPlan, error) {
	plan := opPlan{op: op}

	record, err := s.entities.Get(ctx, op.EntityType, op.EntityID, orgID)
	if errors.Is(err, store.ErrRecordNotFound) {
		// nothing to collide with: create path
		return plan, nil
	}
	if err != nil {
		return opPlan{}, fmt.Errorf("entity lookup failed: %w", err)
	}

	plan.exists = true
	plan.record = record

	switch {
	case record.Version > op.Version:
		// the device proposes a change on top of state it has not seen
		plan.conflictType = models.ConflictVersion

	case record.UpdatedBy != op.UserID && withinWindow(record.UpdatedAt, op.Timestamp, s.concurrentWindow):
		plan.conflictType = models.ConflictConcurrent

	case op.Operation == models.OperationDelete && record.UpdatedAt.After(op.Timestamp):
		plan.conflictType = models.ConflictDelete
	}

	return plan, nil
}

// buildConflict pairs the device's operation with a synthesized operation
// reflecting the server record detection saw.
func (s *syncService) buildConflict(plan opPlan) models.SyncConflict {
	return models.SyncConflict{
		ID:            s.uuid.Generate(),
		EntityType:    plan.op.EntityType,
		EntityID:      plan.op.EntityID,
		LocalVersion:  plan.op,
		RemoteVersion: s.remoteOperation(plan),
		ConflictType:  plan.conflictType,
		CreatedAt:     time.Now(),
	}
}

// remoteOperation synthesizes the server's side of a conflict from the
// record: server payload, version, checksum, the record's last modification
// time as the timestamp, and the last writer as the author. A soft-deleted
// record presents as a delete operation.
func (s *syncService) remoteOperation(plan opPlan) models.SyncOperation {
	operation := models.OperationUpdate
	if plan.record.Deleted {
		operation = models.OperationDelete
	}

	var data models.Entity
	if plan.record.Data != nil {
		data = plan.record.Data.Clone()
	}

	return models.SyncOperation{
		ID:         s.uuid.Generate(),
		EntityType: plan.record.EntityType,
		EntityID:   plan.record.EntityID,
		Operation:  operation,
		Data:       data,
		Timestamp:  plan.record.UpdatedAt,
		DeviceID:   "server",
		UserID:     plan.record.UpdatedBy,
		Version:    plan.record.Version,
		Checksum:   plan.record.Checksum,
	}
}

// withinWindow reports whether two instants lie within the concurrent-edit
// window of each other, in either direction.
func withinWindow(a, b time.Time, window time.Duration) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= window
}
