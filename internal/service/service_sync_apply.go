package service

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/store"
	"github.com/MKhiriev/go-record-sync/models"
)

// applyAll writes the final operations to the entity store, grouped by
// entity type in the closed set's stable order and in submission order within
// a group. A failed operation is recorded and skipped; it never aborts the
// rest of the batch, and nothing already applied is rolled back.
func (s *syncService) applyAll(ctx context.Context, plans []opPlan, orgID int64) (int, []models.SyncError) {
	log := logger.FromContext(ctx)

	byType := make(map[models.EntityType][]opPlan, len(models.EntityTypeOrder))
	for _, plan := range plans {
		byType[plan.op.EntityType] = append(byType[plan.op.EntityType], plan)
	}

	var (
		applied   int
		applyErrs []models.SyncError
	)
	for _, entityType := range models.EntityTypeOrder {
		for _, plan := range byType[entityType] {
			if err := s.applyOperation(ctx, plan, orgID); err != nil {
				log.Err(err).
					Str("operation_id", plan.op.ID).
					Str("entity_id", plan.op.EntityID).
					Msg("operation apply failed")
				s.auditApplyFailure(ctx, plan.op, err)
				applyErrs = append(applyErrs, syncError(plan.op, err))
				continue
			}
			applied++
		}
	}

	return applied, applyErrs
}

// applyOperation writes one operation. Conditional writes are keyed on the
// version detection saw (plan.record.Version), so a concurrent writer that
// sneaked in between detection and apply surfaces as a version conflict
// instead of a silent overwrite.
//
// Degradations, in both directions: a create hitting an existing record is
// retried as an update, an update hitting no record is retried as a create.
// Offline queues replay creates and reference records other devices already
// removed; both cases are expected, not errors.
func (s *syncService) applyOperation(ctx context.Context, plan opPlan, orgID int64) error {
	op := plan.op

	switch op.Operation {
	case models.OperationCreate:
		if plan.exists {
			return s.updateRecord(ctx, plan, orgID)
		}
		err := s.entities.Create(ctx, s.recordFromOperation(op, orgID, baseVersion(op)))
		if errors.Is(err, store.ErrRecordAlreadyExists) {
			return s.refreshAndUpdate(ctx, op, orgID)
		}
		return err

	case models.OperationUpdate:
		if !plan.exists {
			return s.entities.Create(ctx, s.recordFromOperation(op, orgID, baseVersion(op)))
		}
		return s.updateRecord(ctx, plan, orgID)

	case models.OperationDelete:
		if !plan.exists {
			// already gone: deleting is idempotent
			return nil
		}
		if op.EntityType == models.EntityTypeDocument {
			return s.entities.SoftDelete(ctx, op.EntityType, op.EntityID, orgID, plan.record.Version, op.UserID)
		}
		return s.entities.Delete(ctx, op.EntityType, op.EntityID, orgID, plan.record.Version)

	default:
		return ErrInvalidDataProvided
	}
}

// updateRecord performs the conditional update against the version read
// during detection. The stored version lands strictly above what the server
// had, and never below what the operation itself carries (merge outputs
// arrive with their version already bumped).
func (s *syncService) updateRecord(ctx context.Context, plan opPlan, orgID int64) error {
	version := maxInt64(plan.op.Version, plan.record.Version+1)
	return s.entities.Update(ctx, s.recordFromOperation(plan.op, orgID, version), plan.record.Version)
}

// refreshAndUpdate handles the create-vs-create race: the record appeared
// between detection and apply, so re-read it and degrade to an update.
func (s *syncService) refreshAndUpdate(ctx context.Context, op models.SyncOperation, orgID int64) error {
	record, err := s.entities.Get(ctx, op.EntityType, op.EntityID, orgID)
	if err != nil {
		return err
	}
	return s.updateRecord(ctx, opPlan{op: op, exists: true, record: record}, orgID)
}

func (s *syncService) recordFromOperation(op models.SyncOperation, orgID int64, version int64) models.EntityRecord {
	return models.EntityRecord{
		EntityType:     op.EntityType,
		EntityID:       op.EntityID,
		OrganizationID: orgID,
		Data:           op.Data,
		Version:        version,
		UpdatedAt:      op.Timestamp,
		UpdatedBy:      op.UserID,
		Checksum:       op.Checksum,
	}
}

// baseVersion is the version a freshly created record starts at.
func baseVersion(op models.SyncOperation) int64 {
	if op.Version > 0 {
		return op.Version
	}
	return 1
}

func (s *syncService) auditApplyFailure(ctx context.Context, op models.SyncOperation, cause error) {
	log := logger.FromContext(ctx)

	event := store.AuditEvent{
		Kind:        store.AuditApplyFailed,
		OperationID: op.ID,
		EntityType:  op.EntityType,
		EntityID:    op.EntityID,
		UserID:      op.UserID,
		DeviceID:    op.DeviceID,
		Reason:      cause.Error(),
	}
	if err := s.audit.Append(ctx, event); err != nil {
		log.Err(err).Str("operation_id", op.ID).Msg("audit trail write failed")
	}
}
