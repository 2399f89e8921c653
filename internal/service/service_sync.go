package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/MKhiriev/go-record-sync/internal/config"
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/store"
	"github.com/MKhiriev/go-record-sync/internal/utils"
	"github.com/MKhiriev/go-record-sync/internal/validators"
	"github.com/MKhiriev/go-record-sync/models"
)

// syncService is the concrete implementation of [SyncService]. One instance
// serves every device of the deployment; all mutable state is either behind
// the stats mutex or delegated to the stores, so concurrent Synchronize calls
// are safe. Cross-call write races on the same entity are resolved by the
// entity store's optimistic concurrency check, not by locking here.
type syncService struct {
	entities   store.EntityStore
	conflicts  store.ConflictRepository
	syncStates store.SyncStateRepository
	audit      store.AuditTrail

	validator *validators.SyncOperationValidator
	uuid      *utils.UUIDGenerator

	// strategy is applied uniformly to every conflict of every call.
	strategy         models.ResolutionStrategy
	concurrentWindow time.Duration
	maxBatchSize     int

	logger *logger.Logger

	// engine counters behind GetSyncStats; per instance, never global
	statsMu       sync.Mutex
	appliedOps    int
	failedOps     int
	processedOps  int
	syncCalls     int
	totalSyncTime time.Duration
}

// NewSyncService constructs the engine with the injected stores, operation
// validator, and sync configuration.
func NewSyncService(
	entities store.EntityStore,
	conflicts store.ConflictRepository,
	syncStates store.SyncStateRepository,
	audit store.AuditTrail,
	validator *validators.SyncOperationValidator,
	cfg config.Sync,
	logger *logger.Logger,
) SyncService {
	return &syncService{
		entities:         entities,
		conflicts:        conflicts,
		syncStates:       syncStates,
		audit:            audit,
		validator:        validator,
		uuid:             utils.NewUUIDGenerator(),
		strategy:         models.ResolutionStrategy(cfg.Strategy),
		concurrentWindow: cfg.ConcurrentWindow,
		maxBatchSize:     cfg.MaxBatchSize,
		logger:           logger,
	}
}

// Synchronize implements [SyncService].
//
// Pipeline per batch: validate → detect → resolve → apply → park → bookmark.
// Invalid operations are dropped silently (audited, never surfaced as user
// errors). Per-operation apply failures land in Errors without aborting the
// batch; already-applied operations are not rolled back. Success is cleared
// only when orchestration itself fails (conflict parking or bookmark upsert),
// in which case the caller must treat server state as unknown and re-sync.
func (s *syncService) Synchronize(ctx context.Context, batch models.SyncBatch) (models.SyncResult, error) {
	log := logger.FromContext(ctx)
	started := time.Now()

	result := models.SyncResult{Success: true}

	if batch.UserID == 0 {
		log.Error().Str("device_id", batch.DeviceID).Msg("batch has no user id")
		return models.SyncResult{}, ErrBatchUserMissing
	}
	if s.maxBatchSize > 0 && len(batch.Operations) > s.maxBatchSize {
		log.Error().
			Str("device_id", batch.DeviceID).
			Int("operations", len(batch.Operations)).
			Int("max", s.maxBatchSize).
			Msg("batch rejected: too many operations")
		result.Success = false
		result.Errors = append(result.Errors, models.SyncError{
			Message: fmt.Sprintf("%s: %d > %d", ErrBatchTooLarge, len(batch.Operations), s.maxBatchSize),
		})
		return result, nil
	}

	// ── validate: drop rejected operations silently ──────────────────────
	valid := make([]models.SyncOperation, 0, len(batch.Operations))
	for _, op := range batch.Operations {
		if err := s.validator.ValidateOperation(op, batch.UserID); err != nil {
			s.auditRejected(ctx, op, err)
			continue
		}
		valid = append(valid, op)
	}

	// ── detect: classify each operation against server state ─────────────
	var (
		applicable []opPlan
		conflicted []opPlan
	)
	for _, op := range valid {
		plan, err := s.detect(ctx, op, batch.OrganizationID)
		if err != nil {
			log.Err(err).Str("operation_id", op.ID).Msg("conflict detection failed")
			result.Errors = append(result.Errors, syncError(op, err))
			continue
		}
		if plan.conflictType != "" {
			conflicted = append(conflicted, plan)
			continue
		}
		applicable = append(applicable, plan)
	}

	// ── resolve: strategy decides each conflict's fate ────────────────────
	for _, plan := range conflicted {
		conflict := s.buildConflict(plan)

		outcome, err := s.resolve(conflict)
		if err != nil {
			result.Errors = append(result.Errors, syncError(plan.op, err))
			continue
		}

		if outcome.parked {
			conflict.Resolution = models.ResolutionManual
			if err := s.conflicts.Upsert(ctx, conflict); err != nil {
				log.Err(err).Str("conflict_id", conflict.ID).Msg("conflict parking failed")
				result.Success = false
				result.Errors = append(result.Errors, syncError(plan.op, err))
				continue
			}
			result.Conflicts = append(result.Conflicts, conflict)
			continue
		}

		if outcome.apply == nil {
			// remote side kept: server state already reflects the outcome
			log.Debug().
				Str("conflict_id", conflict.ID).
				Str("resolution", string(outcome.resolution)).
				Msg("conflict auto-resolved in favor of server state")
			continue
		}

		plan.op = *outcome.apply
		applicable = append(applicable, plan)
	}

	// ── apply: stable entity-type order, per-op failure isolation ────────
	applied, applyErrors := s.applyAll(ctx, applicable, batch.OrganizationID)
	result.OperationsApplied = applied
	result.Errors = append(result.Errors, applyErrors...)

	// ── bookmark: per-device sync state ──────────────────────────────────
	pending, err := s.conflicts.CountPendingByUser(ctx, batch.UserID)
	if err != nil {
		log.Err(err).Int64("user_id", batch.UserID).Msg("pending conflict count failed")
		result.Success = false
		result.Errors = append(result.Errors, models.SyncError{Message: err.Error()})
		pending = len(result.Conflicts)
	}

	state := models.SyncState{
		DeviceID:          batch.DeviceID,
		UserID:            batch.UserID,
		LastSync:          time.Now(),
		PendingOperations: pending,
	}
	if err := s.syncStates.Upsert(ctx, state); err != nil {
		log.Err(err).Str("device_id", batch.DeviceID).Msg("sync state upsert failed")
		result.Success = false
		result.Errors = append(result.Errors, models.SyncError{Message: err.Error()})
	}
	result.State = state

	s.recordCall(time.Since(started), applied, len(result.Errors), len(valid))

	log.Info().
		Str("device_id", batch.DeviceID).
		Int("operations", len(batch.Operations)).
		Int("applied", result.OperationsApplied).
		Int("conflicts", len(result.Conflicts)).
		Int("errors", len(result.Errors)).
		Msg("synchronize finished")

	return result, nil
}

// GetPendingConflicts implements [SyncService].
func (s *syncService) GetPendingConflicts(ctx context.Context, userID int64) ([]models.SyncConflict, error) {
	return s.conflicts.ListPendingByUser(ctx, userID)
}

// ResolveConflictManually implements [SyncService]. The chosen side is pushed
// through the same apply path as batch operations; the conflict record is
// stamped and removed from the pending set only after the apply succeeded, so
// the outcome is applied exactly once.
func (s *syncService) ResolveConflictManually(ctx context.Context, req models.ManualResolutionRequest) (bool, error) {
	log := logger.FromContext(ctx)

	conflict, err := s.conflicts.GetByID(ctx, req.ConflictID)
	if errors.Is(err, store.ErrConflictNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("conflict lookup failed: %w", err)
	}
	if conflict.ResolvedAt != nil {
		// already settled: nothing pending under this id
		return false, nil
	}

	op, err := s.chosenOperation(conflict, req)
	if err != nil {
		return true, err
	}

	if op != nil {
		plan, err := s.detect(ctx, *op, req.OrganizationID)
		if err != nil {
			return true, fmt.Errorf("server state lookup failed: %w", err)
		}
		// the reviewer's decision overrides whatever conflict re-detection
		// would have classified
		plan.op = *op
		plan.conflictType = ""

		if err := s.applyOperation(ctx, plan, req.OrganizationID); err != nil {
			return true, fmt.Errorf("resolution apply failed: %w", err)
		}
	}

	resolvedBy := req.ResolvedBy
	if resolvedBy == "" {
		resolvedBy = strconv.FormatInt(req.UserID, 10)
	}
	if err := s.conflicts.MarkResolved(ctx, conflict.ID, models.ResolutionManual, resolvedBy, time.Now()); err != nil {
		return true, fmt.Errorf("conflict resolution stamping failed: %w", err)
	}

	log.Info().
		Str("conflict_id", conflict.ID).
		Str("choice", string(req.Choice)).
		Str("resolved_by", resolvedBy).
		Msg("conflict resolved manually")

	return true, nil
}

// chosenOperation translates the reviewer's choice into the operation to
// apply. A nil operation with nil error means nothing needs applying (the
// reviewer kept server state).
func (s *syncService) chosenOperation(conflict models.SyncConflict, req models.ManualResolutionRequest) (*models.SyncOperation, error) {
	switch req.Choice {
	case models.ChoiceLocal:
		op := conflict.LocalVersion
		return &op, nil

	case models.ChoiceRemote:
		// server truth may have moved since detection; re-applying the
		// snapshot keeps the documented "apply remote payload" semantics
		op := conflict.RemoteVersion
		return &op, nil

	case models.ChoiceCustom:
		if len(req.CustomData) == 0 {
			return nil, ErrCustomDataMissing
		}
		entity, err := models.DecodeEntity(conflict.EntityType, req.CustomData)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
		}
		checksum, err := utils.ChecksumEntity(entity)
		if err != nil {
			return nil, fmt.Errorf("checksum computation failed: %w", err)
		}

		op := models.SyncOperation{
			ID:         s.uuid.Generate(),
			EntityType: conflict.EntityType,
			EntityID:   conflict.EntityID,
			Operation:  models.OperationUpdate,
			Data:       entity,
			Timestamp:  time.Now(),
			DeviceID:   "manual",
			UserID:     req.UserID,
			Version:    maxInt64(conflict.LocalVersion.Version, conflict.RemoteVersion.Version) + 1,
			Checksum:   checksum,
		}
		return &op, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidResolutionChoice, req.Choice)
	}
}

// GetSyncStats implements [SyncService]. Counters are per engine instance.
func (s *syncService) GetSyncStats(ctx context.Context) (models.SyncStats, error) {
	pending, err := s.conflicts.CountPending(ctx)
	if err != nil {
		return models.SyncStats{}, fmt.Errorf("pending conflict count failed: %w", err)
	}

	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	stats := models.SyncStats{PendingConflicts: pending}
	if s.totalSyncTime > 0 {
		stats.ProcessingRate = float64(s.appliedOps) / s.totalSyncTime.Seconds()
	}
	if s.processedOps > 0 {
		stats.ErrorRate = float64(s.failedOps) / float64(s.processedOps)
	}
	if s.syncCalls > 0 {
		stats.AvgSyncTime = s.totalSyncTime / time.Duration(s.syncCalls)
	}

	return stats, nil
}

func (s *syncService) recordCall(elapsed time.Duration, applied, failed, processed int) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	s.syncCalls++
	s.totalSyncTime += elapsed
	s.appliedOps += applied
	s.failedOps += failed
	s.processedOps += processed
}

// auditRejected logs and durably records a dropped operation. Rejections are
// never surfaced to the caller.
func (s *syncService) auditRejected(ctx context.Context, op models.SyncOperation, cause error) {
	log := logger.FromContext(ctx)

	log.Audit().
		Str("operation_id", op.ID).
		Str("entity_type", string(op.EntityType)).
		Str("entity_id", op.EntityID).
		Int64("user_id", op.UserID).
		Str("device_id", op.DeviceID).
		Err(cause).
		Msg("operation rejected")

	event := store.AuditEvent{
		Kind:        store.AuditOperationRejected,
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

func syncError(op models.SyncOperation, err error) models.SyncError {
	return models.SyncError{
		OperationID: op.ID,
		EntityType:  op.EntityType,
		EntityID:    op.EntityID,
		Message:     err.Error(),
	}
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
