// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-record-sync/internal/config"
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/store"
	"github.com/MKhiriev/go-record-sync/internal/utils"
	"github.com/MKhiriev/go-record-sync/internal/validators"
	"github.com/MKhiriev/go-record-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ───────────────────────────── in-memory fakes ──────────────────────────────

// memEntityStore is an in-memory EntityStore with the same optimistic
// concurrency semantics as the SQL implementation. Individual writes can be
// forced to fail by entity ID to exercise per-operation error isolation.
type memEntityStore struct {
	mu      sync.Mutex
	records map[string]models.EntityRecord

	failCreate map[string]error
	failUpdate map[string]error
}

func newMemEntityStore() *memEntityStore {
	return &memEntityStore{
		records:    make(map[string]models.EntityRecord),
		failCreate: make(map[string]error),
		failUpdate: make(map[string]error),
	}
}

func recordKey(entityType models.EntityType, entityID string, orgID int64) string {
	return fmt.Sprintf("%s|%s|%d", entityType, entityID, orgID)
}

func (m *memEntityStore) Get(_ context.Context, entityType models.EntityType, entityID string, orgID int64) (models.EntityRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[recordKey(entityType, entityID, orgID)]
	if !ok {
		return models.EntityRecord{}, store.ErrRecordNotFound
	}
	return record, nil
}

func (m *memEntityStore) Create(_ context.Context, record models.EntityRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.failCreate[record.EntityID]; ok {
		return err
	}

	key := recordKey(record.EntityType, record.EntityID, record.OrganizationID)
	if _, ok := m.records[key]; ok {
		return store.ErrRecordAlreadyExists
	}
	m.records[key] = record
	return nil
}

func (m *memEntityStore) Update(_ context.Context, record models.EntityRecord, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.failUpdate[record.EntityID]; ok {
		return err
	}

	key := recordKey(record.EntityType, record.EntityID, record.OrganizationID)
	current, ok := m.records[key]
	if !ok {
		return store.ErrRecordNotFound
	}
	if current.Version != expectedVersion {
		return store.ErrVersionConflict
	}
	m.records[key] = record
	return nil
}

func (m *memEntityStore) Delete(_ context.Context, entityType models.EntityType, entityID string, orgID int64, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := recordKey(entityType, entityID, orgID)
	current, ok := m.records[key]
	if !ok {
		return store.ErrRecordNotFound
	}
	if current.Version != expectedVersion {
		return store.ErrVersionConflict
	}
	delete(m.records, key)
	return nil
}

func (m *memEntityStore) SoftDelete(_ context.Context, entityType models.EntityType, entityID string, orgID int64, expectedVersion int64, deletedBy int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := recordKey(entityType, entityID, orgID)
	current, ok := m.records[key]
	if !ok {
		return store.ErrRecordNotFound
	}
	if current.Version != expectedVersion {
		return store.ErrVersionConflict
	}
	current.Deleted = true
	current.Data = nil
	current.Version++
	current.UpdatedBy = deletedBy
	m.records[key] = current
	return nil
}

func (m *memEntityStore) get(t *testing.T, entityType models.EntityType, entityID string, orgID int64) models.EntityRecord {
	t.Helper()
	record, err := m.Get(context.Background(), entityType, entityID, orgID)
	require.NoError(t, err)
	return record
}

// memConflictRepo is an in-memory ConflictRepository.
type memConflictRepo struct {
	mu        sync.Mutex
	conflicts map[string]models.SyncConflict
}

func newMemConflictRepo() *memConflictRepo {
	return &memConflictRepo{conflicts: make(map[string]models.SyncConflict)}
}

func (m *memConflictRepo) Upsert(_ context.Context, conflict models.SyncConflict) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts[conflict.ID] = conflict
	return nil
}

func (m *memConflictRepo) GetByID(_ context.Context, conflictID string) (models.SyncConflict, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conflict, ok := m.conflicts[conflictID]
	if !ok {
		return models.SyncConflict{}, store.ErrConflictNotFound
	}
	return conflict, nil
}

func (m *memConflictRepo) ListPendingByUser(_ context.Context, userID int64) ([]models.SyncConflict, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var pending []models.SyncConflict
	for _, conflict := range m.conflicts {
		if conflict.ResolvedAt == nil && conflict.LocalVersion.UserID == userID {
			pending = append(pending, conflict)
		}
	}
	return pending, nil
}

func (m *memConflictRepo) ListPendingOlderThan(_ context.Context, cutoff time.Time) ([]models.SyncConflict, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var pending []models.SyncConflict
	for _, conflict := range m.conflicts {
		if conflict.ResolvedAt == nil && conflict.CreatedAt.Before(cutoff) {
			pending = append(pending, conflict)
		}
	}
	return pending, nil
}

func (m *memConflictRepo) MarkResolved(_ context.Context, conflictID string, resolution models.ResolutionType, resolvedBy string, resolvedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	conflict, ok := m.conflicts[conflictID]
	if !ok || conflict.ResolvedAt != nil {
		return store.ErrConflictNotFound
	}
	conflict.Resolution = resolution
	conflict.ResolvedBy = resolvedBy
	conflict.ResolvedAt = &resolvedAt
	m.conflicts[conflictID] = conflict
	return nil
}

func (m *memConflictRepo) CountPending(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, conflict := range m.conflicts {
		if conflict.ResolvedAt == nil {
			count++
		}
	}
	return count, nil
}

func (m *memConflictRepo) CountPendingByUser(_ context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, conflict := range m.conflicts {
		if conflict.ResolvedAt == nil && conflict.LocalVersion.UserID == userID {
			count++
		}
	}
	return count, nil
}

// memSyncStateRepo is an in-memory SyncStateRepository.
type memSyncStateRepo struct {
	mu     sync.Mutex
	states map[string]models.SyncState
}

func newMemSyncStateRepo() *memSyncStateRepo {
	return &memSyncStateRepo{states: make(map[string]models.SyncState)}
}

func stateKey(deviceID string, userID int64) string {
	return fmt.Sprintf("%s|%d", deviceID, userID)
}

func (m *memSyncStateRepo) Upsert(_ context.Context, state models.SyncState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[stateKey(state.DeviceID, state.UserID)] = state
	return nil
}

func (m *memSyncStateRepo) Get(_ context.Context, deviceID string, userID int64) (models.SyncState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.states[stateKey(deviceID, userID)]
	if !ok {
		return models.SyncState{}, store.ErrRecordNotFound
	}
	return state, nil
}

// memAuditTrail records appended events.
type memAuditTrail struct {
	mu     sync.Mutex
	events []store.AuditEvent
}

func (m *memAuditTrail) Append(_ context.Context, event store.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *memAuditTrail) kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	kinds := make([]string, 0, len(m.events))
	for _, event := range m.events {
		kinds = append(kinds, event.Kind)
	}
	return kinds
}

// ─────────────────────────────── fixtures ───────────────────────────────────

const (
	testUserID  int64 = 42
	testOrgID   int64 = 7
	otherUserID int64 = 99
	testDevice        = "device-1"
)

type engineFixture struct {
	engine    *syncService
	entities  *memEntityStore
	conflicts *memConflictRepo
	states    *memSyncStateRepo
	audit     *memAuditTrail
}

func newEngineFixture(t *testing.T, strategy models.ResolutionStrategy) *engineFixture {
	t.Helper()

	fixture := &engineFixture{
		entities:  newMemEntityStore(),
		conflicts: newMemConflictRepo(),
		states:    newMemSyncStateRepo(),
		audit:     &memAuditTrail{},
	}

	cfg := config.Sync{
		Strategy:         string(strategy),
		ConcurrentWindow: time.Minute,
		MaxBatchSize:     100,
	}

	fixture.engine = NewSyncService(
		fixture.entities,
		fixture.conflicts,
		fixture.states,
		fixture.audit,
		validators.NewSyncOperationValidator(),
		cfg,
		logger.Nop(),
	).(*syncService)

	return fixture
}

func mustChecksum(t *testing.T, entity models.Entity) string {
	t.Helper()
	checksum, err := utils.ChecksumEntity(entity)
	require.NoError(t, err)
	return checksum
}

// taskOp builds a valid operation around the given task payload.
func taskOp(t *testing.T, id string, kind models.OperationType, task *models.Task, version int64, at time.Time) models.SyncOperation {
	t.Helper()

	op := models.SyncOperation{
		ID:         id,
		EntityType: models.EntityTypeTask,
		Operation:  kind,
		Timestamp:  at,
		DeviceID:   testDevice,
		UserID:     testUserID,
		Version:    version,
	}
	if task != nil {
		op.EntityID = task.ID
		op.Data = task
	}
	op.Checksum = mustChecksum(t, op.Data)
	return op
}

func batchOf(ops ...models.SyncOperation) models.SyncBatch {
	return models.SyncBatch{
		DeviceID:       testDevice,
		UserID:         testUserID,
		OrganizationID: testOrgID,
		Operations:     ops,
	}
}

// serverTask seeds the entity store with a task record representing current
// server truth.
func (f *engineFixture) serverTask(t *testing.T, task *models.Task, version int64, updatedAt time.Time, updatedBy int64) {
	t.Helper()

	record := models.EntityRecord{
		EntityType:     models.EntityTypeTask,
		EntityID:       task.ID,
		OrganizationID: testOrgID,
		Data:           task,
		Version:        version,
		UpdatedAt:      updatedAt,
		UpdatedBy:      updatedBy,
		Checksum:       mustChecksum(t, task),
	}
	require.NoError(t, f.entities.Create(context.Background(), record))
}

// ─────────────────────────────── scenarios ──────────────────────────────────

func TestSynchronize_AppliesCreateBatch(t *testing.T) {
	f := newEngineFixture(t, models.StrategyLastWriteWins)
	now := time.Now()

	taskA := &models.Task{ID: "task-a", Title: "Draft proposal", Status: "open", Priority: models.PriorityLow, UpdatedAt: now}
	taskB := &models.Task{ID: "task-b", Title: "Ship release", Status: "open", Priority: models.PriorityHigh, UpdatedAt: now}

	result, err := f.engine.Synchronize(context.Background(), batchOf(
		taskOp(t, "op-1", models.OperationCreate, taskA, 1, now),
		taskOp(t, "op-2", models.OperationCreate, taskB, 1, now),
	))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.OperationsApplied)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.Errors)

	stored := f.entities.get(t, models.EntityTypeTask, "task-a", testOrgID)
	assert.Equal(t, int64(1), stored.Version)
	assert.Equal(t, testUserID, stored.UpdatedBy)
}

func TestSynchronize_MissingBatchUser(t *testing.T) {
	f := newEngineFixture(t, models.StrategyLastWriteWins)

	batch := batchOf()
	batch.UserID = 0

	_, err := f.engine.Synchronize(context.Background(), batch)
	assert.ErrorIs(t, err, ErrBatchUserMissing)
}

func TestSynchronize_BatchTooLarge(t *testing.T) {
	f := newEngineFixture(t, models.StrategyLastWriteWins)
	f.engine.maxBatchSize = 2
	now := time.Now()

	var ops []models.SyncOperation
	for i := 0; i < 3; i++ {
		task := &models.Task{ID: fmt.Sprintf("task-%d", i), Title: "t", UpdatedAt: now}
		ops = append(ops, taskOp(t, fmt.Sprintf("op-%d", i), models.OperationCreate, task, 1, now))
	}

	result, err := f.engine.Synchronize(context.Background(), batchOf(ops...))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Zero(t, result.OperationsApplied)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, ErrBatchTooLarge.Error())
}

func TestSynchronize_CorruptChecksumDroppedSilently(t *testing.T) {
	f := newEngineFixture(t, models.StrategyLastWriteWins)
	now := time.Now()

	task := &models.Task{ID: "task-a", Title: "Tampered", UpdatedAt: now}
	op := taskOp(t, "op-1", models.OperationCreate, task, 1, now)
	op.Checksum = "deadbeef"

	result, err := f.engine.Synchronize(context.Background(), batchOf(op))
	require.NoError(t, err)

	// rejected operations are audited, never surfaced as user errors
	assert.True(t, result.Success)
	assert.Zero(t, result.OperationsApplied)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []string{store.AuditOperationRejected}, f.audit.kinds())

	_, getErr := f.entities.Get(context.Background(), models.EntityTypeTask, "task-a", testOrgID)
	assert.ErrorIs(t, getErr, store.ErrRecordNotFound)
}

func TestSynchronize_ForeignOperationDropped(t *testing.T) {
	f := newEngineFixture(t, models.StrategyLastWriteWins)
	now := time.Now()

	task := &models.Task{ID: "task-a", Title: "Spoofed", UpdatedAt: now}
	op := taskOp(t, "op-1", models.OperationCreate, task, 1, now)
	op.UserID = otherUserID

	result, err := f.engine.Synchronize(context.Background(), batchOf(op))
	require.NoError(t, err)

	assert.Zero(t, result.OperationsApplied)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []string{store.AuditOperationRejected}, f.audit.kinds())
}

func TestSynchronize_LastWriteWinsKeepsNewerLocal(t *testing.T) {
	f := newEngineFixture(t, models.StrategyLastWriteWins)
	serverTime := time.Now().Add(-2 * time.Hour)

	f.serverTask(t, &models.Task{ID: "task-a", Title: "Server title", UpdatedAt: serverTime}, 3, serverTime, testUserID)

	// the device edits on top of version 1 it saw long ago, but its edit is
	// the most recent write
	local := &models.Task{ID: "task-a", Title: "Final", UpdatedAt: time.Now()}
	op := taskOp(t, "op-1", models.OperationUpdate, local, 1, time.Now())

	result, err := f.engine.Synchronize(context.Background(), batchOf(op))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.OperationsApplied)
	assert.Empty(t, result.Conflicts)

	stored := f.entities.get(t, models.EntityTypeTask, "task-a", testOrgID)
	task := stored.Data.(*models.Task)
	assert.Equal(t, "Final", task.Title)
	// the outcome lands strictly above what either side had seen
	assert.Greater(t, stored.Version, int64(3))
}

func TestSynchronize_LastWriteWinsKeepsServerWhenLocalOlder(t *testing.T) {
	f := newEngineFixture(t, models.StrategyLastWriteWins)
	serverTime := time.Now()

	f.serverTask(t, &models.Task{ID: "task-a", Title: "Server title", UpdatedAt: serverTime}, 3, serverTime, testUserID)

	local := &models.Task{ID: "task-a", Title: "Stale edit", UpdatedAt: serverTime.Add(-2 * time.Hour)}
	op := taskOp(t, "op-1", models.OperationUpdate, local, 1, serverTime.Add(-2*time.Hour))

	result, err := f.engine.Synchronize(context.Background(), batchOf(op))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Zero(t, result.OperationsApplied)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.Errors)

	stored := f.entities.get(t, models.EntityTypeTask, "task-a", testOrgID)
	assert.Equal(t, "Server title", stored.Data.(*models.Task).Title)
	assert.Equal(t, int64(3), stored.Version)
}

func TestSynchronize_FirstWriteWinsKeepsEarlierLocal(t *testing.T) {
	f := newEngineFixture(t, models.StrategyFirstWriteWins)
	serverTime := time.Now()

	f.serverTask(t, &models.Task{ID: "task-a", Title: "Server title", UpdatedAt: serverTime}, 3, serverTime, testUserID)

	earlier := serverTime.Add(-2 * time.Hour)
	local := &models.Task{ID: "task-a", Title: "First edit", UpdatedAt: earlier}
	op := taskOp(t, "op-1", models.OperationUpdate, local, 1, earlier)

	result, err := f.engine.Synchronize(context.Background(), batchOf(op))
	require.NoError(t, err)

	assert.Equal(t, 1, result.OperationsApplied)
	stored := f.entities.get(t, models.EntityTypeTask, "task-a", testOrgID)
	assert.Equal(t, "First edit", stored.Data.(*models.Task).Title)
}

func TestSynchronize_ManualReviewParksConflict(t *testing.T) {
	f := newEngineFixture(t, models.StrategyManualReview)
	serverTime := time.Now().Add(-2 * time.Hour)

	f.serverTask(t, &models.Task{ID: "task-a", Title: "Server title", UpdatedAt: serverTime}, 3, serverTime, testUserID)

	local := &models.Task{ID: "task-a", Title: "Local edit", UpdatedAt: time.Now()}
	op := taskOp(t, "op-1", models.OperationUpdate, local, 1, time.Now())

	result, err := f.engine.Synchronize(context.Background(), batchOf(op))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Zero(t, result.OperationsApplied)
	require.Len(t, result.Conflicts, 1)

	conflict := result.Conflicts[0]
	assert.Equal(t, models.ConflictVersion, conflict.ConflictType)
	assert.Equal(t, models.ResolutionManual, conflict.Resolution)
	assert.Equal(t, "op-1", conflict.LocalVersion.ID)
	assert.Equal(t, "Server title", conflict.RemoteVersion.Data.(*models.Task).Title)

	// parked durably, nothing applied for the affected entity
	pending, err := f.conflicts.ListPendingByUser(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, 1, result.State.PendingOperations)

	stored := f.entities.get(t, models.EntityTypeTask, "task-a", testOrgID)
	assert.Equal(t, "Server title", stored.Data.(*models.Task).Title)
}

func TestSynchronize_DeleteConflictAlwaysParked(t *testing.T) {
	// even the lossy strategies never auto-apply a contested deletion
	f := newEngineFixture(t, models.StrategyLastWriteWins)
	opTime := time.Now().Add(-2 * time.Hour)

	f.serverTask(t, &models.Task{ID: "task-a", Title: "Still edited", UpdatedAt: time.Now()}, 2, time.Now(), testUserID)

	op := models.SyncOperation{
		ID:         "op-1",
		EntityType: models.EntityTypeTask,
		EntityID:   "task-a",
		Operation:  models.OperationDelete,
		Timestamp:  opTime,
		DeviceID:   testDevice,
		UserID:     testUserID,
		Version:    2,
		Checksum:   mustChecksum(t, nil),
	}

	result, err := f.engine.Synchronize(context.Background(), batchOf(op))
	require.NoError(t, err)

	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, models.ConflictDelete, result.Conflicts[0].ConflictType)
	assert.Zero(t, result.OperationsApplied)

	// the record survived
	stored := f.entities.get(t, models.EntityTypeTask, "task-a", testOrgID)
	assert.Equal(t, "Still edited", stored.Data.(*models.Task).Title)
}

func TestSynchronize_ConcurrentEditMergesComments(t *testing.T) {
	f := newEngineFixture(t, models.StrategyIntelligentMerge)
	now := time.Now()

	c1 := models.TaskComment{ID: "c1", AuthorID: testUserID, Body: "from the device", CreatedAt: now.Add(-time.Hour)}
	c2 := models.TaskComment{ID: "c2", AuthorID: otherUserID, Body: "from the office", CreatedAt: now.Add(-30 * time.Minute)}

	f.serverTask(t, &models.Task{
		ID: "task-a", Title: "Shared task", Comments: []models.TaskComment{c2}, UpdatedAt: now,
	}, 2, now, otherUserID)

	local := &models.Task{ID: "task-a", Title: "Shared task", Comments: []models.TaskComment{c1}, UpdatedAt: now.Add(-10 * time.Second)}
	op := taskOp(t, "op-1", models.OperationUpdate, local, 2, now.Add(-10*time.Second))

	result, err := f.engine.Synchronize(context.Background(), batchOf(op))
	require.NoError(t, err)

	assert.Equal(t, 1, result.OperationsApplied)
	assert.Empty(t, result.Conflicts)

	stored := f.entities.get(t, models.EntityTypeTask, "task-a", testOrgID)
	merged := stored.Data.(*models.Task)
	require.Len(t, merged.Comments, 2)
	assert.Equal(t, "c1", merged.Comments[0].ID)
	assert.Equal(t, "c2", merged.Comments[1].ID)
	assert.Equal(t, int64(3), stored.Version)

	// the merged record's checksum is recomputed, not copied
	assert.Equal(t, mustChecksum(t, merged), stored.Checksum)
}

func TestSynchronize_PerOperationFailureIsolation(t *testing.T) {
	f := newEngineFixture(t, models.StrategyLastWriteWins)
	now := time.Now()

	var ops []models.SyncOperation
	for i := 1; i <= 10; i++ {
		task := &models.Task{ID: fmt.Sprintf("task-%02d", i), Title: "t", UpdatedAt: now}
		ops = append(ops, taskOp(t, fmt.Sprintf("op-%02d", i), models.OperationCreate, task, 1, now))
	}
	f.entities.failCreate["task-05"] = store.ErrDatabaseExec

	result, err := f.engine.Synchronize(context.Background(), batchOf(ops...))
	require.NoError(t, err)

	assert.Equal(t, 9, result.OperationsApplied)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "op-05", result.Errors[0].OperationID)
	assert.Contains(t, f.audit.kinds(), store.AuditApplyFailed)

	// the failure did not poison its neighbors
	f.entities.get(t, models.EntityTypeTask, "task-04", testOrgID)
	f.entities.get(t, models.EntityTypeTask, "task-06", testOrgID)
}

func TestSynchronize_DeleteOfAbsentRecordIsIdempotent(t *testing.T) {
	f := newEngineFixture(t, models.StrategyLastWriteWins)

	op := models.SyncOperation{
		ID:         "op-1",
		EntityType: models.EntityTypeTask,
		EntityID:   "task-gone",
		Operation:  models.OperationDelete,
		Timestamp:  time.Now(),
		DeviceID:   testDevice,
		UserID:     testUserID,
		Version:    1,
		Checksum:   mustChecksum(t, nil),
	}

	result, err := f.engine.Synchronize(context.Background(), batchOf(op))
	require.NoError(t, err)

	assert.Equal(t, 1, result.OperationsApplied)
	assert.Empty(t, result.Errors)
}

func TestSynchronize_BookmarksDeviceState(t *testing.T) {
	f := newEngineFixture(t, models.StrategyLastWriteWins)
	now := time.Now()

	task := &models.Task{ID: "task-a", Title: "t", UpdatedAt: now}
	result, err := f.engine.Synchronize(context.Background(), batchOf(
		taskOp(t, "op-1", models.OperationCreate, task, 1, now),
	))
	require.NoError(t, err)

	state, err := f.states.Get(context.Background(), testDevice, testUserID)
	require.NoError(t, err)
	assert.Equal(t, testDevice, state.DeviceID)
	assert.Equal(t, testUserID, state.UserID)
	assert.Zero(t, state.PendingOperations)
	assert.WithinDuration(t, time.Now(), state.LastSync, 5*time.Second)
	assert.Equal(t, state, result.State)
}

func TestGetSyncStats_TracksEngineCounters(t *testing.T) {
	f := newEngineFixture(t, models.StrategyLastWriteWins)
	now := time.Now()

	task := &models.Task{ID: "task-a", Title: "t", UpdatedAt: now}
	_, err := f.engine.Synchronize(context.Background(), batchOf(
		taskOp(t, "op-1", models.OperationCreate, task, 1, now),
	))
	require.NoError(t, err)

	stats, err := f.engine.GetSyncStats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.PendingConflicts)
	assert.Greater(t, stats.ProcessingRate, 0.0)
	assert.Zero(t, stats.ErrorRate)
	assert.Greater(t, stats.AvgSyncTime, time.Duration(0))
}

func TestGetPendingConflicts_DelegatesToRepository(t *testing.T) {
	f := newEngineFixture(t, models.StrategyManualReview)

	conflict := models.SyncConflict{
		ID:           "conflict-1",
		EntityType:   models.EntityTypeTask,
		EntityID:     "task-a",
		LocalVersion: models.SyncOperation{ID: "op-1", UserID: testUserID},
		ConflictType: models.ConflictVersion,
		Resolution:   models.ResolutionManual,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, f.conflicts.Upsert(context.Background(), conflict))

	pending, err := f.engine.GetPendingConflicts(context.Background(), testUserID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "conflict-1", pending[0].ID)

	other, err := f.engine.GetPendingConflicts(context.Background(), otherUserID)
	require.NoError(t, err)
	assert.Empty(t, other)
}
