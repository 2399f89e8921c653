// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/MKhiriev/go-record-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parkConflict seeds a pending conflict over task-a together with the server
// record its remote side was synthesized from.
func parkConflict(t *testing.T, f *engineFixture) models.SyncConflict {
	t.Helper()
	now := time.Now()

	serverTask := &models.Task{ID: "task-a", Title: "Server title", UpdatedAt: now.Add(-time.Hour)}
	f.serverTask(t, serverTask, 3, now.Add(-time.Hour), otherUserID)

	localTask := &models.Task{ID: "task-a", Title: "Local title", UpdatedAt: now}

	conflict := models.SyncConflict{
		ID:         "conflict-1",
		EntityType: models.EntityTypeTask,
		EntityID:   "task-a",
		LocalVersion: models.SyncOperation{
			ID:         "op-local",
			EntityType: models.EntityTypeTask,
			EntityID:   "task-a",
			Operation:  models.OperationUpdate,
			Data:       localTask,
			Timestamp:  now,
			DeviceID:   testDevice,
			UserID:     testUserID,
			Version:    1,
			Checksum:   mustChecksum(t, localTask),
		},
		RemoteVersion: models.SyncOperation{
			ID:         "op-remote",
			EntityType: models.EntityTypeTask,
			EntityID:   "task-a",
			Operation:  models.OperationUpdate,
			Data:       serverTask,
			Timestamp:  now.Add(-time.Hour),
			DeviceID:   "server",
			UserID:     otherUserID,
			Version:    3,
			Checksum:   mustChecksum(t, serverTask),
		},
		ConflictType: models.ConflictVersion,
		Resolution:   models.ResolutionManual,
		CreatedAt:    now,
	}
	require.NoError(t, f.conflicts.Upsert(context.Background(), conflict))
	return conflict
}

func TestResolveConflictManually_LocalChoiceApplied(t *testing.T) {
	f := newEngineFixture(t, models.StrategyManualReview)
	conflict := parkConflict(t, f)

	found, err := f.engine.ResolveConflictManually(context.Background(), models.ManualResolutionRequest{
		ConflictID:     conflict.ID,
		Choice:         models.ChoiceLocal,
		ResolvedBy:     "reviewer",
		UserID:         testUserID,
		OrganizationID: testOrgID,
	})
	require.NoError(t, err)
	assert.True(t, found)

	stored := f.entities.get(t, models.EntityTypeTask, "task-a", testOrgID)
	assert.Equal(t, "Local title", stored.Data.(*models.Task).Title)
	assert.Equal(t, int64(4), stored.Version)

	resolved, err := f.conflicts.GetByID(context.Background(), conflict.ID)
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedAt)
	assert.Equal(t, models.ResolutionManual, resolved.Resolution)
	assert.Equal(t, "reviewer", resolved.ResolvedBy)

	pending, err := f.conflicts.CountPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestResolveConflictManually_RemoteChoiceReappliesServerSnapshot(t *testing.T) {
	f := newEngineFixture(t, models.StrategyManualReview)
	conflict := parkConflict(t, f)

	found, err := f.engine.ResolveConflictManually(context.Background(), models.ManualResolutionRequest{
		ConflictID:     conflict.ID,
		Choice:         models.ChoiceRemote,
		UserID:         testUserID,
		OrganizationID: testOrgID,
	})
	require.NoError(t, err)
	assert.True(t, found)

	stored := f.entities.get(t, models.EntityTypeTask, "task-a", testOrgID)
	assert.Equal(t, "Server title", stored.Data.(*models.Task).Title)

	resolved, err := f.conflicts.GetByID(context.Background(), conflict.ID)
	require.NoError(t, err)
	assert.NotNil(t, resolved.ResolvedAt)
}

func TestResolveConflictManually_CustomPayload(t *testing.T) {
	f := newEngineFixture(t, models.StrategyManualReview)
	conflict := parkConflict(t, f)

	custom, err := json.Marshal(&models.Task{ID: "task-a", Title: "Compromise", UpdatedAt: time.Now()})
	require.NoError(t, err)

	found, err := f.engine.ResolveConflictManually(context.Background(), models.ManualResolutionRequest{
		ConflictID:     conflict.ID,
		Choice:         models.ChoiceCustom,
		CustomData:     custom,
		UserID:         testUserID,
		OrganizationID: testOrgID,
	})
	require.NoError(t, err)
	assert.True(t, found)

	stored := f.entities.get(t, models.EntityTypeTask, "task-a", testOrgID)
	task := stored.Data.(*models.Task)
	assert.Equal(t, "Compromise", task.Title)
	// version lands strictly above both sides of the conflict
	assert.Equal(t, int64(4), stored.Version)
	// the checksum is recomputed server-side from the custom payload
	assert.Equal(t, mustChecksum(t, task), stored.Checksum)
}

func TestResolveConflictManually_CustomWithoutPayload(t *testing.T) {
	f := newEngineFixture(t, models.StrategyManualReview)
	conflict := parkConflict(t, f)

	found, err := f.engine.ResolveConflictManually(context.Background(), models.ManualResolutionRequest{
		ConflictID: conflict.ID,
		Choice:     models.ChoiceCustom,
		UserID:     testUserID,
	})
	assert.True(t, found)
	assert.ErrorIs(t, err, ErrCustomDataMissing)
}

func TestResolveConflictManually_InvalidChoice(t *testing.T) {
	f := newEngineFixture(t, models.StrategyManualReview)
	conflict := parkConflict(t, f)

	found, err := f.engine.ResolveConflictManually(context.Background(), models.ManualResolutionRequest{
		ConflictID: conflict.ID,
		Choice:     "coin_flip",
		UserID:     testUserID,
	})
	assert.True(t, found)
	assert.ErrorIs(t, err, ErrInvalidResolutionChoice)
}

func TestResolveConflictManually_UnknownConflict(t *testing.T) {
	f := newEngineFixture(t, models.StrategyManualReview)

	found, err := f.engine.ResolveConflictManually(context.Background(), models.ManualResolutionRequest{
		ConflictID: "no-such-conflict",
		Choice:     models.ChoiceLocal,
		UserID:     testUserID,
	})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResolveConflictManually_ResolvedExactlyOnce(t *testing.T) {
	f := newEngineFixture(t, models.StrategyManualReview)
	conflict := parkConflict(t, f)

	req := models.ManualResolutionRequest{
		ConflictID:     conflict.ID,
		Choice:         models.ChoiceLocal,
		UserID:         testUserID,
		OrganizationID: testOrgID,
	}

	found, err := f.engine.ResolveConflictManually(context.Background(), req)
	require.NoError(t, err)
	require.True(t, found)

	// a second resolution of the same conflict finds nothing pending
	found, err = f.engine.ResolveConflictManually(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResolveConflictManually_ResolvedByDefaultsToCaller(t *testing.T) {
	f := newEngineFixture(t, models.StrategyManualReview)
	conflict := parkConflict(t, f)

	_, err := f.engine.ResolveConflictManually(context.Background(), models.ManualResolutionRequest{
		ConflictID:     conflict.ID,
		Choice:         models.ChoiceRemote,
		UserID:         testUserID,
		OrganizationID: testOrgID,
	})
	require.NoError(t, err)

	resolved, err := f.conflicts.GetByID(context.Background(), conflict.ID)
	require.NoError(t, err)
	assert.Equal(t, "42", resolved.ResolvedBy)
}
