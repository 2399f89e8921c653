// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/models"
	"github.com/jackc/pgerrcode"
)

func newTestEntityRepo(t *testing.T) (*entityRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &entityRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

var recordColumns = []string{
	"entity_type", "entity_id", "org_id", "data",
	"version", "updated_at", "updated_by", "deleted", "checksum",
}

func taskRecordJSON(t *testing.T) []byte {
	t.Helper()
	raw, err := json.Marshal(&models.Task{ID: "task-a", Title: "Stored", UpdatedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("failed to marshal task payload: %v", err)
	}
	return raw
}

func TestEntityGet_Success(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(recordColumns).
		AddRow("task", "task-a", 7, taskRecordJSON(t), 3, now, 42, false, "abc123")

	mock.ExpectQuery("SELECT").
		WithArgs(models.EntityTypeTask, "task-a", int64(7)).
		WillReturnRows(rows)

	record, err := repo.Get(context.Background(), models.EntityTypeTask, "task-a", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Version != 3 {
		t.Errorf("expected version 3, got %d", record.Version)
	}
	task, ok := record.Data.(*models.Task)
	if !ok {
		t.Fatalf("expected *models.Task payload, got %T", record.Data)
	}
	if task.Title != "Stored" {
		t.Errorf("expected decoded title Stored, got %s", task.Title)
	}
}

func TestEntityGet_NotFound(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT").
		WithArgs(models.EntityTypeTask, "ghost", int64(7)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), models.EntityTypeTask, "ghost", 7)
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestEntityGet_SoftDeletedRecordSurfaces(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows(recordColumns).
		AddRow("document", "doc-a", 7, nil, 4, time.Now(), 42, true, "")

	mock.ExpectQuery("SELECT").
		WithArgs(models.EntityTypeDocument, "doc-a", int64(7)).
		WillReturnRows(rows)

	record, err := repo.Get(context.Background(), models.EntityTypeDocument, "doc-a", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !record.Deleted {
		t.Error("expected Deleted=true")
	}
	if record.Data != nil {
		t.Errorf("expected nil payload for soft-deleted record, got %v", record.Data)
	}
}

func TestEntityCreate_Success(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	record := models.EntityRecord{
		EntityType:     models.EntityTypeTask,
		EntityID:       "task-a",
		OrganizationID: 7,
		Data:           &models.Task{ID: "task-a", Title: "New"},
		Version:        1,
		UpdatedAt:      time.Now(),
		UpdatedBy:      42,
		Checksum:       "abc123",
	}

	mock.ExpectExec("INSERT INTO records").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEntityCreate_AlreadyExists(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO records").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	err := repo.Create(context.Background(), models.EntityRecord{
		EntityType: models.EntityTypeTask,
		EntityID:   "task-a",
	})
	if !errors.Is(err, ErrRecordAlreadyExists) {
		t.Fatalf("expected ErrRecordAlreadyExists, got %v", err)
	}
}

func TestEntityCreate_UnexpectedDBError(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO records").
		WillReturnError(errors.New("db network error"))

	err := repo.Create(context.Background(), models.EntityRecord{EntityType: models.EntityTypeTask})
	if !errors.Is(err, ErrDatabaseExec) {
		t.Fatalf("expected ErrDatabaseExec, got %v", err)
	}
}

func TestEntityUpdate_Success(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"updated_id", "current_db_version"}).
		AddRow("task-a", 3)

	mock.ExpectQuery("WITH target_record").
		WillReturnRows(rows)

	err := repo.Update(context.Background(), models.EntityRecord{
		EntityType:     models.EntityTypeTask,
		EntityID:       "task-a",
		OrganizationID: 7,
		Data:           &models.Task{ID: "task-a", Title: "Updated"},
		Version:        4,
	}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEntityUpdate_VersionConflict(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	// the record exists (current version reported) but the guard matched nothing
	rows := sqlmock.NewRows([]string{"updated_id", "current_db_version"}).
		AddRow(nil, 5)

	mock.ExpectQuery("WITH target_record").
		WillReturnRows(rows)

	err := repo.Update(context.Background(), models.EntityRecord{
		EntityType: models.EntityTypeTask,
		EntityID:   "task-a",
		Data:       &models.Task{ID: "task-a"},
	}, 3)
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestEntityUpdate_RecordMissing(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"updated_id", "current_db_version"}).
		AddRow(nil, nil)

	mock.ExpectQuery("WITH target_record").
		WillReturnRows(rows)

	err := repo.Update(context.Background(), models.EntityRecord{
		EntityType: models.EntityTypeTask,
		EntityID:   "ghost",
		Data:       &models.Task{ID: "ghost"},
	}, 3)
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestEntityDelete_Success(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"deleted_id", "current_db_version"}).
		AddRow("task-a", 3)

	mock.ExpectQuery("WITH target_record").
		WithArgs(models.EntityTypeTask, "task-a", int64(7), int64(3)).
		WillReturnRows(rows)

	if err := repo.Delete(context.Background(), models.EntityTypeTask, "task-a", 7, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEntityDelete_VersionConflict(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"deleted_id", "current_db_version"}).
		AddRow(nil, 5)

	mock.ExpectQuery("WITH target_record").
		WillReturnRows(rows)

	err := repo.Delete(context.Background(), models.EntityTypeTask, "task-a", 7, 3)
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestEntitySoftDelete_Success(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"updated_id", "current_db_version"}).
		AddRow("doc-a", 4)

	mock.ExpectQuery("WITH target_record").
		WillReturnRows(rows)

	err := repo.SoftDelete(context.Background(), models.EntityTypeDocument, "doc-a", 7, 4, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEntitySoftDelete_RecordMissing(t *testing.T) {
	repo, mock, db := newTestEntityRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"updated_id", "current_db_version"}).
		AddRow(nil, nil)

	mock.ExpectQuery("WITH target_record").
		WillReturnRows(rows)

	err := repo.SoftDelete(context.Background(), models.EntityTypeDocument, "ghost", 7, 4, 42)
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
