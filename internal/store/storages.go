package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-record-sync/internal/config"
	"github.com/MKhiriev/go-record-sync/internal/logger"
)

// Storages groups every server-side repository behind a single value the
// service layer is wired with.
type Storages struct {
	UserRepository      UserRepository
	EntityStore         EntityStore
	ConflictRepository  ConflictRepository
	SyncStateRepository SyncStateRepository
	AuditTrail          AuditTrail
}

// NewStorages initialises the server storage layer: it connects to
// PostgreSQL, runs pending schema migrations, and constructs every
// repository plus the file audit trail.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	auditTrail, err := NewFileAuditTrail(cfg.Files.AuditDir, log)
	if err != nil {
		return nil, fmt.Errorf("audit trail init error: %w", err)
	}

	return &Storages{
		UserRepository:      NewUserRepository(db, log),
		EntityStore:         NewEntityRepository(db, log),
		ConflictRepository:  NewConflictRepository(db, log),
		SyncStateRepository: NewSyncStateRepository(db, log),
		AuditTrail:          auditTrail,
	}, nil
}
