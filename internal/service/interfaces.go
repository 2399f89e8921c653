package service

import (
	"context"

	"github.com/MKhiriev/go-record-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mocks.go -package=mock

// SyncService is the synchronization engine. One engine instance serves all
// devices of the deployment; calls may run concurrently.
type SyncService interface {
	// Synchronize reconciles one device batch against server state:
	// validate → detect conflicts → resolve per the configured strategy →
	// apply → park unresolved conflicts. Operations are isolated from each
	// other: a failed operation is reported in the result and never aborts
	// the rest of the batch. Applied operations are not rolled back when a
	// later one fails.
	Synchronize(ctx context.Context, batch models.SyncBatch) (models.SyncResult, error)

	// GetPendingConflicts lists unresolved conflicts whose local operation
	// was authored by userID.
	GetPendingConflicts(ctx context.Context, userID int64) ([]models.SyncConflict, error)

	// ResolveConflictManually applies a reviewer's decision to a pending
	// conflict. The boolean reports whether the conflict existed; unknown
	// IDs return (false, nil).
	ResolveConflictManually(ctx context.Context, req models.ManualResolutionRequest) (bool, error)

	// GetSyncStats returns the engine-wide counters snapshot.
	GetSyncStats(ctx context.Context) (models.SyncStats, error)
}

// AuthService handles account registration, credential verification, and JWT
// lifecycle.
type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// AppInfoService exposes build information of the running server.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
