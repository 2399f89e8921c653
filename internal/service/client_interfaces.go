package service

import (
	"context"

	"github.com/MKhiriev/go-record-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_service_mocks.go -package=mock

// ClientAuthService handles the review console's session with the server.
type ClientAuthService interface {
	// Register creates an account and opens a session.
	Register(ctx context.Context, login, password string) (models.Token, error)

	// Login opens a session for an existing account.
	Login(ctx context.Context, login, password string) (models.Token, error)

	// Session returns the current session token; zero value when logged out.
	Session() models.Token
}

// ConflictReviewService is the console's view onto the server's pending
// conflicts.
type ConflictReviewService interface {
	PendingConflicts(ctx context.Context) ([]models.SyncConflict, error)
	Resolve(ctx context.Context, conflictID string, choice models.ManualChoice) error
	Stats(ctx context.Context) (models.SyncStats, error)
}

// OfflineQueueService accumulates operations locally while the server is
// unreachable and pushes them as one batch once it is back.
type OfflineQueueService interface {
	// Queue stores an operation in the local queue.
	Queue(ctx context.Context, op models.SyncOperation) error

	// PendingCount reports how many operations await a push.
	PendingCount(ctx context.Context) (int, error)

	// Flush submits every queued operation as a single batch and removes
	// the operations the server accepted (applied, conflicted, or dropped);
	// operations the server reported an error for stay queued for retry.
	Flush(ctx context.Context) (models.SyncResult, error)
}
