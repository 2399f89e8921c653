package store

import (
	"context"

	"github.com/MKhiriev/go-record-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mocks.go -package=mock

// OperationQueue is the local durable queue of sync operations composed
// while the server is unreachable. Operations stay queued until the server
// acknowledges the batch that carried them.
type OperationQueue interface {
	// Enqueue stores an operation for a later push. Re-enqueueing the same
	// operation ID overwrites the stored payload.
	Enqueue(ctx context.Context, op models.SyncOperation) error

	// Pending returns all queued operations in enqueue order.
	Pending(ctx context.Context) ([]models.SyncOperation, error)

	// Remove deletes acknowledged operations from the queue.
	Remove(ctx context.Context, operationIDs ...string) error

	// Count returns the number of queued operations.
	Count(ctx context.Context) (int, error)
}
