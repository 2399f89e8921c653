package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/MKhiriev/go-record-sync/internal/adapter"
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/store"
	"github.com/MKhiriev/go-record-sync/internal/utils"
	"github.com/MKhiriev/go-record-sync/models"
)

// clientQueueService implements [OfflineQueueService]: operations composed
// while offline sit in the local SQLite queue until Flush submits them as
// one sync batch.
type clientQueueService struct {
	queue    store.OperationQueue
	server   adapter.ServerAdapter
	auth     ClientAuthService
	deviceID string
	logger   *logger.Logger
}

// NewClientQueueService constructs an [OfflineQueueService] bound to one
// device identity.
func NewClientQueueService(
	queue store.OperationQueue,
	server adapter.ServerAdapter,
	auth ClientAuthService,
	deviceID string,
	logger *logger.Logger,
) OfflineQueueService {
	if deviceID == "" {
		deviceID = utils.NewUUIDGenerator().Generate()
	}
	return &clientQueueService{
		queue:    queue,
		server:   server,
		auth:     auth,
		deviceID: deviceID,
		logger:   logger,
	}
}

// Queue stores one operation locally. Missing bookkeeping fields are filled
// from the session and device identity; the checksum is recomputed so the
// server's validator never drops a locally composed operation over a stale
// digest.
func (s *clientQueueService) Queue(ctx context.Context, op models.SyncOperation) error {
	session := s.auth.Session()

	if op.ID == "" {
		op.ID = utils.NewUUIDGenerator().Generate()
	}
	if op.DeviceID == "" {
		op.DeviceID = s.deviceID
	}
	if op.UserID == 0 {
		op.UserID = session.UserID
	}
	if op.Timestamp.IsZero() {
		op.Timestamp = time.Now()
	}

	checksum, err := utils.ChecksumEntity(op.Data)
	if err != nil {
		return fmt.Errorf("checksum computation failed: %w", err)
	}
	op.Checksum = checksum

	return s.queue.Enqueue(ctx, op)
}

func (s *clientQueueService) PendingCount(ctx context.Context) (int, error) {
	return s.queue.Count(ctx)
}

// Flush submits the whole queue as one batch. Operations the server reported
// a per-operation error for stay queued; everything else — applied, parked
// as a conflict, or silently dropped by validation — is removed, because
// resubmitting those can never change the outcome.
func (s *clientQueueService) Flush(ctx context.Context) (models.SyncResult, error) {
	log := logger.FromContext(ctx)
	session := s.auth.Session()

	ops, err := s.queue.Pending(ctx)
	if err != nil {
		return models.SyncResult{}, err
	}
	if len(ops) == 0 {
		return models.SyncResult{Success: true}, nil
	}

	batch := models.SyncBatch{
		DeviceID:       s.deviceID,
		UserID:         session.UserID,
		OrganizationID: session.OrganizationID,
		Operations:     ops,
	}

	result, err := s.server.Synchronize(ctx, batch)
	if err != nil {
		return models.SyncResult{}, mapAdapterError(err)
	}

	retry := make(map[string]struct{}, len(result.Errors))
	for _, opErr := range result.Errors {
		if opErr.OperationID != "" {
			retry[opErr.OperationID] = struct{}{}
		}
	}

	acked := make([]string, 0, len(ops))
	for _, op := range ops {
		if _, failed := retry[op.ID]; failed {
			continue
		}
		acked = append(acked, op.ID)
	}
	if err := s.queue.Remove(ctx, acked...); err != nil {
		return result, err
	}

	log.Info().
		Str("device_id", s.deviceID).
		Str("user_id", strconv.FormatInt(session.UserID, 10)).
		Int("pushed", len(ops)).
		Int("acked", len(acked)).
		Msg("offline queue flushed")

	return result, nil
}
