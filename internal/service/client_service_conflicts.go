package service

import (
	"context"

	"github.com/MKhiriev/go-record-sync/internal/adapter"
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/models"
)

// clientConflictService implements [ConflictReviewService] by delegating to
// the server adapter and translating transport errors into business errors.
type clientConflictService struct {
	server adapter.ServerAdapter
	auth   ClientAuthService
	logger *logger.Logger
}

// NewClientConflictService constructs a [ConflictReviewService].
func NewClientConflictService(server adapter.ServerAdapter, auth ClientAuthService, logger *logger.Logger) ConflictReviewService {
	return &clientConflictService{
		server: server,
		auth:   auth,
		logger: logger,
	}
}

func (s *clientConflictService) PendingConflicts(ctx context.Context) ([]models.SyncConflict, error) {
	conflicts, err := s.server.PendingConflicts(ctx)
	if err != nil {
		return nil, mapAdapterError(err)
	}
	return conflicts, nil
}

func (s *clientConflictService) Resolve(ctx context.Context, conflictID string, choice models.ManualChoice) error {
	session := s.auth.Session()

	req := models.ManualResolutionRequest{
		ConflictID: conflictID,
		Choice:     choice,
		ResolvedBy: session.Subject,
	}
	if err := s.server.ResolveConflict(ctx, req); err != nil {
		return mapAdapterError(err)
	}
	return nil
}

func (s *clientConflictService) Stats(ctx context.Context) (models.SyncStats, error) {
	stats, err := s.server.Stats(ctx)
	if err != nil {
		return models.SyncStats{}, mapAdapterError(err)
	}
	return stats, nil
}
