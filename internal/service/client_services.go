package service

import (
	"github.com/MKhiriev/go-record-sync/internal/adapter"
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/store"
)

type ClientServices struct {
	AuthService     ClientAuthService
	ConflictService ConflictReviewService
	QueueService    OfflineQueueService
}

func NewClientServices(storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, deviceID string, logger *logger.Logger) *ClientServices {
	authSvc := NewClientAuthService(serverAdapter, logger)

	return &ClientServices{
		AuthService:     authSvc,
		ConflictService: NewClientConflictService(serverAdapter, authSvc, logger),
		QueueService:    NewClientQueueService(storages.OperationQueue, serverAdapter, authSvc, deviceID, logger),
	}
}
