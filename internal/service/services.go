package service

import (
	"github.com/MKhiriev/go-record-sync/internal/config"
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/store"
	"github.com/MKhiriev/go-record-sync/internal/validators"
)

type Services struct {
	AuthService    AuthService
	SyncService    SyncService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AuthService: NewAuthService(storages.UserRepository, cfg.App, logger),
		SyncService: NewSyncService(
			storages.EntityStore,
			storages.ConflictRepository,
			storages.SyncStateRepository,
			storages.AuditTrail,
			validators.NewSyncOperationValidator(),
			cfg.Sync,
			logger,
		),
		AppInfoService: appInfoService,
	}, nil
}
