package workers

import (
	"github.com/MKhiriev/go-record-sync/internal/config"
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/store"
)

type Workers struct {
	workers []Worker
}

// NewWorkers assembles the background workers of the server process.
// Currently that is the pending-conflict escalation worker.
func NewWorkers(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) *Workers {
	return &Workers{
		workers: []Worker{
			newEscalationWorker(
				storages.ConflictRepository,
				storages.AuditTrail,
				cfg.Workers.EscalationInterval,
				cfg.Sync.PendingMaxAge,
				logger,
			),
		},
	}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}

// Stop signals every worker that supports stopping to finish.
func (w *Workers) Stop() {
	for _, worker := range w.workers {
		if stoppable, ok := worker.(interface{ Stop() }); ok {
			stoppable.Stop()
		}
	}
}
