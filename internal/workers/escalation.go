// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/store"
)

// escalationWorker periodically scans the pending-conflict store and flags
// conflicts that have been awaiting manual resolution for longer than the
// configured maximum age. Escalation does not resolve anything: it emits an
// audit record and a warning so that operators notice reviews going stale.
type escalationWorker struct {
	conflicts store.ConflictRepository
	audit     store.AuditTrail

	interval time.Duration
	maxAge   time.Duration

	logger *logger.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

func newEscalationWorker(
	conflicts store.ConflictRepository,
	audit store.AuditTrail,
	interval time.Duration,
	maxAge time.Duration,
	logger *logger.Logger,
) *escalationWorker {
	return &escalationWorker{
		conflicts: conflicts,
		audit:     audit,
		interval:  interval,
		maxAge:    maxAge,
		logger:    logger,
		stop:      make(chan struct{}),
	}
}

// Run starts the scan loop in a background goroutine and returns immediately.
func (w *escalationWorker) Run() {
	if w.interval <= 0 {
		w.logger.Info().Str("func", "*escalationWorker.Run").Msg("escalation worker disabled: no interval configured")
		return
	}

	w.logger.Info().Str("func", "*escalationWorker.Run").
		Dur("interval", w.interval).
		Dur("max_age", w.maxAge).
		Msg("escalation worker started")

	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.scan(context.Background())
			case <-w.stop:
				w.logger.Info().Str("func", "*escalationWorker.Run").Msg("escalation worker stopped")
				return
			}
		}
	}()
}

// Stop terminates the scan loop. Safe to call more than once.
func (w *escalationWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})
}

// scan performs one pass over the pending store and escalates every conflict
// older than the cutoff.
func (w *escalationWorker) scan(ctx context.Context) {
	cutoff := time.Now().Add(-w.maxAge)

	stale, err := w.conflicts.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		w.logger.Err(err).Str("func", "*escalationWorker.scan").Msg("error listing stale pending conflicts")
		return
	}
	if len(stale) == 0 {
		w.logger.Debug().Str("func", "*escalationWorker.scan").Msg("no stale pending conflicts")
		return
	}

	for _, conflict := range stale {
		age := time.Since(conflict.CreatedAt)

		w.logger.Audit().
			Str("func", "*escalationWorker.scan").
			Str("conflict_id", conflict.ID).
			Str("entity_type", string(conflict.EntityType)).
			Str("entity_id", conflict.EntityID).
			Dur("age", age).
			Msg("pending conflict exceeded the maximum review age")

		event := store.AuditEvent{
			Time:        time.Now(),
			Kind:        store.AuditConflictEscalated,
			OperationID: conflict.LocalVersion.ID,
			EntityType:  conflict.EntityType,
			EntityID:    conflict.EntityID,
			UserID:      conflict.LocalVersion.UserID,
			DeviceID:    conflict.LocalVersion.DeviceID,
			Reason:      "pending conflict exceeded the maximum review age",
		}
		if err := w.audit.Append(ctx, event); err != nil {
			w.logger.Err(err).Str("func", "*escalationWorker.scan").
				Str("conflict_id", conflict.ID).
				Msg("error appending escalation audit event")
		}
	}

	w.logger.Info().Str("func", "*escalationWorker.scan").
		Int("escalated", len(stale)).
		Msg("escalation pass finished")
}
