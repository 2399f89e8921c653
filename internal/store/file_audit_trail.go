package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/MKhiriev/go-record-sync/internal/logger"
)

// fileAuditTrail is the JSONL implementation of [AuditTrail]. Events are
// appended one JSON object per line to a daily file under the configured
// directory (audit-2006-01-02.jsonl). A mutex serialises writers so that
// concurrent synchronize calls never interleave partial lines.
type fileAuditTrail struct {
	dir    string
	logger *logger.Logger

	mu sync.Mutex
}

// NewFileAuditTrail constructs an [AuditTrail] writing JSONL files under dir.
// An empty dir disables auditing entirely and returns a no-op trail.
func NewFileAuditTrail(dir string, log *logger.Logger) (AuditTrail, error) {
	if dir == "" {
		log.Debug().Msg("audit trail disabled")
		return &nopAuditTrail{}, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Err(err).Str("func", "NewFileAuditTrail").Msg("error creating audit directory")
		return nil, fmt.Errorf("%w: %w", ErrAuditWrite, err)
	}

	log.Debug().Str("dir", dir).Msg("creating file audit trail")
	return &fileAuditTrail{
		dir:    dir,
		logger: log,
	}, nil
}

// Append writes one event line. A zero event time is filled with the current
// time so callers can omit it.
func (t *fileAuditTrail) Append(ctx context.Context, event AuditEvent) error {
	log := logger.FromContext(ctx)

	if event.Time.IsZero() {
		event.Time = time.Now()
	}

	line, err := json.Marshal(event)
	if err != nil {
		log.Err(err).Str("func", "*fileAuditTrail.Append").Msg("error encoding audit event")
		return fmt.Errorf("%w: %w", ErrAuditWrite, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	name := filepath.Join(t.dir, "audit-"+event.Time.Format("2006-01-02")+".jsonl")
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Err(err).Str("func", "*fileAuditTrail.Append").Msg("error opening audit file")
		return fmt.Errorf("%w: %w", ErrAuditWrite, err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		log.Err(err).Str("func", "*fileAuditTrail.Append").Msg("error writing audit event")
		return fmt.Errorf("%w: %w", ErrAuditWrite, err)
	}

	return nil
}

// nopAuditTrail discards every event. Used when no audit directory is
// configured.
type nopAuditTrail struct{}

func (t *nopAuditTrail) Append(ctx context.Context, event AuditEvent) error {
	return nil
}
