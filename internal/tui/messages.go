package tui

import (
	"github.com/MKhiriev/go-record-sync/models"
)

type authDoneMsg struct {
	token models.Token
	err   error
}

type conflictsLoadedMsg struct {
	conflicts []models.SyncConflict
	err       error
}

type resolveDoneMsg struct {
	conflictID string
	err        error
}

type statsLoadedMsg struct {
	stats models.SyncStats
	err   error
}

type queueFlushedMsg struct {
	result models.SyncResult
	err    error
}

type copiedMsg struct{}

type clearStatusMsg struct{}
