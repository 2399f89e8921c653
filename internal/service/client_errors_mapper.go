// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-record-sync/internal/adapter"
	"github.com/MKhiriev/go-record-sync/internal/app"
	"github.com/MKhiriev/go-record-sync/internal/store"
)

// mapAdapterError translates the adapter's transport error into a service
// business error so the UI can match with errors.Is instead of inspecting
// status codes.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	msg := extractBody(err)

	switch {
	case errors.Is(err, adapter.ErrBadRequest):
		switch msg {
		case app.MsgInvalidDataProvided:
			return ErrInvalidDataProvided
		case app.MsgBatchTooLarge:
			return ErrBatchTooLarge
		case app.MsgInvalidResolutionChoice:
			return ErrInvalidResolutionChoice
		}

	case errors.Is(err, adapter.ErrUnauthorized):
		switch msg {
		case app.MsgInvalidLoginPassword:
			return ErrWrongPassword
		case app.MsgTokenIsExpiredOrInvalid:
			return ErrTokenIsExpiredOrInvalid
		}
		return ErrTokenIsExpiredOrInvalid

	case errors.Is(err, adapter.ErrNotFound):
		return store.ErrConflictNotFound

	case errors.Is(err, adapter.ErrConflict):
		if msg == app.MsgLoginAlreadyTaken {
			return store.ErrLoginAlreadyExists
		}
	}

	return err
}

// extractBody strips the wrapped sentinel prefix ("bad request: ...") and
// returns the server's message text.
func extractBody(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx >= 0 {
		msg = msg[idx+2:]
	}
	return strings.TrimSpace(msg)
}
