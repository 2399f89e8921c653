// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating
// with the record sync server.
//
// The primary abstraction is [ServerAdapter], which decouples the client
// application from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrUnauthorized] for 401, [ErrConflict] for 409).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-record-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the record
// sync server. Implementations are responsible for serialisation,
// authentication header management, and mapping transport-level errors to
// the sentinel values defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all
	// subsequent authenticated requests. It is called automatically after a
	// successful Register or Login.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// Register creates an account and stores the returned bearer token.
	Register(ctx context.Context, user models.User) (models.Token, error)

	// Login authenticates and stores the returned bearer token.
	Login(ctx context.Context, user models.User) (models.Token, error)

	// Synchronize submits a batch of queued operations and returns the
	// server's reconciliation outcome.
	Synchronize(ctx context.Context, batch models.SyncBatch) (models.SyncResult, error)

	// PendingConflicts lists the caller's conflicts awaiting manual review.
	PendingConflicts(ctx context.Context) ([]models.SyncConflict, error)

	// ResolveConflict applies a reviewer decision to a pending conflict.
	// Unknown conflict IDs surface as [ErrNotFound].
	ResolveConflict(ctx context.Context, req models.ManualResolutionRequest) error

	// Stats fetches the engine counters snapshot.
	Stats(ctx context.Context) (models.SyncStats, error)
}
