// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// record sync server handlers and middleware.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies or log entries to describe the outcome of an operation.
// Keeping them in one place ensures consistent wording throughout the API.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails basic validation (e.g. missing required fields).
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidLoginPassword is returned when the supplied login/password
	// combination does not match any existing user record.
	MsgInvalidLoginPassword = "invalid login/password"

	// MsgLoginAlreadyTaken is returned when registration collides with an
	// existing account.
	MsgLoginAlreadyTaken = "login already taken"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpiredOrInvalid is returned when a JWT bearer token is
	// either expired or cannot be verified (e.g. wrong signature).
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgNoOperationsProvided is returned when a sync batch carries an empty
	// operation list.
	MsgNoOperationsProvided = "no operations provided"

	// MsgBatchTooLarge is returned when a sync batch exceeds the configured
	// operation cap.
	MsgBatchTooLarge = "batch exceeds the maximum operation count"

	// MsgConflictNotFound is returned when a manual resolution addresses an
	// unknown or already-resolved conflict.
	MsgConflictNotFound = "conflict not found"

	// MsgInvalidResolutionChoice is returned when a manual resolution names
	// a choice outside local/remote/custom.
	MsgInvalidResolutionChoice = "invalid resolution choice"

	// MsgHashMismatch is returned when the transport integrity hash header
	// does not match the request body.
	MsgHashMismatch = "request body hash mismatch"
)
