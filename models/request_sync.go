// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SyncBatch is submitted by a client device to reconcile the mutations it
// queued while offline. One batch maps to one synchronize call: operations
// are processed sequentially and the outcome is reported in a [SyncResult].
type SyncBatch struct {
	// DeviceID identifies the submitting device; the per-device sync state
	// (last-sync timestamp) is keyed by it.
	DeviceID string `json:"device_id"`

	// UserID is the owner of the queued operations. It must match the
	// authenticated caller; the handler layer enforces this before the
	// batch reaches the engine.
	UserID int64 `json:"user_id"`

	// OrganizationID scopes every entity store access made for this batch.
	OrganizationID int64 `json:"organization_id"`

	// Operations is the device's offline mutation queue, in capture order.
	Operations []SyncOperation `json:"operations"`
}
