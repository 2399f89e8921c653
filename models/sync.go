// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// OperationType is the kind of mutation a [SyncOperation] proposes.
type OperationType string

const (
	OperationCreate OperationType = "create"
	OperationUpdate OperationType = "update"
	OperationDelete OperationType = "delete"
)

// Valid reports whether op is one of the three known operation kinds.
func (op OperationType) Valid() bool {
	switch op {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	default:
		return false
	}
}

// SyncOperation is a single mutation queued on a client device while it was
// offline. A batch of operations is submitted per device per synchronize
// call; each operation is validated, checked for conflicts against server
// state, and finally applied or parked for manual review.
type SyncOperation struct {
	// ID uniquely identifies the operation within the submitting device's
	// queue. Used for error attribution in the sync result.
	ID string `json:"id"`

	// EntityType names the kind of record the operation mutates.
	EntityType EntityType `json:"entity_type"`

	// EntityID addresses the record within the organization.
	EntityID string `json:"entity_id"`

	// Operation is the proposed mutation kind.
	Operation OperationType `json:"operation"`

	// Data is the entity-shaped payload. Nil is allowed for delete
	// operations only.
	Data Entity `json:"data,omitempty"`

	// Timestamp is when the mutation was captured on the device.
	Timestamp time.Time `json:"timestamp"`

	// DeviceID identifies the originating device.
	DeviceID string `json:"device_id"`

	// UserID is the author of the mutation. It must match the
	// authenticated caller; mismatches are dropped by the validator.
	UserID int64 `json:"user_id"`

	// Version is the entity version the device last saw, monotonically
	// non-decreasing per entity per device.
	Version int64 `json:"version"`

	// Checksum is the SHA-256 hex digest of the canonical JSON encoding of
	// Data. It must equal the recomputed digest at validation time;
	// operations violating this are rejected, never merged.
	Checksum string `json:"checksum"`
}

// syncOperationJSON mirrors SyncOperation with a raw Data field so that the
// payload can be decoded into the concrete entity struct selected by
// EntityType.
type syncOperationJSON struct {
	ID         string          `json:"id"`
	EntityType EntityType      `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Operation  OperationType   `json:"operation"`
	Data       json.RawMessage `json:"data,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	DeviceID   string          `json:"device_id"`
	UserID     int64           `json:"user_id"`
	Version    int64           `json:"version"`
	Checksum   string          `json:"checksum"`
}

// UnmarshalJSON decodes the operation envelope first, then dispatches the raw
// payload through [DecodeEntity] keyed by the envelope's entity type.
// Payloads of unknown entity types fail decoding here rather than leaking
// untyped data into the engine.
func (s *SyncOperation) UnmarshalJSON(data []byte) error {
	var raw syncOperationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	entity, err := DecodeEntity(raw.EntityType, raw.Data)
	if err != nil {
		return err
	}

	*s = SyncOperation{
		ID:         raw.ID,
		EntityType: raw.EntityType,
		EntityID:   raw.EntityID,
		Operation:  raw.Operation,
		Data:       entity,
		Timestamp:  raw.Timestamp,
		DeviceID:   raw.DeviceID,
		UserID:     raw.UserID,
		Version:    raw.Version,
		Checksum:   raw.Checksum,
	}

	return nil
}
