// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// ConflictType classifies why an incoming operation collided with server
// state. Exactly one type is assigned per operation; detection rules are
// evaluated in the order version → concurrent → delete and the first match
// wins.
type ConflictType string

const (
	// ConflictVersion means the server's stored version is strictly greater
	// than the version the device last saw.
	ConflictVersion ConflictType = "version"

	// ConflictConcurrent means a different user modified the record within
	// the configured window of the operation's timestamp, regardless of
	// version numbers.
	ConflictConcurrent ConflictType = "concurrent"

	// ConflictDelete means the client proposed a delete while the server
	// record has been updated after the client last saw it.
	ConflictDelete ConflictType = "delete"
)

// ResolutionType records how a conflict was (or will be) settled.
type ResolutionType string

const (
	ResolutionManual     ResolutionType = "manual"
	ResolutionAutoLocal  ResolutionType = "auto_local"
	ResolutionAutoRemote ResolutionType = "auto_remote"
	ResolutionMerge      ResolutionType = "merge"
)

// ResolutionStrategy selects the policy applied uniformly to every conflict
// detected within one synchronize call. The strategy is engine-wide
// configuration, not a per-conflict choice.
type ResolutionStrategy string

const (
	// StrategyLastWriteWins keeps the side with the later timestamp and
	// discards the other entirely. Lossy by design.
	StrategyLastWriteWins ResolutionStrategy = "last_write_wins"

	// StrategyFirstWriteWins keeps the side with the earlier timestamp and
	// discards the other entirely. Lossy by design.
	StrategyFirstWriteWins ResolutionStrategy = "first_write_wins"

	// StrategyIntelligentMerge dispatches to an entity-aware merger keyed by
	// entity type, falling back to field-level merge for types without one.
	StrategyIntelligentMerge ResolutionStrategy = "intelligent_merge"

	// StrategyFieldLevelMerge reconciles the two payloads key by key on
	// their JSON projection.
	StrategyFieldLevelMerge ResolutionStrategy = "field_level_merge"

	// StrategyManualReview never auto-resolves: every conflict is parked in
	// the pending store until a human acts, and nothing is applied for the
	// affected entities.
	StrategyManualReview ResolutionStrategy = "manual_review"
)

// Valid reports whether s names a known resolution strategy.
func (s ResolutionStrategy) Valid() bool {
	switch s {
	case StrategyLastWriteWins, StrategyFirstWriteWins, StrategyIntelligentMerge,
		StrategyFieldLevelMerge, StrategyManualReview:
		return true
	default:
		return false
	}
}

// SyncConflict is produced when a [SyncOperation] collides with server state.
// It pairs the device's proposed mutation (LocalVersion) with a synthesized
// operation reflecting current server truth (RemoteVersion). A conflict is
// either resolved automatically within the synchronize call that detected it,
// or persisted durably until resolved manually; once resolved it is removed
// from the pending set and the outcome is applied exactly once.
type SyncConflict struct {
	// ID is the durable identifier of the conflict (UUID).
	ID string `json:"id"`

	EntityType EntityType `json:"entity_type"`
	EntityID   string     `json:"entity_id"`

	// LocalVersion is the operation submitted by the device.
	LocalVersion SyncOperation `json:"local_version"`

	// RemoteVersion is a synthesized operation carrying the server record's
	// data, version, and last-writer identity at detection time.
	RemoteVersion SyncOperation `json:"remote_version"`

	ConflictType ConflictType `json:"conflict_type"`

	// Resolution is ResolutionManual while the conflict is pending and is
	// overwritten with the final outcome when resolved.
	Resolution ResolutionType `json:"resolution"`

	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy string     `json:"resolved_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ManualChoice is the side a reviewer picks when resolving a pending conflict.
type ManualChoice string

const (
	ChoiceLocal  ManualChoice = "local"
	ChoiceRemote ManualChoice = "remote"
	ChoiceCustom ManualChoice = "custom"
)

// ManualResolutionRequest is the payload of the manual conflict resolution
// endpoint. CustomData stays raw at this level because its concrete entity
// type is only known once the pending conflict record has been loaded; the
// engine decodes it via [DecodeEntity] against the conflict's entity type.
type ManualResolutionRequest struct {
	// ConflictID identifies the pending conflict to resolve.
	ConflictID string `json:"conflict_id"`

	// Choice selects which side to apply.
	Choice ManualChoice `json:"choice"`

	// CustomData carries an explicit payload when Choice is ChoiceCustom.
	// Its checksum is recomputed server-side, never trusted from the client.
	CustomData json.RawMessage `json:"custom_data,omitempty"`

	// ResolvedBy identifies the reviewer; stamped onto the conflict record.
	ResolvedBy string `json:"resolved_by,omitempty"`

	// UserID is the authenticated caller, filled by the handler layer.
	UserID int64 `json:"-"`

	// OrganizationID scopes the apply of the resolution outcome. Filled by
	// the handler layer from the caller's token, like UserID.
	OrganizationID int64 `json:"-"`
}
