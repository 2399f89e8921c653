// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package models defines the domain data model shared by every layer of the
// go-record-sync application: the closed set of business entities, the sync
// operation/conflict envelope types, and the request/response shapes of the
// synchronization API. The package has no dependencies on internal/ packages.
package models

import (
	"encoding/json"
	"fmt"
)

// EntityType identifies one of the business record kinds the sync engine
// knows how to reconcile. The set is closed: payloads carrying any other
// value are rejected during validation and never reach conflict detection.
type EntityType string

const (
	EntityTypeTask     EntityType = "task"
	EntityTypeDocument EntityType = "document"
	EntityTypeClient   EntityType = "client"
	EntityTypeContact  EntityType = "contact"
	EntityTypeNote     EntityType = "note"
)

// EntityTypeOrder is the stable order in which the batch processor applies
// grouped operations. Having a fixed order makes batch application
// deterministic regardless of the order operations arrived in.
var EntityTypeOrder = [...]EntityType{
	EntityTypeTask,
	EntityTypeDocument,
	EntityTypeClient,
	EntityTypeContact,
	EntityTypeNote,
}

// Valid reports whether t belongs to the closed entity type set.
func (t EntityType) Valid() bool {
	switch t {
	case EntityTypeTask, EntityTypeDocument, EntityTypeClient, EntityTypeContact, EntityTypeNote:
		return true
	default:
		return false
	}
}

// Entity is the sealed interface implemented by every business record payload
// that can travel inside a [SyncOperation]. Implementations are plain structs
// (Task, Document, Client, Contact, Note); no map-shaped payloads cross the
// engine boundary.
type Entity interface {
	// EntityType returns the closed-set tag of the concrete payload.
	EntityType() EntityType

	// Key returns the entity identifier used to address the record in the
	// entity store. It must match the owning operation's EntityID.
	Key() string

	// Clone returns a deep copy of the payload. Mergers operate on clones so
	// that neither side of a conflict is mutated in place.
	Clone() Entity
}

// DecodeEntity unmarshals raw JSON into the concrete payload struct matching
// entityType. It pattern-matches exhaustively over the closed entity set and
// returns an error for unknown types, so duck-typed payloads can never be
// smuggled past the validator.
func DecodeEntity(entityType EntityType, raw json.RawMessage) (Entity, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	switch entityType {
	case EntityTypeTask:
		var task Task
		if err := json.Unmarshal(raw, &task); err != nil {
			return nil, fmt.Errorf("decoding task payload: %w", err)
		}
		return &task, nil
	case EntityTypeDocument:
		var document Document
		if err := json.Unmarshal(raw, &document); err != nil {
			return nil, fmt.Errorf("decoding document payload: %w", err)
		}
		return &document, nil
	case EntityTypeClient:
		var client Client
		if err := json.Unmarshal(raw, &client); err != nil {
			return nil, fmt.Errorf("decoding client payload: %w", err)
		}
		return &client, nil
	case EntityTypeContact:
		var contact Contact
		if err := json.Unmarshal(raw, &contact); err != nil {
			return nil, fmt.Errorf("decoding contact payload: %w", err)
		}
		return &contact, nil
	case EntityTypeNote:
		var note Note
		if err := json.Unmarshal(raw, &note); err != nil {
			return nil, fmt.Errorf("decoding note payload: %w", err)
		}
		return &note, nil
	default:
		return nil, fmt.Errorf("unknown entity type %q", entityType)
	}
}
