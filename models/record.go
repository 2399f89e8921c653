package models

import (
	"encoding/json"
	"time"
)

// EntityRecord is the server-truth envelope returned by the entity store. It
// wraps the typed payload with the bookkeeping fields the conflict detector
// reasons about: the stored version, the last modification time, and the
// identity of the last writer.
type EntityRecord struct {
	EntityType EntityType `json:"entity_type"`
	EntityID   string     `json:"entity_id"`

	// OrganizationID scopes the record to a single tenant. Every store
	// operation is keyed by it; records of other organizations are
	// invisible to the engine.
	OrganizationID int64 `json:"organization_id"`

	// Data is the current server-side payload. Nil when the record is
	// soft-deleted and its payload has been cleared.
	Data Entity `json:"data,omitempty"`

	// Version increments on every successful write and backs the store's
	// optimistic concurrency check.
	Version int64 `json:"version"`

	UpdatedAt time.Time `json:"updated_at"`

	// UpdatedBy is the user who performed the last write.
	UpdatedBy int64 `json:"updated_by"`

	// Deleted marks a soft-deleted record (documents only).
	Deleted bool `json:"deleted"`

	// Checksum is the SHA-256 hex digest of the canonical JSON of Data.
	Checksum string `json:"checksum"`
}

type entityRecordJSON struct {
	EntityType     EntityType      `json:"entity_type"`
	EntityID       string          `json:"entity_id"`
	OrganizationID int64           `json:"organization_id"`
	Data           json.RawMessage `json:"data,omitempty"`
	Version        int64           `json:"version"`
	UpdatedAt      time.Time       `json:"updated_at"`
	UpdatedBy      int64           `json:"updated_by"`
	Deleted        bool            `json:"deleted"`
	Checksum       string          `json:"checksum"`
}

// UnmarshalJSON decodes the envelope and dispatches the payload through
// [DecodeEntity] keyed by the envelope's entity type.
func (r *EntityRecord) UnmarshalJSON(data []byte) error {
	var raw entityRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	entity, err := DecodeEntity(raw.EntityType, raw.Data)
	if err != nil {
		return err
	}

	*r = EntityRecord{
		EntityType:     raw.EntityType,
		EntityID:       raw.EntityID,
		OrganizationID: raw.OrganizationID,
		Data:           entity,
		Version:        raw.Version,
		UpdatedAt:      raw.UpdatedAt,
		UpdatedBy:      raw.UpdatedBy,
		Deleted:        raw.Deleted,
		Checksum:       raw.Checksum,
	}

	return nil
}
