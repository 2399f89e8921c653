package models

import "time"

// Document represents a shared file's metadata record. The binary content
// itself lives in external object storage addressed by StorageKey; the sync
// engine only reconciles the metadata. Documents are the one entity type that
// is soft-deleted rather than hard-deleted, so that clients holding stale
// copies can discover the deletion on their next sync.
type Document struct {
	// ID is the entity identifier, unique within the organization.
	ID string `json:"id"`

	// OrganizationID scopes the document to a single tenant.
	OrganizationID int64 `json:"organization_id"`

	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	MimeType  string `json:"mime_type,omitempty"`
	SizeBytes int64  `json:"size_bytes,omitempty"`

	// StorageKey addresses the binary content in the external object store.
	// It changes whenever a new content version is uploaded, so merging
	// follows the side with the higher CurrentVersion.
	StorageKey     string `json:"storage_key,omitempty"`
	CurrentVersion int64  `json:"current_version"`

	Status  string `json:"status"`
	OwnerID int64  `json:"owner_id,omitempty"`

	// SharedWith lists user IDs the document is shared with; unioned on merge.
	SharedWith []int64  `json:"shared_with,omitempty"`
	Tags       []string `json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntityType implements [Entity].
func (d *Document) EntityType() EntityType { return EntityTypeDocument }

// Key implements [Entity].
func (d *Document) Key() string { return d.ID }

// Clone implements [Entity].
func (d *Document) Clone() Entity {
	clone := *d
	if d.SharedWith != nil {
		clone.SharedWith = append([]int64(nil), d.SharedWith...)
	}
	if d.Tags != nil {
		clone.Tags = append([]string(nil), d.Tags...)
	}
	return &clone
}
