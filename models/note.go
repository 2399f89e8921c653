package models

import "time"

// Note is a free-form annotation optionally attached to another entity.
// Notes have no entity-specific merger; conflicts fall back to the generic
// field-level merge.
type Note struct {
	// ID is the entity identifier, unique within the organization.
	ID string `json:"id"`

	// OrganizationID scopes the note to a single tenant.
	OrganizationID int64 `json:"organization_id"`

	AuthorID int64  `json:"author_id"`
	Subject  string `json:"subject,omitempty"`
	Body     string `json:"body"`
	Pinned   bool   `json:"pinned,omitempty"`

	// RelatedEntityType/RelatedEntityID point at the record the note
	// annotates; both empty for free-standing notes.
	RelatedEntityType EntityType `json:"related_entity_type,omitempty"`
	RelatedEntityID   string     `json:"related_entity_id,omitempty"`

	Tags []string `json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntityType implements [Entity].
func (n *Note) EntityType() EntityType { return EntityTypeNote }

// Key implements [Entity].
func (n *Note) Key() string { return n.ID }

// Clone implements [Entity].
func (n *Note) Clone() Entity {
	clone := *n
	if n.Tags != nil {
		clone.Tags = append([]string(nil), n.Tags...)
	}
	return &clone
}
