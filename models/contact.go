package models

import "time"

// Contact is a standalone person record, optionally linked to a client.
// Contacts have no entity-specific merger; conflicts fall back to the generic
// field-level merge.
type Contact struct {
	// ID is the entity identifier, unique within the organization.
	ID string `json:"id"`

	// OrganizationID scopes the contact to a single tenant.
	OrganizationID int64 `json:"organization_id"`

	// ClientID links the contact to a client record; empty for
	// free-standing contacts.
	ClientID string `json:"client_id,omitempty"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Title     string `json:"title,omitempty"`

	Tags []string `json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntityType implements [Entity].
func (c *Contact) EntityType() EntityType { return EntityTypeContact }

// Key implements [Entity].
func (c *Contact) Key() string { return c.ID }

// Clone implements [Entity].
func (c *Contact) Clone() Entity {
	clone := *c
	if c.Tags != nil {
		clone.Tags = append([]string(nil), c.Tags...)
	}
	return &clone
}
