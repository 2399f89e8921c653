package models

import "time"

// User represents an account entity used for authentication and authorization.
// Every user belongs to exactly one organization; the organization ID scopes
// all entity store access performed on the user's behalf.
type User struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"-"`

	// Login is the unique user login identifier used during authentication.
	Login string `json:"login"`

	// Name is the display name of the user. Non-sensitive.
	Name string `json:"name,omitempty"`

	// OrganizationID is the tenant the user belongs to. Embedded into the
	// JWT so handlers can scope store access without a database round trip.
	OrganizationID int64 `json:"organization_id,omitempty"`

	// Password carries the plaintext password on register/login requests
	// only. It is never persisted; the repository stores PasswordHash.
	Password string `json:"password,omitempty"`

	// PasswordHash is the bcrypt hash of the password. Never exposed via
	// JSON and used only at the persistence layer.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
