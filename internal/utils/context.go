// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, payload
// checksums, HMAC request hashing, HTTP response writing, JWT token
// generation and validation, and other common operations.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey is the key used to store the authenticated user identifier in
// the context. Used together with GetUserIDFromContext for type-safe
// retrieval of the user ID from context.Context.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.UserIDCtxKey, int64(42))
var UserIDCtxKey = contextKey("userID")

// OrgIDCtxKey is the key used to store the authenticated user's organization
// identifier in the context. The organization ID scopes every entity store
// access performed on the user's behalf.
var OrgIDCtxKey = contextKey("organizationID")

// GetUserIDFromContext retrieves the user identifier from the context.
//
// Returns the user ID of type int64 and an ok flag:
//   - ok == true  — value is found and has the correct int64 type
//   - ok == false — value is missing or has an unexpected type
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}

// GetOrgIDFromContext retrieves the organization identifier from the context.
//
// Returns the organization ID of type int64 and an ok flag mirroring
// [GetUserIDFromContext].
func GetOrgIDFromContext(ctx context.Context) (int64, bool) {
	orgID, ok := ctx.Value(OrgIDCtxKey).(int64)
	return orgID, ok
}
