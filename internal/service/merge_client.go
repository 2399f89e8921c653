package service

import (
	"fmt"

	"dario.cat/mergo"
	"github.com/MKhiriev/go-record-sync/models"
)

// mergeClients is the entity-aware merger for client records. Field
// precedence:
//   - identity (ID, OrganizationID, CreatedAt) from the remote side;
//   - flat business fields (Name, LegalName, Industry, Status, Email,
//     Phone, Website): most recently updated non-empty value;
//   - Contacts: de-duplicated by email, the newer side wins a duplicate;
//   - Addresses, Compliance, Preferences, Billing: deep merge with the
//     newer side as the base and the older side filling the gaps;
//   - RelationshipManagerIDs, TeamMemberIDs, Tags: union;
//   - UpdatedAt: the later of the two.
func mergeClients(local, remote models.SyncOperation) (models.Entity, error) {
	localClient, ok := local.Data.(*models.Client)
	if !ok {
		return nil, fmt.Errorf("%w: local payload is not a client", ErrInvalidDataProvided)
	}
	remoteClient, ok := remote.Data.(*models.Client)
	if !ok {
		return nil, fmt.Errorf("%w: remote payload is not a client", ErrInvalidDataProvided)
	}

	newer, older := localClient, remoteClient
	if remoteClient.UpdatedAt.After(localClient.UpdatedAt) {
		newer, older = remoteClient, localClient
	}

	merged := models.Client{
		ID:             remoteClient.ID,
		OrganizationID: remoteClient.OrganizationID,
		CreatedAt:      remoteClient.CreatedAt,

		Name:      mostRecentNonEmpty(newer.Name, older.Name),
		LegalName: mostRecentNonEmpty(newer.LegalName, older.LegalName),
		Industry:  mostRecentNonEmpty(newer.Industry, older.Industry),
		Status:    mostRecentNonEmpty(newer.Status, older.Status),
		Email:     mostRecentNonEmpty(newer.Email, older.Email),
		Phone:     mostRecentNonEmpty(newer.Phone, older.Phone),
		Website:   mostRecentNonEmpty(newer.Website, older.Website),

		UpdatedAt: newer.UpdatedAt,
	}

	merged.Contacts = mergeClientContacts(newer.Contacts, older.Contacts)

	// newer side is the base; the older side only fills zero-valued gaps
	merged.Addresses = newer.Addresses
	if err := mergo.Merge(&merged.Addresses, older.Addresses); err != nil {
		return nil, fmt.Errorf("addresses merge failed: %w", err)
	}
	merged.Compliance = newer.Compliance
	if err := mergo.Merge(&merged.Compliance, older.Compliance); err != nil {
		return nil, fmt.Errorf("compliance merge failed: %w", err)
	}
	merged.Preferences = newer.Preferences
	if err := mergo.Merge(&merged.Preferences, older.Preferences); err != nil {
		return nil, fmt.Errorf("preferences merge failed: %w", err)
	}
	merged.Billing = newer.Billing
	if err := mergo.Merge(&merged.Billing, older.Billing); err != nil {
		return nil, fmt.Errorf("billing merge failed: %w", err)
	}

	merged.RelationshipManagerIDs = unionInt64s(localClient.RelationshipManagerIDs, remoteClient.RelationshipManagerIDs)
	merged.TeamMemberIDs = unionInt64s(localClient.TeamMemberIDs, remoteClient.TeamMemberIDs)
	merged.Tags = unionStrings(localClient.Tags, remoteClient.Tags)

	return &merged, nil
}

// mergeClientContacts unions two contact lists keyed by email; the preferred
// (newer) list wins a duplicate email. Preferred order first, then remaining
// contacts from the other side in their own order.
func mergeClientContacts(preferred, other []models.ClientContact) []models.ClientContact {
	if len(preferred) == 0 && len(other) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(preferred))
	merged := make([]models.ClientContact, 0, len(preferred)+len(other))
	for _, c := range preferred {
		seen[c.Email] = struct{}{}
		merged = append(merged, c)
	}
	for _, c := range other {
		if _, ok := seen[c.Email]; ok {
			continue
		}
		merged = append(merged, c)
	}

	return merged
}
