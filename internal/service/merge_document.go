package service

import (
	"fmt"

	"github.com/MKhiriev/go-record-sync/models"
)

// mergeDocuments is the entity-aware merger for document metadata. The binary
// content lives in external object storage, so the content-describing fields
// (MimeType, SizeBytes, StorageKey) must move together: they follow the side
// with the higher CurrentVersion, ties broken by the newer UpdatedAt.
//
// Remaining precedence: identity from the remote side; Name and Description
// most-recent non-empty; CurrentVersion the maximum of the two; Status from
// the side with the newer UpdatedAt; OwnerID prefers remote; SharedWith and
// Tags unioned.
func mergeDocuments(local, remote models.SyncOperation) (models.Entity, error) {
	localDoc, ok := local.Data.(*models.Document)
	if !ok {
		return nil, fmt.Errorf("%w: local payload is not a document", ErrInvalidDataProvided)
	}
	remoteDoc, ok := remote.Data.(*models.Document)
	if !ok {
		return nil, fmt.Errorf("%w: remote payload is not a document", ErrInvalidDataProvided)
	}

	newer, older := localDoc, remoteDoc
	if remoteDoc.UpdatedAt.After(localDoc.UpdatedAt) {
		newer, older = remoteDoc, localDoc
	}

	content := newer
	switch {
	case localDoc.CurrentVersion > remoteDoc.CurrentVersion:
		content = localDoc
	case remoteDoc.CurrentVersion > localDoc.CurrentVersion:
		content = remoteDoc
	}

	merged := models.Document{
		ID:             remoteDoc.ID,
		OrganizationID: remoteDoc.OrganizationID,
		CreatedAt:      remoteDoc.CreatedAt,

		Name:        mostRecentNonEmpty(newer.Name, older.Name),
		Description: mostRecentNonEmpty(newer.Description, older.Description),

		MimeType:   content.MimeType,
		SizeBytes:  content.SizeBytes,
		StorageKey: content.StorageKey,

		Status:    newer.Status,
		UpdatedAt: newer.UpdatedAt,
	}

	merged.CurrentVersion = localDoc.CurrentVersion
	if remoteDoc.CurrentVersion > merged.CurrentVersion {
		merged.CurrentVersion = remoteDoc.CurrentVersion
	}

	merged.OwnerID = remoteDoc.OwnerID
	if merged.OwnerID == 0 {
		merged.OwnerID = localDoc.OwnerID
	}

	merged.SharedWith = unionInt64s(localDoc.SharedWith, remoteDoc.SharedWith)
	merged.Tags = unionStrings(localDoc.Tags, remoteDoc.Tags)

	return &merged, nil
}
