package validators

import (
	"context"

	"github.com/MKhiriev/go-record-sync/internal/utils"
	"github.com/MKhiriev/go-record-sync/models"
)

const (
	FieldOperationID = "id"
	FieldEntityType  = "entity_type"
	FieldEntityID    = "entity_id"
	FieldOperation   = "operation"
	FieldTimestamp   = "timestamp"
	FieldDeviceID    = "device_id"
	FieldOwnership   = "ownership"
	FieldChecksum    = "checksum"
	FieldPayload     = "data"
)

// SyncOperationValidator enforces the security/integrity boundary in front of
// conflict detection: identity-field presence, authorship (the operation's
// UserID must match the authenticated caller), and payload checksum
// verification. Operations failing any check are dropped from the batch by
// the engine, never surfaced as user-facing errors.
type SyncOperationValidator struct {
}

func NewSyncOperationValidator() *SyncOperationValidator {
	return &SyncOperationValidator{}
}

// Validate implements [Validator] for [models.SyncOperation] values. The
// caller's authenticated user ID is passed through ctx by the engine; see
// [SyncOperationValidator.ValidateOperation] for the field rules.
func (v *SyncOperationValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.SyncOperation:
		return v.validateSyncOperation(ctx, value, fields...)
	case *models.SyncOperation:
		return v.validateSyncOperation(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// ValidateOperation runs the full rule set for one operation against the
// claimed caller identity:
//
//   - required identity fields: id, entity type (closed set), entity id,
//     operation kind (closed set), timestamp, device id;
//   - ownership: op.UserID == callerUserID (prevents spoofing another
//     user's device);
//   - checksum: the recomputed SHA-256 digest of the payload must equal
//     op.Checksum;
//   - payload consistency: create/update must carry a payload whose Key()
//     matches EntityID and whose EntityType() matches the envelope.
//
// The first failed rule is returned as a sentinel error.
func (v *SyncOperationValidator) ValidateOperation(op models.SyncOperation, callerUserID int64) error {
	if op.ID == "" {
		return ErrMissingOperationID
	}
	if !op.EntityType.Valid() {
		return ErrInvalidEntityType
	}
	if op.EntityID == "" {
		return ErrMissingEntityID
	}
	if !op.Operation.Valid() {
		return ErrInvalidOperation
	}
	if op.Timestamp.IsZero() {
		return ErrMissingTimestamp
	}
	if op.DeviceID == "" {
		return ErrMissingDeviceID
	}

	if op.UserID != callerUserID {
		return ErrOwnershipMismatch
	}

	checksum, err := utils.ChecksumEntity(op.Data)
	if err != nil || checksum != op.Checksum {
		return ErrChecksumMismatch
	}

	if op.Operation != models.OperationDelete {
		if op.Data == nil {
			return ErrMissingPayload
		}
		if op.Data.Key() != op.EntityID {
			return ErrPayloadKeyMismatch
		}
		if op.Data.EntityType() != op.EntityType {
			return ErrPayloadTypeMismatch
		}
	}

	return nil
}

func (v *SyncOperationValidator) validateSyncOperation(ctx context.Context, op models.SyncOperation, fields ...string) error {
	callerUserID, _ := utils.GetUserIDFromContext(ctx)

	if len(fields) == 0 {
		return v.ValidateOperation(op, callerUserID)
	}

	for _, field := range fields {
		switch field {
		case FieldOperationID:
			if op.ID == "" {
				return ErrMissingOperationID
			}
		case FieldEntityType:
			if !op.EntityType.Valid() {
				return ErrInvalidEntityType
			}
		case FieldEntityID:
			if op.EntityID == "" {
				return ErrMissingEntityID
			}
		case FieldOperation:
			if !op.Operation.Valid() {
				return ErrInvalidOperation
			}
		case FieldTimestamp:
			if op.Timestamp.IsZero() {
				return ErrMissingTimestamp
			}
		case FieldDeviceID:
			if op.DeviceID == "" {
				return ErrMissingDeviceID
			}
		case FieldOwnership:
			if op.UserID != callerUserID {
				return ErrOwnershipMismatch
			}
		case FieldChecksum:
			checksum, err := utils.ChecksumEntity(op.Data)
			if err != nil || checksum != op.Checksum {
				return ErrChecksumMismatch
			}
		case FieldPayload:
			if op.Operation != models.OperationDelete && op.Data == nil {
				return ErrMissingPayload
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
