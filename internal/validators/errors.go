package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrMissingOperationID = errors.New("missing operation ID")
	ErrInvalidEntityType  = errors.New("invalid entity type")
	ErrMissingEntityID    = errors.New("missing entity ID")
	ErrInvalidOperation   = errors.New("invalid operation type")
	ErrMissingTimestamp   = errors.New("missing operation timestamp")
	ErrMissingDeviceID    = errors.New("missing device ID")
	ErrOwnershipMismatch  = errors.New("operation author does not match caller")
	ErrChecksumMismatch   = errors.New("operation checksum mismatch")
	ErrMissingPayload     = errors.New("missing payload for create/update operation")
	ErrPayloadKeyMismatch = errors.New("payload key does not match entity ID")
	ErrPayloadTypeMismatch = errors.New("payload type does not match entity type")
)
