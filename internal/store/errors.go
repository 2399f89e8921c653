package store

import "errors"

var (
	ErrDatabaseConnection = errors.New("error occurred during database connection")
	ErrDatabaseExec       = errors.New("error occurred during query execution")
	ErrDatabaseScan       = errors.New("error occurred during row scanning")

	ErrRecordNotFound      = errors.New("record not found")
	ErrRecordAlreadyExists = errors.New("record already exists")
	ErrVersionConflict     = errors.New("record version does not match expected version")

	ErrConflictNotFound = errors.New("conflict not found")

	ErrUserNotFound       = errors.New("user not found")
	ErrLoginAlreadyExists = errors.New("user with given login already exists")

	ErrMarshalPayload   = errors.New("error occurred during payload marshalling")
	ErrUnmarshalPayload = errors.New("error occurred during payload unmarshalling")

	ErrAuditWrite = errors.New("error occurred during audit trail write")
)
