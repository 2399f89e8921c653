package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-record-sync/internal/service"
	"github.com/MKhiriev/go-record-sync/internal/store"
	"github.com/MKhiriev/go-record-sync/internal/validators"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrBatchUserMissing:        http.StatusBadRequest,
	service.ErrBatchTooLarge:           http.StatusBadRequest,
	service.ErrUnknownStrategy:         http.StatusInternalServerError,
	service.ErrInvalidResolutionChoice: http.StatusBadRequest,
	service.ErrCustomDataMissing:       http.StatusBadRequest,

	validators.ErrOwnershipMismatch: http.StatusForbidden,

	store.ErrLoginAlreadyExists: http.StatusConflict,
	store.ErrUserNotFound:       http.StatusNotFound,
	store.ErrRecordNotFound:     http.StatusNotFound,
	store.ErrConflictNotFound:   http.StatusNotFound,
	store.ErrVersionConflict:    http.StatusConflict,

	store.ErrDatabaseConnection: http.StatusInternalServerError,
	store.ErrDatabaseExec:       http.StatusInternalServerError,
	store.ErrDatabaseScan:       http.StatusInternalServerError,
	store.ErrMarshalPayload:     http.StatusInternalServerError,
	store.ErrUnmarshalPayload:   http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
