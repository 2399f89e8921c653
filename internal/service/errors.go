package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrVersionIsNotSpecified = errors.New("application version is not specified")

	ErrBatchUserMissing = errors.New("batch has no user id")
	ErrBatchTooLarge    = errors.New("batch exceeds the maximum operation count")

	ErrUnknownStrategy = errors.New("unknown resolution strategy")

	ErrMergeNilPayload = errors.New("cannot merge: one side has no payload")

	ErrInvalidResolutionChoice = errors.New("invalid resolution choice")
	ErrCustomDataMissing       = errors.New("custom resolution requires a payload")
)
