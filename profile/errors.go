package profile

import "errors"

var (
	// ErrProfileRepositoryRequired is returned when a profile repository is not provided.
	ErrProfileRepositoryRequired = errors.New("profile repository required")

	// ErrHistoryRepositoryRequired is returned when a history repository is not provided.
	ErrHistoryRepositoryRequired = errors.New("history repository required")

	// ErrAppliedRepositoryRequired is returned when an applied-action repository is not provided.
	ErrAppliedRepositoryRequired = errors.New("applied-action repository required")

	// ErrManagerReleased is returned after Release has been called.
	ErrManagerReleased = errors.New("profile manager released")
)
