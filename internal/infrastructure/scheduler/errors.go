package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrSyncSkipped is returned when another instance holds the sync lock
	ErrSyncSkipped = errors.New("viewer sync skipped, lock held elsewhere")
)
