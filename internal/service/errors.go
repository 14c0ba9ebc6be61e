package service

import "errors"

var (
	// ErrInvalidInput wraps validation failures on caller-supplied values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSnapshotNotCurrent is returned when a snapshot write targets any
	// month other than the current one.
	ErrSnapshotNotCurrent = errors.New("snapshots can only be saved for the current month")
)
