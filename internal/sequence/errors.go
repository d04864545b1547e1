package sequence

import "errors"

var (
	// ErrNoMatchWon is returned when the last round cannot be closed because
	// the stream has no match-won event. Guessing an end tick would corrupt
	// the recording, so callers must treat this as fatal.
	ErrNoMatchWon = errors.New("no match won event found")

	// ErrInvalidTickRate is returned for a non-positive tick rate.
	ErrInvalidTickRate = errors.New("tick rate must be positive")
)
