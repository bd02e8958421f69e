package room

import "errors"

var (
	// ErrSeatUnavailable is returned when all three client seats are taken.
	ErrSeatUnavailable = errors.New("no seat available")

	ErrStopped = errors.New("coordinator stopped")
)
