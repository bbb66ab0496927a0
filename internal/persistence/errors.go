package persistence

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrConstraintViolation is returned when a check constraint rejects a write.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrForeignKeyViolation is returned when a referenced record is missing.
	ErrForeignKeyViolation = errors.New("persistence: foreign key violation")
	// ErrRoomUnavailable is returned when the target room exists but is not open for booking.
	ErrRoomUnavailable = errors.New("persistence: room unavailable")
	// ErrOverlap is returned when a confirmed booking already covers part of the
	// requested interval. The enclosing transaction has been rolled back.
	ErrOverlap = errors.New("persistence: booking interval overlaps")
)

// CapacityExceededError reports a guest count above the room's limit, carrying
// the violated maximum for caller-facing messages.
type CapacityExceededError struct {
	Max int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("persistence: guest count exceeds room capacity of %d", e.Max)
}
