package blockedtime

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a missing blocked slot and one owned by
	// another doctor.
	ErrNotFound = errors.New("blocked time slot not found")

	// ErrBlockedSlotConflict means the proposed range overlaps an existing
	// blocked slot for the same doctor.
	ErrBlockedSlotConflict = errors.New("time range overlaps an existing blocked slot")

	// ErrReasonTooLong means the free-text reason exceeds MaxReasonLength.
	ErrReasonTooLong = fmt.Errorf("reason exceeds %d characters", MaxReasonLength)
)

// AppointmentConflictError means booked appointments fall inside the
// proposed range. The count lets the caller report exactly how many
// appointments must be rescheduled first.
type AppointmentConflictError struct {
	Count int
}

func (e *AppointmentConflictError) Error() string {
	return fmt.Sprintf("%d appointment(s) are scheduled within the requested time range", e.Count)
}
