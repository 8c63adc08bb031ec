package appointment

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a missing appointment and one the actor is
	// not a participant of.
	ErrNotFound = errors.New("appointment not found")

	// ErrScheduledInPast rejects booking an appointment before now.
	ErrScheduledInPast = errors.New("scheduled time is in the past")

	// ErrScheduledInBlockedRange rejects booking inside one of the
	// doctor's blocked time slots.
	ErrScheduledInBlockedRange = errors.New("scheduled time falls inside a blocked slot for this doctor")

	// ErrReasonTooLong means a free-text reason exceeds MaxReasonLength.
	ErrReasonTooLong = fmt.Errorf("reason exceeds %d characters", MaxReasonLength)

	// ErrInvalidFee rejects a negative consultation fee.
	ErrInvalidFee = errors.New("consultation fee must not be negative")

	// ErrCancelNotAllowed means the appointment already ran or was
	// already canceled.
	ErrCancelNotAllowed = errors.New("only booked or confirmed appointments can be canceled")
)
