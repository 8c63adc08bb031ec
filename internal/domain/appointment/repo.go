package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/medbook/pkg/pagination"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, p pagination.Params) ([]*Appointment, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, p pagination.Params) ([]*Appointment, int, error)

	// CountScheduledInRange counts active (booked or confirmed)
	// appointments with scheduledAt in [start, end). Backs the blocked
	// time validator's appointment check.
	CountScheduledInRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (int, error)

	// ListDueForConfirmation returns booked appointments whose scheduled
	// instant is within the confirmation window of now but not yet past.
	ListDueForConfirmation(ctx context.Context, now time.Time) ([]*Appointment, error)

	// ListDueForCompletion returns booked or confirmed appointments whose
	// scheduled instant has passed.
	ListDueForCompletion(ctx context.Context, now time.Time) ([]*Appointment, error)

	// UpdateStatusBatch persists a pass's transitions in one round trip.
	// Rows deleted since the read are skipped, not errors.
	UpdateStatusBatch(ctx context.Context, appts []*Appointment) error
}

// BlockedRangeSource answers whether an instant falls inside one of the
// doctor's blocked slots. Implemented by the blocked time service; declared
// here so the two domains stay import-cycle free.
type BlockedRangeSource interface {
	IsBlockedAt(ctx context.Context, doctorID uuid.UUID, at time.Time) (bool, error)
}

// TransferCompleter releases a completed payment to the doctor. Implemented
// by the payment service; must be safe to call repeatedly.
type TransferCompleter interface {
	CompleteTransfer(ctx context.Context, paymentID uuid.UUID) (bool, error)
}
