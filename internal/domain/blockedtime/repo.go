package blockedtime

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type BlockedSlotRepository interface {
	Create(ctx context.Context, b *BlockedSlot) error
	GetByID(ctx context.Context, id uuid.UUID) (*BlockedSlot, error)
	Update(ctx context.Context, b *BlockedSlot) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*BlockedSlot, error)
}

// AppointmentSource answers the validator's counterpart question: how many
// booked appointments does this doctor have inside [start, end)?
// Implemented by the appointment repository; declared here so the two
// domains stay import-cycle free.
type AppointmentSource interface {
	CountScheduledInRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (int, error)
}

// TxFunc runs fn as a single atomic read-modify-write against the store.
type TxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
