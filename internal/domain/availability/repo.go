package availability

import (
	"context"

	"github.com/google/uuid"
)

type SlotRepository interface {
	CreateBatch(ctx context.Context, slots []*Slot) error
	GetByID(ctx context.Context, id uuid.UUID) (*Slot, error)
	Update(ctx context.Context, s *Slot) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Slot, error)
}
