package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound covers both a missing slot and a slot owned by another
// doctor; callers cannot distinguish the two.
var ErrNotFound = errors.New("availability slot not found")

type Service struct {
	slots SlotRepository
}

func NewService(slots SlotRepository) *Service {
	return &Service{slots: slots}
}

// GetOrCreate returns the doctor's weekly availability, bootstrapping the
// seven default slots when none exist yet. The bootstrap is all-or-nothing:
// a doctor who already has at least one slot never gets missing days
// auto-filled.
func (s *Service) GetOrCreate(ctx context.Context, doctorID uuid.UUID) ([]*Slot, error) {
	existing, err := s.slots.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	if len(existing) > 0 {
		return existing, nil
	}

	defaults := DefaultSlots(doctorID)
	if err := s.slots.CreateBatch(ctx, defaults); err != nil {
		return nil, fmt.Errorf("provision default availability: %w", err)
	}
	return defaults, nil
}

// UpdateSlot applies a partial update to one of the doctor's slots.
// Nil request fields are left unchanged.
func (s *Service) UpdateSlot(ctx context.Context, doctorID, slotID uuid.UUID, req UpdateSlotRequest) (*Slot, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.DoctorID != doctorID {
		return nil, ErrNotFound
	}

	if req.StartTime != nil {
		slot.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		slot.EndTime = *req.EndTime
	}
	if req.IsAvailable != nil {
		slot.IsAvailable = *req.IsAvailable
	}

	if err := slot.validateWindow(); err != nil {
		return nil, err
	}

	if err := s.slots.Update(ctx, slot); err != nil {
		return nil, fmt.Errorf("update availability slot: %w", err)
	}
	return slot, nil
}
