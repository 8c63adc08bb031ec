package blockedtime

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/medbook/internal/platform/lock"
	"github.com/medbook/medbook/pkg/timerange"
)

type Service struct {
	blocks       BlockedSlotRepository
	appointments AppointmentSource
	locker       lock.DoctorLocker
	inTx         TxFunc
}

func NewService(blocks BlockedSlotRepository, appointments AppointmentSource, locker lock.DoctorLocker, inTx TxFunc) *Service {
	if inTx == nil {
		inTx = func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		}
	}
	return &Service{blocks: blocks, appointments: appointments, locker: locker, inTx: inTx}
}

// Create validates a proposed blocked range against the doctor's booked
// appointments and existing blocked slots, then persists it. The whole
// check-then-insert sequence runs under the doctor's lock and inside one
// store transaction so concurrent validators cannot both pass on the same
// stale reads.
func (s *Service) Create(ctx context.Context, doctorID uuid.UUID, req CreateRequest) (*BlockedSlot, error) {
	if err := validateReason(req.Reason); err != nil {
		return nil, err
	}

	start, end := req.StartTime, req.EndTime
	if req.IsWholeDay {
		day := timerange.WholeDay(start)
		start, end = day.Start, day.End
	}

	proposed, err := timerange.New(start, end)
	if err != nil {
		return nil, err
	}

	var created *BlockedSlot
	err = s.locker.WithDoctorLock(ctx, doctorID, func(ctx context.Context) error {
		return s.inTx(ctx, func(ctx context.Context) error {
			count, err := s.appointments.CountScheduledInRange(ctx, doctorID, proposed.Start, proposed.End)
			if err != nil {
				return fmt.Errorf("count conflicting appointments: %w", err)
			}
			if count > 0 {
				return &AppointmentConflictError{Count: count}
			}

			existing, err := s.blocks.ListByDoctor(ctx, doctorID)
			if err != nil {
				return fmt.Errorf("list blocked slots: %w", err)
			}
			for _, b := range existing {
				if proposed.Overlaps(b.Range()) {
					return ErrBlockedSlotConflict
				}
			}

			created = &BlockedSlot{
				ID:         uuid.New(),
				DoctorID:   doctorID,
				StartTime:  proposed.Start,
				EndTime:    proposed.End,
				IsWholeDay: req.IsWholeDay,
				Reason:     req.Reason,
			}
			return s.blocks.Create(ctx, created)
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies a partial update to one of the doctor's blocked slots.
// Setting IsWholeDay=true normalizes the range to the full day of the
// (possibly newly supplied) date, discarding any start/end times sent in
// the same call. Only range well-formedness is re-validated; unlike
// Create, the update path performs no overlap or appointment re-check.
func (s *Service) Update(ctx context.Context, doctorID, slotID uuid.UUID, req UpdateRequest) (*BlockedSlot, error) {
	slot, err := s.blocks.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.DoctorID != doctorID {
		return nil, ErrNotFound
	}

	if req.Reason != nil {
		if err := validateReason(req.Reason); err != nil {
			return nil, err
		}
		slot.Reason = req.Reason
	}
	if req.StartTime != nil {
		slot.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		slot.EndTime = *req.EndTime
	}
	if req.IsWholeDay != nil {
		slot.IsWholeDay = *req.IsWholeDay
	}

	if req.IsWholeDay != nil && *req.IsWholeDay {
		day := timerange.WholeDay(slot.StartTime)
		slot.StartTime, slot.EndTime = day.Start, day.End
	}

	if _, err := timerange.New(slot.StartTime, slot.EndTime); err != nil {
		return nil, err
	}

	if err := s.blocks.Update(ctx, slot); err != nil {
		return nil, fmt.Errorf("update blocked slot: %w", err)
	}
	return slot, nil
}

// Delete removes one of the doctor's blocked slots.
func (s *Service) Delete(ctx context.Context, doctorID, slotID uuid.UUID) error {
	slot, err := s.blocks.GetByID(ctx, slotID)
	if err != nil {
		return err
	}
	if slot.DoctorID != doctorID {
		return ErrNotFound
	}
	return s.blocks.Delete(ctx, slotID)
}

// List returns the doctor's blocked slots including the private reason.
func (s *Service) List(ctx context.Context, doctorID uuid.UUID) ([]*BlockedSlot, error) {
	return s.blocks.ListByDoctor(ctx, doctorID)
}

// IsBlockedAt reports whether the instant falls inside any of the doctor's
// blocked slots. Appointment booking uses this as the counterpart of the
// validator's appointment check.
func (s *Service) IsBlockedAt(ctx context.Context, doctorID uuid.UUID, at time.Time) (bool, error) {
	slots, err := s.blocks.ListByDoctor(ctx, doctorID)
	if err != nil {
		return false, err
	}
	for _, b := range slots {
		if b.Range().Contains(at) {
			return true, nil
		}
	}
	return false, nil
}

// ListPublic returns a doctor's blocked slots with the reason omitted, for
// patient-facing calendars.
func (s *Service) ListPublic(ctx context.Context, doctorID uuid.UUID) ([]PublicBlockedSlot, error) {
	slots, err := s.blocks.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	public := make([]PublicBlockedSlot, 0, len(slots))
	for _, b := range slots {
		public = append(public, b.Public())
	}
	return public, nil
}

func validateReason(reason *string) error {
	if reason != nil && len(*reason) > MaxReasonLength {
		return ErrReasonTooLong
	}
	return nil
}
