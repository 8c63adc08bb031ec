package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medbook/medbook/internal/platform/clock"
	"github.com/medbook/medbook/pkg/pagination"
)

type Service struct {
	appts   AppointmentRepository
	blocked BlockedRangeSource
	clk     clock.Clock
}

func NewService(appts AppointmentRepository, blocked BlockedRangeSource, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.System()
	}
	return &Service{appts: appts, blocked: blocked, clk: clk}
}

// Create books a new appointment for the actor. Patients book for
// themselves; doctors may book on a patient's behalf via req.PatientID.
// The scheduled instant must lie in the future and outside every blocked
// slot of the target doctor.
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, req CreateRequest) (*Appointment, error) {
	if err := validateReason(req.Reason); err != nil {
		return nil, err
	}
	if req.ConsultationFee < 0 {
		return nil, ErrInvalidFee
	}
	if !req.ScheduledAt.After(s.clk.Now()) {
		return nil, ErrScheduledInPast
	}

	blocked, err := s.blocked.IsBlockedAt(ctx, req.DoctorID, req.ScheduledAt)
	if err != nil {
		return nil, fmt.Errorf("check blocked slots: %w", err)
	}
	if blocked {
		return nil, ErrScheduledInBlockedRange
	}

	patientID := actorID
	if req.PatientID != nil {
		patientID = *req.PatientID
	}

	a := &Appointment{
		ID:              uuid.New(),
		PatientID:       patientID,
		DoctorID:        req.DoctorID,
		ScheduledAt:     req.ScheduledAt,
		Status:          StatusBooked,
		Reason:          req.Reason,
		ConsultationFee: req.ConsultationFee,
	}
	if err := s.appts.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return a, nil
}

// Get returns the appointment if the actor is one of its participants.
func (s *Service) Get(ctx context.Context, actorID, id uuid.UUID) (*Appointment, error) {
	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.Involves(actorID) {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, p pagination.Params) ([]*Appointment, int, error) {
	return s.appts.ListByDoctor(ctx, doctorID, p)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, p pagination.Params) ([]*Appointment, int, error) {
	return s.appts.ListByPatient(ctx, patientID, p)
}

// Cancel moves a booked or confirmed appointment to canceled, recording
// who canceled and why. Canceled is terminal; the scheduler never touches
// it again.
func (s *Service) Cancel(ctx context.Context, actorID, id uuid.UUID, req CancelRequest) (*Appointment, error) {
	if err := validateReason(req.Reason); err != nil {
		return nil, err
	}

	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.Involves(actorID) {
		return nil, ErrNotFound
	}
	if a.Status != StatusBooked && a.Status != StatusConfirmed {
		return nil, ErrCancelNotAllowed
	}

	now := s.clk.Now()
	a.Status = StatusCanceled
	a.CanceledAt = &now
	a.CanceledBy = &actorID
	a.CancellationReason = req.Reason
	if err := s.appts.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}
	return a, nil
}

// Resolve reports whether the appointment exists. Payments reference
// appointments by bare identifier, so settlement resolves the row
// explicitly instead of assuming referential integrity.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID) error {
	_, err := s.appts.GetByID(ctx, id)
	return err
}

// LinkPayment attaches a settled payment to the appointment.
func (s *Service) LinkPayment(ctx context.Context, appointmentID, paymentID uuid.UUID) error {
	a, err := s.appts.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	a.PaymentID = &paymentID
	if err := s.appts.Update(ctx, a); err != nil {
		return fmt.Errorf("link payment: %w", err)
	}
	return nil
}

// Delete hard-removes an appointment. Unlike cancellation this leaves no
// trace, so it is restricted to participants and tolerated by the
// scheduler if it races a pass.
func (s *Service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !a.Involves(actorID) {
		return ErrNotFound
	}
	return s.appts.Delete(ctx, id)
}

func validateReason(reason *string) error {
	if reason != nil && len(*reason) > MaxReasonLength {
		return ErrReasonTooLong
	}
	return nil
}
