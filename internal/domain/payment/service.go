package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medbook/medbook/internal/platform/clock"
)

type Service struct {
	payments PaymentRepository
	appts    AppointmentResolver
	gateway  Gateway
	clk      clock.Clock
	log      zerolog.Logger
}

func NewService(payments PaymentRepository, appts AppointmentResolver, gateway Gateway,
	clk clock.Clock, log zerolog.Logger) *Service {
	if clk == nil {
		clk = clock.System()
	}
	return &Service{
		payments: payments,
		appts:    appts,
		gateway:  gateway,
		clk:      clk,
		log:      log.With().Str("component", "payment").Logger(),
	}
}

// Process settles a payment for an appointment. A pending row is created
// first, then the gateway is charged: success completes the payment and
// links it to the appointment, a credential rejection marks it failed with
// the reason and leaves the appointment untouched. Either way the caller
// gets the final payment row back; it must inspect Status. The surrounding
// layer guarantees at most one attempt per appointment.
func (s *Service) Process(ctx context.Context, appointmentID uuid.UUID, req ProcessRequest) (*Payment, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := s.appts.Resolve(ctx, appointmentID); err != nil {
		return nil, ErrAppointmentNotFound
	}

	p := &Payment{
		ID:            uuid.New(),
		AppointmentID: appointmentID,
		Amount:        req.Amount,
		Method:        req.Method,
		Status:        StatusPending,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	ref, err := s.gateway.Charge(ctx, req)
	if err != nil {
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			return nil, fmt.Errorf("gateway charge: %w", err)
		}
		reason := vErr.Error()
		p.Status = StatusFailed
		p.FailureReason = &reason
		if updErr := s.payments.Update(ctx, p); updErr != nil {
			return nil, fmt.Errorf("record failed payment: %w", updErr)
		}
		return p, nil
	}

	now := s.clk.Now()
	p.Status = StatusCompleted
	p.ProcessedAt = &now
	p.TransactionRef = &ref
	if err := s.payments.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("record completed payment: %w", err)
	}

	if err := s.appts.LinkPayment(ctx, appointmentID, p.ID); err != nil {
		return nil, fmt.Errorf("link payment to appointment: %w", err)
	}
	return p, nil
}

// CompleteTransfer releases a completed payment's funds to the doctor. It
// reports whether a transfer applied: anything but a completed payment is
// a no-op, so the scheduler can invoke it on every done transition and on
// every retried pass.
func (s *Service) CompleteTransfer(ctx context.Context, paymentID uuid.UUID) (bool, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return false, err
	}
	if p.Status != StatusCompleted {
		return false, nil
	}

	s.log.Info().
		Stringer("payment_id", p.ID).
		Stringer("appointment_id", p.AppointmentID).
		Float64("amount", p.Amount).
		Msg("transfer completed")
	return true, nil
}

// Refund moves a completed payment to refunded. Any other status reports
// false without changing the row.
func (s *Service) Refund(ctx context.Context, paymentID uuid.UUID) (bool, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return false, err
	}
	if p.Status != StatusCompleted {
		return false, nil
	}

	p.Status = StatusRefunded
	if err := s.payments.Update(ctx, p); err != nil {
		return false, fmt.Errorf("record refund: %w", err)
	}
	return true, nil
}

// Get returns one payment by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Payment, error) {
	return s.payments.GetByID(ctx, id)
}

// ListByAppointment returns every settlement attempt for an appointment.
func (s *Service) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*Payment, error) {
	return s.payments.ListByAppointment(ctx, appointmentID)
}
