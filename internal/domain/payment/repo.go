package payment

import (
	"context"

	"github.com/google/uuid"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	Update(ctx context.Context, p *Payment) error
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*Payment, error)
}

// AppointmentResolver is the appointment-side collaborator: it confirms the
// appointment exists before settlement and records the link afterwards.
// Implemented by the appointment service; declared here so the two domains
// stay import-cycle free.
type AppointmentResolver interface {
	Resolve(ctx context.Context, id uuid.UUID) error
	LinkPayment(ctx context.Context, appointmentID, paymentID uuid.UUID) error
}
