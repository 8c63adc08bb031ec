package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Status is the appointment lifecycle state. Transitions are monotonic and
// time-driven except for explicit cancellation.
type Status string

const (
	StatusBooked    Status = "booked"
	StatusConfirmed Status = "confirmed"
	StatusDone      Status = "done"
	StatusCanceled  Status = "canceled"
)

// ConfirmationWindow is how far ahead of the scheduled instant a booked
// appointment is promoted to confirmed.
const ConfirmationWindow = 24 * time.Hour

// MaxReasonLength bounds the free-text visit and cancellation reasons.
const MaxReasonLength = 500

type Appointment struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	PatientID          uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID           uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	ScheduledAt        time.Time  `db:"scheduled_at" json:"scheduled_at"`
	Status             Status     `db:"status" json:"status"`
	Reason             *string    `db:"reason" json:"reason,omitempty"`
	ConsultationFee    float64    `db:"consultation_fee" json:"consultation_fee"`
	PaymentID          *uuid.UUID `db:"payment_id" json:"payment_id,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
	ConfirmedAt        *time.Time `db:"confirmed_at" json:"confirmed_at,omitempty"`
	CompletedAt        *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CanceledAt         *time.Time `db:"canceled_at" json:"canceled_at,omitempty"`
	CanceledBy         *uuid.UUID `db:"canceled_by" json:"canceled_by,omitempty"`
	CancellationReason *string    `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
}

// Involves reports whether the actor is one of the appointment's two
// participants. Every read and mutation outside the scheduler is scoped to
// participants.
func (a *Appointment) Involves(actorID uuid.UUID) bool {
	return a.PatientID == actorID || a.DoctorID == actorID
}

// DueForConfirmation is the booked-to-confirmed guard: now has entered the
// confirmation window but the scheduled instant has not passed yet.
func (a *Appointment) DueForConfirmation(now time.Time) bool {
	return a.Status == StatusBooked &&
		!now.Before(a.ScheduledAt.Add(-ConfirmationWindow)) &&
		now.Before(a.ScheduledAt)
}

// DueForCompletion is the to-done guard: the scheduled instant has passed
// and the appointment was never canceled.
func (a *Appointment) DueForCompletion(now time.Time) bool {
	return (a.Status == StatusBooked || a.Status == StatusConfirmed) &&
		!now.Before(a.ScheduledAt)
}

// CreateRequest books a new appointment. PatientID is only honored when a
// doctor books on a patient's behalf; patients always book for themselves.
type CreateRequest struct {
	PatientID       *uuid.UUID `json:"patient_id"`
	DoctorID        uuid.UUID  `json:"doctor_id"`
	ScheduledAt     time.Time  `json:"scheduled_at"`
	Reason          *string    `json:"reason"`
	ConsultationFee float64    `json:"consultation_fee"`
}

type CancelRequest struct {
	Reason *string `json:"reason"`
}
