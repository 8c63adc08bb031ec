package payment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

type Method string

const (
	MethodCreditCard   Method = "credit_card"
	MethodDebitCard    Method = "debit_card"
	MethodMobileWallet Method = "mobile_wallet"
)

// IsCard reports whether the method settles through the card rails and
// therefore requires card credentials.
func (m Method) IsCard() bool {
	return m == MethodCreditCard || m == MethodDebitCard
}

type Payment struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	AppointmentID  uuid.UUID  `db:"appointment_id" json:"appointment_id"`
	Amount         float64    `db:"amount" json:"amount"`
	Method         Method     `db:"method" json:"method"`
	Status         Status     `db:"status" json:"status"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
	ProcessedAt    *time.Time `db:"processed_at" json:"processed_at,omitempty"`
	TransactionRef *string    `db:"transaction_ref" json:"transaction_ref,omitempty"`
	FailureReason  *string    `db:"failure_reason" json:"failure_reason,omitempty"`
}

// ProcessRequest carries the method-specific credentials for one
// settlement attempt. Card fields apply to card methods, Phone to the
// mobile wallet.
type ProcessRequest struct {
	Amount     float64 `json:"amount"`
	Method     Method  `json:"method"`
	CardNumber string  `json:"card_number,omitempty"`
	CVV        string  `json:"cvv,omitempty"`
	Expiry     string  `json:"expiry,omitempty"`
	Phone      string  `json:"phone,omitempty"`
}
