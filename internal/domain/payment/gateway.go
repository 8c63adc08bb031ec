package payment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/medbook/internal/platform/clock"
)

// Gateway charges a pending payment and returns a transaction reference.
// A *ValidationError result means the credentials were rejected and the
// payment should be marked failed.
type Gateway interface {
	Charge(ctx context.Context, req ProcessRequest) (string, error)
}

// simulatedGateway accepts any structurally valid credentials. It stands in
// for the real payment network, whose transport is outside this system.
type simulatedGateway struct {
	clk clock.Clock
}

func NewSimulatedGateway(clk clock.Clock) Gateway {
	if clk == nil {
		clk = clock.System()
	}
	return &simulatedGateway{clk: clk}
}

func (g *simulatedGateway) Charge(_ context.Context, req ProcessRequest) (string, error) {
	if req.Method.IsCard() {
		if err := g.validateCard(req); err != nil {
			return "", err
		}
	} else if req.Method == MethodMobileWallet {
		if err := validateWallet(req); err != nil {
			return "", err
		}
	} else {
		return "", &ValidationError{Field: "method", Message: "unsupported payment method"}
	}

	return "TXN-" + strings.ToUpper(uuid.NewString()), nil
}

func (g *simulatedGateway) validateCard(req ProcessRequest) error {
	number := strings.ReplaceAll(req.CardNumber, " ", "")
	if number == "" {
		return &ValidationError{Field: "card_number", Message: "required for card payments"}
	}
	if !allDigits(number) || len(number) < 12 || len(number) > 19 {
		return &ValidationError{Field: "card_number", Message: "must be 12 to 19 digits"}
	}

	if req.CVV == "" {
		return &ValidationError{Field: "cvv", Message: "required for card payments"}
	}
	if !allDigits(req.CVV) || len(req.CVV) < 3 || len(req.CVV) > 4 {
		return &ValidationError{Field: "cvv", Message: "must be 3 or 4 digits"}
	}

	if req.Expiry == "" {
		return &ValidationError{Field: "expiry", Message: "required for card payments"}
	}
	exp, err := time.Parse("01/06", req.Expiry)
	if err != nil {
		return &ValidationError{Field: "expiry", Message: "must be MM/YY"}
	}
	// A card stays valid through the last instant of its expiry month.
	endOfMonth := exp.AddDate(0, 1, 0)
	if !g.clk.Now().Before(endOfMonth) {
		return &ValidationError{Field: "expiry", Message: "card is expired"}
	}
	return nil
}

func validateWallet(req ProcessRequest) error {
	phone := strings.TrimPrefix(req.Phone, "+")
	if phone == "" {
		return &ValidationError{Field: "phone", Message: "required for mobile wallet payments"}
	}
	if !allDigits(phone) || len(phone) < 8 || len(phone) > 15 {
		return &ValidationError{Field: "phone", Message: "must be 8 to 15 digits"}
	}
	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
