package payment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/medbook/medbook/internal/platform/clock"
)

func testGateway() Gateway {
	return NewSimulatedGateway(clock.NewFake(time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC)))
}

func TestCharge_CardValidation(t *testing.T) {
	gw := testGateway()

	tests := []struct {
		name      string
		mutate    func(r *ProcessRequest)
		wantField string
	}{
		{"valid", func(r *ProcessRequest) {}, ""},
		{"spaces in number ok", func(r *ProcessRequest) { r.CardNumber = "4242 4242 4242 4242" }, ""},
		{"missing number", func(r *ProcessRequest) { r.CardNumber = "" }, "card_number"},
		{"short number", func(r *ProcessRequest) { r.CardNumber = "42424242" }, "card_number"},
		{"letters in number", func(r *ProcessRequest) { r.CardNumber = "4242abcd42424242" }, "card_number"},
		{"missing cvv", func(r *ProcessRequest) { r.CVV = "" }, "cvv"},
		{"long cvv", func(r *ProcessRequest) { r.CVV = "12345" }, "cvv"},
		{"missing expiry", func(r *ProcessRequest) { r.Expiry = "" }, "expiry"},
		{"malformed expiry", func(r *ProcessRequest) { r.Expiry = "2026-12" }, "expiry"},
		{"expired card", func(r *ProcessRequest) { r.Expiry = "12/24" }, "expiry"},
		{"expiring this month still valid", func(r *ProcessRequest) { r.Expiry = "01/25" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCardRequest()
			tt.mutate(&req)

			ref, err := gw.Charge(context.Background(), req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Charge: %v", err)
				}
				if !strings.HasPrefix(ref, "TXN-") {
					t.Errorf("ref = %q, want TXN- prefix", ref)
				}
				return
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", vErr.Field, tt.wantField)
			}
		})
	}
}

func TestCharge_WalletValidation(t *testing.T) {
	gw := testGateway()

	base := ProcessRequest{Amount: 100, Method: MethodMobileWallet, Phone: "+8801712345678"}

	if _, err := gw.Charge(context.Background(), base); err != nil {
		t.Fatalf("valid wallet charge: %v", err)
	}

	missing := base
	missing.Phone = ""
	var vErr *ValidationError
	if _, err := gw.Charge(context.Background(), missing); !errors.As(err, &vErr) || vErr.Field != "phone" {
		t.Fatalf("expected phone validation error, got %v", err)
	}

	junk := base
	junk.Phone = "not-a-number"
	if _, err := gw.Charge(context.Background(), junk); !errors.As(err, &vErr) || vErr.Field != "phone" {
		t.Fatalf("expected phone validation error, got %v", err)
	}
}

func TestCharge_UnsupportedMethod(t *testing.T) {
	gw := testGateway()

	var vErr *ValidationError
	_, err := gw.Charge(context.Background(), ProcessRequest{Amount: 100, Method: "barter"})
	if !errors.As(err, &vErr) || vErr.Field != "method" {
		t.Fatalf("expected method validation error, got %v", err)
	}
}
