package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medbook/medbook/internal/platform/clock"
)

// -- Mocks --

type mockPaymentRepo struct {
	payments map[uuid.UUID]*Payment
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{payments: make(map[uuid.UUID]*Payment)}
}

func (m *mockPaymentRepo) Create(_ context.Context, p *Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *mockPaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPaymentRepo) Update(_ context.Context, p *Payment) error {
	if _, ok := m.payments[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *mockPaymentRepo) ListByAppointment(_ context.Context, appointmentID uuid.UUID) ([]*Payment, error) {
	var result []*Payment
	for _, p := range m.payments {
		if p.AppointmentID == appointmentID {
			cp := *p
			result = append(result, &cp)
		}
	}
	return result, nil
}

// mockResolver tracks which appointments exist and which payments got
// linked.
type mockResolver struct {
	existing map[uuid.UUID]bool
	linked   map[uuid.UUID]uuid.UUID
}

func newMockResolver() *mockResolver {
	return &mockResolver{
		existing: make(map[uuid.UUID]bool),
		linked:   make(map[uuid.UUID]uuid.UUID),
	}
}

func (m *mockResolver) Resolve(_ context.Context, id uuid.UUID) error {
	if !m.existing[id] {
		return errors.New("no such appointment")
	}
	return nil
}

func (m *mockResolver) LinkPayment(_ context.Context, appointmentID, paymentID uuid.UUID) error {
	m.linked[appointmentID] = paymentID
	return nil
}

var payTestNow = time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC)

func newTestService(repo *mockPaymentRepo, resolver *mockResolver) *Service {
	clk := clock.NewFake(payTestNow)
	return NewService(repo, resolver, NewSimulatedGateway(clk), clk, zerolog.Nop())
}

func validCardRequest() ProcessRequest {
	return ProcessRequest{
		Amount:     150,
		Method:     MethodCreditCard,
		CardNumber: "4242424242424242",
		CVV:        "123",
		Expiry:     "12/26",
	}
}

// -- Tests --

func TestProcess_CompletesAndLinks(t *testing.T) {
	repo := newMockPaymentRepo()
	resolver := newMockResolver()
	svc := newTestService(repo, resolver)
	apptID := uuid.New()
	resolver.existing[apptID] = true

	p, err := svc.Process(context.Background(), apptID, validCardRequest())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if p.Status != StatusCompleted {
		t.Errorf("status = %s, want %s", p.Status, StatusCompleted)
	}
	if p.TransactionRef == nil || *p.TransactionRef == "" {
		t.Error("completed payment needs a transaction reference")
	}
	if p.ProcessedAt == nil || !p.ProcessedAt.Equal(payTestNow) {
		t.Errorf("processed_at = %v, want %v", p.ProcessedAt, payTestNow)
	}
	if resolver.linked[apptID] != p.ID {
		t.Error("appointment should be linked to the payment")
	}
}

func TestProcess_FailsOnBadCredentials(t *testing.T) {
	repo := newMockPaymentRepo()
	resolver := newMockResolver()
	svc := newTestService(repo, resolver)
	apptID := uuid.New()
	resolver.existing[apptID] = true

	req := validCardRequest()
	req.CVV = ""

	p, err := svc.Process(context.Background(), apptID, req)
	if err != nil {
		t.Fatalf("a credential failure is a result, not an error: %v", err)
	}

	if p.Status != StatusFailed {
		t.Errorf("status = %s, want %s", p.Status, StatusFailed)
	}
	if p.FailureReason == nil || *p.FailureReason == "" {
		t.Error("failed payment should record the reason")
	}
	if len(resolver.linked) != 0 {
		t.Error("a failed payment must not be linked to the appointment")
	}

	stored := repo.payments[p.ID]
	if stored == nil || stored.Status != StatusFailed {
		t.Error("failed attempt should be persisted for audit")
	}
}

func TestProcess_UnresolvableAppointment(t *testing.T) {
	repo := newMockPaymentRepo()
	svc := newTestService(repo, newMockResolver())

	_, err := svc.Process(context.Background(), uuid.New(), validCardRequest())
	if !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
	if len(repo.payments) != 0 {
		t.Error("no payment row should exist for an unresolvable appointment")
	}
}

func TestProcess_RejectsNonPositiveAmount(t *testing.T) {
	svc := newTestService(newMockPaymentRepo(), newMockResolver())

	req := validCardRequest()
	req.Amount = 0
	if _, err := svc.Process(context.Background(), uuid.New(), req); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestCompleteTransfer_Idempotent(t *testing.T) {
	repo := newMockPaymentRepo()
	resolver := newMockResolver()
	svc := newTestService(repo, resolver)
	apptID := uuid.New()
	resolver.existing[apptID] = true

	p, err := svc.Process(context.Background(), apptID, validCardRequest())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	for i := 0; i < 3; i++ {
		ok, err := svc.CompleteTransfer(context.Background(), p.ID)
		if err != nil {
			t.Fatalf("CompleteTransfer #%d: %v", i+1, err)
		}
		if !ok {
			t.Errorf("CompleteTransfer #%d = false, want true", i+1)
		}
	}
}

func TestCompleteTransfer_NoOpUnlessCompleted(t *testing.T) {
	repo := newMockPaymentRepo()
	svc := newTestService(repo, newMockResolver())

	for _, status := range []Status{StatusPending, StatusFailed, StatusRefunded} {
		p := &Payment{ID: uuid.New(), AppointmentID: uuid.New(), Amount: 100, Status: status}
		repo.payments[p.ID] = p

		ok, err := svc.CompleteTransfer(context.Background(), p.ID)
		if err != nil {
			t.Fatalf("%s: %v", status, err)
		}
		if ok {
			t.Errorf("%s: transfer must be a no-op", status)
		}
	}

	if _, err := svc.CompleteTransfer(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing payment: expected ErrNotFound, got %v", err)
	}
}

func TestRefund_OnlyFromCompleted(t *testing.T) {
	repo := newMockPaymentRepo()
	resolver := newMockResolver()
	svc := newTestService(repo, resolver)
	apptID := uuid.New()
	resolver.existing[apptID] = true

	p, err := svc.Process(context.Background(), apptID, validCardRequest())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	ok, err := svc.Refund(context.Background(), p.ID)
	if err != nil || !ok {
		t.Fatalf("Refund = (%v, %v), want (true, nil)", ok, err)
	}
	if repo.payments[p.ID].Status != StatusRefunded {
		t.Error("payment should be refunded")
	}

	// Refunded is terminal.
	ok, err = svc.Refund(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("second Refund: %v", err)
	}
	if ok {
		t.Error("a refunded payment must not refund again")
	}

	pending := &Payment{ID: uuid.New(), AppointmentID: apptID, Amount: 50, Status: StatusPending}
	repo.payments[pending.ID] = pending
	if ok, _ := svc.Refund(context.Background(), pending.ID); ok {
		t.Error("a pending payment must not refund")
	}
}
