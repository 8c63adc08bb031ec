package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/medbook/internal/platform/clock"
	"github.com/medbook/medbook/pkg/pagination"
)

// -- Mocks --

type mockApptRepo struct {
	appts map[uuid.UUID]*Appointment

	// afterListDue runs after ListDueForCompletion, to simulate rows
	// changing between a pass's read and write.
	afterListDue func()
}

func newMockApptRepo() *mockApptRepo {
	return &mockApptRepo{appts: make(map[uuid.UUID]*Appointment)}
}

func (m *mockApptRepo) Create(_ context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.appts[a.ID] = a
	return nil
}

func (m *mockApptRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockApptRepo) Update(_ context.Context, a *Appointment) error {
	if _, ok := m.appts[a.ID]; !ok {
		return ErrNotFound
	}
	m.appts[a.ID] = a
	return nil
}

func (m *mockApptRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.appts[id]; !ok {
		return ErrNotFound
	}
	delete(m.appts, id)
	return nil
}

func (m *mockApptRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID, _ pagination.Params) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appts {
		if a.DoctorID == doctorID {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func (m *mockApptRepo) ListByPatient(_ context.Context, patientID uuid.UUID, _ pagination.Params) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appts {
		if a.PatientID == patientID {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func (m *mockApptRepo) CountScheduledInRange(_ context.Context, doctorID uuid.UUID, start, end time.Time) (int, error) {
	count := 0
	for _, a := range m.appts {
		if a.DoctorID != doctorID || (a.Status != StatusBooked && a.Status != StatusConfirmed) {
			continue
		}
		if !a.ScheduledAt.Before(start) && a.ScheduledAt.Before(end) {
			count++
		}
	}
	return count, nil
}

func (m *mockApptRepo) ListDueForConfirmation(_ context.Context, now time.Time) ([]*Appointment, error) {
	var result []*Appointment
	for _, a := range m.appts {
		cp := *a
		if cp.DueForConfirmation(now) {
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *mockApptRepo) ListDueForCompletion(_ context.Context, now time.Time) ([]*Appointment, error) {
	var result []*Appointment
	for _, a := range m.appts {
		cp := *a
		if cp.DueForCompletion(now) {
			result = append(result, &cp)
		}
	}
	if m.afterListDue != nil {
		m.afterListDue()
	}
	return result, nil
}

func (m *mockApptRepo) UpdateStatusBatch(_ context.Context, appts []*Appointment) error {
	for _, a := range appts {
		if _, ok := m.appts[a.ID]; !ok {
			// Row vanished since the read.
			continue
		}
		m.appts[a.ID] = a
	}
	return nil
}

// mockBlockedSource marks specific doctors as fully blocked.
type mockBlockedSource struct {
	blockedDoctors map[uuid.UUID]bool
}

func newMockBlockedSource() *mockBlockedSource {
	return &mockBlockedSource{blockedDoctors: make(map[uuid.UUID]bool)}
}

func (m *mockBlockedSource) IsBlockedAt(_ context.Context, doctorID uuid.UUID, _ time.Time) (bool, error) {
	return m.blockedDoctors[doctorID], nil
}

// -- Tests --

var testNow = time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC)

func newTestService(repo *mockApptRepo) (*Service, *mockBlockedSource, *clock.Fake) {
	blocked := newMockBlockedSource()
	clk := clock.NewFake(testNow)
	return NewService(repo, blocked, clk), blocked, clk
}

func TestCreate_BooksAppointment(t *testing.T) {
	repo := newMockApptRepo()
	svc, _, _ := newTestService(repo)
	patient := uuid.New()
	doctor := uuid.New()

	a, err := svc.Create(context.Background(), patient, CreateRequest{
		DoctorID:        doctor,
		ScheduledAt:     testNow.Add(48 * time.Hour),
		ConsultationFee: 150,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if a.Status != StatusBooked {
		t.Errorf("status = %s, want %s", a.Status, StatusBooked)
	}
	if a.PatientID != patient {
		t.Error("patient should default to the actor")
	}
	if len(repo.appts) != 1 {
		t.Errorf("store has %d appointments, want 1", len(repo.appts))
	}
}

func TestCreate_DoctorBooksForPatient(t *testing.T) {
	repo := newMockApptRepo()
	svc, _, _ := newTestService(repo)
	doctor := uuid.New()
	patient := uuid.New()

	a, err := svc.Create(context.Background(), doctor, CreateRequest{
		PatientID:       &patient,
		DoctorID:        doctor,
		ScheduledAt:     testNow.Add(48 * time.Hour),
		ConsultationFee: 150,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.PatientID != patient {
		t.Errorf("patient = %s, want %s", a.PatientID, patient)
	}
}

func TestCreate_RejectsPastInstant(t *testing.T) {
	svc, _, _ := newTestService(newMockApptRepo())

	_, err := svc.Create(context.Background(), uuid.New(), CreateRequest{
		DoctorID:    uuid.New(),
		ScheduledAt: testNow.Add(-time.Minute),
	})
	if !errors.Is(err, ErrScheduledInPast) {
		t.Fatalf("expected ErrScheduledInPast, got %v", err)
	}

	_, err = svc.Create(context.Background(), uuid.New(), CreateRequest{
		DoctorID:    uuid.New(),
		ScheduledAt: testNow,
	})
	if !errors.Is(err, ErrScheduledInPast) {
		t.Fatalf("now itself is not bookable, got %v", err)
	}
}

func TestCreate_RejectsBlockedRange(t *testing.T) {
	svc, blocked, _ := newTestService(newMockApptRepo())
	doctor := uuid.New()
	blocked.blockedDoctors[doctor] = true

	_, err := svc.Create(context.Background(), uuid.New(), CreateRequest{
		DoctorID:    doctor,
		ScheduledAt: testNow.Add(48 * time.Hour),
	})
	if !errors.Is(err, ErrScheduledInBlockedRange) {
		t.Fatalf("expected ErrScheduledInBlockedRange, got %v", err)
	}
}

func TestCreate_RejectsNegativeFee(t *testing.T) {
	svc, _, _ := newTestService(newMockApptRepo())

	_, err := svc.Create(context.Background(), uuid.New(), CreateRequest{
		DoctorID:        uuid.New(),
		ScheduledAt:     testNow.Add(48 * time.Hour),
		ConsultationFee: -1,
	})
	if !errors.Is(err, ErrInvalidFee) {
		t.Fatalf("expected ErrInvalidFee, got %v", err)
	}
}

func TestGet_ParticipantsOnly(t *testing.T) {
	repo := newMockApptRepo()
	svc, _, _ := newTestService(repo)
	patient := uuid.New()
	doctor := uuid.New()

	a, err := svc.Create(context.Background(), patient, CreateRequest{
		DoctorID:    doctor,
		ScheduledAt: testNow.Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(context.Background(), patient, a.ID); err != nil {
		t.Errorf("patient read: %v", err)
	}
	if _, err := svc.Get(context.Background(), doctor, a.ID); err != nil {
		t.Errorf("doctor read: %v", err)
	}
	if _, err := svc.Get(context.Background(), uuid.New(), a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("stranger read should be ErrNotFound, got %v", err)
	}
}

func TestCancel_FromBooked(t *testing.T) {
	repo := newMockApptRepo()
	svc, _, _ := newTestService(repo)
	patient := uuid.New()
	reason := "feeling better"

	a, err := svc.Create(context.Background(), patient, CreateRequest{
		DoctorID:    uuid.New(),
		ScheduledAt: testNow.Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	canceled, err := svc.Cancel(context.Background(), patient, a.ID, CancelRequest{Reason: &reason})
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if canceled.Status != StatusCanceled {
		t.Errorf("status = %s, want %s", canceled.Status, StatusCanceled)
	}
	if canceled.CanceledAt == nil || !canceled.CanceledAt.Equal(testNow) {
		t.Errorf("canceled_at = %v, want %v", canceled.CanceledAt, testNow)
	}
	if canceled.CanceledBy == nil || *canceled.CanceledBy != patient {
		t.Error("canceled_by should record the actor")
	}
	if canceled.CancellationReason == nil || *canceled.CancellationReason != reason {
		t.Error("cancellation reason should be recorded")
	}
}

func TestCancel_RejectedFromTerminalStates(t *testing.T) {
	repo := newMockApptRepo()
	svc, _, _ := newTestService(repo)
	patient := uuid.New()

	for _, status := range []Status{StatusDone, StatusCanceled} {
		a := &Appointment{
			ID:          uuid.New(),
			PatientID:   patient,
			DoctorID:    uuid.New(),
			ScheduledAt: testNow.Add(-time.Hour),
			Status:      status,
		}
		repo.appts[a.ID] = a

		if _, err := svc.Cancel(context.Background(), patient, a.ID, CancelRequest{}); !errors.Is(err, ErrCancelNotAllowed) {
			t.Errorf("%s: expected ErrCancelNotAllowed, got %v", status, err)
		}
	}
}

func TestCancel_OwnershipEnforced(t *testing.T) {
	repo := newMockApptRepo()
	svc, _, _ := newTestService(repo)
	patient := uuid.New()

	a, err := svc.Create(context.Background(), patient, CreateRequest{
		DoctorID:    uuid.New(),
		ScheduledAt: testNow.Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Cancel(context.Background(), uuid.New(), a.ID, CancelRequest{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a stranger, got %v", err)
	}
}

func TestLinkPayment(t *testing.T) {
	repo := newMockApptRepo()
	svc, _, _ := newTestService(repo)
	patient := uuid.New()

	a, err := svc.Create(context.Background(), patient, CreateRequest{
		DoctorID:    uuid.New(),
		ScheduledAt: testNow.Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	paymentID := uuid.New()
	if err := svc.LinkPayment(context.Background(), a.ID, paymentID); err != nil {
		t.Fatalf("LinkPayment: %v", err)
	}

	stored := repo.appts[a.ID]
	if stored.PaymentID == nil || *stored.PaymentID != paymentID {
		t.Error("payment id should be linked")
	}

	if err := svc.Resolve(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("resolving a missing appointment should fail, got %v", err)
	}
}
