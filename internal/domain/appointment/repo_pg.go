package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medbook/medbook/internal/platform/db"
	"github.com/medbook/medbook/pkg/pagination"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const apptCols = `id, patient_id, doctor_id, scheduled_at, status, reason, consultation_fee,
	payment_id, created_at, updated_at, confirmed_at, completed_at, canceled_at, canceled_by, cancellation_reason`

func (r *appointmentRepoPG) scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.ScheduledAt, &a.Status, &a.Reason,
		&a.ConsultationFee, &a.PaymentID, &a.CreatedAt, &a.UpdatedAt,
		&a.ConfirmedAt, &a.CompletedAt, &a.CanceledAt, &a.CanceledBy, &a.CancellationReason)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointment (id, patient_id, doctor_id, scheduled_at, status, reason, consultation_fee)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.PatientID, a.DoctorID, a.ScheduledAt, a.Status, a.Reason, a.ConsultationFee)
	return err
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return r.scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
}

func (r *appointmentRepoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment
		SET scheduled_at=$2, status=$3, reason=$4, consultation_fee=$5, payment_id=$6,
			confirmed_at=$7, completed_at=$8, canceled_at=$9, canceled_by=$10,
			cancellation_reason=$11, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.ScheduledAt, a.Status, a.Reason, a.ConsultationFee, a.PaymentID,
		a.ConfirmedAt, a.CompletedAt, a.CanceledAt, a.CanceledBy, a.CancellationReason)
	return err
}

func (r *appointmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointment WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *appointmentRepoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, p pagination.Params) ([]*Appointment, int, error) {
	return r.listBy(ctx, `doctor_id`, doctorID, p)
}

func (r *appointmentRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, p pagination.Params) ([]*Appointment, int, error) {
	return r.listBy(ctx, `patient_id`, patientID, p)
}

func (r *appointmentRepoPG) listBy(ctx context.Context, col string, ownerID uuid.UUID, p pagination.Params) ([]*Appointment, int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointment WHERE `+col+` = $1`, ownerID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+apptCols+` FROM appointment WHERE `+col+` = $1
		 ORDER BY scheduled_at DESC LIMIT $2 OFFSET $3`,
		ownerID, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := r.collect(rows)
	return items, total, err
}

func (r *appointmentRepoPG) CountScheduledInRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM appointment
		WHERE doctor_id = $1 AND status IN ($2, $3)
		  AND scheduled_at >= $4 AND scheduled_at < $5`,
		doctorID, StatusBooked, StatusConfirmed, start, end).Scan(&count)
	return count, err
}

func (r *appointmentRepoPG) ListDueForConfirmation(ctx context.Context, now time.Time) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE status = $1 AND scheduled_at > $2 AND scheduled_at <= $3`,
		StatusBooked, now, now.Add(ConfirmationWindow))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *appointmentRepoPG) ListDueForCompletion(ctx context.Context, now time.Time) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE status IN ($1, $2) AND scheduled_at <= $3`,
		StatusBooked, StatusConfirmed, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *appointmentRepoPG) UpdateStatusBatch(ctx context.Context, appts []*Appointment) error {
	batch := &pgx.Batch{}
	for _, a := range appts {
		batch.Queue(`
			UPDATE appointment
			SET status=$2, confirmed_at=$3, completed_at=$4, updated_at=NOW()
			WHERE id = $1`,
			a.ID, a.Status, a.ConfirmedAt, a.CompletedAt)
	}

	var br pgx.BatchResults
	if tx := db.TxFromContext(ctx); tx != nil {
		br = tx.SendBatch(ctx, batch)
	} else {
		br = r.pool.SendBatch(ctx, batch)
	}
	defer br.Close()

	for range appts {
		// RowsAffected 0 means the row vanished since the read, which a
		// pass must tolerate.
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (r *appointmentRepoPG) collect(rows pgx.Rows) ([]*Appointment, error) {
	var items []*Appointment
	for rows.Next() {
		a, err := r.scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
