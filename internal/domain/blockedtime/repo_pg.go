package blockedtime

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medbook/medbook/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type blockedSlotRepoPG struct{ pool *pgxpool.Pool }

func NewBlockedSlotRepoPG(pool *pgxpool.Pool) BlockedSlotRepository {
	return &blockedSlotRepoPG{pool: pool}
}

func (r *blockedSlotRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const blockedCols = `id, doctor_id, start_time, end_time, is_whole_day, reason, created_at, updated_at`

func (r *blockedSlotRepoPG) scanBlocked(row pgx.Row) (*BlockedSlot, error) {
	var b BlockedSlot
	err := row.Scan(&b.ID, &b.DoctorID, &b.StartTime, &b.EndTime,
		&b.IsWholeDay, &b.Reason, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &b, err
}

func (r *blockedSlotRepoPG) Create(ctx context.Context, b *BlockedSlot) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO blocked_time_slot (id, doctor_id, start_time, end_time, is_whole_day, reason)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		b.ID, b.DoctorID, b.StartTime, b.EndTime, b.IsWholeDay, b.Reason)
	return err
}

func (r *blockedSlotRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*BlockedSlot, error) {
	return r.scanBlocked(r.conn(ctx).QueryRow(ctx,
		`SELECT `+blockedCols+` FROM blocked_time_slot WHERE id = $1`, id))
}

func (r *blockedSlotRepoPG) Update(ctx context.Context, b *BlockedSlot) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE blocked_time_slot
		SET start_time=$2, end_time=$3, is_whole_day=$4, reason=$5, updated_at=NOW()
		WHERE id = $1`,
		b.ID, b.StartTime, b.EndTime, b.IsWholeDay, b.Reason)
	return err
}

func (r *blockedSlotRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM blocked_time_slot WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *blockedSlotRepoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*BlockedSlot, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+blockedCols+` FROM blocked_time_slot WHERE doctor_id = $1 ORDER BY start_time`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*BlockedSlot
	for rows.Next() {
		b, err := r.scanBlocked(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}
