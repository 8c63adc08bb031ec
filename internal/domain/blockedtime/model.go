package blockedtime

import (
	"time"

	"github.com/google/uuid"

	"github.com/medbook/medbook/pkg/timerange"
)

// MaxReasonLength bounds the free-text reason on a blocked slot.
const MaxReasonLength = 500

// BlockedSlot is an explicit exclusion window in a doctor's calendar.
// For a given doctor no two blocked slots overlap, and no blocked slot
// contains a booked appointment's instant (both enforced at creation).
type BlockedSlot struct {
	ID         uuid.UUID `db:"id" json:"id"`
	DoctorID   uuid.UUID `db:"doctor_id" json:"doctor_id"`
	StartTime  time.Time `db:"start_time" json:"start_time"`
	EndTime    time.Time `db:"end_time" json:"end_time"`
	IsWholeDay bool      `db:"is_whole_day" json:"is_whole_day"`
	Reason     *string   `db:"reason" json:"reason,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Range returns the slot's half-open interval.
func (b *BlockedSlot) Range() timerange.Range {
	return timerange.Range{Start: b.StartTime, End: b.EndTime}
}

// PublicBlockedSlot is the patient-facing projection. Reason is private to
// the owning doctor and deliberately has no field here, so it cannot leak
// through serialization.
type PublicBlockedSlot struct {
	ID         uuid.UUID `json:"id"`
	DoctorID   uuid.UUID `json:"doctor_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	IsWholeDay bool      `json:"is_whole_day"`
	CreatedAt  time.Time `json:"created_at"`
}

// Public strips the doctor-private fields.
func (b *BlockedSlot) Public() PublicBlockedSlot {
	return PublicBlockedSlot{
		ID:         b.ID,
		DoctorID:   b.DoctorID,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		IsWholeDay: b.IsWholeDay,
		CreatedAt:  b.CreatedAt,
	}
}

// CreateRequest carries a proposed blocked range.
type CreateRequest struct {
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	IsWholeDay bool      `json:"is_whole_day"`
	Reason     *string   `json:"reason"`
}

// UpdateRequest carries a partial update. Nil fields are left unchanged.
type UpdateRequest struct {
	StartTime  *time.Time `json:"start_time"`
	EndTime    *time.Time `json:"end_time"`
	IsWholeDay *bool      `json:"is_whole_day"`
	Reason     *string    `json:"reason"`
}
