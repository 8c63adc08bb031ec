package availability

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Default window applied when a doctor's weekly availability is first
// provisioned. Slots start unavailable until the doctor opts in per day.
const (
	DefaultStartTime = "09:00"
	DefaultEndTime   = "17:00"
)

// Slot is one weekly recurring availability window for one day of the
// week. Exactly one slot exists per (doctor, weekday) pair once the
// doctor's availability has been provisioned.
type Slot struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	DoctorID    uuid.UUID    `db:"doctor_id" json:"doctor_id"`
	DayOfWeek   time.Weekday `db:"day_of_week" json:"day_of_week"`
	StartTime   string       `db:"start_time" json:"start_time"` // "HH:MM", 24h
	EndTime     string       `db:"end_time" json:"end_time"`     // "HH:MM", 24h
	IsAvailable bool         `db:"is_available" json:"is_available"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

// UpdateSlotRequest carries a partial update. Nil fields are left
// unchanged; callers sending a subset of fields must not blank the rest.
type UpdateSlotRequest struct {
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	IsAvailable *bool   `json:"is_available"`
}

// ValidTimeOfDay reports whether s is a well-formed "HH:MM" 24h time.
func ValidTimeOfDay(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// DefaultSlots synthesizes the seven default slots for a doctor, one per
// weekday, all unavailable.
func DefaultSlots(doctorID uuid.UUID) []*Slot {
	slots := make([]*Slot, 0, 7)
	for day := time.Sunday; day <= time.Saturday; day++ {
		slots = append(slots, &Slot{
			ID:          uuid.New(),
			DoctorID:    doctorID,
			DayOfWeek:   day,
			StartTime:   DefaultStartTime,
			EndTime:     DefaultEndTime,
			IsAvailable: false,
		})
	}
	return slots
}

func (s *Slot) validateWindow() error {
	start, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return fmt.Errorf("start_time must be HH:MM, got %q", s.StartTime)
	}
	end, err := time.Parse("15:04", s.EndTime)
	if err != nil {
		return fmt.Errorf("end_time must be HH:MM, got %q", s.EndTime)
	}
	if !start.Before(end) {
		return fmt.Errorf("start_time %q must be before end_time %q", s.StartTime, s.EndTime)
	}
	return nil
}
