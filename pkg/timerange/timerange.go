package timerange

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned when a range would not satisfy start < end.
var ErrInvalidRange = errors.New("invalid time range: start must be before end")

// Range is a half-open interval [Start, End) in absolute time.
type Range struct {
	Start time.Time
	End   time.Time
}

// New builds a Range, rejecting malformed input before it can reach any
// overlap arithmetic.
func New(start, end time.Time) (Range, error) {
	if !start.Before(end) {
		return Range{}, ErrInvalidRange
	}
	return Range{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open ranges share any instant.
// Ranges that merely touch (r.End == other.Start) are adjacent, not
// overlapping.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Contains reports whether the instant t falls inside the range,
// i.e. Start <= t < End.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Duration returns End - Start.
func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}

// WholeDay returns the range covering the calendar day of t in t's
// location: midnight up to the last representable instant of that day.
func WholeDay(t time.Time) Range {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return Range{Start: start, End: end}
}
