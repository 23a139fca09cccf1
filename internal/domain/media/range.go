package media

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// DateRange bounds are inclusive. A zero time means the bound is absent.
// Start after End is legal and matches nothing.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) HasStart() bool { return !r.Start.IsZero() }
func (r DateRange) HasEnd() bool   { return !r.End.IsZero() }
func (r DateRange) IsEmpty() bool  { return !r.HasStart() && !r.HasEnd() }

func (r DateRange) Contains(t time.Time) bool {
	if r.HasStart() && t.Before(r.Start) {
		return false
	}
	if r.HasEnd() && t.After(r.End) {
		return false
	}
	return true
}

// ParseDateRange reads calendar days (YYYY-MM-DD, UTC). Empty strings leave the
// bound absent. With endOfDay the upper bound covers the whole end day,
// otherwise it is that day's midnight.
func ParseDateRange(start, end string, endOfDay bool) (DateRange, error) {
	var r DateRange
	if start != "" {
		t, err := time.ParseInLocation(DateLayout, start, time.UTC)
		if err != nil {
			return DateRange{}, fmt.Errorf("start_date must be YYYY-MM-DD: %w", err)
		}
		r.Start = t
	}
	if end != "" {
		t, err := time.ParseInLocation(DateLayout, end, time.UTC)
		if err != nil {
			return DateRange{}, fmt.Errorf("end_date must be YYYY-MM-DD: %w", err)
		}
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		r.End = t
	}
	return r, nil
}
