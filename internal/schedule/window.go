package schedule

import (
	"errors"
	"time"
)

var ErrInvalidWindow = errors.New("window start must be before end")

// TimeWindow is a half-open interval [Start, End) on the timeline.
// It is the single overlap implementation shared by rule validation,
// slot generation and booking conflict checks.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if !start.Before(end) {
		return TimeWindow{}, ErrInvalidWindow
	}
	return TimeWindow{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open windows intersect. A window that
// ends exactly when another starts does not overlap it.
func (w TimeWindow) Overlaps(o TimeWindow) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

// Contains reports whether instant t falls inside [Start, End).
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Covers reports whether o lies entirely inside w.
func (w TimeWindow) Covers(o TimeWindow) bool {
	return !o.Start.Before(w.Start) && !o.End.After(w.End)
}

func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}
