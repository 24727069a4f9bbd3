package stats

import (
	"errors"
	"fmt"
	"time"

	"sprintlens/internal/workitem"
)

// ErrInvalidWindow is returned when a sprint ends before it starts.
var ErrInvalidWindow = errors.New("sprint window ends before it starts")

// SprintWindow is the inclusive calendar range of a sprint plus the states counted as done.
type SprintWindow struct {
	Start           time.Time          `json:"start"`
	End             time.Time          `json:"end"`
	CompletedStates workitem.StateSet `json:"-"`
}

// NewSprintWindow snaps both boundaries to the start of their calendar day.
func NewSprintWindow(start, end time.Time, completed workitem.StateSet) (SprintWindow, error) {
	w := SprintWindow{
		Start:           SnapToDay(start),
		End:             SnapToDay(end),
		CompletedStates: completed,
	}
	if w.End.Before(w.Start) {
		return w, fmt.Errorf("%w: %s > %s", ErrInvalidWindow, w.Start.Format(DateLayout), w.End.Format(DateLayout))
	}
	return w, nil
}

// DateLayout is the calendar-day format used in labels and configuration.
const DateLayout = "2006-01-02"

// SnapToDay normalizes a timestamp to 00:00:00 of its calendar day.
func SnapToDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SnapToDayIn normalizes t to its calendar day as seen in loc.
func SnapToDayIn(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return SnapToDay(t)
}

// Days lists every calendar day from Start to End inclusive.
func (w SprintWindow) Days() []time.Time {
	start, end := SnapToDay(w.Start), SnapToDay(w.End)
	if start.IsZero() || end.Before(start) {
		return nil
	}
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DayCount returns the number of calendar days in the window.
func (w SprintWindow) DayCount() int {
	return len(w.Days())
}

// Contains reports whether t falls on a day inside the window.
func (w SprintWindow) Contains(t time.Time) bool {
	d := SnapToDayIn(t, w.Start.Location())
	return !d.Before(SnapToDay(w.Start)) && !d.After(SnapToDay(w.End))
}

// Label renders the window as "2025-07-16 to 2025-07-29".
func (w SprintWindow) Label() string {
	return fmt.Sprintf("%s to %s", w.Start.Format(DateLayout), w.End.Format(DateLayout))
}
