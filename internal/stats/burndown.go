package stats

import (
	"time"

	"sprintlens/internal/workitem"
)

// DailyProgress is one calendar day of the burndown/burnup series.
type DailyProgress struct {
	Date                 time.Time `json:"date"`
	Label                string    `json:"label"`
	RemainingItems       int       `json:"remaining_items"`
	RemainingPoints      float64   `json:"remaining_points"`
	CompletedItems       int       `json:"completed_items"`
	CompletedPoints      float64   `json:"completed_points"`
	IdealRemainingItems  float64   `json:"ideal_remaining_items"`
	IdealRemainingPoints float64   `json:"ideal_remaining"`
	ScopeItems           int       `json:"scope_items"`
	ScopePoints          float64   `json:"scope_points"`
}

// DailySeries is the burndown (remaining) and burnup (completed vs scope) view of a sprint.
type DailySeries struct {
	Start            time.Time       `json:"start"`
	End              time.Time       `json:"end"`
	TotalScopeItems  int             `json:"total_scope_items"`
	TotalScopePoints float64         `json:"total_scope_points"`
	UndatedCompleted int             `json:"undated_completed"`
	Days             []DailyProgress `json:"days"`
}

type completion struct {
	points float64
	day    time.Time // zero when the item has no completion timestamp
}

// ComputeSprintProgress walks the sprint day by day. Scope is every supplied item,
// held fixed at its sprint-start value. A completed item with no completion date
// only counts on the final day of the window.
func ComputeSprintProgress(window SprintWindow, items []workitem.WorkItem) DailySeries {
	series := DailySeries{
		Start: SnapToDay(window.Start),
		End:   SnapToDay(window.End),
	}

	days := window.Days()
	if len(days) == 0 {
		return series
	}
	loc := series.Start.Location()

	var done []completion
	for _, it := range items {
		series.TotalScopeItems++
		series.TotalScopePoints += it.Points()

		if !window.CompletedStates.IsCompleted(it) {
			continue
		}
		c := completion{points: it.Points()}
		if d := it.CompletionDate(); d != nil {
			c.day = SnapToDayIn(*d, loc)
		} else {
			series.UndatedCompleted++
		}
		done = append(done, c)
	}

	last := len(days) - 1
	series.Days = make([]DailyProgress, 0, len(days))
	for i, day := range days {
		p := DailyProgress{
			Date:        day,
			Label:       day.Format(DateLayout),
			ScopeItems:  series.TotalScopeItems,
			ScopePoints: series.TotalScopePoints,
		}

		for _, c := range done {
			counted := false
			if c.day.IsZero() {
				counted = i == last
			} else {
				counted = !c.day.After(day)
			}
			if counted {
				p.CompletedItems++
				p.CompletedPoints += c.points
			}
		}

		p.RemainingItems = series.TotalScopeItems - p.CompletedItems
		p.RemainingPoints = series.TotalScopePoints - p.CompletedPoints

		fraction := 1.0
		if last > 0 {
			fraction = float64(i) / float64(last)
		}
		p.IdealRemainingItems = float64(series.TotalScopeItems) * (1 - fraction)
		p.IdealRemainingPoints = series.TotalScopePoints * (1 - fraction)

		series.Days = append(series.Days, p)
	}

	return series
}

// StateBreakdown counts items per state, split into remaining and completed buckets.
type StateBreakdown struct {
	Remaining map[string]int `json:"remaining"`
	Completed map[string]int `json:"completed"`
	Other     map[string]int `json:"other,omitempty"`
}

// CalculateStateBreakdown groups items by state for the burndown scope note.
func CalculateStateBreakdown(items []workitem.WorkItem, remaining, completed workitem.StateSet) StateBreakdown {
	b := StateBreakdown{
		Remaining: make(map[string]int),
		Completed: make(map[string]int),
	}
	for _, it := range items {
		switch {
		case completed.Contains(it.State):
			b.Completed[it.State]++
		case remaining.Contains(it.State):
			b.Remaining[it.State]++
		default:
			if b.Other == nil {
				b.Other = make(map[string]int)
			}
			b.Other[it.State]++
		}
	}
	return b
}
