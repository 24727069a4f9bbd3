package stats

import (
	"fmt"

	"sprintlens/internal/classify"
	"sprintlens/internal/workitem"
)

// CompletionRating buckets the item completion rate.
type CompletionRating string

const (
	RatingStrong   CompletionRating = "Strong"
	RatingGood     CompletionRating = "Good"
	RatingModerate CompletionRating = "Moderate"
	RatingBelow    CompletionRating = "Below target"
)

// RateCompletion maps a completion percentage onto a rating.
func RateCompletion(pct float64) CompletionRating {
	switch {
	case pct >= 90:
		return RatingStrong
	case pct >= 80:
		return RatingGood
	case pct >= 70:
		return RatingModerate
	default:
		return RatingBelow
	}
}

// Completion is the sprint-level delivery ratio. Rate is item-based; PointsRate is reported separately.
type Completion struct {
	TotalItems      int              `json:"total_items"`
	CompletedItems  int              `json:"completed_items"`
	TotalPoints     float64          `json:"total_points"`
	CompletedPoints float64          `json:"completed_points"`
	Rate            float64          `json:"completion_rate"`
	PointsRate      float64          `json:"points_completion_rate"`
	Rating          CompletionRating `json:"rating"`
}

// CalculateCompletion computes item- and point-based completion.
func CalculateCompletion(items []workitem.WorkItem, completed workitem.StateSet) Completion {
	c := Completion{}
	for _, it := range items {
		c.TotalItems++
		c.TotalPoints += it.Points()
		if completed.IsCompleted(it) {
			c.CompletedItems++
			c.CompletedPoints += it.Points()
		}
	}
	c.Rate = Percentage(float64(c.CompletedItems), float64(c.TotalItems))
	c.PointsRate = Percentage(c.CompletedPoints, c.TotalPoints)
	c.Rating = RateCompletion(c.Rate)
	return c
}

// Summary bundles the sprint aggregates. Category breakdown, cycle time, hero and
// assignee figures cover completed items only.
type Summary struct {
	Completion     Completion        `json:"completion"`
	Categories     CategoryBreakdown `json:"category_breakdown"`
	CycleTime      CycleTimeStats    `json:"cycle_time_stats"`
	Hero           *Hero             `json:"hero"`
	Assignees      []AssigneeLoad    `json:"assignees"`
	ImportantItems []ImportantItem   `json:"important_items,omitempty"`
	Warnings       []string          `json:"warnings,omitempty"`
}

// ComputeSummary derives every non-temporal aggregate. It never fails: empty or
// malformed input yields zero values and a warning.
func ComputeSummary(items []workitem.WorkItem, completed workitem.StateSet, c *classify.Classifier) Summary {
	done := completed.Completed(items)

	s := Summary{
		Completion:     CalculateCompletion(items, completed),
		Categories:     CalculateCategoryBreakdown(done, c),
		CycleTime:      CalculateCycleTimeStats(done, c),
		Hero:           CalculateHero(done, c),
		Assignees:      CalculateAssigneeBreakdown(done),
		ImportantItems: IdentifyImportantItems(done),
	}
	s.Warnings = collectWarnings(items, done, s)
	return s
}

func collectWarnings(items, done []workitem.WorkItem, s Summary) []string {
	var warnings []string
	if len(items) == 0 {
		return append(warnings, "no work items supplied; all aggregates are zero")
	}
	if len(done) == 0 {
		warnings = append(warnings, "no completed work items; category breakdown, cycle time and hero are empty")
	}

	var unassigned, undated int
	for _, it := range done {
		if it.AssigneeOrDefault() == workitem.Unassigned {
			unassigned++
		}
		if it.CompletionDate() == nil {
			undated++
		}
	}
	if unassigned > 0 {
		warnings = append(warnings, fmt.Sprintf("%d completed item(s) have no assignee and are excluded from hero scoring", unassigned))
	}
	if undated > 0 {
		warnings = append(warnings, fmt.Sprintf("%d completed item(s) have no resolved or closed date; burndown counts them on the final sprint day", undated))
	}
	if len(done) > 0 && !s.CycleTime.Available {
		warnings = append(warnings, "cycle time statistics not available: no completed item has both activation and completion dates")
	} else if s.CycleTime.Available && !s.CycleTime.ThresholdAvailable {
		warnings = append(warnings, "long-running detection skipped: fewer than 2 cycle time samples")
	}
	if s.CycleTime.Excluded > 0 && s.CycleTime.Available {
		warnings = append(warnings, fmt.Sprintf("%d completed item(s) lack a cycle time and are excluded from cycle time statistics", s.CycleTime.Excluded))
	}
	return warnings
}
