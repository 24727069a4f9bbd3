package stats

import (
	"slices"
	"strings"

	"sprintlens/internal/workitem"
)

// AssigneeLoad is the per-person delivery view.
type AssigneeLoad struct {
	Name         string  `json:"name"`
	Items        int     `json:"items"`
	StoryPoints  float64 `json:"story_points"`
	AvgCycleDays float64 `json:"avg_cycle_time_days"`
	CycleSamples int     `json:"cycle_samples"`
}

// CalculateAssigneeBreakdown groups items per assignee (Unassigned included),
// ordered by points descending, then name.
func CalculateAssigneeBreakdown(items []workitem.WorkItem) []AssigneeLoad {
	byName := make(map[string]*AssigneeLoad)
	cycleSum := make(map[string]float64)

	for _, it := range items {
		name := it.AssigneeOrDefault()
		row, ok := byName[name]
		if !ok {
			row = &AssigneeLoad{Name: name}
			byName[name] = row
		}
		row.Items++
		row.StoryPoints += it.Points()
		if days, ok := it.CycleTimeDays(); ok {
			row.CycleSamples++
			cycleSum[name] += days
		}
	}

	out := make([]AssigneeLoad, 0, len(byName))
	for name, row := range byName {
		if row.CycleSamples > 0 {
			row.AvgCycleDays = cycleSum[name] / float64(row.CycleSamples)
		}
		out = append(out, *row)
	}

	slices.SortFunc(out, func(a, b AssigneeLoad) int {
		if a.StoryPoints != b.StoryPoints {
			if a.StoryPoints > b.StoryPoints {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
