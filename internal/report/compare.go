package report

import (
	"fmt"
	"strings"

	"sprintlens/internal/stats"
)

// SprintRow is one sprint in a velocity comparison.
type SprintRow struct {
	Sprint  string
	Summary stats.Summary
}

// Velocity is the mean of completed points across the rows.
func Velocity(rows []SprintRow) float64 {
	points := make([]float64, len(rows))
	for i, r := range rows {
		points[i] = r.Summary.Completion.CompletedPoints
	}
	return stats.CalculateMean(points)
}

// CompareMarkdown renders a velocity table, one row per sprint in the given order.
func CompareMarkdown(rows []SprintRow) string {
	var sb strings.Builder
	sb.WriteString("# Sprint Comparison\n\n")
	sb.WriteString("| Sprint | Completed Points | Completion Rate | Rating | Avg Cycle Time | Hero |\n")
	sb.WriteString("|---|---:|---:|---|---:|---|\n")
	for _, r := range rows {
		s := r.Summary
		cycle := "n/a"
		if s.CycleTime.Available {
			cycle = days(s.CycleTime.Mean)
		}
		hero := "-"
		if s.Hero != nil {
			hero = cell(s.Hero.Name)
		}
		fmt.Fprintf(&sb, "| %s | %g | %s | %s | %s | %s |\n",
			cell(r.Sprint), s.Completion.CompletedPoints, pct(s.Completion.Rate), s.Completion.Rating, cycle, hero)
	}
	if len(rows) > 0 {
		fmt.Fprintf(&sb, "\nAverage velocity: %.1f points per sprint over %d sprint(s).\n", Velocity(rows), len(rows))
	}
	return sb.String()
}
