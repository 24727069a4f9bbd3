package report

import (
	"fmt"
	"strings"

	"sprintlens/internal/classify"
	"sprintlens/internal/stats"
)

// InsightSeparator joins the fragments of a category insight.
const InsightSeparator = " • "

// CategoryInsight describes a category row by complexity, volume and a
// category-specific note.
func CategoryInsight(s stats.CategoryShare) string {
	var avg float64
	if s.Items > 0 {
		avg = s.StoryPoints / float64(s.Items)
	}

	var parts []string
	switch {
	case avg > 3:
		parts = append(parts, "High complexity work")
	case avg > 1:
		parts = append(parts, "Medium complexity")
	default:
		parts = append(parts, "Low complexity tasks")
	}

	switch {
	case s.ItemPercentage > 40:
		parts = append(parts, "Sprint focus area")
	case s.ItemPercentage > 20:
		parts = append(parts, "Significant portion")
	default:
		parts = append(parts, "Supporting work")
	}

	switch s.Category {
	case classify.Backend:
		if s.StoryPoints > 15 {
			parts = append(parts, "Major infrastructure work")
		} else {
			parts = append(parts, "API/service updates")
		}
	case classify.Frontend:
		if s.StoryPoints > 15 {
			parts = append(parts, "Major UI overhaul")
		} else {
			parts = append(parts, "UI improvements")
		}
	case classify.Bug:
		if s.Items <= 2 {
			parts = append(parts, "Good code quality")
		} else {
			parts = append(parts, "Quality review needed")
		}
	case classify.UX:
		parts = append(parts, "User experience focus")
	}

	return strings.Join(parts, InsightSeparator)
}

// CompletionAssessment is the one-line verdict on the item completion rate.
func CompletionAssessment(c stats.Completion) string {
	switch c.Rating {
	case stats.RatingStrong:
		return "Excellent sprint execution with strong delivery rate."
	case stats.RatingGood:
		return "Good sprint progress with solid completion rate."
	case stats.RatingModerate:
		return "Moderate completion; some committed work carried over."
	default:
		return "Below target completion rate; review sprint planning and capacity."
	}
}

// CycleTimeAssessment comments on the mean cycle time.
func CycleTimeAssessment(ct stats.CycleTimeStats) string {
	if !ct.Available {
		return "No cycle time data available; items may be missing activation or completion dates."
	}
	if ct.Mean > 10 {
		return "Consider breaking down larger items and addressing blockers to improve cycle time."
	}
	return "Team is maintaining efficient cycle times."
}

// FocusArea names the category with the most completed points, if any.
func FocusArea(b stats.CategoryBreakdown) (classify.Category, bool) {
	var best stats.CategoryShare
	found := false
	for _, s := range b.Categories {
		if !found || s.StoryPoints > best.StoryPoints {
			best = s
			found = true
		}
	}
	if !found || best.StoryPoints == 0 {
		return "", false
	}
	return best.Category, true
}

func days(v float64) string {
	return fmt.Sprintf("%.1f days", v)
}
