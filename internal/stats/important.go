package stats

import (
	"fmt"
	"strings"

	"sprintlens/internal/workitem"
)

// ImportantPointsThreshold marks items large enough to discuss in a sprint review.
const ImportantPointsThreshold = 5

var (
	importantTypes    = []string{"user story", "bug", "investigate"}
	importantKeywords = []string{"critical", "important", "major", "feature", "integration", "security", "performance", "bug", "investigate"}
)

// ImportantItem is a work item flagged for review together with why.
type ImportantItem struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Assignee    string   `json:"assignee"`
	StoryPoints float64  `json:"story_points"`
	Reasons     []string `json:"reasons"`
}

// IdentifyImportantItems flags large items, review-worthy types and titles with
// attention keywords. At most one keyword reason is recorded per item.
func IdentifyImportantItems(items []workitem.WorkItem) []ImportantItem {
	var out []ImportantItem
	for _, it := range items {
		var reasons []string

		if it.Points() >= ImportantPointsThreshold {
			reasons = append(reasons, fmt.Sprintf("High story points (%g)", it.Points()))
		}

		typ := strings.ToLower(strings.TrimSpace(it.Type))
		for _, t := range importantTypes {
			if typ == t {
				reasons = append(reasons, fmt.Sprintf("Important type (%s)", it.Type))
				break
			}
		}

		title := strings.ToLower(it.Title)
		for _, k := range importantKeywords {
			if strings.Contains(title, k) {
				reasons = append(reasons, fmt.Sprintf("Contains keyword '%s'", k))
				break
			}
		}

		if len(reasons) > 0 {
			out = append(out, ImportantItem{
				ID:          it.ID,
				Title:       it.Title,
				Type:        it.Type,
				Assignee:    it.AssigneeOrDefault(),
				StoryPoints: it.Points(),
				Reasons:     reasons,
			})
		}
	}
	return out
}
