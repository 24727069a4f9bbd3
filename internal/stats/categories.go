package stats

import (
	"slices"

	"sprintlens/internal/classify"
	"sprintlens/internal/workitem"
)

// CategoryShare is one row of the category breakdown.
type CategoryShare struct {
	Category         classify.Category `json:"category"`
	Items            int               `json:"items"`
	ItemPercentage   float64           `json:"item_percentage"`
	StoryPoints      float64           `json:"story_points"`
	PointsPercentage float64           `json:"points_percentage"`
}

// CategoryBreakdown groups items by category.
type CategoryBreakdown struct {
	TotalItems  int             `json:"total_items"`
	TotalPoints float64         `json:"total_points"`
	Categories  []CategoryShare `json:"categories"`
}

// Get returns the row for a category, if present.
func (b CategoryBreakdown) Get(c classify.Category) (CategoryShare, bool) {
	for _, s := range b.Categories {
		if s.Category == c {
			return s, true
		}
	}
	return CategoryShare{}, false
}

// CalculateCategoryBreakdown counts items and points per category. Percentages are 0 when the
// corresponding total is 0. Rows are ordered by item count descending, then by priority order.
func CalculateCategoryBreakdown(items []workitem.WorkItem, c *classify.Classifier) CategoryBreakdown {
	b := CategoryBreakdown{}
	rows := make(map[classify.Category]*CategoryShare)

	for _, it := range items {
		cat := c.Classify(it.Title, it.Type, it.Tags)
		row, ok := rows[cat]
		if !ok {
			row = &CategoryShare{Category: cat}
			rows[cat] = row
		}
		row.Items++
		row.StoryPoints += it.Points()
		b.TotalItems++
		b.TotalPoints += it.Points()
	}

	for _, cat := range classify.All {
		row, ok := rows[cat]
		if !ok {
			continue
		}
		row.ItemPercentage = Percentage(float64(row.Items), float64(b.TotalItems))
		row.PointsPercentage = Percentage(row.StoryPoints, b.TotalPoints)
		b.Categories = append(b.Categories, *row)
	}

	slices.SortStableFunc(b.Categories, func(x, y CategoryShare) int {
		return y.Items - x.Items
	})

	return b
}
