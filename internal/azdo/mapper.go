package azdo

import (
	"strings"

	"sprintlens/internal/workitem"
)

// MapStats counts the defaults substituted while mapping, so callers can report them.
type MapStats struct {
	MissingPoints   int `json:"missing_points"`
	MissingAssignee int `json:"missing_assignee"`
	BadDates        int `json:"bad_dates"`
}

// MapWorkItem transforms an API DTO into a domain WorkItem, substituting defaults
// (0 points, Unassigned, no tags) for missing fields.
func MapWorkItem(dto WorkItemDTO, st *MapStats) workitem.WorkItem {
	f := dto.Fields
	item := workitem.WorkItem{
		ID:       dto.ID,
		Title:    f.Title,
		Type:     f.WorkItemType,
		State:    f.State,
		Assignee: workitem.Unassigned,
		Tags:     workitem.ParseTags(f.Tags),
	}

	if f.StoryPoints != nil {
		item.StoryPoints = *f.StoryPoints
	} else if st != nil {
		st.MissingPoints++
	}

	if f.AssignedTo != nil && strings.TrimSpace(f.AssignedTo.DisplayName) != "" {
		item.Assignee = strings.TrimSpace(f.AssignedTo.DisplayName)
	} else if st != nil {
		st.MissingAssignee++
	}

	parse := func(raw string) {
		if raw != "" && ParseDate(raw) == nil && st != nil {
			st.BadDates++
		}
	}
	for _, raw := range []string{f.CreatedDate, f.ActivatedDate, f.ResolvedDate, f.ClosedDate} {
		parse(raw)
	}

	item.CreatedDate = ParseDate(f.CreatedDate)
	item.ActivatedDate = ParseDate(f.ActivatedDate)
	item.ResolvedDate = ParseDate(f.ResolvedDate)
	item.ClosedDate = ParseDate(f.ClosedDate)

	return item
}

// MapWorkItems maps a batch in order.
func MapWorkItems(dtos []WorkItemDTO) ([]workitem.WorkItem, MapStats) {
	var st MapStats
	items := make([]workitem.WorkItem, 0, len(dtos))
	for _, d := range dtos {
		items = append(items, MapWorkItem(d, &st))
	}
	return items, st
}
