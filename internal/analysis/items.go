package analysis

import (
	"sprintlens/internal/azdo"
	"sprintlens/internal/workitem"
)

// ItemInput is a work item supplied inline by an API caller. Dates are ISO-8601
// or YYYY-MM-DD; unparseable dates are treated as absent.
type ItemInput struct {
	ID            int      `json:"id"`
	Title         string   `json:"title,omitempty"`
	Type          string   `json:"type,omitempty"`
	State         string   `json:"state,omitempty"`
	Assignee      string   `json:"assignee,omitempty"`
	StoryPoints   float64  `json:"story_points,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	CreatedDate   string   `json:"created_date,omitempty"`
	ActivatedDate string   `json:"activated_date,omitempty"`
	ResolvedDate  string   `json:"resolved_date,omitempty"`
	ClosedDate    string   `json:"closed_date,omitempty"`
}

// WorkItem converts the input, defaulting an empty assignee to Unassigned.
func (in ItemInput) WorkItem() workitem.WorkItem {
	assignee := in.Assignee
	if assignee == "" {
		assignee = workitem.Unassigned
	}
	return workitem.WorkItem{
		ID:            in.ID,
		Title:         in.Title,
		Type:          in.Type,
		State:         in.State,
		Assignee:      assignee,
		StoryPoints:   in.StoryPoints,
		Tags:          in.Tags,
		CreatedDate:   azdo.ParseDate(in.CreatedDate),
		ActivatedDate: azdo.ParseDate(in.ActivatedDate),
		ResolvedDate:  azdo.ParseDate(in.ResolvedDate),
		ClosedDate:    azdo.ParseDate(in.ClosedDate),
	}
}

// ToWorkItems converts a batch in order.
func ToWorkItems(in []ItemInput) []workitem.WorkItem {
	items := make([]workitem.WorkItem, len(in))
	for i, it := range in {
		items[i] = it.WorkItem()
	}
	return items
}
