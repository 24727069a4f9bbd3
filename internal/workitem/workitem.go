package workitem

import (
	"strings"
	"time"
)

// Unassigned is the assignee used when the source carries none.
const Unassigned = "Unassigned"

// WorkItem is a read-only snapshot of a single tracked unit of work.
type WorkItem struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	Type          string     `json:"type"`
	State         string     `json:"state"`
	Assignee      string     `json:"assignee,omitempty"`
	StoryPoints   float64    `json:"story_points"`
	Tags          []string   `json:"tags,omitempty"`
	CreatedDate   *time.Time `json:"created_date,omitempty"`
	ActivatedDate *time.Time `json:"activated_date,omitempty"`
	ResolvedDate  *time.Time `json:"resolved_date,omitempty"`
	ClosedDate    *time.Time `json:"closed_date,omitempty"`
}

// AssigneeOrDefault returns the assignee, falling back to Unassigned.
func (w WorkItem) AssigneeOrDefault() string {
	name := strings.TrimSpace(w.Assignee)
	if name == "" {
		return Unassigned
	}
	return name
}

// Points returns the story points, clamping negative or NaN estimates to zero.
func (w WorkItem) Points() float64 {
	if w.StoryPoints > 0 {
		return w.StoryPoints
	}
	return 0
}

// CompletionDate is the resolved date, falling back to the closed date.
func (w WorkItem) CompletionDate() *time.Time {
	if w.ResolvedDate != nil {
		return w.ResolvedDate
	}
	return w.ClosedDate
}

// CycleTimeDays returns the fractional days between activation and completion.
// The second return value is false when either endpoint is missing or the
// completion precedes the activation.
func (w WorkItem) CycleTimeDays() (float64, bool) {
	done := w.CompletionDate()
	if w.ActivatedDate == nil || done == nil {
		return 0, false
	}
	d := done.Sub(*w.ActivatedDate)
	if d < 0 {
		return 0, false
	}
	return d.Hours() / 24.0, true
}

// HasTag reports whether the item carries the tag, ignoring case and surrounding space.
func (w WorkItem) HasTag(tag string) bool {
	want := strings.ToLower(strings.TrimSpace(tag))
	for _, t := range w.Tags {
		if strings.ToLower(strings.TrimSpace(t)) == want {
			return true
		}
	}
	return false
}

// ParseTags splits a raw tag field. Both ';' (Azure DevOps) and ',' separators are accepted.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == ','
	})
	tags := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.TrimSpace(f); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
