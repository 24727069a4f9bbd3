package azdo

import (
	"strings"
	"time"
)

// WIQLRequest is the body of a WIQL query.
type WIQLRequest struct {
	Query string `json:"query"`
}

// WIQLResponse is the flat reference list a WIQL query returns.
type WIQLResponse struct {
	WorkItems []struct {
		ID  int    `json:"id"`
		URL string `json:"url,omitempty"`
	} `json:"workItems"`
}

// WorkItemsResponse is the batch details envelope.
type WorkItemsResponse struct {
	Count int           `json:"count"`
	Value []WorkItemDTO `json:"value"`
}

// WorkItemDTO represents a single work item as returned by the REST API.
type WorkItemDTO struct {
	ID     int       `json:"id"`
	Fields FieldsDTO `json:"fields"`
}

// IdentityDTO is the assigned-to identity reference.
type IdentityDTO struct {
	DisplayName string `json:"displayName"`
	UniqueName  string `json:"uniqueName,omitempty"`
}

// FieldsDTO contains the specific fields we care about.
type FieldsDTO struct {
	Title          string       `json:"System.Title"`
	WorkItemType   string       `json:"System.WorkItemType"`
	State          string       `json:"System.State"`
	AssignedTo     *IdentityDTO `json:"System.AssignedTo,omitempty"`
	StoryPoints    *float64     `json:"Microsoft.VSTS.Scheduling.StoryPoints,omitempty"`
	Tags           string       `json:"System.Tags,omitempty"`
	IterationPath  string       `json:"System.IterationPath,omitempty"`
	AreaPath       string       `json:"System.AreaPath,omitempty"`
	CreatedDate    string       `json:"System.CreatedDate,omitempty"`
	ActivatedDate  string       `json:"Microsoft.VSTS.Common.ActivatedDate,omitempty"`
	ResolvedDate   string       `json:"Microsoft.VSTS.Common.ResolvedDate,omitempty"`
	ClosedDate     string       `json:"Microsoft.VSTS.Common.ClosedDate,omitempty"`
	StateChangedAt string       `json:"Microsoft.VSTS.Common.StateChangeDate,omitempty"`
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts the ISO-8601 variants the API emits (with or without fractional
// seconds and zone) and bare calendar dates. Unparseable or empty input yields nil.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
