package mcp

import (
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"sprintlens/internal/analysis"
)

var toolClassify = sdk.Tool{
	Name: "classify_work_item",
	Description: "Assign a work item to exactly one category (Bug, UX, Testing/QA, Frontend, Backend, Investigate, Other) " +
		"using the ordered keyword and tag rules. The first matching rule wins; the 'UXE' tag forces UX.",
}

var toolProgress = sdk.Tool{
	Name: "compute_sprint_progress",
	Description: "Compute the day-by-day burndown (remaining items/points with an ideal line) and burnup (completed vs scope) " +
		"for a sprint. Either name a catalog sprint (see 'list_sprints') or supply 'start', 'end' and 'items' inline.\n\n" +
		"Completed items without a completion date only count on the final sprint day.",
}

var toolSummary = sdk.Tool{
	Name: "compute_sprint_summary",
	Description: "Compute completion rate, category breakdown, cycle-time statistics (tiers, long-running items above mean + 1 std dev), " +
		"the top contributor ('hero') ranking, assignee breakdown and important items. " +
		"Either name a catalog sprint or supply 'start', 'end' and 'items' inline.\n\n" +
		"Breakdowns cover completed items only. Read the 'warnings' field before presenting results: it lists missing dates, " +
		"unassigned work and unavailable statistics.",
}

var toolListSprints = sdk.Tool{
	Name:        "list_sprints",
	Description: "List the sprints of the configured catalog with their iteration paths and date windows.",
}

// ClassifyInput is the classify_work_item argument.
type ClassifyInput struct {
	Title string   `json:"title" jsonschema:"work item title"`
	Type  string   `json:"type,omitempty" jsonschema:"work item type, e.g. Bug or User Story"`
	Tags  []string `json:"tags,omitempty" jsonschema:"work item tags"`
}

// SprintInput selects a catalog sprint or carries an inline dataset.
type SprintInput struct {
	Sprint          string               `json:"sprint,omitempty" jsonschema:"catalog sprint name"`
	Start           string               `json:"start,omitempty" jsonschema:"inline sprint start date (YYYY-MM-DD)"`
	End             string               `json:"end,omitempty" jsonschema:"inline sprint end date (YYYY-MM-DD)"`
	CompletedStates []string             `json:"completed_states,omitempty" jsonschema:"states counted as completed; defaults to the catalog's"`
	Items           []analysis.ItemInput `json:"items,omitempty" jsonschema:"inline work items"`
}

// ListSprintsInput takes no arguments.
type ListSprintsInput struct{}
