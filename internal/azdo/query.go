package azdo

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"sprintlens/internal/workitem"
)

// RequestedFields are the reference names fetched for every work item.
var RequestedFields = []string{
	"System.Id",
	"System.Title",
	"System.WorkItemType",
	"System.State",
	"System.AssignedTo",
	"System.Tags",
	"System.IterationPath",
	"System.AreaPath",
	"System.CreatedDate",
	"Microsoft.VSTS.Scheduling.StoryPoints",
	"Microsoft.VSTS.Common.ActivatedDate",
	"Microsoft.VSTS.Common.ResolvedDate",
	"Microsoft.VSTS.Common.ClosedDate",
}

// SprintQuery selects the work items of one iteration.
type SprintQuery struct {
	IterationPath string
	AreaPath      string
	Types         []string
	Tag           string
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// BuildWIQL renders the query. AreaPath, Types and Tag are optional filters.
func BuildWIQL(q SprintQuery) string {
	var b strings.Builder
	b.WriteString("SELECT [System.Id] FROM WorkItems WHERE [System.TeamProject] = @project")
	fmt.Fprintf(&b, " AND [System.IterationPath] = %s", quote(q.IterationPath))
	if q.AreaPath != "" {
		fmt.Fprintf(&b, " AND [System.AreaPath] UNDER %s", quote(q.AreaPath))
	}
	if len(q.Types) > 0 {
		quoted := make([]string, len(q.Types))
		for i, t := range q.Types {
			quoted[i] = quote(t)
		}
		fmt.Fprintf(&b, " AND [System.WorkItemType] IN (%s)", strings.Join(quoted, ", "))
	}
	if q.Tag != "" {
		fmt.Fprintf(&b, " AND [System.Tags] CONTAINS %s", quote(q.Tag))
	}
	b.WriteString(" ORDER BY [System.Id]")
	return b.String()
}

// FetchSprint runs the iteration query, fetches details in batches and maps them
// into domain work items.
func FetchSprint(ctx context.Context, c Client, q SprintQuery) ([]workitem.WorkItem, MapStats, error) {
	if q.IterationPath == "" {
		return nil, MapStats{}, fmt.Errorf("iteration path is required")
	}

	ids, err := c.QueryWorkItemIDs(ctx, BuildWIQL(q))
	if err != nil {
		return nil, MapStats{}, fmt.Errorf("querying iteration %s: %w", q.IterationPath, err)
	}
	if len(ids) == 0 {
		log.Warn().Str("iteration", q.IterationPath).Msg("Iteration query returned no work items")
		return nil, MapStats{}, nil
	}

	dtos, err := c.GetWorkItems(ctx, ids)
	if err != nil {
		return nil, MapStats{}, err
	}

	// Items deleted between query and fetch come back empty under the omit policy.
	valid := dtos[:0]
	for _, d := range dtos {
		if d.ID != 0 {
			valid = append(valid, d)
		}
	}

	items, st := MapWorkItems(valid)
	log.Info().
		Str("iteration", q.IterationPath).
		Int("items", len(items)).
		Int("missing_points", st.MissingPoints).
		Int("missing_assignee", st.MissingAssignee).
		Msg("Fetched sprint work items")
	return items, st, nil
}
