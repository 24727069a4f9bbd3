package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"sprintlens/internal/stats"
)

// Source tells the reader where the work items came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceSnapshot Source = "snapshot"
)

// Report is everything needed to render one sprint.
type Report struct {
	Sprint      string               `json:"sprint"`
	Team        string               `json:"team,omitempty"`
	Window      stats.SprintWindow   `json:"window"`
	Series      stats.DailySeries    `json:"series"`
	States      stats.StateBreakdown `json:"states"`
	Summary     stats.Summary        `json:"summary"`
	Source      Source               `json:"source"`
	GeneratedAt time.Time            `json:"generated_at"`
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Markdown renders the full sprint report.
func Markdown(r Report) string {
	var sb strings.Builder
	s := r.Summary

	title := "Sprint Report: " + r.Sprint
	if r.Team != "" {
		title += " (" + r.Team + ")"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "**Sprint Period**: %s\n\n", r.Window.Label())
	if r.Source != "" {
		fmt.Fprintf(&sb, "_Data source: %s", r.Source)
		if !r.GeneratedAt.IsZero() {
			fmt.Fprintf(&sb, ", generated %s", r.GeneratedAt.Format(time.RFC3339))
		}
		sb.WriteString("_\n\n")
	}

	writeOverview(&sb, s)
	writeProgress(&sb, r.Series, r.States)
	writeCategories(&sb, s.Categories)
	writeCycleTime(&sb, s.CycleTime)
	writeHero(&sb, s.Hero)
	writeAssignees(&sb, s.Assignees)
	writeImportant(&sb, s.ImportantItems)

	if len(s.Warnings) > 0 {
		sb.WriteString("## Data Quality\n\n")
		for _, w := range s.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Write renders the report to w.
func Write(w io.Writer, r Report) error {
	_, err := io.WriteString(w, Markdown(r))
	return err
}

func writeOverview(sb *strings.Builder, s stats.Summary) {
	c := s.Completion
	sb.WriteString("## Key Achievements\n\n")
	fmt.Fprintf(sb, "- **%s completion rate** (%d of %d items completed), rated %s\n", pct(c.Rate), c.CompletedItems, c.TotalItems, c.Rating)
	fmt.Fprintf(sb, "- **%g story points delivered** out of %g targeted (%s)\n", c.CompletedPoints, c.TotalPoints, pct(c.PointsRate))
	if s.CycleTime.Available {
		fmt.Fprintf(sb, "- **%s average cycle time** for completed items\n", days(s.CycleTime.Mean))
	}
	fmt.Fprintf(sb, "\n**Performance**: %s\n", CompletionAssessment(c))
	if focus, ok := FocusArea(s.Categories); ok {
		fmt.Fprintf(sb, "\n**Focus Area**: a %s-heavy sprint.\n", strings.ToLower(string(focus)))
	}
	sb.WriteString("\n")
}

func writeProgress(sb *strings.Builder, series stats.DailySeries, states stats.StateBreakdown) {
	if len(series.Days) == 0 {
		return
	}
	sb.WriteString("## Daily Progress\n\n")
	fmt.Fprintf(sb, "Scope: %d items, %g points.\n\n", series.TotalScopeItems, series.TotalScopePoints)
	sb.WriteString("| Day | Remaining Items | Ideal Items | Remaining Points | Ideal Points | Completed Items | Completed Points |\n")
	sb.WriteString("|---|---:|---:|---:|---:|---:|---:|\n")
	for _, d := range series.Days {
		fmt.Fprintf(sb, "| %s | %d | %.1f | %g | %.1f | %d | %g |\n",
			d.Label, d.RemainingItems, d.IdealRemainingItems, d.RemainingPoints, d.IdealRemainingPoints, d.CompletedItems, d.CompletedPoints)
	}
	if series.UndatedCompleted > 0 {
		fmt.Fprintf(sb, "\n%d completed item(s) without a completion date are counted on the final day.\n", series.UndatedCompleted)
	}

	if line := stateLine("Remaining", states.Remaining); line != "" {
		sb.WriteString("\n" + line)
	}
	if line := stateLine("Completed", states.Completed); line != "" {
		sb.WriteString(line)
	}
	sb.WriteString("\n")
}

func stateLine(label string, counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s: %d", n, counts[n])
	}
	return fmt.Sprintf("- %s by state: %s\n", label, strings.Join(parts, ", "))
}

func writeCategories(sb *strings.Builder, b stats.CategoryBreakdown) {
	if len(b.Categories) == 0 {
		return
	}
	sb.WriteString("## Work Categories\n\n")
	sb.WriteString("| Category | Items | % Items | Story Points | % Points | Insight |\n")
	sb.WriteString("|---|---:|---:|---:|---:|---|\n")
	for _, c := range b.Categories {
		fmt.Fprintf(sb, "| %s | %d | %s | %g | %s | %s |\n",
			c.Category, c.Items, pct(c.ItemPercentage), c.StoryPoints, pct(c.PointsPercentage), CategoryInsight(c))
	}
	sb.WriteString("\n")
}

func writeCycleTime(sb *strings.Builder, ct stats.CycleTimeStats) {
	sb.WriteString("## Cycle Time\n\n")
	if !ct.Available {
		fmt.Fprintf(sb, "%s\n\n", CycleTimeAssessment(ct))
		return
	}
	fmt.Fprintf(sb, "- **Average**: %s\n", days(ct.Mean))
	fmt.Fprintf(sb, "- **Median**: %s\n", days(ct.Median))
	fmt.Fprintf(sb, "- **Range**: %.1f - %.1f days\n", ct.Min, ct.Max)
	if ct.ThresholdAvailable {
		fmt.Fprintf(sb, "- **Long-running threshold**: %s (mean + 1 std dev)\n", days(ct.Threshold))
	}
	fmt.Fprintf(sb, "- **Sample**: %d items (%d excluded)\n\n", ct.SampleSize, ct.Excluded)

	sb.WriteString("| Tier | Items | Share |\n|---|---:|---:|\n")
	for _, tier := range []stats.PerformanceTier{stats.TierFast, stats.TierNormal, stats.TierSlow} {
		n := ct.Tiers[tier]
		fmt.Fprintf(sb, "| %s | %d | %s |\n", tier, n, pct(stats.Percentage(float64(n), float64(ct.SampleSize))))
	}
	sb.WriteString("\n")

	if ct.SlowestCategory != "" {
		fmt.Fprintf(sb, "Slowest category: %s (%s). Fastest: %s (%s).\n\n",
			ct.SlowestCategory, days(ct.ByCategory[ct.SlowestCategory]),
			ct.FastestCategory, days(ct.ByCategory[ct.FastestCategory]))
	}

	if len(ct.LongRunning) > 0 {
		sb.WriteString("### Long-Running Items\n\n")
		sb.WriteString("| ID | Title | Assignee | Category | Cycle Time |\n|---:|---|---|---|---:|\n")
		for _, it := range ct.LongRunning {
			fmt.Fprintf(sb, "| %d | %s | %s | %s | %s |\n", it.ID, cell(it.Title), cell(it.Assignee), it.Category, days(it.Days))
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(sb, "%s\n\n", CycleTimeAssessment(ct))
}

func writeHero(sb *strings.Builder, h *stats.Hero) {
	sb.WriteString("## Sprint Hero\n\n")
	if h == nil {
		sb.WriteString("No assigned completed work this sprint.\n\n")
		return
	}
	fmt.Fprintf(sb, "**%s** with a hero score of %.1f: %g points (%s of delivered), %d items, %s average cycle time, focus on %s.\n\n",
		cell(h.Name), h.Score, h.Points, pct(h.PointsPercentage), h.Items, days(h.AvgCycleDays), h.CategoryFocus)

	sb.WriteString("| Rank | Name | Score | Points | Items | Avg Cycle Time |\n|---:|---|---:|---:|---:|---:|\n")
	for i, c := range h.Ranking {
		fmt.Fprintf(sb, "| %d | %s | %.1f | %g | %d | %s |\n", i+1, cell(c.Name), c.Score, c.Points, c.Items, days(c.AvgCycleDays))
	}
	sb.WriteString("\n")
}

func writeAssignees(sb *strings.Builder, rows []stats.AssigneeLoad) {
	if len(rows) == 0 {
		return
	}
	sb.WriteString("## Assignees\n\n")
	sb.WriteString("| Name | Items | Story Points | Avg Cycle Time |\n|---|---:|---:|---:|\n")
	for _, a := range rows {
		avg := "n/a"
		if a.CycleSamples > 0 {
			avg = days(a.AvgCycleDays)
		}
		fmt.Fprintf(sb, "| %s | %d | %g | %s |\n", cell(a.Name), a.Items, a.StoryPoints, avg)
	}
	sb.WriteString("\n")
}

func writeImportant(sb *strings.Builder, items []stats.ImportantItem) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("## Important Items\n\n")
	sb.WriteString("| ID | Title | Type | Assignee | Points | Why |\n|---:|---|---|---|---:|---|\n")
	for _, it := range items {
		fmt.Fprintf(sb, "| %d | %s | %s | %s | %g | %s |\n",
			it.ID, cell(it.Title), cell(it.Type), cell(it.Assignee), it.StoryPoints, cell(strings.Join(it.Reasons, "; ")))
	}
	sb.WriteString("\n")
}
