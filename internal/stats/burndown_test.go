package stats

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"sprintlens/internal/workitem"
)

func day(d int) time.Time {
	return time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC)
}

func at(d, hour int) *time.Time {
	t := time.Date(2025, 7, d, hour, 0, 0, 0, time.UTC)
	return &t
}

func testWindow(t *testing.T, start, end int) SprintWindow {
	t.Helper()
	w, err := NewSprintWindow(day(start), day(end), workitem.NewStateSet("Closed", "Resolved"))
	if err != nil {
		t.Fatalf("NewSprintWindow: %v", err)
	}
	return w
}

func TestComputeSprintProgress_DayWalk(t *testing.T) {
	w := testWindow(t, 16, 19) // 4 days

	items := []workitem.WorkItem{
		{ID: 1, State: "Closed", StoryPoints: 3, ResolvedDate: at(16, 15)},
		{ID: 2, State: "Resolved", StoryPoints: 5, ClosedDate: at(18, 9)},
		{ID: 3, State: "Active", StoryPoints: 2, ResolvedDate: at(17, 9)}, // not in a completed state
		{ID: 4, State: "Closed", StoryPoints: 1},                          // undated
	}

	series := ComputeSprintProgress(w, items)

	if series.TotalScopeItems != 4 || series.TotalScopePoints != 11 {
		t.Fatalf("scope = (%d, %v), want (4, 11)", series.TotalScopeItems, series.TotalScopePoints)
	}
	if series.UndatedCompleted != 1 {
		t.Errorf("UndatedCompleted = %d, want 1", series.UndatedCompleted)
	}

	type row struct {
		CompletedItems  int
		CompletedPoints float64
		RemainingItems  int
		RemainingPoints float64
	}
	var got []row
	for _, d := range series.Days {
		got = append(got, row{d.CompletedItems, d.CompletedPoints, d.RemainingItems, d.RemainingPoints})
	}
	want := []row{
		{1, 3, 3, 8},
		{1, 3, 3, 8},
		{2, 8, 2, 3},
		{3, 9, 1, 2}, // undated item lands on the final day
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeSprintProgress_IdealLine(t *testing.T) {
	w := testWindow(t, 16, 20) // 5 days
	items := []workitem.WorkItem{
		{ID: 1, State: "New", StoryPoints: 4},
		{ID: 2, State: "New", StoryPoints: 4},
	}

	series := ComputeSprintProgress(w, items)
	wantPoints := []float64{8, 6, 4, 2, 0}
	wantItems := []float64{2, 1.5, 1, 0.5, 0}
	for i, d := range series.Days {
		if d.IdealRemainingPoints != wantPoints[i] {
			t.Errorf("day %d: ideal points = %v, want %v", i, d.IdealRemainingPoints, wantPoints[i])
		}
		if d.IdealRemainingItems != wantItems[i] {
			t.Errorf("day %d: ideal items = %v, want %v", i, d.IdealRemainingItems, wantItems[i])
		}
	}
}

func TestComputeSprintProgress_UndatedOnlyOnFinalDay(t *testing.T) {
	w := testWindow(t, 1, 14)
	items := []workitem.WorkItem{{ID: 1, State: "Closed", StoryPoints: 2}}

	series := ComputeSprintProgress(w, items)
	if len(series.Days) != 14 {
		t.Fatalf("expected 14 days, got %d", len(series.Days))
	}
	for i, d := range series.Days[:13] {
		if d.CompletedItems != 0 || d.CompletedPoints != 0 {
			t.Errorf("day %d: undated item counted early (%d items)", i, d.CompletedItems)
		}
	}
	final := series.Days[13]
	if final.CompletedItems != 1 || final.CompletedPoints != 2 || final.RemainingItems != 0 {
		t.Errorf("final day = %+v, want the undated item completed", final)
	}
}

func TestComputeSprintProgress_Monotonic(t *testing.T) {
	w := testWindow(t, 1, 10)
	var items []workitem.WorkItem
	for i := 0; i < 20; i++ {
		it := workitem.WorkItem{ID: i, State: "Closed", StoryPoints: float64(i % 4)}
		if i%3 != 0 {
			it.ResolvedDate = at(1+(i*7)%12, 10) // some land after the window
		}
		items = append(items, it)
	}

	series := ComputeSprintProgress(w, items)
	for i := 1; i < len(series.Days); i++ {
		prev, cur := series.Days[i-1], series.Days[i]
		if cur.CompletedItems < prev.CompletedItems || cur.CompletedPoints < prev.CompletedPoints {
			t.Fatalf("completed series decreased between day %d and %d", i-1, i)
		}
	}
}

func TestComputeSprintProgress_CompletedBeforeStartCountsFromDayOne(t *testing.T) {
	w := testWindow(t, 16, 18)
	items := []workitem.WorkItem{{ID: 1, State: "Closed", StoryPoints: 1, ClosedDate: at(10, 8)}}

	series := ComputeSprintProgress(w, items)
	if series.Days[0].CompletedItems != 1 {
		t.Errorf("day 0 completed = %d, want 1", series.Days[0].CompletedItems)
	}
}

func TestComputeSprintProgress_EmptyAndInverted(t *testing.T) {
	w := testWindow(t, 16, 17)
	series := ComputeSprintProgress(w, nil)
	if len(series.Days) != 2 {
		t.Fatalf("expected 2 days for empty input, got %d", len(series.Days))
	}
	if series.Days[0].RemainingItems != 0 || series.Days[0].IdealRemainingPoints != 0 {
		t.Errorf("expected zero-valued day, got %+v", series.Days[0])
	}

	inverted := SprintWindow{Start: day(20), End: day(10)}
	if got := ComputeSprintProgress(inverted, nil); len(got.Days) != 0 {
		t.Errorf("expected no days for inverted window, got %d", len(got.Days))
	}
}

func TestComputeSprintProgress_SingleDayWindow(t *testing.T) {
	w := testWindow(t, 16, 16)
	series := ComputeSprintProgress(w, []workitem.WorkItem{{ID: 1, State: "New", StoryPoints: 3}})
	if len(series.Days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(series.Days))
	}
	if series.Days[0].IdealRemainingPoints != 0 {
		t.Errorf("single-day ideal = %v, want 0", series.Days[0].IdealRemainingPoints)
	}
}

func TestNewSprintWindow_Invalid(t *testing.T) {
	if _, err := NewSprintWindow(day(20), day(10), nil); err == nil {
		t.Error("expected ErrInvalidWindow")
	}
}

func TestCalculateStateBreakdown(t *testing.T) {
	items := []workitem.WorkItem{
		{State: "Active"}, {State: "New"}, {State: "Closed"}, {State: "Closed"}, {State: "Removed"},
	}
	b := CalculateStateBreakdown(items, workitem.NewStateSet(workitem.DefaultRemainingStates...), workitem.NewStateSet("Closed"))

	if b.Remaining["Active"] != 1 || b.Remaining["New"] != 1 {
		t.Errorf("Remaining = %v", b.Remaining)
	}
	if b.Completed["Closed"] != 2 {
		t.Errorf("Completed = %v", b.Completed)
	}
	if b.Other["Removed"] != 1 {
		t.Errorf("Other = %v", b.Other)
	}
}
