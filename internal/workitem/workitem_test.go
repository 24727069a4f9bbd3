package workitem

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func ptr(t time.Time) *time.Time { return &t }

func TestCompletionDate_FallsBackToClosed(t *testing.T) {
	resolved := time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)
	closed := time.Date(2025, 7, 22, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		item WorkItem
		want *time.Time
	}{
		{"ResolvedWins", WorkItem{ResolvedDate: &resolved, ClosedDate: &closed}, &resolved},
		{"ClosedOnly", WorkItem{ClosedDate: &closed}, &closed},
		{"Neither", WorkItem{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.item.CompletionDate()
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("CompletionDate() = %v, want %v", got, tt.want)
			}
			if got != nil && !got.Equal(*tt.want) {
				t.Errorf("CompletionDate() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestCycleTimeDays(t *testing.T) {
	activated := time.Date(2025, 7, 16, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		item   WorkItem
		want   float64
		wantOK bool
	}{
		{"WholeDays", WorkItem{ActivatedDate: &activated, ResolvedDate: ptr(activated.AddDate(0, 0, 3))}, 3, true},
		{"Fractional", WorkItem{ActivatedDate: &activated, ClosedDate: ptr(activated.Add(36 * time.Hour))}, 1.5, true},
		{"NoActivation", WorkItem{ResolvedDate: ptr(activated)}, 0, false},
		{"NoCompletion", WorkItem{ActivatedDate: &activated}, 0, false},
		{"CompletedBeforeActivation", WorkItem{ActivatedDate: &activated, ResolvedDate: ptr(activated.AddDate(0, 0, -1))}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.item.CycleTimeDays()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("CycleTimeDays() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"UXE", []string{"UXE"}},
		{"UXE; pod1;Frontend", []string{"UXE", "pod1", "Frontend"}},
		{"a, b,,c", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, ParseTags(tt.raw)); diff != "" {
			t.Errorf("ParseTags(%q) mismatch (-want +got):\n%s", tt.raw, diff)
		}
	}
}

func TestHasTag_CaseInsensitive(t *testing.T) {
	item := WorkItem{Tags: []string{" UXE ", "pod1"}}
	if !item.HasTag("uxe") {
		t.Error("expected HasTag(uxe) to match ' UXE '")
	}
	if item.HasTag("ux") {
		t.Error("HasTag must not match on substrings")
	}
}

func TestAssigneeOrDefault(t *testing.T) {
	if got := (WorkItem{}).AssigneeOrDefault(); got != Unassigned {
		t.Errorf("AssigneeOrDefault() = %q, want %q", got, Unassigned)
	}
	if got := (WorkItem{Assignee: " Ana "}).AssigneeOrDefault(); got != "Ana" {
		t.Errorf("AssigneeOrDefault() = %q, want Ana", got)
	}
}

func TestStateSet(t *testing.T) {
	set := NewStateSet("Closed", "Resolved", "")
	if !set.Contains("closed") || !set.Contains("RESOLVED ") {
		t.Error("expected case-insensitive membership")
	}
	if set.Contains("Active") {
		t.Error("Active must not be completed")
	}

	var nilSet StateSet
	if nilSet.Contains("Closed") {
		t.Error("nil set must contain nothing")
	}

	items := []WorkItem{{ID: 1, State: "Closed"}, {ID: 2, State: "Active"}, {ID: 3, State: "Resolved"}}
	done := set.Completed(items)
	if len(done) != 2 || done[0].ID != 1 || done[1].ID != 3 {
		t.Errorf("Completed() = %+v, want items 1 and 3", done)
	}
}
