package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sprintlens/internal/classify"
)

const sampleCatalog = `
completed_states: [Done, Closed]
classification:
  investigate_first: true
sprints:
  - name: s1
    iteration_path: 'Web\Sprint 1'
    area_path: 'Web\UI'
    start: 2024-03-04
    end: 2024-03-15
    label: Sprint 1
  - name: s2
    iteration_path: 'Web\Sprint 2'
    start: 2024-03-18
    end: 2024-03-29
`

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}

	if diff := cmp.Diff([]string{"s1", "s2"}, c.Names()); diff != "" {
		t.Errorf("Names (-want +got):\n%s", diff)
	}
	// Unset lists fall back to defaults
	if diff := cmp.Diff([]string{"Active", "Ready", "New"}, c.RemainingStates); diff != "" {
		t.Errorf("RemainingStates (-want +got):\n%s", diff)
	}
	if !c.CompletedSet().Contains("done") || c.CompletedSet().Contains("Resolved") {
		t.Errorf("CompletedSet = %v", c.CompletedSet())
	}

	s, err := c.Sprint("s1")
	if err != nil {
		t.Fatalf("Sprint: %v", err)
	}
	if s.DisplayName() != "Sprint 1" {
		t.Errorf("DisplayName = %q", s.DisplayName())
	}
	w, err := s.Window(c.CompletedSet())
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if w.DayCount() != 12 {
		t.Errorf("DayCount = %d, want 12", w.DayCount())
	}

	q := s.Query(c.WorkItemTypes)
	if q.IterationPath != `Web\Sprint 1` || q.AreaPath != `Web\UI` || len(q.Types) != 3 {
		t.Errorf("Query = %+v", q)
	}
}

func TestCatalog_ClassifierHonorsInvestigateFirst(t *testing.T) {
	c, err := ParseCatalog([]byte(sampleCatalog))
	if err != nil {
		t.Fatal(err)
	}
	got := c.Classifier().Classify("Investigate slow api", "Task", nil)
	if got != classify.Investigate {
		t.Errorf("Classify = %s, want %s", got, classify.Investigate)
	}
	if got := DefaultCatalog().Classifier().Classify("Investigate slow api", "Task", nil); got != classify.Backend {
		t.Errorf("default Classify = %s, want %s", got, classify.Backend)
	}
}

func TestCatalog_UnknownSprint(t *testing.T) {
	c := DefaultCatalog()
	if _, err := c.Sprint("nope"); !errors.Is(err, ErrUnknownSprint) {
		t.Errorf("err = %v, want ErrUnknownSprint", err)
	}
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad yaml", "sprints: [::"},
		{"missing name", "sprints:\n  - start: 2024-01-01\n    end: 2024-01-02\n"},
		{"duplicate", "sprints:\n  - {name: a, start: 2024-01-01, end: 2024-01-02}\n  - {name: a, start: 2024-01-01, end: 2024-01-02}\n"},
		{"bad date", "sprints:\n  - {name: a, start: 01/01/2024, end: 2024-01-02}\n"},
		{"inverted", "sprints:\n  - {name: a, start: 2024-01-05, end: 2024-01-02}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCatalog([]byte(tt.doc)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadCatalog_MissingFileUsesDefaults(t *testing.T) {
	c, err := LoadCatalog(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(c.Sprints) != 0 || len(c.CompletedStates) != 4 {
		t.Errorf("unexpected defaults %+v", c)
	}
}

func TestFromEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sprints.yaml"), []byte(sampleCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DATA_PATH", dir)
	t.Setenv("AZDO_ORGANIZATION", "acme")
	t.Setenv("AZDO_PROJECT", "web")
	t.Setenv("AZDO_PAT", "secret")
	t.Setenv("AZDO_REQUEST_DELAY_MS", "50")
	t.Setenv("SPRINTLENS_OFFLINE", "true")

	cfg, err := FromEnv("")
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if !cfg.HasCredentials() || !cfg.Offline {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.AzDO.RequestDelay.Milliseconds() != 50 {
		t.Errorf("RequestDelay = %v", cfg.AzDO.RequestDelay)
	}
	if len(cfg.Catalog.Sprints) != 2 {
		t.Errorf("catalog sprints = %d, want 2", len(cfg.Catalog.Sprints))
	}
	if cfg.CacheDir != filepath.Join(dir, "cache") {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
}
