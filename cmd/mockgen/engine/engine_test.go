package engine

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"sprintlens/internal/config"
	"sprintlens/internal/snapshot"
	"sprintlens/internal/workitem"
)

func TestGenerate(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 10)

	for _, scenario := range []string{"steady", "late", "chaos"} {
		for _, dist := range []string{"uniform", "weibull"} {
			t.Run(scenario+"/"+dist, func(t *testing.T) {
				items := Generate(GeneratorConfig{Scenario: scenario, Distribution: dist, Count: 30, Start: start, Days: 10, Seed: 7})
				if len(items) != 30 {
					t.Fatalf("got %d items, want 30", len(items))
				}
				seen := map[int]bool{}
				for _, it := range items {
					if seen[it.ID] {
						t.Errorf("duplicate id %d", it.ID)
					}
					seen[it.ID] = true
					switch it.State {
					case "Closed":
						if it.ClosedDate == nil || it.ActivatedDate == nil || it.ClosedDate.Before(*it.ActivatedDate) {
							t.Errorf("item %d closed without a valid date range", it.ID)
						}
						if it.ClosedDate.After(end) {
							t.Errorf("item %d closed after the sprint", it.ID)
						}
					case "New":
						if it.ActivatedDate != nil {
							t.Errorf("new item %d has an activation date", it.ID)
						}
					}
				}
			})
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := GeneratorConfig{Count: 12, Start: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), Seed: 42}
	if diff := cmp.Diff(Generate(cfg), Generate(cfg)); diff != "" {
		t.Errorf("same seed produced different sprints (-a +b):\n%s", diff)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	items := []workitem.WorkItem{{ID: 1, Title: "Fix", State: "New"}}
	if err := Save(dir, "mock", items); err != nil {
		t.Fatalf("Save: %v", err)
	}
	store := snapshot.NewStore(dir)
	found, err := store.Load("mock")
	if err != nil || !found {
		t.Fatalf("Load: found=%v err=%v", found, err)
	}
	got, _ := store.Get("mock")
	if diff := cmp.Diff(items, got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultOutDir_MatchesServiceCache(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)
	t.Setenv("SPRINTS_FILE", filepath.Join(dir, "sprints.yaml"))

	cfg, err := config.FromEnv("")
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if got := DefaultOutDir(); got != cfg.CacheDir {
		t.Fatalf("DefaultOutDir = %q, service cache = %q", got, cfg.CacheDir)
	}

	// A generated sprint is visible to a store over the service cache
	if err := Save(DefaultOutDir(), "mock", Generate(GeneratorConfig{Count: 3, Seed: 1})); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if found, err := snapshot.NewStore(cfg.CacheDir).Load("mock"); err != nil || !found {
		t.Errorf("Load: found=%v err=%v", found, err)
	}
}
