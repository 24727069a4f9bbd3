package engine

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"sprintlens/internal/config"
	"sprintlens/internal/snapshot"
	"sprintlens/internal/workitem"
)

type GeneratorConfig struct {
	Scenario     string // "steady", "late" or "chaos"
	Distribution string // "uniform" or "weibull"
	Count        int
	Start        time.Time
	Days         int
	Team         []string
	Seed         int64
}

// DefaultTeam is used when the config names no assignees.
var DefaultTeam = []string{"Ana Souza", "Bram de Vries", "Chen Wei", "Dara Okafor"}

var titles = []struct {
	title, typ string
	tags       []string
}{
	{"Fix crash when saving draft", "Bug", nil},
	{"Add REST endpoint for exports", "User Story", nil},
	{"Update settings page layout", "User Story", nil},
	{"Migrate reports table to new schema", "User Story", nil},
	{"Write regression tests for billing", "User Story", nil},
	{"Configure pipeline deploy stage", "User Story", nil},
	{"Redesign onboarding flow", "User Story", []string{"UXE"}},
	{"Investigate slow search queries", "Investigate", nil},
	{"Add unit tests for the api client", "User Story", nil},
	{"Refresh dashboard component styles", "User Story", nil},
}

var points = []float64{1, 2, 3, 5, 8}

// Generate builds a synthetic sprint. Each item gets a sampled cycle time in days;
// items whose sampled completion falls inside the window are closed on that day.
func Generate(cfg GeneratorConfig) []workitem.WorkItem {
	if cfg.Start.IsZero() {
		cfg.Start = time.Now().AddDate(0, 0, -7)
	}
	if cfg.Days <= 0 {
		cfg.Days = 10
	}
	if len(cfg.Team) == 0 {
		cfg.Team = DefaultTeam
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	start := time.Date(cfg.Start.Year(), cfg.Start.Month(), cfg.Start.Day(), 9, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, cfg.Days-1)

	items := make([]workitem.WorkItem, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		tpl := titles[i%len(titles)]
		created := start.AddDate(0, 0, -rng.Intn(5)-1)

		// Activation spreads across the first part of the sprint
		activateDay := float64(cfg.Days) * 0.6 * float64(i) / float64(max(cfg.Count, 1))
		k, lambda := 2.5, 3.5
		switch cfg.Scenario {
		case "late":
			activateDay += float64(cfg.Days) * 0.3
		case "chaos":
			k = 0.8
		}

		var duration float64
		if cfg.Distribution == "weibull" {
			duration = weibullSample(rng, k, lambda)
		} else {
			duration = 1.0 + rng.Float64()*4.0
			if cfg.Scenario == "chaos" && rng.Float64() < 0.2 {
				duration += 6 + rng.Float64()*8
			}
		}

		it := workitem.WorkItem{
			ID:          1000 + i,
			Title:       tpl.title,
			Type:        tpl.typ,
			State:       "New",
			Assignee:    cfg.Team[i%len(cfg.Team)],
			StoryPoints: points[rng.Intn(len(points))],
			Tags:        tpl.tags,
			CreatedDate: ptr(created),
		}
		// Some work is left unassigned
		if rng.Float64() < 0.1 {
			it.Assignee = ""
		}

		activated := start.Add(time.Duration(activateDay * 24 * float64(time.Hour)))
		if activated.After(end) {
			items = append(items, it)
			continue
		}
		it.State = "Active"
		it.ActivatedDate = ptr(activated)

		closed := activated.Add(time.Duration(duration * 24 * float64(time.Hour)))
		if !closed.After(end) {
			it.State = "Closed"
			it.ResolvedDate = ptr(closed)
			it.ClosedDate = ptr(closed)
		}
		items = append(items, it)
	}
	return items
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

// DefaultOutDir is the snapshot directory sprintlens reads from, resolved the same way
// as its configuration: DATA_PATH, else the binary's directory.
func DefaultOutDir() string {
	return config.CacheDir(config.DataPath(config.ExeDir()))
}

// Save writes the items as the named sprint's snapshot in outDir.
func Save(outDir, sprint string, items []workitem.WorkItem) error {
	store := snapshot.NewStore(outDir)
	store.Put(sprint, items)
	if err := store.Save(sprint); err != nil {
		return fmt.Errorf("save mock sprint %s: %w", sprint, err)
	}
	return nil
}

func ptr(t time.Time) *time.Time { return &t }
