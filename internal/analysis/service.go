package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"sprintlens/internal/azdo"
	"sprintlens/internal/classify"
	"sprintlens/internal/config"
	"sprintlens/internal/report"
	"sprintlens/internal/snapshot"
	"sprintlens/internal/stats"
	"sprintlens/internal/workitem"
)

// ErrNoSnapshot is returned in offline mode when a sprint was never fetched.
var ErrNoSnapshot = errors.New("no snapshot available")

// DefaultCompareLimit bounds concurrent sprint fetches during a comparison.
const DefaultCompareLimit = 3

// Service resolves catalog sprints into work items, live or from snapshots, and runs
// the aggregations over them.
type Service struct {
	Catalog *config.Catalog
	Client  azdo.Client
	Store   *snapshot.Store
	Team    string
	Offline bool

	now func() time.Time
}

// NewService wires a service from the loaded configuration. The Azure DevOps client
// is only created when credentials are present and offline mode is off.
func NewService(cfg *config.AppConfig) *Service {
	s := &Service{
		Catalog: cfg.Catalog,
		Store:   snapshot.NewStore(cfg.CacheDir),
		Team:    cfg.AzDO.Team,
		Offline: cfg.Offline,
	}
	if !cfg.Offline && cfg.HasCredentials() {
		s.Client = azdo.NewClient(cfg.AzDO)
	} else if !cfg.Offline {
		log.Warn().Msg("Azure DevOps credentials incomplete; serving snapshots only")
	}
	return s
}

// Dataset is a sprint's work items together with the window they are evaluated in.
type Dataset struct {
	Sprint    config.Sprint
	Window    stats.SprintWindow
	Items     []workitem.WorkItem
	Source    report.Source
	FetchedAt time.Time
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *Service) catalog() *config.Catalog {
	if s.Catalog == nil {
		return config.DefaultCatalog()
	}
	return s.Catalog
}

// Classifier returns the rule chain configured by the catalog.
func (s *Service) Classifier() *classify.Classifier {
	return s.catalog().Classifier()
}

// Sprints lists the catalog sprints.
func (s *Service) Sprints() []config.Sprint {
	return s.catalog().Sprints
}

// Load resolves a catalog sprint into its work items. Live fetches refresh the
// snapshot; when the fetch fails an existing snapshot is served instead.
func (s *Service) Load(ctx context.Context, name string) (*Dataset, error) {
	cat := s.catalog()
	sp, err := cat.Sprint(name)
	if err != nil {
		return nil, err
	}
	window, err := sp.Window(cat.CompletedSet())
	if err != nil {
		return nil, fmt.Errorf("sprint %q: %w", name, err)
	}

	ds := &Dataset{Sprint: sp, Window: window}

	if s.Client != nil && !s.Offline {
		items, _, fetchErr := azdo.FetchSprint(ctx, s.Client, sp.Query(cat.WorkItemTypes))
		if fetchErr == nil {
			ds.Items = items
			ds.Source = report.SourceLive
			ds.FetchedAt = s.clock()
			if s.Store != nil {
				s.Store.Put(sp.Name, items)
				if err := s.Store.Save(sp.Name); err != nil {
					log.Warn().Err(err).Str("sprint", sp.Name).Msg("Failed to persist snapshot")
				}
			}
			return ds, nil
		}
		if errors.Is(fetchErr, context.Canceled) || errors.Is(fetchErr, context.DeadlineExceeded) {
			return nil, fetchErr
		}
		log.Warn().Err(fetchErr).Str("sprint", sp.Name).Msg("Live fetch failed, falling back to snapshot")
		if items, at, ok := s.fromSnapshot(sp.Name); ok {
			ds.Items, ds.FetchedAt, ds.Source = items, at, report.SourceSnapshot
			return ds, nil
		}
		return nil, fetchErr
	}

	items, at, ok := s.fromSnapshot(sp.Name)
	if !ok {
		return nil, fmt.Errorf("%w for sprint %q", ErrNoSnapshot, sp.Name)
	}
	ds.Items, ds.FetchedAt, ds.Source = items, at, report.SourceSnapshot
	return ds, nil
}

func (s *Service) fromSnapshot(name string) ([]workitem.WorkItem, time.Time, bool) {
	if s.Store == nil {
		return nil, time.Time{}, false
	}
	if items, ok := s.Store.Get(name); ok {
		return items, s.Store.SavedAt(name), true
	}
	found, err := s.Store.Load(name)
	if err != nil {
		log.Warn().Err(err).Str("sprint", name).Msg("Failed to read snapshot")
	}
	if !found {
		return nil, time.Time{}, false
	}
	items, _ := s.Store.Get(name)
	return items, s.Store.SavedAt(name), true
}

// Progress is the day-walk view of a sprint.
type Progress struct {
	Sprint string               `json:"sprint"`
	Period string               `json:"period"`
	Series stats.DailySeries    `json:"series"`
	States stats.StateBreakdown `json:"state_breakdown"`
}

// ProgressOf computes the burndown/burnup series of a loaded dataset.
func (s *Service) ProgressOf(ds *Dataset) Progress {
	cat := s.catalog()
	return Progress{
		Sprint: ds.Sprint.DisplayName(),
		Period: ds.Window.Label(),
		Series: stats.ComputeSprintProgress(ds.Window, ds.Items),
		States: stats.CalculateStateBreakdown(ds.Items, cat.RemainingSet(), ds.Window.CompletedStates),
	}
}

// SummaryOf computes the non-temporal aggregates of a loaded dataset.
func (s *Service) SummaryOf(ds *Dataset) stats.Summary {
	summary := stats.ComputeSummary(ds.Items, ds.Window.CompletedStates, s.Classifier())
	if n := completedOutside(ds); n > 0 {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("%d completed item(s) finished outside %s", n, ds.Window.Label()))
	}
	return summary
}

func completedOutside(ds *Dataset) int {
	n := 0
	for _, it := range ds.Window.CompletedStates.Completed(ds.Items) {
		if d := it.CompletionDate(); d != nil && !ds.Window.Contains(*d) {
			n++
		}
	}
	return n
}

// Progress loads a sprint and computes its daily series.
func (s *Service) Progress(ctx context.Context, name string) (Progress, error) {
	ds, err := s.Load(ctx, name)
	if err != nil {
		return Progress{}, err
	}
	return s.ProgressOf(ds), nil
}

// Summary loads a sprint and computes its summary.
func (s *Service) Summary(ctx context.Context, name string) (stats.Summary, error) {
	ds, err := s.Load(ctx, name)
	if err != nil {
		return stats.Summary{}, err
	}
	return s.SummaryOf(ds), nil
}

// Report loads a sprint and assembles everything the markdown report renders.
func (s *Service) Report(ctx context.Context, name string) (report.Report, error) {
	ds, err := s.Load(ctx, name)
	if err != nil {
		return report.Report{}, err
	}
	p := s.ProgressOf(ds)
	return report.Report{
		Sprint:      ds.Sprint.DisplayName(),
		Team:        s.Team,
		Window:      ds.Window,
		Series:      p.Series,
		States:      p.States,
		Summary:     s.SummaryOf(ds),
		Source:      ds.Source,
		GeneratedAt: s.clock(),
	}, nil
}

// Compare summarizes several sprints concurrently, at most limit at a time. Rows keep
// the order of names.
func (s *Service) Compare(ctx context.Context, names []string, limit int) ([]report.SprintRow, error) {
	if limit <= 0 {
		limit = DefaultCompareLimit
	}
	rows := make([]report.SprintRow, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, name := range names {
		g.Go(func() error {
			ds, err := s.Load(gctx, name)
			if err != nil {
				return fmt.Errorf("sprint %q: %w", name, err)
			}
			rows[i] = report.SprintRow{Sprint: ds.Sprint.DisplayName(), Summary: s.SummaryOf(ds)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}
