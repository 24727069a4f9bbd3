package mcp

import (
	"context"
	"fmt"

	"sprintlens/internal/analysis"
	"sprintlens/internal/config"
)

func (s *Server) handleClassify(ctx context.Context, in ClassifyInput) (Envelope, error) {
	category := s.svc.Classifier().Classify(in.Title, in.Type, in.Tags)
	return Envelope{Data: map[string]any{
		"title":    in.Title,
		"category": category,
	}}, nil
}

func (s *Server) resolveDataset(ctx context.Context, in SprintInput) (*analysis.Dataset, error) {
	if in.Sprint != "" {
		if len(in.Items) > 0 {
			return nil, fmt.Errorf("provide either 'sprint' or inline 'items', not both")
		}
		return s.svc.Load(ctx, in.Sprint)
	}
	if in.Start == "" || in.End == "" {
		return nil, fmt.Errorf("either 'sprint' or both 'start' and 'end' are required")
	}
	return s.svc.InlineDataset(in.Start, in.End, in.CompletedStates, analysis.ToWorkItems(in.Items))
}

func (s *Server) handleProgress(ctx context.Context, in SprintInput) (Envelope, error) {
	ds, err := s.resolveDataset(ctx, in)
	if err != nil {
		return Envelope{}, err
	}
	p := s.svc.ProgressOf(ds)

	var warnings []string
	if p.Series.UndatedCompleted > 0 {
		warnings = append(warnings, fmt.Sprintf("%d completed item(s) have no completion date and count only on the final day", p.Series.UndatedCompleted))
	}
	if len(ds.Items) == 0 {
		warnings = append(warnings, "no work items in scope; the series is all zeros")
	}
	return Envelope{Data: p, Warnings: warnings}, nil
}

func (s *Server) handleSummary(ctx context.Context, in SprintInput) (Envelope, error) {
	ds, err := s.resolveDataset(ctx, in)
	if err != nil {
		return Envelope{}, err
	}
	summary := s.svc.SummaryOf(ds)
	return Envelope{
		Data: map[string]any{
			"sprint":  ds.Sprint.DisplayName(),
			"period":  ds.Window.Label(),
			"source":  ds.Source,
			"summary": summary,
		},
		Warnings: summary.Warnings,
	}, nil
}

func (s *Server) handleListSprints(ctx context.Context, in ListSprintsInput) (Envelope, error) {
	sprints := s.svc.Sprints()
	if sprints == nil {
		sprints = []config.Sprint{}
	}
	var warnings []string
	if len(sprints) == 0 {
		warnings = append(warnings, "the sprint catalog is empty; pass 'start', 'end' and 'items' inline instead")
	}
	return Envelope{Data: map[string]any{"sprints": sprints}, Warnings: warnings}, nil
}
