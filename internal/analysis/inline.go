package analysis

import (
	"fmt"
	"time"

	"sprintlens/internal/config"
	"sprintlens/internal/stats"
	"sprintlens/internal/workitem"
)

// InlineSprint is the sprint name given to caller-supplied datasets.
const InlineSprint = "inline"

// InlineDataset wraps caller-supplied items in a window. Empty completedStates fall
// back to the catalog's.
func (s *Service) InlineDataset(start, end string, completedStates []string, items []workitem.WorkItem) (*Dataset, error) {
	completed := s.catalog().CompletedSet()
	if len(completedStates) > 0 {
		completed = workitem.NewStateSet(completedStates...)
	}

	startT, err := time.Parse(stats.DateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q (want YYYY-MM-DD): %w", start, err)
	}
	endT, err := time.Parse(stats.DateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q (want YYYY-MM-DD): %w", end, err)
	}
	window, err := stats.NewSprintWindow(startT, endT, completed)
	if err != nil {
		return nil, err
	}

	return &Dataset{
		Sprint: config.Sprint{Name: InlineSprint, Start: start, End: end},
		Window: window,
		Items:  items,
	}, nil
}
