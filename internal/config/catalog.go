package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"sprintlens/internal/azdo"
	"sprintlens/internal/classify"
	"sprintlens/internal/stats"
	"sprintlens/internal/workitem"
)

// ErrUnknownSprint is returned when a sprint name is not in the catalog.
var ErrUnknownSprint = errors.New("unknown sprint")

// Sprint is one named iteration of the catalog.
type Sprint struct {
	Name          string `yaml:"name" json:"name"`
	IterationPath string `yaml:"iteration_path" json:"iteration_path"`
	AreaPath      string `yaml:"area_path,omitempty" json:"area_path,omitempty"`
	Tag           string `yaml:"tag,omitempty" json:"tag,omitempty"`
	Start         string `yaml:"start" json:"start"`
	End           string `yaml:"end" json:"end"`
	Label         string `yaml:"label,omitempty" json:"label,omitempty"`
}

// ClassificationOptions tunes the category rule chain.
type ClassificationOptions struct {
	InvestigateFirst bool `yaml:"investigate_first"`
}

// Catalog is the sprints.yaml document.
type Catalog struct {
	CompletedStates []string              `yaml:"completed_states"`
	RemainingStates []string              `yaml:"remaining_states"`
	WorkItemTypes   []string              `yaml:"work_item_types"`
	Classification  ClassificationOptions `yaml:"classification"`
	Sprints         []Sprint              `yaml:"sprints"`
}

// DefaultWorkItemTypes are queried when the catalog names none.
var DefaultWorkItemTypes = []string{"Bug", "User Story", "Investigate"}

// DefaultCatalog returns a catalog with default states and types and no sprints.
func DefaultCatalog() *Catalog {
	c := &Catalog{}
	c.applyDefaults()
	return c
}

func (c *Catalog) applyDefaults() {
	if len(c.CompletedStates) == 0 {
		c.CompletedStates = workitem.DefaultCompletedStates
	}
	if len(c.RemainingStates) == 0 {
		c.RemainingStates = workitem.DefaultRemainingStates
	}
	if len(c.WorkItemTypes) == 0 {
		c.WorkItemTypes = DefaultWorkItemTypes
	}
}

// ParseCatalog decodes and validates a catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	c := &Catalog{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse sprint catalog: %w", err)
	}
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadCatalog reads the catalog at path. A missing file yields the defaults.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultCatalog(), nil
		}
		return nil, fmt.Errorf("failed to read sprint catalog: %w", err)
	}
	return ParseCatalog(data)
}

func (c *Catalog) validate() error {
	seen := make(map[string]bool, len(c.Sprints))
	for i, s := range c.Sprints {
		if s.Name == "" {
			return fmt.Errorf("sprint #%d: name is required", i+1)
		}
		if seen[s.Name] {
			return fmt.Errorf("sprint %q: duplicate name", s.Name)
		}
		seen[s.Name] = true
		if _, err := s.Window(nil); err != nil {
			return fmt.Errorf("sprint %q: %w", s.Name, err)
		}
	}
	return nil
}

// Names lists sprint names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Sprints))
	for i, s := range c.Sprints {
		names[i] = s.Name
	}
	return names
}

// Sprint looks up a sprint by name.
func (c *Catalog) Sprint(name string) (Sprint, error) {
	for _, s := range c.Sprints {
		if s.Name == name {
			return s, nil
		}
	}
	known := c.Names()
	sort.Strings(known)
	return Sprint{}, fmt.Errorf("%w %q (known: %v)", ErrUnknownSprint, name, known)
}

// CompletedSet returns the configured completed states.
func (c *Catalog) CompletedSet() workitem.StateSet {
	return workitem.NewStateSet(c.CompletedStates...)
}

// RemainingSet returns the configured remaining states.
func (c *Catalog) RemainingSet() workitem.StateSet {
	return workitem.NewStateSet(c.RemainingStates...)
}

// Classifier builds the rule chain the catalog asks for.
func (c *Catalog) Classifier() *classify.Classifier {
	return classify.New(classify.WithInvestigateOrder(c.Classification.InvestigateFirst))
}

// Window parses the sprint dates into a window with the given completed states.
func (s Sprint) Window(completed workitem.StateSet) (stats.SprintWindow, error) {
	start, err := time.Parse(stats.DateLayout, s.Start)
	if err != nil {
		return stats.SprintWindow{}, fmt.Errorf("invalid start date %q: %w", s.Start, err)
	}
	end, err := time.Parse(stats.DateLayout, s.End)
	if err != nil {
		return stats.SprintWindow{}, fmt.Errorf("invalid end date %q: %w", s.End, err)
	}
	return stats.NewSprintWindow(start, end, completed)
}

// Query builds the Azure DevOps selection for the sprint.
func (s Sprint) Query(types []string) azdo.SprintQuery {
	return azdo.SprintQuery{
		IterationPath: s.IterationPath,
		AreaPath:      s.AreaPath,
		Types:         types,
		Tag:           s.Tag,
	}
}

// DisplayName prefers the label over the name.
func (s Sprint) DisplayName() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Name
}
