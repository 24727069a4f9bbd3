package stats

import (
	"math"
	"slices"
	"strings"

	"sprintlens/internal/classify"
	"sprintlens/internal/workitem"
)

// Hero score weights.
const (
	weightPoints     = 40.0
	weightEfficiency = 30.0
	weightComplexity = 20.0
	weightVolume     = 10.0
)

const scoreEpsilon = 1e-9

// Contributor holds the per-assignee inputs and normalized shares of the hero score.
type Contributor struct {
	Name             string            `json:"name"`
	Points           float64           `json:"story_points"`
	Items            int               `json:"items_completed"`
	TotalCycleDays   float64           `json:"total_cycle_time_days"`
	AvgCycleDays     float64           `json:"avg_cycle_time_days"`
	Efficiency       float64           `json:"efficiency"`
	Complexity       float64           `json:"complexity"`
	PointsShare      float64           `json:"points_share"`
	EfficiencyShare  float64           `json:"efficiency_share"`
	ComplexityShare  float64           `json:"complexity_share"`
	VolumeShare      float64           `json:"volume_share"`
	Score            float64           `json:"hero_score"`
	PointsPercentage float64           `json:"points_percentage"`
	CategoryFocus    classify.Category `json:"category_focus"`
}

// Hero is the single winning contributor plus the full ranking.
type Hero struct {
	Contributor
	Ranking []Contributor `json:"ranking"`
}

// CalculateHero scores every assignee with at least one completed item and returns the
// winner, or nil when there is none. Items must already be filtered to completed ones.
// Unassigned work does not compete. Ties go to more points, then the lexicographically
// first name.
func CalculateHero(completed []workitem.WorkItem, c *classify.Classifier) *Hero {
	byName := make(map[string]*Contributor)
	cycleCount := make(map[string]int)
	focus := make(map[string]map[classify.Category]int)
	totalPoints := 0.0

	for _, it := range completed {
		totalPoints += it.Points()
		name := it.AssigneeOrDefault()
		if name == workitem.Unassigned {
			continue
		}
		ct, ok := byName[name]
		if !ok {
			ct = &Contributor{Name: name}
			byName[name] = ct
			focus[name] = make(map[classify.Category]int)
		}
		ct.Points += it.Points()
		ct.Items++
		if days, ok := it.CycleTimeDays(); ok {
			ct.TotalCycleDays += days
			cycleCount[name]++
		}
		focus[name][c.Classify(it.Title, it.Type, it.Tags)]++
	}

	if len(byName) == 0 {
		return nil
	}

	var maxPoints, maxEff, maxCx float64
	var maxItems int
	ranking := make([]Contributor, 0, len(byName))
	for name, ct := range byName {
		if ct.TotalCycleDays > 0 {
			ct.Efficiency = ct.Points / ct.TotalCycleDays
		}
		if n := cycleCount[name]; n > 0 {
			ct.AvgCycleDays = ct.TotalCycleDays / float64(n)
		}
		ct.Complexity = ct.Points / float64(ct.Items)
		ct.PointsPercentage = Percentage(ct.Points, totalPoints)
		ct.CategoryFocus = modeCategory(focus[name])

		maxPoints = math.Max(maxPoints, ct.Points)
		maxEff = math.Max(maxEff, ct.Efficiency)
		maxCx = math.Max(maxCx, ct.Complexity)
		if ct.Items > maxItems {
			maxItems = ct.Items
		}
		ranking = append(ranking, *ct)
	}

	for i := range ranking {
		ct := &ranking[i]
		ct.PointsShare = share(ct.Points, maxPoints)
		ct.EfficiencyShare = share(ct.Efficiency, maxEff)
		ct.ComplexityShare = share(ct.Complexity, maxCx)
		ct.VolumeShare = share(float64(ct.Items), float64(maxItems))
		ct.Score = weightPoints*ct.PointsShare +
			weightEfficiency*ct.EfficiencyShare +
			weightComplexity*ct.ComplexityShare +
			weightVolume*ct.VolumeShare
	}

	slices.SortFunc(ranking, compareContributors)

	return &Hero{Contributor: ranking[0], Ranking: ranking}
}

func share(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return v / max
}

// compareContributors orders by score desc, points desc, name asc.
func compareContributors(a, b Contributor) int {
	if math.Abs(a.Score-b.Score) > scoreEpsilon {
		if a.Score > b.Score {
			return -1
		}
		return 1
	}
	if math.Abs(a.Points-b.Points) > scoreEpsilon {
		if a.Points > b.Points {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Name, b.Name)
}

func modeCategory(counts map[classify.Category]int) classify.Category {
	best := classify.Other
	bestN := 0
	for cat, n := range counts {
		if n > bestN || (n == bestN && cat < best) {
			best, bestN = cat, n
		}
	}
	return best
}
