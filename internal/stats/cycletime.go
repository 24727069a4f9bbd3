package stats

import (
	"slices"
	"sort"

	"sprintlens/internal/classify"
	"sprintlens/internal/workitem"
)

// PerformanceTier is a fixed-boundary cycle-time classification.
type PerformanceTier string

const (
	TierFast   PerformanceTier = "Fast"   // <= 7 days
	TierNormal PerformanceTier = "Normal" // <= 14 days
	TierSlow   PerformanceTier = "Slow"   // > 14 days
)

// ClassifyCycleTime maps days onto Fast/Normal/Slow.
func ClassifyCycleTime(days float64) PerformanceTier {
	switch {
	case days <= 7:
		return TierFast
	case days <= 14:
		return TierNormal
	default:
		return TierSlow
	}
}

// CycleTimeItem is a work item with its measured cycle time.
type CycleTimeItem struct {
	ID       int               `json:"id"`
	Title    string            `json:"title"`
	Assignee string            `json:"assignee"`
	Category classify.Category `json:"category"`
	Days     float64           `json:"cycle_time_days"`
	Tier     PerformanceTier   `json:"tier"`
}

// CycleTimeStats summarizes cycle times over the items where one is defined.
// Available is false when no sample exists; ThresholdAvailable is false below two samples.
type CycleTimeStats struct {
	Available          bool                          `json:"available"`
	SampleSize         int                           `json:"sample_size"`
	Excluded           int                           `json:"excluded"`
	Mean               float64                       `json:"mean"`
	Median             float64                       `json:"median"`
	Min                float64                       `json:"min"`
	Max                float64                       `json:"max"`
	StdDev             float64                       `json:"stddev"`
	ThresholdAvailable bool                          `json:"threshold_available"`
	Threshold          float64                       `json:"threshold"`
	LongRunning        []CycleTimeItem               `json:"long_running,omitempty"`
	Tiers              map[PerformanceTier]int       `json:"tiers"`
	ByCategory         map[classify.Category]float64 `json:"by_category,omitempty"`
	SlowestCategory    classify.Category             `json:"slowest_category,omitempty"`
	FastestCategory    classify.Category             `json:"fastest_category,omitempty"`
	Items              []CycleTimeItem               `json:"items,omitempty"`
}

// CalculateCycleTimeStats computes descriptive statistics and flags long-running items,
// those above mean + 1 sample stddev.
func CalculateCycleTimeStats(items []workitem.WorkItem, c *classify.Classifier) CycleTimeStats {
	res := CycleTimeStats{
		Tiers: map[PerformanceTier]int{TierFast: 0, TierNormal: 0, TierSlow: 0},
	}

	var values []float64
	byCategory := make(map[classify.Category][]float64)
	for _, it := range items {
		days, ok := it.CycleTimeDays()
		if !ok {
			res.Excluded++
			continue
		}
		ci := CycleTimeItem{
			ID:       it.ID,
			Title:    it.Title,
			Assignee: it.AssigneeOrDefault(),
			Category: c.Classify(it.Title, it.Type, it.Tags),
			Days:     days,
			Tier:     ClassifyCycleTime(days),
		}
		res.Items = append(res.Items, ci)
		res.Tiers[ci.Tier]++
		values = append(values, days)
		byCategory[ci.Category] = append(byCategory[ci.Category], days)
	}

	res.SampleSize = len(values)
	if res.SampleSize == 0 {
		return res
	}

	res.Available = true
	res.Mean = CalculateMean(values)
	res.Median = CalculateMedianContinuous(values)
	res.Min = slices.Min(values)
	res.Max = slices.Max(values)

	if sd, ok := CalculateSampleStdDev(values); ok {
		res.StdDev = sd
		res.ThresholdAvailable = true
		res.Threshold = res.Mean + sd
		for _, ci := range res.Items {
			if ci.Days > res.Threshold {
				res.LongRunning = append(res.LongRunning, ci)
			}
		}
		sort.SliceStable(res.LongRunning, func(i, j int) bool {
			return res.LongRunning[i].Days > res.LongRunning[j].Days
		})
	}

	res.ByCategory = make(map[classify.Category]float64, len(byCategory))
	cats := make([]classify.Category, 0, len(byCategory))
	for cat, v := range byCategory {
		res.ByCategory[cat] = CalculateMean(v)
		cats = append(cats, cat)
	}
	if len(cats) > 1 {
		slices.Sort(cats)
		res.SlowestCategory, res.FastestCategory = cats[0], cats[0]
		for _, cat := range cats[1:] {
			if res.ByCategory[cat] > res.ByCategory[res.SlowestCategory] {
				res.SlowestCategory = cat
			}
			if res.ByCategory[cat] < res.ByCategory[res.FastestCategory] {
				res.FastestCategory = cat
			}
		}
	}

	return res
}
