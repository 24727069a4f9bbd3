package stats

import (
	"math"
	"slices"
)

// CalculateMedianContinuous finds the median value in a slice of floats.
func CalculateMedianContinuous(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	// Work on a copy to avoid mutating the original
	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	n := len(temp)
	if n%2 == 1 {
		return temp[n/2]
	}
	return (temp[n/2-1] + temp[n/2]) / 2.0
}

// CalculateMean returns the arithmetic mean, or 0 for an empty slice.
func CalculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// CalculateSampleStdDev returns the n-1 standard deviation. ok is false below two samples.
func CalculateSampleStdDev(values []float64) (float64, bool) {
	if len(values) < 2 {
		return 0, false
	}
	mean := CalculateMean(values)
	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1)), true
}

// Percentage returns part/total*100, or 0 when total is not positive.
func Percentage(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total * 100
}

// Round1 rounds to one decimal place for presentation.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
