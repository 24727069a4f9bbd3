package stats

import (
	"math"
	"testing"
)

func TestCalculateMedianContinuous(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"Empty", []float64{}, 0},
		{"SingleItem", []float64{5.5}, 5.5},
		{"OddCount", []float64{1.1, 3.3, 2.2, 4.4, 5.5}, 3.3},
		{"EvenCount", []float64{1.1, 2.2, 3.3, 4.4}, 2.75},
		{"Unsorted", []float64{10.5, 2.5, 8.5, 4.5, 6.5}, 6.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateMedianContinuous(tt.values); got != tt.expected {
				t.Errorf("CalculateMedianContinuous() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCalculateMedianContinuous_DoesNotMutate(t *testing.T) {
	values := []float64{3, 1, 2}
	_ = CalculateMedianContinuous(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input slice mutated: %v", values)
	}
}

func TestCalculateSampleStdDev(t *testing.T) {
	if _, ok := CalculateSampleStdDev([]float64{4}); ok {
		t.Error("expected no stddev for a single sample")
	}

	// Sample stddev of 2,4,4,4,5,5,7,9 is sqrt(32/7).
	got, ok := CalculateSampleStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if !ok {
		t.Fatal("expected stddev to be available")
	}
	want := math.Sqrt(32.0 / 7.0)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("CalculateSampleStdDev() = %v, want %v", got, want)
	}
}

func TestPercentage(t *testing.T) {
	if got := Percentage(5, 0); got != 0 {
		t.Errorf("Percentage(5, 0) = %v, want 0", got)
	}
	if got := Round1(Percentage(30, 33)); got != 90.9 {
		t.Errorf("Round1(Percentage(30, 33)) = %v, want 90.9", got)
	}
}
