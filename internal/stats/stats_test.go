package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAnalyzeKnownValues(t *testing.T) {
	s := Analyze([]int{2, 4, 4, 4, 5, 5, 7, 9})

	if s.Games != 8 {
		t.Errorf("Expected 8 games, got %d", s.Games)
	}
	if !almostEqual(s.Mean, 5.0) {
		t.Errorf("Expected mean 5.0, got %f", s.Mean)
	}
	// Population standard deviation of this set is exactly 2.
	if !almostEqual(s.StdDev, 2.0) {
		t.Errorf("Expected population stddev 2.0, got %f", s.StdDev)
	}
	if !almostEqual(s.Median, 4.5) {
		t.Errorf("Expected median 4.5, got %f", s.Median)
	}
	if s.Min != 2 || s.Max != 9 {
		t.Errorf("Expected min 2 max 9, got %d %d", s.Min, s.Max)
	}
}

func TestAnalyzeOddMedian(t *testing.T) {
	s := Analyze([]int{9, 3, 5})
	if !almostEqual(s.Median, 5.0) {
		t.Errorf("Expected median 5, got %f", s.Median)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	s := Analyze(nil)
	if s.Games != 0 || s.Mean != 0 || s.Min != 0 || s.Max != 0 {
		t.Errorf("Empty input should yield a zero summary, got %+v", s)
	}
}

func TestHistogramBinning(t *testing.T) {
	shots := make([]int, 0, 40)
	for v := 61; v <= 100; v++ {
		shots = append(shots, v)
	}
	h := NewHistogram(shots, DefaultBins)

	if len(h.Centers) != DefaultBins || len(h.Counts) != DefaultBins {
		t.Fatalf("Expected %d bins, got %d centers / %d counts", DefaultBins, len(h.Centers), len(h.Counts))
	}

	total := 0.0
	for _, count := range h.Counts {
		total += count
	}
	if total != float64(len(shots)) {
		t.Errorf("Histogram drops observations: %0.f binned of %d", total, len(shots))
	}

	for i := 1; i < len(h.Centers); i++ {
		if h.Centers[i] <= h.Centers[i-1] {
			t.Fatalf("Bin centers not increasing at %d", i)
		}
	}
}

func TestHistogramDegenerate(t *testing.T) {
	h := NewHistogram([]int{50, 50, 50}, DefaultBins)
	if len(h.Centers) != 1 {
		t.Fatalf("Expected a single bin for constant input, got %d", len(h.Centers))
	}
	if h.Counts[0] != 3 {
		t.Errorf("Expected count 3, got %f", h.Counts[0])
	}
	if h.Centers[0] != 50 {
		t.Errorf("Expected center 50, got %f", h.Centers[0])
	}
}

func TestHistogramEmpty(t *testing.T) {
	h := NewHistogram(nil, DefaultBins)
	if len(h.Centers) != 0 || len(h.Counts) != 0 {
		t.Errorf("Empty input should yield empty histogram, got %+v", h)
	}
}

func TestOneWayANOVASeparatedGroups(t *testing.T) {
	// Means far apart relative to spread: the difference must register
	// as significant.
	a := []int{40, 42, 41, 43, 44, 42, 41, 40, 43, 42}
	b := []int{60, 62, 61, 63, 64, 62, 61, 60, 63, 62}
	result := OneWayANOVA(a, b)

	if result.F <= 1 {
		t.Errorf("Expected a large F statistic, got %f", result.F)
	}
	if result.P >= 0.05 {
		t.Errorf("Expected p < 0.05, got %f", result.P)
	}
	if !result.Significant {
		t.Error("Clearly separated groups not flagged significant")
	}
}

func TestOneWayANOVAIdenticalGroups(t *testing.T) {
	g := []int{50, 55, 60, 52, 58}
	result := OneWayANOVA(g, g)

	if !almostEqual(result.F, 0) {
		t.Errorf("Identical groups should give F=0, got %f", result.F)
	}
	if !almostEqual(result.P, 1) {
		t.Errorf("Identical groups should give p=1, got %f", result.P)
	}
	if result.Significant {
		t.Error("Identical groups flagged significant")
	}
}

func TestOneWayANOVATooFewGroups(t *testing.T) {
	result := OneWayANOVA([]int{1, 2, 3})
	if result.F != 0 || result.P != 1 || result.Significant {
		t.Errorf("Single group should be inconclusive, got %+v", result)
	}

	result = OneWayANOVA()
	if result.P != 1 {
		t.Errorf("No groups should yield p=1, got %+v", result)
	}
}

func TestOneWayANOVAZeroWithinVariance(t *testing.T) {
	result := OneWayANOVA([]int{5, 5, 5}, []int{9, 9, 9})
	if !math.IsInf(result.F, 1) {
		t.Errorf("Constant distinct groups should give F=+Inf, got %f", result.F)
	}
	if result.P != 0 || !result.Significant {
		t.Errorf("Expected p=0 significant, got %+v", result)
	}
}
