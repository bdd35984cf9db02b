// Package stats summarizes batch shot counts and compares batches
// across algorithms.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Summary holds descriptive statistics for one batch's shot counts.
type Summary struct {
	Games  int     `json:"games"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
}

// Analyze computes descriptive statistics over shot counts. StdDev is
// the population standard deviation: a batch is the whole population of
// games played, not a sample of one.
func Analyze(shots []int) Summary {
	if len(shots) == 0 {
		return Summary{}
	}
	xs := toFloats(shots)
	sort.Float64s(xs)

	return Summary{
		Games:  len(shots),
		Mean:   stat.Mean(xs, nil),
		Median: median(xs),
		StdDev: stat.PopStdDev(xs, nil),
		Min:    int(xs[0]),
		Max:    int(xs[len(xs)-1]),
	}
}

// Histogram bins shot counts into the given number of equal-width bins
// across [min, max]. Centers and Counts are parallel slices.
type Histogram struct {
	Centers []float64 `json:"centers"`
	Counts  []float64 `json:"counts"`
}

// DefaultBins matches the bin count the result plots use.
const DefaultBins = 20

// NewHistogram bins the shot counts. Degenerate input (all counts
// equal) produces a single bin holding everything.
func NewHistogram(shots []int, bins int) Histogram {
	if len(shots) == 0 || bins < 1 {
		return Histogram{}
	}
	xs := toFloats(shots)
	sort.Float64s(xs)

	lo, hi := xs[0], xs[len(xs)-1]
	if lo == hi {
		return Histogram{
			Centers: []float64{lo},
			Counts:  []float64{float64(len(xs))},
		}
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// The final divider must cover the max value itself.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, xs, nil)

	centers := make([]float64, bins)
	for i := range centers {
		centers[i] = (dividers[i] + dividers[i+1]) / 2
	}
	return Histogram{Centers: centers, Counts: counts}
}

// ANOVA is the result of a one-way analysis of variance across batches.
type ANOVA struct {
	F           float64 `json:"f_statistic"`
	P           float64 `json:"p_value"`
	Significant bool    `json:"significant"`
}

// significanceLevel is the alpha used for the Significant flag.
const significanceLevel = 0.05

// OneWayANOVA tests whether the group means differ. Fewer than two
// groups, or groups without enough observations, yield F=0 and p=1.
func OneWayANOVA(groups ...[]int) ANOVA {
	if len(groups) < 2 {
		return ANOVA{P: 1}
	}

	total := 0
	grandSum := 0.0
	for _, g := range groups {
		total += len(g)
		for _, v := range g {
			grandSum += float64(v)
		}
	}
	dfBetween := float64(len(groups) - 1)
	dfWithin := float64(total - len(groups))
	if total == 0 || dfWithin <= 0 {
		return ANOVA{P: 1}
	}
	grandMean := grandSum / float64(total)

	ssBetween := 0.0
	ssWithin := 0.0
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		xs := toFloats(g)
		mean := stat.Mean(xs, nil)
		ssBetween += float64(len(g)) * (mean - grandMean) * (mean - grandMean)
		for _, x := range xs {
			ssWithin += (x - mean) * (x - mean)
		}
	}

	if ssWithin == 0 {
		if ssBetween == 0 {
			return ANOVA{P: 1}
		}
		return ANOVA{F: math.Inf(1), P: 0, Significant: true}
	}

	f := (ssBetween / dfBetween) / (ssWithin / dfWithin)
	dist := distuv.F{D1: dfBetween, D2: dfWithin}
	p := dist.Survival(f)
	return ANOVA{F: f, P: p, Significant: p < significanceLevel}
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func toFloats(shots []int) []float64 {
	xs := make([]float64, len(shots))
	for i, s := range shots {
		xs[i] = float64(s)
	}
	return xs
}
