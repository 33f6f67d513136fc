package depthstats

import (
	"fmt"
	"math"
	"sort"
)

// Summarize reduces a group of (value, interval, depth) triples to a
// Record. Only non-NaN values contribute to statistics; the depth range
// still covers every index in the group, since depth coverage is
// independent of data validity. GrossThickness and ThicknessFraction are
// sibling-level bookkeeping filled in by the caller.
//
// A group with zero valid samples yields an EmptyGroupError: the engine
// never fabricates values for empty groups.
func Summarize(values, intervals, depths []float64, mode Calculation) (Record, error) {
	if len(values) != len(intervals) || len(values) != len(depths) {
		return Record{}, fmt.Errorf("mismatched group slices: %d values, %d intervals, %d depths",
			len(values), len(intervals), len(depths))
	}
	if !mode.Valid() {
		return Record{}, fmt.Errorf("unknown calculation mode %q", mode)
	}
	if len(values) == 0 {
		return Record{}, &EmptyGroupError{}
	}

	valid := make([]float64, 0, len(values))
	weights := make([]float64, 0, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
			weights = append(weights, intervals[i])
		}
	}
	if len(valid) == 0 {
		return Record{}, &EmptyGroupError{Samples: len(values)}
	}

	rec := Record{
		Samples:     len(valid),
		Thickness:   sum(weights),
		Calculation: mode,
		Range:       Range{Min: minOf(valid), Max: maxOf(valid)},
		DepthRange:  Range{Min: depths[0], Max: depths[len(depths)-1]},
		Mean:        Statistic{Calculation: mode},
		Sum:         Statistic{Calculation: mode},
		StdDev:      Statistic{Calculation: mode},
	}

	if mode != CalcArithmetic {
		rec.Mean.Weighted = weightedMean(valid, weights)
		rec.Sum.Weighted = weightedSum(valid, weights)
		rec.StdDev.Weighted = weightedStd(valid, weights)
		rec.Percentiles = Percentiles{
			P10: weightedPercentile(valid, weights, 10),
			P50: weightedPercentile(valid, weights, 50),
			P90: weightedPercentile(valid, weights, 90),
		}
	}
	if mode != CalcWeighted {
		uniform := uniformWeights(len(valid))
		rec.Mean.Arithmetic = sum(valid) / float64(len(valid))
		rec.Sum.Arithmetic = sum(valid)
		rec.StdDev.Arithmetic = arithmeticStd(valid)
		if mode == CalcArithmetic {
			rec.Percentiles = Percentiles{
				P10: weightedPercentile(valid, uniform, 10),
				P50: weightedPercentile(valid, uniform, 50),
				P90: weightedPercentile(valid, uniform, 90),
			}
		}
	}
	return rec, nil
}

// weightedMean is sum(w*x)/sum(w), NaN when the weights sum to zero.
func weightedMean(values, weights []float64) float64 {
	totalW := sum(weights)
	if totalW == 0 {
		return math.NaN()
	}
	return weightedSum(values, weights) / totalW
}

func weightedSum(values, weights []float64) float64 {
	var s float64
	for i, v := range values {
		s += v * weights[i]
	}
	return s
}

// weightedStd uses the population formula with interval weights. Fewer
// than two valid samples carry no spread information and yield NaN.
func weightedStd(values, weights []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	totalW := sum(weights)
	if totalW == 0 {
		return math.NaN()
	}
	mean := weightedMean(values, weights)
	var acc float64
	for i, v := range values {
		d := v - mean
		acc += weights[i] * d * d
	}
	return math.Sqrt(acc / totalW)
}

func arithmeticStd(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	mean := sum(values) / float64(len(values))
	var acc float64
	for _, v := range values {
		d := v - mean
		acc += d * d
	}
	return math.Sqrt(acc / float64(len(values)))
}

// weightedPercentile sorts (value, weight) pairs by value, builds the
// cumulative weight, and linearly interpolates the value whose cumulative
// weight fraction brackets p/100. Results clamp to the min/max value at
// the extremes.
func weightedPercentile(values, weights []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	cum := make([]float64, len(idx))
	var running float64
	for i, j := range idx {
		running += weights[j]
		cum[i] = running
	}
	if running == 0 {
		return math.NaN()
	}

	target := p / 100 * running
	k := sort.SearchFloat64s(cum, target)
	switch {
	case k == 0:
		return values[idx[0]]
	case k >= len(idx):
		return values[idx[len(idx)-1]]
	default:
		below, above := cum[k-1], cum[k]
		frac := (target - below) / (above - below)
		v0, v1 := values[idx[k-1]], values[idx[k]]
		return v0 + frac*(v1-v0)
	}
}

func uniformWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
