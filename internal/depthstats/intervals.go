package depthstats

import "math"

// ComputeIntervals derives the depth interval (thickness) represented by
// each sample using the midpoint rule: a sample owns the half-span toward
// each neighbor, the first and last samples the half-span toward their
// single neighbor. The intervals telescope, so for n >= 2 they sum to
// exactly depths[n-1] - depths[0], which keeps thickness-fraction
// bookkeeping exact.
//
// A single-sample grid has no representable thickness and yields [0].
// Depths must be strictly increasing; the caller contract is never
// repaired by sorting.
func ComputeIntervals(depths []float64) ([]float64, error) {
	n := len(depths)
	if n == 0 {
		return nil, &DegenerateGridError{Index: -1, Reason: "empty depth grid"}
	}
	for i := 1; i < n; i++ {
		if math.IsNaN(depths[i]) || math.IsNaN(depths[i-1]) || depths[i] <= depths[i-1] {
			return nil, &DegenerateGridError{
				Index: i, Prev: depths[i-1], Depth: depths[i],
				Reason: "depths not strictly increasing",
			}
		}
	}

	intervals := make([]float64, n)
	if n == 1 {
		return intervals, nil
	}

	intervals[0] = (depths[1] - depths[0]) / 2
	for i := 1; i < n-1; i++ {
		intervals[i] = (depths[i+1] - depths[i-1]) / 2
	}
	intervals[n-1] = (depths[n-1] - depths[n-2]) / 2
	return intervals, nil
}
