package depthstats

import "sort"

// InsertBoundaries returns a copy of the series with synthetic samples
// inserted at every boundary depth that falls strictly inside one of the
// series' intervals, so that no sample's interval straddles a group
// boundary. The synthetic value replicates the sample immediately above
// the boundary (forward fill); a boundary is never interpolated across.
//
// Boundaries that coincide with an existing depth, or fall outside the
// depth range, need no correction and are skipped. Series of kind
// Sampled are returned unchanged: point measurements are never split.
// Use SplitAtBoundaries to override that.
func InsertBoundaries(s Series, boundaries []float64) (Series, error) {
	if s.Kind == Sampled {
		return s, nil
	}
	return SplitAtBoundaries(s, boundaries)
}

// SplitAtBoundaries is InsertBoundaries without the Sampled-kind guard.
func SplitAtBoundaries(s Series, boundaries []float64) (Series, error) {
	if err := s.Validate(); err != nil {
		return Series{}, err
	}
	if len(boundaries) == 0 {
		return s, nil
	}

	bounds := append([]float64(nil), boundaries...)
	sort.Float64s(bounds)

	depths := s.Depths
	n := len(depths)

	// Collect the boundaries that actually subdivide an interval.
	type insertion struct {
		after int // index of the sample preceding the boundary
		depth float64
	}
	var inserts []insertion
	prev := depths[0] // dedupe repeated boundary depths
	for i, b := range bounds {
		if i > 0 && b == prev {
			continue
		}
		prev = b
		k := sort.SearchFloat64s(depths, b)
		if k < n && depths[k] == b {
			continue // already a sample, boundary is exact
		}
		if k == 0 || k == n {
			continue // outside the covered range
		}
		inserts = append(inserts, insertion{after: k - 1, depth: b})
	}
	if len(inserts) == 0 {
		return s, nil
	}

	newDepths := make([]float64, 0, n+len(inserts))
	newValues := make([]float64, 0, n+len(inserts))
	next := 0
	for i := 0; i < n; i++ {
		newDepths = append(newDepths, depths[i])
		newValues = append(newValues, s.Values[i])
		for next < len(inserts) && inserts[next].after == i {
			newDepths = append(newDepths, inserts[next].depth)
			newValues = append(newValues, s.Values[i])
			next++
		}
	}

	out := s
	out.Depths = newDepths
	out.Values = newValues
	return out, nil
}

// ChangeDepths returns the depths at which a discrete series' forward-
// filled code changes value: every depth[i] (i >= 1) whose value differs
// from value[i-1]. A transition into or out of NaN counts as a change,
// since NaN samples form their own group.
func ChangeDepths(s Series) []float64 {
	var out []float64
	for i := 1; i < len(s.Values); i++ {
		if !sameCode(s.Values[i-1], s.Values[i]) {
			out = append(out, s.Depths[i])
		}
	}
	return out
}

func sameCode(a, b float64) bool {
	if isNaN(a) && isNaN(b) {
		return true
	}
	if isNaN(a) || isNaN(b) {
		return false
	}
	return a == b
}

func isNaN(v float64) bool { return v != v }
