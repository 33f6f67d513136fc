// Package depthstats computes depth-interval-weighted statistics over
// irregularly sampled, depth-indexed measurement series, grouped by one
// or more chained discrete classifications (zone, facies, net flag).
//
// # Core Components
//
//  1. Intervals: each sample represents a physical thickness derived
//     from its depth grid by the midpoint rule (intervals.go). The
//     intervals telescope, so they always sum to the covered depth span.
//  2. Boundary insertion: before grouping, synthetic samples are
//     inserted at classifier boundaries so no sample's interval
//     straddles two groups (boundary.go). Synthetic samples replicate
//     the forward-filled value; a boundary is never interpolated across.
//  3. Partitioning: sample indices split into a hierarchy of groups,
//     one tree level per classifier, labels in first-appearance order
//     (partition.go).
//  4. Statistics: weighted and arithmetic mean, sum, standard
//     deviation, percentiles, ranges, thickness and thickness fraction
//     per group, with exact thickness bookkeeping (statistics.go,
//     record.go).
//  5. Resampling: linear interpolation for continuous series, forward
//     fill for discrete series, onto arbitrary target grids
//     (resample.go).
//
// The Engine (grouped.go) ties these together for a full grouped
// request. Series are immutable value objects and every transformation
// returns a new instance, so concurrent read-only use across requests
// is safe without locking.
//
// # Usage Example
//
//	phie, _ := depthstats.NewSeries("PHIE", depths, values, depthstats.Continuous)
//	zones, _ := depthstats.NewSeries("Zone", zoneDepths, zoneCodes, depthstats.Discrete)
//	zones.Labels = map[int]string{1: "Brent", 2: "Statfjord"}
//
//	engine := depthstats.NewEngine(slog.Default())
//	result, err := engine.Group(ctx, phie, []depthstats.Series{zones}, depthstats.GroupOptions{})
//	if err != nil {
//	    return err
//	}
//	brent, _ := result.Lookup("Brent")
//	fmt.Println(brent.Mean.Value(), brent.ThicknessFraction)
//
// # Error Taxonomy
//
//   - DegenerateGridError: depths empty or not strictly increasing.
//   - DepthAlignmentError: two series expected on one grid diverge.
//   - EmptyGroupError: a group has zero valid samples; the engine never
//     fabricates values for it.
//   - UnmappedLabelWarning: non-fatal, a discrete code lacks a label
//     and a generated name was used instead.
//
// All computations are deterministic and pure; errors are never retried
// internally and results are never partially mixed with failures.
package depthstats
