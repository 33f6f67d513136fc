package depthstats

import (
	"fmt"
	"strings"
)

// DegenerateGridError reports a depth grid that violates the strictly
// increasing, non-empty contract. Index is the first offending position
// (-1 for an empty grid).
type DegenerateGridError struct {
	Series string
	Index  int
	Prev   float64
	Depth  float64
	Reason string
}

func (e *DegenerateGridError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("degenerate depth grid in %q: %s", e.Series, e.Reason)
	}
	return fmt.Sprintf("degenerate depth grid in %q at index %d (%.4f -> %.4f): %s",
		e.Series, e.Index, e.Prev, e.Depth, e.Reason)
}

// DepthAlignmentError reports two series that were expected to share a
// depth grid but do not.
type DepthAlignmentError struct {
	Series  string
	Other   string
	Index   int
	Depth   float64
	Other2  float64
	Lengths [2]int
}

func (e *DepthAlignmentError) Error() string {
	if e.Lengths[0] != e.Lengths[1] {
		return fmt.Sprintf("depth grids of %q (%d samples) and %q (%d samples) differ in length",
			e.Series, e.Lengths[0], e.Other, e.Lengths[1])
	}
	return fmt.Sprintf("depth grids of %q and %q diverge at index %d: %.4f vs %.4f",
		e.Series, e.Other, e.Index, e.Depth, e.Other2)
}

// EmptyGroupError reports a group with no valid (non-NaN) samples.
type EmptyGroupError struct {
	Path    []string
	Samples int
}

func (e *EmptyGroupError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("group has no valid samples (%d total)", e.Samples)
	}
	return fmt.Sprintf("group %s has no valid samples (%d total)",
		strings.Join(e.Path, "/"), e.Samples)
}

// Warning is a non-fatal condition reported alongside a result.
type Warning interface {
	Warning() string
}

// UnmappedLabelWarning reports a discrete code that lacks a label entry.
// The engine proceeds with a generated fallback name.
type UnmappedLabelWarning struct {
	Classifier string
	Code       int
	Fallback   string
}

func (w UnmappedLabelWarning) Warning() string {
	return fmt.Sprintf("classifier %q has no label for code %d, using %q",
		w.Classifier, w.Code, w.Fallback)
}
