package depthstats

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// GroupOptions controls a grouped-statistics request.
type GroupOptions struct {
	// Calculation overrides the default mode (Weighted for continuous
	// and discrete series, Arithmetic for sampled series).
	Calculation Calculation
	// IncludeEmptyGroups surfaces groups with zero valid samples as
	// records with NaN statistics instead of omitting them.
	IncludeEmptyGroups bool
	// ForceBoundaryInsertion splits sampled series at group boundaries
	// even though point measurements are normally never split.
	ForceBoundaryInsertion bool
}

// GroupStatistics is a node in the grouped-statistics tree. Leaves carry
// a Record; interior nodes carry children, one tree level per classifier.
type GroupStatistics struct {
	Path     []GroupKey
	Record   Record
	Children []*GroupStatistics
}

// IsLeaf reports whether the node carries a record rather than children.
func (g *GroupStatistics) IsLeaf() bool { return len(g.Children) == 0 }

// MarshalJSON renders a leaf as its record and an interior node as a
// label-keyed object, matching the nested-path shape of the request.
func (g *GroupStatistics) MarshalJSON() ([]byte, error) {
	if g.IsLeaf() {
		return json.Marshal(g.Record)
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range g.Children {
		if i > 0 {
			buf.WriteByte(',')
		}
		label, err := json.Marshal(c.Path[len(c.Path)-1].Label)
		if err != nil {
			return nil, err
		}
		child, err := c.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(label)
		buf.WriteByte(':')
		buf.Write(child)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// GroupedStatistics is the complete result of a grouped request: a tree
// of records keyed by nested label paths, plus any non-fatal warnings
// raised while resolving labels.
type GroupedStatistics struct {
	Series      string           `json:"series"`
	Calculation Calculation      `json:"calculation"`
	Groups      *GroupStatistics `json:"groups"`
	Warnings    []string         `json:"warnings,omitempty"`
}

// Leaves returns the leaf nodes in first-appearance order.
func (g *GroupedStatistics) Leaves() []*GroupStatistics {
	return leavesOf(g.Groups)
}

func leavesOf(n *GroupStatistics) []*GroupStatistics {
	if n == nil {
		return nil
	}
	if n.IsLeaf() {
		return []*GroupStatistics{n}
	}
	var out []*GroupStatistics
	for _, c := range n.Children {
		out = append(out, leavesOf(c)...)
	}
	return out
}

// Lookup resolves a record by its nested label path.
func (g *GroupedStatistics) Lookup(labels ...string) (Record, bool) {
	node := g.Groups
	for _, label := range labels {
		var next *GroupStatistics
		for _, c := range node.Children {
			if c.Path[len(c.Path)-1].Label == label {
				next = c
				break
			}
		}
		if next == nil {
			return Record{}, false
		}
		node = next
	}
	if !node.IsLeaf() {
		return Record{}, false
	}
	return node.Record, true
}

// Engine computes grouped depth-weighted statistics. It is purely
// computational and safe for concurrent use across independent requests.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an engine logging through the given logger.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Group computes grouped statistics for a value series filtered by an
// ordered chain of discrete classifier series.
//
// The engine derives each classifier's boundary depths (where its
// forward-filled code changes on its own grid), corrects the value
// series' grid so no sample straddles a boundary, resamples every
// classifier onto the corrected grid, partitions the samples into the
// label hierarchy, and reduces each leaf group to a Record. Gross
// thickness sums leaf thickness across siblings sharing the same
// immediate parent.
//
// Either a full result or an error is returned, never a partial mix.
func (e *Engine) Group(ctx context.Context, series Series, classifiers []Series, opts GroupOptions) (*GroupedStatistics, error) {
	start := time.Now()

	if err := series.Validate(); err != nil {
		return nil, err
	}
	if opts.Calculation != "" && !opts.Calculation.Valid() {
		return nil, fmt.Errorf("unknown calculation mode %q", opts.Calculation)
	}
	for _, c := range classifiers {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if c.Kind != Discrete {
			return nil, fmt.Errorf("classifier %q must be discrete, got %s", c.Name, c.Kind)
		}
	}

	mode := opts.Calculation
	if mode == "" {
		if series.Kind == Sampled {
			mode = CalcArithmetic
		} else {
			mode = CalcWeighted
		}
	}

	e.logger.DebugContext(ctx, "grouping series",
		slog.String("series", series.Name),
		slog.Int("samples", series.Len()),
		slog.Int("classifiers", len(classifiers)),
		slog.String("calculation", string(mode)),
	)

	// Boundary depths come from the classifiers' own grids; corrections
	// apply to the value series being aggregated.
	var bounds []float64
	for _, c := range classifiers {
		bounds = append(bounds, ChangeDepths(c)...)
	}

	var corrected Series
	var err error
	if opts.ForceBoundaryInsertion {
		corrected, err = SplitAtBoundaries(series, bounds)
	} else {
		corrected, err = InsertBoundaries(series, bounds)
	}
	if err != nil {
		return nil, fmt.Errorf("insert boundaries: %w", err)
	}

	aligned := make([]Series, len(classifiers))
	for i, c := range classifiers {
		if c.SameGrid(corrected) == nil {
			aligned[i] = c
			continue
		}
		aligned[i], err = Resample(c, corrected.Depths)
		if err != nil {
			return nil, fmt.Errorf("align classifier %q: %w", c.Name, err)
		}
	}

	intervals, err := ComputeIntervals(corrected.Depths)
	if err != nil {
		return nil, fmt.Errorf("compute intervals: %w", err)
	}

	base := make([]int, corrected.Len())
	for i := range base {
		base[i] = i
	}
	root, warnings, err := Partition(base, aligned)
	if err != nil {
		return nil, fmt.Errorf("partition samples: %w", err)
	}

	tree, err := e.summarizeTree(root, corrected, intervals, mode, opts.IncludeEmptyGroups)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, &EmptyGroupError{Samples: corrected.Len()}
	}

	result := &GroupedStatistics{
		Series:      series.Name,
		Calculation: mode,
		Groups:      tree,
	}
	for _, w := range warnings {
		result.Warnings = append(result.Warnings, w.Warning())
	}

	e.logger.InfoContext(ctx, "grouped statistics computed",
		slog.String("series", series.Name),
		slog.Int("groups", len(result.Leaves())),
		slog.Int("warnings", len(result.Warnings)),
		slog.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// summarizeTree mirrors the partition tree into statistics nodes,
// dropping empty groups (or keeping them as NaN records) and filling in
// sibling-level gross thickness.
func (e *Engine) summarizeTree(g *Group, series Series, intervals []float64, mode Calculation, keepEmpty bool) (*GroupStatistics, error) {
	if g.IsLeaf() {
		rec, err := e.summarizeLeaf(g, series, intervals, mode, keepEmpty)
		if err != nil || rec == nil {
			return nil, err
		}
		return &GroupStatistics{Path: g.Path, Record: *rec}, nil
	}

	node := &GroupStatistics{Path: g.Path}
	for _, child := range g.Children {
		sub, err := e.summarizeTree(child, series, intervals, mode, keepEmpty)
		if err != nil {
			return nil, err
		}
		if sub != nil {
			node.Children = append(node.Children, sub)
		}
	}
	if len(node.Children) == 0 {
		return nil, nil
	}

	// Gross thickness is relative to the immediate parent: leaf
	// siblings share one total.
	var gross float64
	leafSiblings := true
	for _, c := range node.Children {
		if !c.IsLeaf() {
			leafSiblings = false
			break
		}
		gross += c.Record.Thickness
	}
	if leafSiblings {
		for _, c := range node.Children {
			c.Record.GrossThickness = gross
			if gross > 0 {
				c.Record.ThicknessFraction = c.Record.Thickness / gross
			}
		}
	}
	return node, nil
}

func (e *Engine) summarizeLeaf(g *Group, series Series, intervals []float64, mode Calculation, keepEmpty bool) (*Record, error) {
	values := make([]float64, len(g.Indices))
	weights := make([]float64, len(g.Indices))
	depths := make([]float64, len(g.Indices))
	for i, idx := range g.Indices {
		values[i] = series.Values[idx]
		weights[i] = intervals[idx]
		depths[i] = series.Depths[idx]
	}

	rec, err := Summarize(values, weights, depths, mode)
	if err != nil {
		var empty *EmptyGroupError
		if errors.As(err, &empty) {
			if !keepEmpty {
				return nil, nil
			}
			rec = emptyRecord(depths, mode)
			return &rec, nil
		}
		return nil, fmt.Errorf("summarize group %v: %w", pathLabels(g.Path), err)
	}

	// Root-only grouping: the single group covers everything.
	if len(g.Path) == 0 {
		rec.GrossThickness = rec.Thickness
		if rec.Thickness > 0 {
			rec.ThicknessFraction = 1
		}
	}
	return &rec, nil
}

func emptyRecord(depths []float64, mode Calculation) Record {
	nan := math.NaN()
	stat := Statistic{Calculation: mode, Weighted: nan, Arithmetic: nan}
	rec := Record{
		Mean:        stat,
		Sum:         stat,
		StdDev:      stat,
		Percentiles: Percentiles{P10: nan, P50: nan, P90: nan},
		Range:       Range{Min: nan, Max: nan},
		DepthRange:  Range{Min: nan, Max: nan},
		Calculation: mode,
	}
	if len(depths) > 0 {
		rec.DepthRange = Range{Min: depths[0], Max: depths[len(depths)-1]}
	}
	return rec
}

func pathLabels(path []GroupKey) []string {
	out := make([]string, len(path))
	for i, k := range path {
		out[i] = k.Label
	}
	return out
}
