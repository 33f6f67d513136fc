package depthstats

import (
	"fmt"
	"math"
)

// GroupKey identifies one level of a group's position in the hierarchy.
type GroupKey struct {
	Classifier string `json:"classifier"`
	Label      string `json:"label"`
}

// Group is a node in the partition tree. Leaf groups carry the sample
// indices belonging to them; every level partitions its parent's indices
// exactly (no overlap, no gap).
type Group struct {
	Path     []GroupKey
	Indices  []int
	Children []*Group
}

// IsLeaf reports whether the group has no deeper classifier level.
func (g *Group) IsLeaf() bool { return len(g.Children) == 0 }

// Leaves returns the leaf groups in depth-first, first-appearance order.
func (g *Group) Leaves() []*Group {
	if g.IsLeaf() {
		return []*Group{g}
	}
	var out []*Group
	for _, c := range g.Children {
		out = append(out, c.Leaves()...)
	}
	return out
}

// Partition splits the base indices into a hierarchy of groups, one tree
// level per classifier, in order. Labels group in first-appearance order,
// NaN codes form their own "NaN" group, and codes without a label entry
// get a generated fallback name, reported as an UnmappedLabelWarning.
// Labels that never occur within a subset are omitted rather than
// emitted empty.
//
// All classifiers must share one depth grid; zero classifiers yield a
// single root group holding every base index.
func Partition(baseIndices []int, classifiers []Series) (*Group, []Warning, error) {
	for i, c := range classifiers {
		if err := c.Validate(); err != nil {
			return nil, nil, err
		}
		if i > 0 {
			if err := classifiers[0].SameGrid(c); err != nil {
				return nil, nil, err
			}
		}
	}
	if len(classifiers) > 0 {
		n := classifiers[0].Len()
		for _, idx := range baseIndices {
			if idx < 0 || idx >= n {
				return nil, nil, fmt.Errorf("base index %d out of range for %d samples", idx, n)
			}
		}
	}

	root := &Group{Indices: append([]int(nil), baseIndices...)}
	seen := map[GroupKey]bool{} // dedupe unmapped-code warnings
	var warnings []Warning
	split(root, classifiers, seen, &warnings)
	return root, warnings, nil
}

func split(g *Group, classifiers []Series, seen map[GroupKey]bool, warnings *[]Warning) {
	if len(classifiers) == 0 {
		return
	}
	c := classifiers[0]

	order := []string{}
	byLabel := map[string][]int{}
	for _, idx := range g.Indices {
		label := classifierLabel(c, c.Values[idx], seen, warnings)
		if _, ok := byLabel[label]; !ok {
			order = append(order, label)
		}
		byLabel[label] = append(byLabel[label], idx)
	}

	for _, label := range order {
		child := &Group{
			Path:    appendKey(g.Path, GroupKey{Classifier: c.Name, Label: label}),
			Indices: byLabel[label],
		}
		g.Children = append(g.Children, child)
		split(child, classifiers[1:], seen, warnings)
	}
}

func classifierLabel(c Series, code float64, seen map[GroupKey]bool, warnings *[]Warning) string {
	if math.IsNaN(code) {
		return "NaN"
	}
	if code != math.Trunc(code) {
		// Non-integer codes should not occur in a discrete series but
		// must still group deterministically.
		return fmt.Sprintf("%s_%.2f", c.Name, code)
	}
	intCode := int(code)
	label, mapped := c.Label(intCode)
	if !mapped {
		key := GroupKey{Classifier: c.Name, Label: label}
		if !seen[key] {
			seen[key] = true
			*warnings = append(*warnings, UnmappedLabelWarning{
				Classifier: c.Name, Code: intCode, Fallback: label,
			})
		}
	}
	return label
}

func appendKey(path []GroupKey, key GroupKey) []GroupKey {
	out := make([]GroupKey, len(path)+1)
	copy(out, path)
	out[len(path)] = key
	return out
}
