package depthstats

import (
	"fmt"
	"math"
)

// Kind classifies how a series' values behave between samples.
type Kind int

const (
	// Continuous values vary smoothly with depth (porosity, saturation).
	Continuous Kind = iota
	// Discrete values are integer codes that hold between samples
	// (zone index, net flag, facies).
	Discrete
	// Sampled values are point measurements (core plugs) with no
	// physical extent between samples.
	Sampled
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Discrete:
		return "discrete"
	case Sampled:
		return "sampled"
	default:
		return "unknown"
	}
}

// Series is an immutable depth-indexed measurement series. Depths are
// strictly increasing with no NaN; Values may contain NaN for absent
// samples. All operations return new instances rather than mutating.
type Series struct {
	Name   string
	Unit   string
	Kind   Kind
	Depths []float64
	Values []float64
	// Labels maps discrete codes to display names. Only meaningful
	// when Kind is Discrete; a code without an entry gets a generated
	// fallback name during grouping.
	Labels map[int]string
}

// NewSeries builds a validated Series. It copies neither slice; callers
// hand over ownership.
func NewSeries(name string, depths, values []float64, kind Kind) (Series, error) {
	s := Series{Name: name, Depths: depths, Values: values, Kind: kind}
	if err := s.Validate(); err != nil {
		return Series{}, err
	}
	return s, nil
}

// Validate checks the Series invariants: equal lengths, at least one
// sample, strictly increasing NaN-free depths.
func (s Series) Validate() error {
	if len(s.Depths) == 0 {
		return &DegenerateGridError{Series: s.Name, Index: -1, Reason: "empty depth grid"}
	}
	if len(s.Depths) != len(s.Values) {
		return fmt.Errorf("series %q: %d depths but %d values", s.Name, len(s.Depths), len(s.Values))
	}
	if math.IsNaN(s.Depths[0]) {
		return &DegenerateGridError{Series: s.Name, Index: 0, Depth: s.Depths[0], Reason: "NaN depth"}
	}
	for i := 1; i < len(s.Depths); i++ {
		if math.IsNaN(s.Depths[i]) {
			return &DegenerateGridError{
				Series: s.Name, Index: i, Prev: s.Depths[i-1], Depth: s.Depths[i],
				Reason: "NaN depth",
			}
		}
		if s.Depths[i] <= s.Depths[i-1] {
			return &DegenerateGridError{
				Series: s.Name, Index: i, Prev: s.Depths[i-1], Depth: s.Depths[i],
				Reason: "depths not strictly increasing",
			}
		}
	}
	return nil
}

// Len returns the number of samples.
func (s Series) Len() int { return len(s.Depths) }

// DepthRange returns the first and last depth.
func (s Series) DepthRange() (min, max float64) {
	return s.Depths[0], s.Depths[len(s.Depths)-1]
}

// WithValues returns a copy of the series carrying new values on the
// same depth grid and metadata.
func (s Series) WithValues(values []float64) (Series, error) {
	if len(values) != len(s.Depths) {
		return Series{}, fmt.Errorf("series %q: %d values for %d depths", s.Name, len(values), len(s.Depths))
	}
	out := s
	out.Values = values
	return out, nil
}

// SameGrid reports whether two series share an identical depth grid.
// On mismatch it returns a DepthAlignmentError describing the first
// divergence.
func (s Series) SameGrid(other Series) error {
	if len(s.Depths) != len(other.Depths) {
		return &DepthAlignmentError{
			Series: s.Name, Other: other.Name,
			Lengths: [2]int{len(s.Depths), len(other.Depths)},
		}
	}
	for i := range s.Depths {
		if s.Depths[i] != other.Depths[i] {
			return &DepthAlignmentError{
				Series: s.Name, Other: other.Name,
				Index: i, Depth: s.Depths[i], Other2: other.Depths[i],
				Lengths: [2]int{len(s.Depths), len(other.Depths)},
			}
		}
	}
	return nil
}

// Label resolves the display name for a discrete code, falling back to
// a generated "{name}_{code}" when the code is unmapped. The second
// return reports whether the mapping was present.
func (s Series) Label(code int) (string, bool) {
	if s.Labels != nil {
		if label, ok := s.Labels[code]; ok {
			return label, true
		}
	}
	return fmt.Sprintf("%s_%d", s.Name, code), false
}
