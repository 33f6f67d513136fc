package depthstats

import (
	"math"
	"sort"
)

// Resample maps a series onto an arbitrary strictly increasing target
// depth grid. Continuous and Sampled series interpolate linearly between
// valid (non-NaN) samples; Discrete series carry the previous valid code
// forward. Target depths outside the valid source range become NaN.
//
// A target depth that exactly matches a source depth takes the source
// value verbatim, NaN included, so resampling a series onto its own grid
// is the identity.
func Resample(s Series, target []float64) (Series, error) {
	if err := s.Validate(); err != nil {
		return Series{}, err
	}
	grid := Series{Name: s.Name, Depths: target, Values: make([]float64, len(target))}
	if err := grid.Validate(); err != nil {
		return Series{}, err
	}

	// Valid samples only; NaN values never take part in interpolation.
	validDepths := make([]float64, 0, len(s.Depths))
	validValues := make([]float64, 0, len(s.Values))
	for i, v := range s.Values {
		if !math.IsNaN(v) {
			validDepths = append(validDepths, s.Depths[i])
			validValues = append(validValues, v)
		}
	}

	values := make([]float64, len(target))
	for i, t := range target {
		values[i] = sampleAt(s, validDepths, validValues, t)
	}

	out := s
	out.Depths = append([]float64(nil), target...)
	out.Values = values
	return out, nil
}

func sampleAt(s Series, validDepths, validValues []float64, t float64) float64 {
	// Exact source sample wins, preserving NaN holes.
	if k := sort.SearchFloat64s(s.Depths, t); k < len(s.Depths) && s.Depths[k] == t {
		return s.Values[k]
	}
	if len(validDepths) == 0 {
		return math.NaN()
	}

	k := sort.SearchFloat64s(validDepths, t)
	switch s.Kind {
	case Discrete:
		// Forward fill: the code established above t still holds.
		if k == 0 {
			return math.NaN()
		}
		return validValues[k-1]
	default:
		if k == 0 || k == len(validDepths) {
			return math.NaN()
		}
		d0, d1 := validDepths[k-1], validDepths[k]
		v0, v1 := validValues[k-1], validValues[k]
		frac := (t - d0) / (d1 - d0)
		return v0 + frac*(v1-v0)
	}
}
