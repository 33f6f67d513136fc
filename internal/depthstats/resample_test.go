package depthstats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResampleLinear(t *testing.T) {
	s, err := NewSeries("PHIE", []float64{1500, 1502, 1504}, []float64{0.1, 0.3, 0.2}, Continuous)
	require.NoError(t, err)

	out, err := Resample(s, []float64{1499, 1500, 1501, 1503, 1504, 1505})
	require.NoError(t, err)

	assert.True(t, math.IsNaN(out.Values[0]), "below range")
	assert.Equal(t, 0.1, out.Values[1])
	assert.InDelta(t, 0.2, out.Values[2], 1e-12)
	assert.InDelta(t, 0.25, out.Values[3], 1e-12)
	assert.Equal(t, 0.2, out.Values[4])
	assert.True(t, math.IsNaN(out.Values[5]), "above range")
}

func TestResampleSkipsNaNDuringInterpolation(t *testing.T) {
	s, err := NewSeries("PHIE", []float64{1500, 1502, 1504}, []float64{0.1, math.NaN(), 0.3}, Continuous)
	require.NoError(t, err)

	out, err := Resample(s, []float64{1501, 1503})
	require.NoError(t, err)

	// Interpolation bridges the NaN hole using the valid neighbors.
	assert.InDelta(t, 0.15, out.Values[0], 1e-12)
	assert.InDelta(t, 0.25, out.Values[1], 1e-12)
}

func TestResampleDiscreteForwardFill(t *testing.T) {
	s, err := NewSeries("Zone", []float64{1500, 1503}, []float64{1, 2}, Discrete)
	require.NoError(t, err)

	out, err := Resample(s, []float64{1499, 1500, 1501.5, 1503, 1510})
	require.NoError(t, err)

	assert.True(t, math.IsNaN(out.Values[0]), "before first sample")
	assert.Equal(t, float64(1), out.Values[1])
	assert.Equal(t, float64(1), out.Values[2], "code holds until the next boundary")
	assert.Equal(t, float64(2), out.Values[3], "boundary sample takes the new code")
	assert.Equal(t, float64(2), out.Values[4], "discrete codes extend below the last sample")
}

// Resampling a series onto its own grid must reproduce it exactly,
// including NaN holes.
func TestResampleIdentityRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
	}{
		{"continuous", Continuous},
		{"discrete", Discrete},
		{"sampled", Sampled},
	}

	depths := []float64{1500, 1500.5, 1502, 1503.25, 1509}
	values := []float64{0.1, math.NaN(), 0.3, 0.25, math.NaN()}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSeries("x", depths, values, tt.kind)
			require.NoError(t, err)

			out, err := Resample(s, depths)
			require.NoError(t, err)
			require.Len(t, out.Values, len(values))
			for i, v := range values {
				if math.IsNaN(v) {
					assert.True(t, math.IsNaN(out.Values[i]), "index %d", i)
				} else {
					assert.Equal(t, v, out.Values[i], "index %d", i)
				}
			}
		})
	}
}

func TestResampleAllNaNSource(t *testing.T) {
	s, err := NewSeries("x", []float64{1500, 1501}, []float64{math.NaN(), math.NaN()}, Continuous)
	require.NoError(t, err)

	out, err := Resample(s, []float64{1500.2, 1500.8})
	require.NoError(t, err)
	for _, v := range out.Values {
		assert.True(t, math.IsNaN(v))
	}
}

func TestResampleRejectsBadTargetGrid(t *testing.T) {
	s, err := NewSeries("x", []float64{1500, 1501}, []float64{1, 2}, Continuous)
	require.NoError(t, err)

	_, err = Resample(s, []float64{1501, 1500})
	var degenerate *DegenerateGridError
	assert.ErrorAs(t, err, &degenerate)
}
