package depthstats

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeWeighted(t *testing.T) {
	// NTG flag over the boundary-corrected worked grid.
	values := []float64{0, 1, 1, 0}
	intervals := []float64{0.5, 1.5, 2, 1}
	depths := []float64{1500, 1501, 1503, 1505}

	rec, err := Summarize(values, intervals, depths, CalcWeighted)
	require.NoError(t, err)

	assert.InDelta(t, 3.5, rec.Sum.Value(), 1e-12, "net thickness: 1*1.5 + 1*2.0")
	assert.InDelta(t, 0.7, rec.Mean.Value(), 1e-12, "3.5 / 5.0")
	assert.Equal(t, 4, rec.Samples)
	assert.InDelta(t, 5.0, rec.Thickness, 1e-12)
	assert.Equal(t, Range{Min: 0, Max: 1}, rec.Range)
	assert.Equal(t, Range{Min: 1500, Max: 1505}, rec.DepthRange)
	assert.Equal(t, CalcWeighted, rec.Calculation)
}

func TestSummarizeArithmetic(t *testing.T) {
	values := []float64{2, 4, 6, math.NaN()}
	intervals := []float64{1, 1, 1, 1}
	depths := []float64{1500, 1501, 1502, 1503}

	rec, err := Summarize(values, intervals, depths, CalcArithmetic)
	require.NoError(t, err)

	assert.InDelta(t, 4, rec.Mean.Value(), 1e-12)
	assert.InDelta(t, 12, rec.Sum.Value(), 1e-12)
	assert.Equal(t, 3, rec.Samples)
	assert.InDelta(t, 3, rec.Thickness, 1e-12, "thickness stays physical in arithmetic mode")
	assert.Equal(t, Range{Min: 1500, Max: 1503}, rec.DepthRange, "depth range covers NaN samples too")

	// Population standard deviation, ddof=0.
	assert.InDelta(t, math.Sqrt(8.0/3.0), rec.StdDev.Value(), 1e-12)
}

// With uniform intervals the weighted mean must equal the arithmetic
// mean: a regression check against the plain average.
func TestWeightedMatchesArithmeticOnUniformGrid(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for trial := 0; trial < 20; trial++ {
		n := 3 + rng.Intn(100)
		values := make([]float64, n)
		intervals := make([]float64, n)
		depths := make([]float64, n)
		for i := range values {
			values[i] = rng.NormFloat64()
			intervals[i] = 0.5
			depths[i] = 1000 + float64(i)*0.5
		}

		rec, err := Summarize(values, intervals, depths, CalcBoth)
		require.NoError(t, err)
		assert.InDelta(t, rec.Mean.Arithmetic, rec.Mean.Weighted, 1e-9)
		assert.InDelta(t, rec.StdDev.Arithmetic, rec.StdDev.Weighted, 1e-9)
	}
}

func TestSummarizePercentiles(t *testing.T) {
	t.Run("monotonic", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		for trial := 0; trial < 20; trial++ {
			n := 2 + rng.Intn(80)
			values := make([]float64, n)
			intervals := make([]float64, n)
			depths := make([]float64, n)
			for i := range values {
				values[i] = rng.NormFloat64() * 10
				intervals[i] = 0.1 + rng.Float64()
				depths[i] = 2000 + float64(i)
			}

			rec, err := Summarize(values, intervals, depths, CalcWeighted)
			require.NoError(t, err)
			assert.LessOrEqual(t, rec.Percentiles.P10, rec.Percentiles.P50)
			assert.LessOrEqual(t, rec.Percentiles.P50, rec.Percentiles.P90)
			assert.GreaterOrEqual(t, rec.Percentiles.P10, rec.Range.Min)
			assert.LessOrEqual(t, rec.Percentiles.P90, rec.Range.Max)
		}
	})

	t.Run("heavy weight dominates the median", func(t *testing.T) {
		values := []float64{0, 10}
		intervals := []float64{9, 1}
		depths := []float64{1500, 1510}

		rec, err := Summarize(values, intervals, depths, CalcWeighted)
		require.NoError(t, err)
		// Cumulative weight reaches 50% well inside the heavy sample.
		assert.Less(t, rec.Percentiles.P50, 5.0)
	})

	t.Run("extremes clamp to min and max", func(t *testing.T) {
		assert.Equal(t, 1.0, weightedPercentile([]float64{1, 2, 3}, []float64{1, 1, 1}, 0))
		assert.Equal(t, 3.0, weightedPercentile([]float64{1, 2, 3}, []float64{1, 1, 1}, 100))
	})
}

func TestSummarizeEmptyGroup(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"all NaN", []float64{math.NaN(), math.NaN()}},
		{"no samples", []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intervals := make([]float64, len(tt.values))
			depths := make([]float64, len(tt.values))
			for i := range depths {
				depths[i] = 1500 + float64(i)
			}
			_, err := Summarize(tt.values, intervals, depths, CalcWeighted)
			var empty *EmptyGroupError
			assert.ErrorAs(t, err, &empty)
		})
	}
}

func TestSummarizeStdDevNeedsTwoSamples(t *testing.T) {
	rec, err := Summarize([]float64{5}, []float64{1}, []float64{1500}, CalcBoth)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(rec.StdDev.Weighted))
	assert.True(t, math.IsNaN(rec.StdDev.Arithmetic))
}

func TestStatisticJSONShapes(t *testing.T) {
	t.Run("single value", func(t *testing.T) {
		b, err := json.Marshal(Statistic{Calculation: CalcWeighted, Weighted: 0.5})
		require.NoError(t, err)
		assert.JSONEq(t, `0.5`, string(b))
	})

	t.Run("dual value", func(t *testing.T) {
		b, err := json.Marshal(Statistic{Calculation: CalcBoth, Weighted: 0.5, Arithmetic: 0.4})
		require.NoError(t, err)
		assert.JSONEq(t, `{"weighted":0.5,"arithmetic":0.4}`, string(b))
	})

	t.Run("NaN marshals as null", func(t *testing.T) {
		b, err := json.Marshal(Statistic{Calculation: CalcArithmetic, Arithmetic: math.NaN()})
		require.NoError(t, err)
		assert.Equal(t, `null`, string(b))

		b, err = json.Marshal(Range{Min: math.NaN(), Max: 3})
		require.NoError(t, err)
		assert.JSONEq(t, `{"min":null,"max":3}`, string(b))
	})
}
