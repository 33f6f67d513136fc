package depthstats

import (
	"encoding/json"
	"fmt"
	"math"
)

// Calculation selects which statistics a request reports.
type Calculation string

const (
	// CalcWeighted weights each sample by its depth interval.
	CalcWeighted Calculation = "weighted"
	// CalcArithmetic gives every sample uniform weight.
	CalcArithmetic Calculation = "arithmetic"
	// CalcBoth reports the weighted and arithmetic values side by side.
	CalcBoth Calculation = "both"
)

// Valid reports whether the calculation tag is one of the known modes.
func (c Calculation) Valid() bool {
	switch c {
	case CalcWeighted, CalcArithmetic, CalcBoth:
		return true
	}
	return false
}

// Statistic is a tagged variant: a single weighted or arithmetic value,
// or the pair of both, selected by the request's calculation mode. It
// marshals as a bare number in single mode and as a
// {"weighted": x, "arithmetic": y} object in both mode. NaN marshals
// as null.
type Statistic struct {
	Calculation Calculation `json:"-"`
	Weighted    float64     `json:"weighted"`
	Arithmetic  float64     `json:"arithmetic"`
}

// Value returns the single reported value: the weighted one unless the
// statistic is arithmetic-only.
func (s Statistic) Value() float64 {
	if s.Calculation == CalcArithmetic {
		return s.Arithmetic
	}
	return s.Weighted
}

// MarshalJSON renders the tagged variant shape.
func (s Statistic) MarshalJSON() ([]byte, error) {
	switch s.Calculation {
	case CalcBoth:
		return []byte(fmt.Sprintf(`{"weighted":%s,"arithmetic":%s}`,
			jsonFloat(s.Weighted), jsonFloat(s.Arithmetic))), nil
	case CalcArithmetic:
		return []byte(jsonFloat(s.Arithmetic)), nil
	default:
		return []byte(jsonFloat(s.Weighted)), nil
	}
}

// Percentiles holds the standard p10/p50/p90 summary.
type Percentiles struct {
	P10 float64 `json:"p10"`
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
}

// MarshalJSON renders NaN percentiles as null.
func (p Percentiles) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"p10":%s,"p50":%s,"p90":%s}`,
		jsonFloat(p.P10), jsonFloat(p.P50), jsonFloat(p.P90))), nil
}

// Range is a closed [Min, Max] interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// MarshalJSON renders NaN bounds as null.
func (r Range) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"min":%s,"max":%s}`,
		jsonFloat(r.Min), jsonFloat(r.Max))), nil
}

// Record is the statistics summary for one group.
type Record struct {
	Mean        Statistic   `json:"mean"`
	Sum         Statistic   `json:"sum"`
	StdDev      Statistic   `json:"std_dev"`
	Percentiles Percentiles `json:"percentiles"`
	Range       Range       `json:"range"`
	DepthRange  Range       `json:"depth_range"`
	// Samples counts the non-NaN values in the group.
	Samples int `json:"samples"`
	// Thickness is the interval sum over valid samples; GrossThickness
	// sums Thickness across all sibling groups under the same parent.
	Thickness         float64     `json:"thickness"`
	GrossThickness    float64     `json:"gross_thickness"`
	ThicknessFraction float64     `json:"thickness_fraction"`
	Calculation       Calculation `json:"calculation"`
}

// jsonFloat renders a float for JSON output, mapping NaN and infinities
// to null since encoding/json rejects them.
func jsonFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	b, _ := json.Marshal(f)
	return string(b)
}
