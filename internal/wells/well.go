package wells

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"wellstats/internal/depthstats"
)

// depthTolerance treats depths closer than this as the same sample when
// merging series loaded from multiple sources.
const depthTolerance = 1e-6

// Well holds the named measurement series of a single well. Series may
// live on different depth grids; alignment happens at computation time.
// A Well is safe for concurrent use.
type Well struct {
	Name string

	mu     sync.RWMutex
	series map[string]depthstats.Series
	order  []string // display names in load order
}

// NewWell creates an empty well.
func NewWell(name string) *Well {
	return &Well{
		Name:   name,
		series: make(map[string]depthstats.Series),
	}
}

// AddSeries stores a series under its key. Loading a series whose key
// already exists merges the two by depth: samples are combined, sorted,
// and de-duplicated keeping the first occurrence.
func (w *Well) AddSeries(s depthstats.Series) error {
	if err := s.Validate(); err != nil {
		return err
	}
	key := Normalize(s.Name)
	if key == "" {
		return fmt.Errorf("series name must not be empty")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	existing, ok := w.series[key]
	if !ok {
		w.series[key] = s
		w.order = append(w.order, s.Name)
		return nil
	}

	merged, err := mergeSeries(existing, s)
	if err != nil {
		return fmt.Errorf("merge series %q: %w", s.Name, err)
	}
	w.series[key] = merged
	return nil
}

// Series resolves a series by name.
func (w *Well) Series(name string) (depthstats.Series, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s, ok := w.series[Normalize(name)]
	if !ok {
		return depthstats.Series{}, &NotFoundError{
			Kind: "series", Name: name, Scope: w.Name, Available: w.namesLocked(),
		}
	}
	return s, nil
}

// SeriesNames lists the series display names in load order.
func (w *Well) SeriesNames() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.namesLocked()
}

func (w *Well) namesLocked() []string {
	return append([]string(nil), w.order...)
}

// Classifiers resolves an ordered chain of discrete series by name.
func (w *Well) Classifiers(names ...string) ([]depthstats.Series, error) {
	out := make([]depthstats.Series, 0, len(names))
	for _, name := range names {
		s, err := w.Series(name)
		if err != nil {
			return nil, err
		}
		if s.Kind != depthstats.Discrete {
			return nil, fmt.Errorf("series %q must be discrete to classify, got %s", name, s.Kind)
		}
		out = append(out, s)
	}
	return out, nil
}

// Attach resamples a discrete classifier onto a value series' depth
// grid, the way chained filters align in a grouped request.
func (w *Well) Attach(valueName, classifierName string) (depthstats.Series, error) {
	value, err := w.Series(valueName)
	if err != nil {
		return depthstats.Series{}, err
	}
	chain, err := w.Classifiers(classifierName)
	if err != nil {
		return depthstats.Series{}, err
	}
	return depthstats.Resample(chain[0], value.Depths)
}

// ResampleAll maps every series onto the target grid, replacing the
// stored series. Continuous series interpolate linearly, discrete ones
// forward fill.
func (w *Well) ResampleAll(target []float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	resampled := make(map[string]depthstats.Series, len(w.series))
	for key, s := range w.series {
		out, err := depthstats.Resample(s, target)
		if err != nil {
			return fmt.Errorf("resample series %q: %w", s.Name, err)
		}
		resampled[key] = out
	}
	w.series = resampled
	return nil
}

// DepthRange returns the overall depth span covered by any series.
func (w *Well) DepthRange() (min, max float64, ok bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	first := true
	for _, s := range w.series {
		lo, hi := s.DepthRange()
		if first || lo < min {
			min = lo
		}
		if first || hi > max {
			max = hi
		}
		first = false
	}
	return min, max, !first
}

func mergeSeries(a, b depthstats.Series) (depthstats.Series, error) {
	type sample struct {
		depth, value float64
	}
	combined := make([]sample, 0, a.Len()+b.Len())
	for i := range a.Depths {
		combined = append(combined, sample{a.Depths[i], a.Values[i]})
	}
	for i := range b.Depths {
		combined = append(combined, sample{b.Depths[i], b.Values[i]})
	}
	sort.SliceStable(combined, func(i, j int) bool { return combined[i].depth < combined[j].depth })

	depths := make([]float64, 0, len(combined))
	values := make([]float64, 0, len(combined))
	for i, smp := range combined {
		if i > 0 && smp.depth-depths[len(depths)-1] <= depthTolerance {
			continue // keep the first sample at a duplicated depth
		}
		depths = append(depths, smp.depth)
		values = append(values, smp.value)
	}

	merged := a
	merged.Depths = depths
	merged.Values = values
	if merged.Labels == nil {
		merged.Labels = b.Labels
	}
	return merged, merged.Validate()
}

// Normalize maps a display name to its registry key: lower-cased with
// runs of non-alphanumeric characters collapsed to single underscores.
func Normalize(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
