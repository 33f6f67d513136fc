package depthstats_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"wellstats/internal/depthstats"
)

// Example demonstrates grouping a net-to-gross flag by a zonation log
// whose boundary falls between two samples of the value series.
func Example() {
	ntg, err := depthstats.NewSeries("NTG",
		[]float64{1500, 1501, 1505},
		[]float64{0, 1, 0},
		depthstats.Continuous,
	)
	if err != nil {
		panic(err)
	}

	zone, err := depthstats.NewSeries("Zone",
		[]float64{1500, 1503},
		[]float64{1, 2},
		depthstats.Discrete,
	)
	if err != nil {
		panic(err)
	}
	zone.Labels = map[int]string{1: "zone1", 2: "zone2"}

	engine := depthstats.NewEngine(slog.New(slog.NewTextHandler(io.Discard, nil)))
	result, err := engine.Group(context.Background(), ntg, []depthstats.Series{zone}, depthstats.GroupOptions{})
	if err != nil {
		panic(err)
	}

	for _, label := range []string{"zone1", "zone2"} {
		rec, _ := result.Lookup(label)
		fmt.Printf("%s: thickness=%.1f net=%.1f fraction=%.1f\n",
			label, rec.Thickness, rec.Sum.Value(), rec.ThicknessFraction)
	}
	// Output:
	// zone1: thickness=2.0 net=1.5 fraction=0.4
	// zone2: thickness=3.0 net=2.0 fraction=0.6
}
