package testframes

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/windrose/pkg/logger"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// Verification errors.
var (
	ErrTraceCount     = errors.New("unexpected trace count")
	ErrTraceLength    = errors.New("unexpected trace length")
	ErrNotStacked     = errors.New("layers are not stacked")
	ErrPercentTotal   = errors.New("outer layer does not total 100%")
	ErrDuplicateLayer = errors.New("duplicate layer name")
)

// verifyResults checks every successful reply against the station it was
// generated from.
func verifyResults(ctx context.Context, config *Config, results []Result, stats *Stats) error {
	logger.Get().Info(ctx, "verifying results")

	checked := 0
	for i := range results {
		res := &results[i]
		if res.Err != nil {
			continue
		}
		checked++
		if err := verifyStation(config, res); err != nil {
			res.Err = err
			stats.VerifyFailures++
			logger.Get().Warn(ctx, "verification failed",
				logger.String("station", res.Station.Name),
				logger.String("requestID", res.Response.RequestID),
				logger.Error(err))
			continue
		}
		stats.StationsVerified++
	}

	if checked == 0 {
		return fmt.Errorf("no results to verify")
	}
	logger.Get().Info(ctx, "result verification completed",
		logger.Int("verified", stats.StationsVerified),
		logger.Int("failures", stats.VerifyFailures))
	return nil
}

// verifyStation checks one wind rose: one layer per speed bin, fixed layer
// lengths, unique names, non-decreasing radii from the inner layer out, and
// an outer layer whose sector radii total 100.
func verifyStation(config *Config, res *Result) error {
	traces := res.Response.Traces
	want := expectedBins(res.Station.MaxSpeed, config.Interval)
	if len(traces) != want {
		return fmt.Errorf("%w: got %d want %d", ErrTraceCount, len(traces), want)
	}
	if want == 0 {
		return nil
	}

	perSector := config.FanSamples + 1
	points := config.Petals * perSector
	seen := make(map[string]struct{}, len(traces))
	for i, tr := range traces {
		if len(tr.Theta) != points || len(tr.R) != points {
			return fmt.Errorf("%w: layer %d has %d/%d points, want %d", ErrTraceLength, i, len(tr.Theta), len(tr.R), points)
		}
		if _, dup := seen[tr.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateLayer, tr.Name)
		}
		seen[tr.Name] = struct{}{}
	}

	// Layers arrive outermost first.
	diff := make([]float64, points)
	for i := 1; i < len(traces); i++ {
		floats.SubTo(diff, traces[i-1].R, traces[i].R)
		if floats.Min(diff) < -percentTolerance {
			return fmt.Errorf("%w: %q dips below %q", ErrNotStacked, traces[i-1].Name, traces[i].Name)
		}
	}

	outer := sectorRadii(traces[0], perSector)
	if total := floats.Sum(outer); !scalar.EqualWithinAbs(total, PercentageMultiplier, percentTolerance) {
		return fmt.Errorf("%w: %.9f", ErrPercentTotal, total)
	}
	return nil
}

// sectorRadii picks the radius of each sector from a layer's fan outline.
func sectorRadii(tr Trace, perSector int) []float64 {
	out := make([]float64, 0, len(tr.R)/perSector)
	for k := 0; k+perSector <= len(tr.R); k += perSector {
		out = append(out, tr.R[k])
	}
	return out
}
