package testframes

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/okian/windrose/pkg/logger"
	"gonum.org/v1/gonum/floats"
)

// File permission constants.
const (
	directoryPermission = 0750
	reportPermission    = 0600
)

// topStations is the number of windiest stations logged at the end.
const topStations = 10

// StationReport summarises one station in the report file.
type StationReport struct {
	Name          string  `json:"name"`
	RequestID     string  `json:"request_id,omitempty"`
	Layers        int     `json:"layers"`
	Cached        bool    `json:"cached"`
	MaxSpeed      float64 `json:"max_speed"`
	Prevailing    float64 `json:"prevailing_deg"`
	DominantPetal float64 `json:"dominant_petal_deg"`
	Share         float64 `json:"dominant_share_pct"`
	Error         string  `json:"error,omitempty"`
}

// buildReport derives per-station summaries, including the petal holding the
// largest share of observations.
func buildReport(config *Config, results []Result) []StationReport {
	out := make([]StationReport, len(results))
	for i, res := range results {
		rep := StationReport{
			Name:       res.Station.Name,
			RequestID:  res.Response.RequestID,
			Layers:     len(res.Response.Traces),
			Cached:     res.Response.Cached,
			MaxSpeed:   res.Station.MaxSpeed,
			Prevailing: res.Station.Prevailing,
		}
		if res.Err != nil {
			rep.Error = res.Err.Error()
		} else if len(res.Response.Traces) > 0 {
			radii := sectorRadii(res.Response.Traces[0], config.FanSamples+1)
			if len(radii) > 0 {
				d := floats.MaxIdx(radii)
				rep.DominantPetal = float64(d) * 360 / float64(len(radii))
				rep.Share = radii[d]
			}
		}
		out[i] = rep
	}
	return out
}

// angularGap is the unsigned difference of two bearings in degrees.
func angularGap(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	return math.Min(d, 360-d)
}

// saveReport writes the station summaries to a JSON file.
func saveReport(ctx context.Context, config *Config, report []StationReport) error {
	if len(report) == 0 {
		return fmt.Errorf("no stations to save")
	}

	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "frames_report_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), reportPermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logger.Get().Info(ctx, "report saved to file", logger.String("filename", filename))
	return nil
}

// displayTopStations logs the stations with the strongest wind, and in
// verbose mode how far each dominant petal sits from the drawn prevailing
// direction.
func displayTopStations(ctx context.Context, report []StationReport, verbose bool) {
	ok := make([]StationReport, 0, len(report))
	for _, r := range report {
		if r.Error == "" {
			ok = append(ok, r)
		}
	}
	sort.Slice(ok, func(i, j int) bool { return ok[i].MaxSpeed > ok[j].MaxSpeed })

	n := min(topStations, len(ok))
	for i := 0; i < n; i++ {
		logger.Get().Info(ctx, "windy station",
			logger.Int("rank", i+1),
			logger.String("station", ok[i].Name),
			logger.Float64("maxSpeed", ok[i].MaxSpeed),
			logger.Int("layers", ok[i].Layers),
			logger.Float64("dominantPetal", ok[i].DominantPetal))
	}

	if verbose && len(ok) > 0 {
		gaps := make([]float64, len(ok))
		for i, r := range ok {
			gaps[i] = angularGap(r.Prevailing, r.DominantPetal)
		}
		logger.Get().Info(ctx, "dominant petal offset",
			logger.Float64("meanDeg", floats.Sum(gaps)/float64(len(gaps))),
			logger.Float64("maxDeg", floats.Max(gaps)))
	}
}
