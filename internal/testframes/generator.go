package testframes

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"

	"github.com/google/uuid"
	"github.com/okian/windrose/internal/domain/frame"
	"github.com/okian/windrose/internal/domain/options"
	"github.com/okian/windrose/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	regimeDivisor      = 5
)

// Wind regimes: a base speed and a spread drawn on top of it.
const (
	calmBase     = 0.0
	calmRange    = 1.5
	breezeBase   = 1.5
	breezeRange  = 6.0
	windyBase    = 6.0
	windyRange   = 8.0
	galeBase     = 14.0
	galeRange    = 10.0
	gustyBase    = 0.5
	gustyRange   = 20.0
	prevailingSD = 45.0
)

// Field names of the generated frames.
const (
	dirField   = "wind_dir"
	speedField = "wind_speed"
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateStations creates the requested number of station requests with
// unique names.
func generateStations(ctx context.Context, config *Config, stats *Stats) ([]Station, error) {
	logger.Get().Info(ctx, "generating stations", logger.Int("stations", config.NumStations))

	names := make([]string, config.NumStations)
	for i := range names {
		names[i] = "station-" + uuid.NewString()
	}

	type stationResult struct {
		index   int
		station Station
		err     error
	}
	resultChan := make(chan stationResult, config.NumStations)

	workerCount := min(config.Workers, config.NumStations)
	perWorker := config.NumStations / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * perWorker
		end := start + perWorker
		if worker == workerCount-1 {
			end = config.NumStations // Last worker gets remaining stations
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- stationResult{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- stationResult{index: i, station: generateStation(names[i], config)}
				}
			}
		}(start, end)
	}

	stations := make([]Station, config.NumStations)
	for i := 0; i < config.NumStations; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during station generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate station %d: %w", result.index, result.err)
			}
			stations[result.index] = result.station
		}
	}

	stats.StationsGenerated = len(stations)
	logger.Get().Info(ctx, "generated stations successfully", logger.Int("count", len(stations)))
	return stations, nil
}

// generateStation draws observations around a random prevailing direction
// and builds the wind-rose request for them.
func generateStation(name string, config *Config) Station {
	n := config.Observations
	prevailing := 360 * getRandomFloat()
	regime, _ := rand.Int(rand.Reader, big.NewInt(regimeDivisor))

	times := make([]any, n)
	dirs := make([]any, n)
	speeds := make([]any, n)
	maxSpeed := 0.0
	for i := 0; i < n; i++ {
		speed := generateSpeed(regime.Int64())
		maxSpeed = math.Max(maxSpeed, speed)
		times[i] = float64(i) * 600
		dirs[i] = math.Mod(prevailing+prevailingSD*gaussian()+360, 360)
		speeds[i] = speed
	}

	req := Request{Frames: []frame.Frame{{
		Name: name,
		Fields: []frame.Field{
			{Name: frame.TimeFieldName, Type: frame.FieldTypeTime, Values: times},
			{Name: dirField, Type: frame.FieldTypeNumber, Values: dirs},
			{Name: speedField, Type: frame.FieldTypeNumber, Values: speeds},
		},
	}}}
	req.Options.Mapping = options.Mapping{Angle: dirField, Magnitude: speedField}
	req.Options.Settings.Plot = options.PlotWindrose
	req.Options.Settings.Petals = config.Petals
	req.Options.Settings.WindSpeedInterval = config.Interval

	return Station{Name: name, MaxSpeed: maxSpeed, Prevailing: prevailing, Request: req}
}

// generateSpeed draws one speed of the given regime.
func generateSpeed(regime int64) float64 {
	switch regime {
	case 0:
		return calmBase + getRandomFloat()*calmRange
	case 1:
		return breezeBase + getRandomFloat()*breezeRange
	case 2:
		return windyBase + getRandomFloat()*windyRange
	case 3:
		return galeBase + getRandomFloat()*galeRange
	default:
		return gustyBase + math.Pow(getRandomFloat(), 2)*gustyRange
	}
}

// gaussian returns a standard normal draw (Box-Muller).
func gaussian() float64 {
	u := math.Max(getRandomFloat(), 1.0/randomFloatDivisor)
	v := getRandomFloat()
	return math.Sqrt(-2*math.Log(u)) * math.Cos(2*math.Pi*v)
}

// expectedBins is the number of speed bins the service builds for a station.
func expectedBins(maxSpeed, interval float64) int {
	return int(math.Ceil(maxSpeed / interval))
}
