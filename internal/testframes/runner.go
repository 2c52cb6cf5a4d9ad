package testframes

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/windrose/pkg/logger"
)

// Run executes the complete frame test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting windrose frame test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("stations", config.NumStations),
		logger.Int("observations", config.Observations),
		logger.Int("petals", config.Petals),
		logger.Float64("interval", config.Interval),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.String("logFile", config.LogFile),
		logger.Bool("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate stations
	stations, err := generateStations(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("station generation failed: %w", err)
	}

	// Step 3: Submit stations concurrently
	results := submitStations(ctx, config, stations, stats)

	// Step 4: Verify the wind roses
	if err := verifyResults(ctx, config, results, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 5: Report
	report := buildReport(config, results)
	displayTopStations(ctx, report, config.Verbose)
	if err := saveReport(ctx, config, report); err != nil {
		logger.Get().Warn(ctx, "failed to save report", logger.Error(err))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	if stats.VerifyFailures > 0 {
		return fmt.Errorf("%d stations failed verification", stats.VerifyFailures)
	}
	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, requestsPerSecond float64

	if stats.RequestsSubmitted > 0 {
		successRate = float64(stats.RequestsOK) / float64(stats.RequestsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.RequestsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("stationsGenerated", stats.StationsGenerated),
		logger.Int("requestsSubmitted", stats.RequestsSubmitted),
		logger.Int("requestsOK", stats.RequestsOK),
		logger.Int("requestsCached", stats.RequestsCached),
		logger.Int("requestsFailed", stats.RequestsFailed),
		logger.Int("stationsVerified", stats.StationsVerified),
		logger.Int("verifyFailures", stats.VerifyFailures),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
