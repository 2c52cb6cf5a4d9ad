package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/windrose/internal/domain/windrose"
	"github.com/okian/windrose/internal/testframes"
)

// Default configuration constants.
const (
	defaultStations     = 500
	defaultObservations = 2000
	defaultPetals       = 16
	defaultInterval     = 2.0
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 30 * time.Second
	defaultTestTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the service")
		stations     = flag.Int("stations", defaultStations, "Number of station requests to generate and submit")
		observations = flag.Int("observations", defaultObservations, "Observations per station")
		petals       = flag.Int("petals", defaultPetals, "Direction sectors per wind rose")
		interval     = flag.Float64("interval", defaultInterval, "Speed bin width")
		fan          = flag.Int("fan", windrose.DefaultFanSamples, "Arc points per sector configured on the server")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile   = flag.String("output", "", "Output file for the report (default: frames_report_TIMESTAMP.json)")
		logFile      = flag.String("log", "", "Log file for test output (default: test_log_TIMESTAMP.log)")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testframes.ShowHelp()
		return
	}

	closer, err := testframes.SetupLogging(*logFile, *verbose)
	if err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &testframes.Config{
		BaseURL:      *baseURL,
		NumStations:  max(*stations, 1),
		Observations: max(*observations, 1),
		Petals:       *petals,
		Interval:     *interval,
		FanSamples:   *fan,
		Workers:      max(*workers, 1),
		Timeout:      *timeout,
		OutputFile:   *outputFile,
		LogFile:      *logFile,
		Verbose:      *verbose,
	}

	if err := testframes.Run(ctx, config); err != nil {
		_, _ = os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1) //nolint:gocritic // cancel is called explicitly above
	}
}
