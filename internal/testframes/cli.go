package testframes

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/windrose/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "test_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithWriter(io.MultiWriter(os.Stdout, file))); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return file, nil
}

// ShowHelp prints usage information for the test frames tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Windrose Frame Test Tool
========================

A concurrent load and consistency tool for the windrose trace service. It
generates synthetic weather-station frames, posts them to /traces and checks
the returned wind roses.

Usage:
  go run cmd/test-frames/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -stations int
        Number of station requests to generate and submit (default 500)
  -observations int
        Observations per station (default 2000)
  -petals int
        Direction sectors per wind rose (default 16)
  -interval float
        Speed bin width (default 2)
  -fan int
        Arc points per sector configured on the server (default 15)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for the report (default: frames_report_TIMESTAMP.json)
  -log string
        Log file for test output (default: test_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Test with default settings
  go run cmd/test-frames/main.go

  # Larger roses against a remote service
  go run cmd/test-frames/main.go -stations 5000 -petals 32 -url http://localhost:8080
`)
}
