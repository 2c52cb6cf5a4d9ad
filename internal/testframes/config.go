package testframes

import (
	"time"

	"github.com/okian/windrose/internal/domain/frame"
	"github.com/okian/windrose/internal/domain/options"
)

// Config holds configuration for the frame test
type Config struct {
	BaseURL      string        // Base URL of the service
	NumStations  int           // Number of station requests to generate
	Observations int           // Observations per station
	Petals       int           // Direction sectors per wind rose
	Interval     float64       // Speed bin width
	FanSamples   int           // Arc points per sector configured on the server
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	OutputFile   string        // Output file for the report
	LogFile      string        // Log file for test output
	Verbose      bool          // Enable verbose logging
}

// Request is the body posted to /traces.
type Request struct {
	Frames  []frame.Frame   `json:"frames"`
	Options options.Options `json:"options"`
}

// Station is one generated request and the wind it was generated from.
type Station struct {
	Name       string
	MaxSpeed   float64
	Prevailing float64 // direction the observations were drawn around
	Request    Request
}

// Trace is the part of a returned trace the verification reads.
type Trace struct {
	Name  string    `json:"name"`
	Theta []float64 `json:"theta"`
	R     []float64 `json:"r"`
}

// TracesResponse represents the response from trace computation
type TracesResponse struct {
	RequestID string  `json:"request_id"`
	Plot      string  `json:"plot"`
	Traces    []Trace `json:"traces"`
	Cached    bool    `json:"cached"`
	Samples   int     `json:"samples"`
	Issues    []struct {
		Field string `json:"field"`
	} `json:"issues"`
}

// Result pairs a station with the service reply.
type Result struct {
	Station  Station
	Response TracesResponse
	Status   int
	Err      error
}

// Stats holds test statistics
type Stats struct {
	StationsGenerated int
	RequestsSubmitted int
	RequestsOK        int
	RequestsCached    int
	RequestsFailed    int
	StationsVerified  int
	VerifyFailures    int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
