// Command render computes the traces of a request file offline and writes
// them as JSON, a PNG image or an HTML page.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/windrose/internal/adapters/render"
	app "github.com/okian/windrose/internal/app"
	"github.com/okian/windrose/internal/domain/windrose"
	"github.com/okian/windrose/pkg/logger"
)

// Output formats beyond the renderer's own.
const formatJSON = "json"

const runTimeout = time.Minute

// ErrUsage reports invalid command line arguments.
var ErrUsage = errors.New("usage")

func main() {
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		logger.Get().Error(ctx, "render failed", logger.Error(err))
		cancel()
		os.Exit(1) //nolint:gocritic // cancel is called explicitly above
	}
}

// run parses args, computes the request read from -in (or stdin) and writes
// the result to -out (or stdout).
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		in        = fs.String("in", "", "Request JSON file (default: stdin)")
		out       = fs.String("out", "", "Output file (default: stdout)")
		format    = fs.String("format", formatJSON, "Output format: json, png or html")
		fan       = fs.Int("fan", windrose.DefaultFanSamples, "Arc points per wind-rose sector")
		maxBins   = fs.Int("max-bins", app.DefaultMaxSpeedBins, "Speed bin limit per wind rose (0: none)")
		unit      = fs.String("unit", windrose.DefaultSpeedUnit, "Speed unit when the request names none")
		autoMap   = fs.Bool("automap", false, "Fill unset mapping roles from the field names")
		width     = fs.Float64("width", 6, "Image width in inches")
		height    = fs.Float64("height", 6, "Image height in inches")
		rotation  = fs.Float64("rotation", 0, "Angle in degrees drawn at the right-hand axis")
		direction = fs.String("direction", render.CounterClockwise, "Angular direction: counterclockwise or clockwise")
		title     = fs.String("title", "", "Chart title")
	)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	switch *format {
	case formatJSON, render.FormatPNG, render.FormatHTML:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrUsage, *format)
	}
	if *direction != render.Clockwise && *direction != render.CounterClockwise {
		return fmt.Errorf("%w: unknown direction %q", ErrUsage, *direction)
	}

	src := stdin
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			return fmt.Errorf("open request: %w", err)
		}
		defer func() { _ = f.Close() }()
		src = f
	}
	var req app.Request
	if err := json.NewDecoder(src).Decode(&req); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}

	svc := app.New(
		app.WithMemoSize(1),
		app.WithFanSamples(*fan),
		app.WithMaxSpeedBins(*maxBins),
		app.WithSpeedUnit(*unit),
		app.WithAutoMap(*autoMap),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	res, err := svc.Compute(ctx, req)
	if err != nil {
		return fmt.Errorf("compute: %w", err)
	}
	for _, issue := range res.Issues {
		logger.Get().Warn(ctx, "option reset to default",
			logger.String("field", issue.Field),
			logger.String("default", issue.Default),
			logger.String("message", issue.Message))
	}

	dst := stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		dst = f
	}

	r := render.New(
		render.WithSize(*width, *height),
		render.WithRotation(*rotation),
		render.WithDirection(*direction),
		render.WithTitle(*title),
	)
	switch *format {
	case render.FormatPNG:
		return r.PNG(dst, res.Traces)
	case render.FormatHTML:
		return r.HTML(dst, res.Traces)
	default:
		enc := json.NewEncoder(dst)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
}
