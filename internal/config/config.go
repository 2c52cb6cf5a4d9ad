// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - All functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// MemoSize bounds the number of memoised results; <= 0 means unbounded.
	MemoSize int `koanf:"memo_size"`

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes" validate:"gt=0"`

	// FanSamples sets the arc points drawn per wind-rose sector.
	FanSamples int `koanf:"fan_samples" validate:"gte=1,lte=360"`

	// MaxSpeedBins bounds the speed bins of one wind rose; 0 disables the
	// limit.
	MaxSpeedBins int `koanf:"max_speed_bins" validate:"gte=0"`

	// SpeedUnit is the legend unit used when a request does not name one.
	SpeedUnit string `koanf:"speed_unit" validate:"required,max=16"`

	// AutoMap fills unset mapping roles from the available field names.
	AutoMap bool `koanf:"auto_map"`

	// RenderWidthIn and RenderHeightIn size rendered PNG previews in inches.
	RenderWidthIn  float64 `koanf:"render_width_in" validate:"gt=0,lte=100"`
	RenderHeightIn float64 `koanf:"render_height_in" validate:"gt=0,lte=100"`
}

// New creates a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		MemoSize:       1024,
		MaxBodyBytes:   8 << 20,
		FanSamples:     15,
		MaxSpeedBins:   4096,
		SpeedUnit:      "m/s",
		AutoMap:        false,
		RenderWidthIn:  6,
		RenderHeightIn: 6,
	}
}

var validate = validator.New()

// Validate checks every field against its constraints.
func (c *Config) Validate(ctx context.Context) error {
	if err := validate.StructCtx(ctx, c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
