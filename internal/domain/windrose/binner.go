// Package windrose bins direction/magnitude samples into a percentage-stacked
// profile and expands it into wedge-fill traces.
package windrose

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// BinConfig controls the binning grid.
type BinConfig struct {
	// Directions is the number of equal direction sectors.
	Directions int
	// Interval is the width of one speed bin.
	Interval float64
	// MaxSpeedBins bounds the number of speed bins; <= 0 means no limit.
	MaxSpeedBins int
}

// BinWidth is the angular width of a direction sector in degrees.
func (c BinConfig) BinWidth() float64 {
	return 360 / float64(c.Directions)
}

func (c BinConfig) validate() error {
	if c.Directions < 1 {
		return fmt.Errorf("%w: directions %d", ErrInvalidBinConfig, c.Directions)
	}
	if !(c.Interval > 0) || math.IsInf(c.Interval, 0) {
		return fmt.Errorf("%w: interval %v", ErrInvalidBinConfig, c.Interval)
	}
	return nil
}

// Profile is the stacked wind-rose profile. Rows[b][d] is the cumulative
// percentage of all samples in direction d with a speed up to Levels[b+1];
// rows never decrease per direction and the last row sums to 100.
type Profile struct {
	Levels []float64
	Rows   [][]float64
	// Counts holds the number of samples per direction.
	Counts []int
	// Samples is the number of usable samples.
	Samples int
}

// SpeedBins returns the number of speed bins.
func (p *Profile) SpeedBins() int { return len(p.Rows) }

// Directions returns the number of direction sectors.
func (p *Profile) Directions() int { return len(p.Counts) }

// DirectionIndex maps an angle in degrees to the sector whose centre is
// nearest, wrapping negative and >360 angles.
func DirectionIndex(angle float64, cfg BinConfig) int {
	n := float64(cfg.Directions)
	k := math.Mod(math.Floor(angle/cfg.BinWidth()+0.5), n)
	if k < 0 {
		k += n
	}
	return int(k)
}

// Bin classifies angle/magnitude pairs by direction and speed and folds them
// into a stacked profile.
//
// Pairs with a non-finite angle or magnitude, or a negative magnitude, are
// skipped. When the inputs differ in length the shorter one wins. The last
// speed bin is closed on the right so the maximum sample is counted.
func Bin(angles, magnitudes []float64, cfg BinConfig) (Profile, error) {
	if err := cfg.validate(); err != nil {
		return Profile{}, err
	}

	n := len(angles)
	if len(magnitudes) < n {
		n = len(magnitudes)
	}

	byDir := make([][]float64, cfg.Directions)
	usable := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		a, r := angles[i], magnitudes[i]
		if !finite(a) || !finite(r) || r < 0 {
			continue
		}
		d := DirectionIndex(a, cfg)
		byDir[d] = append(byDir[d], r)
		usable = append(usable, r)
	}

	p := Profile{Counts: make([]int, cfg.Directions), Samples: len(usable)}
	for d := range byDir {
		p.Counts[d] = len(byDir[d])
	}

	maxMagnitude := 0.0
	if len(usable) > 0 {
		maxMagnitude = floats.Max(usable)
	}
	bins := math.Ceil(maxMagnitude / cfg.Interval)
	if (cfg.MaxSpeedBins > 0 && bins > float64(cfg.MaxSpeedBins)) || bins > math.MaxInt32 {
		return Profile{}, fmt.Errorf("%w: %v bins of %v", ErrTooManySpeedBins, bins, cfg.Interval)
	}
	numBins := int(bins)
	p.Levels = make([]float64, numBins+1)
	for k := range p.Levels {
		p.Levels[k] = cfg.Interval * float64(k)
	}
	if numBins == 0 {
		return p, nil
	}

	// binCounts[b][d] is the number of samples of direction d in speed bin b.
	binCounts := make([][]int, numBins)
	for b := range binCounts {
		binCounts[b] = make([]int, cfg.Directions)
	}
	for d, mags := range byDir {
		for _, r := range mags {
			binCounts[speedBin(p.Levels, r)][d]++
		}
	}

	total := float64(p.Samples)
	base := make([]float64, cfg.Directions)
	p.Rows = make([][]float64, numBins)
	for b := 0; b < numBins; b++ {
		for d := range base {
			count := float64(p.Counts[d])
			if count == 0 {
				continue
			}
			delta := float64(binCounts[b][d]) / count * (count / total)
			base[d] += 100 * delta
		}
		row := make([]float64, len(base))
		copy(row, base)
		p.Rows[b] = row
	}
	return p, nil
}

// speedBin returns b with levels[b] <= r < levels[b+1], clamping r equal to
// the top level into the last bin.
func speedBin(levels []float64, r float64) int {
	b := sort.Search(len(levels), func(i int) bool { return levels[i] > r }) - 1
	if last := len(levels) - 2; b > last {
		b = last
	}
	return b
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
