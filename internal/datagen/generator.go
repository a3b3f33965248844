// Package datagen produces synthetic household energy data and pushes CSV
// files to a running dashboard.
package datagen

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/okian/energy-analytics/internal/domain/model"
)

// Load profile shape, in kWh per hour.
const (
	baseLoad       = 0.35
	morningPeak    = 1.1
	eveningPeak    = 1.8
	middayLoad     = 0.3
	weekendUplift  = 1.15
	noiseStdDev    = 0.08
	minConsumption = 0.05
)

// Options controls a generation run.
type Options struct {
	// Start is the first timestamp; truncated to the hour.
	Start time.Time
	// Days of hourly data to produce.
	Days int
	// Seed makes output reproducible.
	Seed uint64
}

// DefaultOptions returns two weeks of data ending at the current hour.
func DefaultOptions() Options {
	now := time.Now().UTC().Truncate(time.Hour)
	return Options{Start: now.AddDate(0, 0, -14), Days: 14, Seed: 42}
}

// Generate returns Days*24 hourly records in time order. The same options
// always yield the same records.
func Generate(opts Options) ([]model.Record, error) {
	if opts.Days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive, got %d", ErrInvalidOptions, opts.Days)
	}
	start := opts.Start.Truncate(time.Hour)
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	n := opts.Days * 24
	records := make([]model.Record, n)
	for i := range records {
		ts := start.Add(time.Duration(i) * time.Hour)
		v := Expected(ts) + rng.NormFloat64()*noiseStdDev
		records[i] = model.Record{
			Timestamp:   ts,
			Consumption: math.Round(math.Max(v, minConsumption)*1000) / 1000,
		}
	}
	return records, nil
}

// Expected is the noise-free consumption for an hour: a base load with
// morning and evening peaks, raised at weekends.
func Expected(ts time.Time) float64 {
	h := float64(ts.Hour())
	v := baseLoad +
		morningPeak*bump(h, 7.5, 1.2) +
		middayLoad*bump(h, 13, 2.5) +
		eveningPeak*bump(h, 19, 1.6)
	if wd := ts.Weekday(); wd == time.Saturday || wd == time.Sunday {
		v *= weekendUplift
	}
	return v
}

func bump(x, centre, width float64) float64 {
	d := (x - centre) / width
	return math.Exp(-d * d / 2)
}
