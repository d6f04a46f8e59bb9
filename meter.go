package splmeter

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// SampleSource delivers blocks of raw fixed-point samples.
//
// Acquire blocks until it can fill block, or part of it, and returns the
// number of samples written. A non-nil error means the block is unusable.
// The length of block is the maximum the caller accepts.
type SampleSource interface {
	Acquire(ctx context.Context, block []int32) (int, error)
}

// Reporter receives the outcome of each cycle, exactly one call per cycle.
type Reporter interface {
	// Report is called with the level of a successful cycle.
	Report(r Reading)

	// ReportError is called with an *AcquisitionError for a failed cycle.
	ReportError(err error)
}

// Reading is the result of one measurement cycle.
type Reading struct {
	// Cycle is the 1-based cycle number.
	Cycle uint64

	// LevelDB is the calibrated sound pressure level.
	LevelDB float64

	// RMS is the floor-clamped RMS amplitude the level was derived from.
	RMS float64

	// Peak is the largest absolute normalized amplitude in the block.
	Peak float64

	// PeakDBFS is Peak in dB relative to full scale, floored like RMS.
	PeakDBFS float64

	// Samples is the number of samples the level was computed over.
	Samples int

	// Clipped counts samples sitting on a full-scale rail.
	Clipped int
}

// Stats holds counters accumulated by a Meter.
type Stats struct {
	Cycles   uint64
	Readings uint64
	Errors   uint64
}

// Meter drives the acquire → normalize → estimate → calibrate cycle.
// A Meter is not safe for concurrent use, except for Stats.
type Meter struct {
	config     Config
	source     SampleSource
	reporter   Reporter
	normalizer *Normalizer
	estimator  *Estimator
	calibrator Calibrator
	logger     *zap.SugaredLogger

	// Per-cycle buffers, reused across cycles.
	raw        []int32
	normalized []float64

	cycles   atomic.Uint64
	readings atomic.Uint64
	failures atomic.Uint64
}

// Option configures a Meter.
type Option func(*Meter)

// WithLogger sets the logger used for cycle diagnostics.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(m *Meter) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a meter. The configuration is validated and copied; an
// invalid configuration is reported before any acquisition happens.
func New(config *Config, source SampleSource, reporter Reporter, opts ...Option) (*Meter, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("%w: sample source is nil", ErrInvalidConfig)
	}
	if reporter == nil {
		return nil, fmt.Errorf("%w: reporter is nil", ErrInvalidConfig)
	}

	normalizer, err := NewNormalizer(config.BitDepth, config.InvalidLowBits)
	if err != nil {
		return nil, err
	}

	m := &Meter{
		config:     *config,
		source:     source,
		reporter:   reporter,
		normalizer: normalizer,
		estimator:  NewEstimator(config.RMSFloor),
		calibrator: NewCalibrator(config.SensitivityDB, config.ReferenceDB),
		logger:     zap.NewNop().Sugar(),
		raw:        make([]int32, config.BlockSize),
		normalized: make([]float64, config.BlockSize),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Config returns a copy of the meter configuration.
func (m *Meter) Config() Config {
	return m.config
}

// Cycle acquires one block and computes its level. It does not report.
// Any failure is returned as an *AcquisitionError.
func (m *Meter) Cycle(ctx context.Context) (Reading, error) {
	cycle := m.cycles.Add(1)

	n, err := m.source.Acquire(ctx, m.raw)
	switch {
	case err != nil:
		return Reading{}, &AcquisitionError{Cycle: cycle, Err: err}
	case n == 0:
		return Reading{}, &AcquisitionError{Cycle: cycle, Err: ErrEmptyBlock}
	case n < 0 || n > len(m.raw):
		return Reading{}, &AcquisitionError{
			Cycle: cycle,
			Err:   fmt.Errorf("%w: source reported %d samples for a %d-sample block", ErrBlockOverrun, n, len(m.raw)),
		}
	}

	raw := m.raw[:n]
	samples := m.normalizer.NormalizeBlock(m.normalized, raw)

	rms := m.estimator.RMS(samples)
	peak := m.estimator.Peak(samples)

	return Reading{
		Cycle:    cycle,
		LevelDB:  m.calibrator.Level(rms),
		RMS:      rms,
		Peak:     peak,
		PeakDBFS: DBFS(max(peak, m.estimator.Floor())),
		Samples:  n,
		Clipped:  m.normalizer.CountClipped(raw),
	}, nil
}

// Run measures and reports forever. Acquisition failures are reported and
// the loop continues with the next cycle; the next acquisition is the retry.
// Run returns only when ctx is done, with ctx.Err().
func (m *Meter) Run(ctx context.Context) error {
	m.logger.Infow("meter started",
		"sample_rate", m.config.SampleRate,
		"bit_depth", m.config.BitDepth,
		"effective_bits", m.config.EffectiveBits(),
		"block_size", m.config.BlockSize,
		"cycle_delay", m.config.CycleDelay,
	)

	var timer *time.Timer
	if m.config.CycleDelay > 0 {
		timer = time.NewTimer(m.config.CycleDelay)
		timer.Stop()
		defer timer.Stop()
	}

	for {
		if err := ctx.Err(); err != nil {
			m.logger.Infow("meter stopped", "cycles", m.cycles.Load())
			return err
		}

		reading, err := m.Cycle(ctx)
		if err != nil {
			if ctx.Err() != nil {
				// The source gave up because we are shutting down.
				continue
			}
			m.failures.Add(1)
			m.logger.Warnw("acquisition failed", "error", err)
			m.reporter.ReportError(err)
		} else {
			m.readings.Add(1)
			m.logger.Debugw("cycle complete",
				"cycle", reading.Cycle,
				"samples", reading.Samples,
				"rms", reading.RMS,
				"level_db", reading.LevelDB,
			)
			m.reporter.Report(reading)
		}

		if timer == nil {
			continue
		}
		timer.Reset(m.config.CycleDelay)
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
	}
}

// Stats returns the cycle counters. Safe to call while Run is active.
func (m *Meter) Stats() Stats {
	return Stats{
		Cycles:   m.cycles.Load(),
		Readings: m.readings.Load(),
		Errors:   m.failures.Load(),
	}
}
