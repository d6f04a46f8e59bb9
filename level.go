package splmeter

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/tphakala/go-spl-meter/internal/simdops"
)

// Estimator reduces a block of normalized samples to a single RMS value.
// Each block is measured independently; no state is carried between calls.
type Estimator struct {
	floor float64
	ops   *simdops.Ops
}

// NewEstimator creates an estimator that never reports RMS below floor.
func NewEstimator(floor float64) *Estimator {
	return &Estimator{
		floor: floor,
		ops:   simdops.Float64Ops(),
	}
}

// Floor returns the RMS floor.
func (e *Estimator) Floor() float64 {
	return e.floor
}

// RMS returns sqrt(Σx²/n), clamped to the floor so the calibration
// logarithm stays finite. An empty block yields the floor.
func (e *Estimator) RMS(block []float64) float64 {
	if len(block) == 0 {
		return e.floor
	}

	rms := math.Sqrt(e.ops.SumSquares(block) / float64(len(block)))
	if !(rms >= e.floor) { // also catches NaN
		return e.floor
	}
	return rms
}

// Peak returns the largest absolute amplitude in the block.
func (e *Estimator) Peak(block []float64) float64 {
	if len(block) == 0 {
		return 0
	}
	return math.Max(floats.Max(block), -floats.Min(block))
}
