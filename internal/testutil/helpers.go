// Package testutil provides reusable test helpers for level meter tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-12
	RMSTolerance     = 1e-4
	DBTolerance      = 0.01
)

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange(t *testing.T, s []float64, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%f is outside range [%f, %f]", i, v, minVal, maxVal)
		}
	}
	return true
}

// AssertStrictlyIncreasing verifies that every element exceeds its predecessor.
func AssertStrictlyIncreasing(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] <= s[i-1] {
			return assert.Fail(t, "not strictly increasing",
				"s[%d]=%f <= s[%d]=%f", i, s[i], i-1, s[i-1])
		}
	}
	return true
}

// SquareWave returns n raw samples alternating between the positive and
// negative rails of a bits-wide signed sample, shifted left by padBits to
// model hardware that leaves low-order bits unused.
func SquareWave(n, bits, padBits int) []int32 {
	hi := int32(int64(1)<<(bits-1)-1) << padBits
	lo := int32(-(int64(1) << (bits - 1))) << padBits
	out := make([]int32, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = hi
		} else {
			out[i] = lo
		}
	}
	return out
}

// SineWave returns n raw samples of a sine at freq Hz with the given peak
// amplitude relative to full scale.
func SineWave(n int, freq, sampleRate, amplitude float64, bits, padBits int) []int32 {
	fullScale := float64(int64(1) << (bits - 1))
	out := make([]int32, n)
	for i := range out {
		v := amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
		code := int64(math.Round(v * fullScale))
		code = min(code, int64(fullScale)-1)
		out[i] = int32(code) << padBits
	}
	return out
}
