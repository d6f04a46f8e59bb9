// Package simdops wraps the SIMD kernels used by the level meter hot path.
// Pure Go reference versions are kept alongside for tests and benchmarks.
package simdops

import (
	"github.com/tphakala/simd/cpu"
	"github.com/tphakala/simd/f64"
)

// Ops provides the float64 operations needed by the meter.
// Function pointers allow swapping in the reference implementations.
type Ops struct {
	// SumSquares returns Σ a[i]².
	SumSquares func(a []float64) float64

	// Scale multiplies each element by scalar s: dst[i] = a[i] * s
	Scale func(dst, a []float64, s float64)
}

var (
	accelerated = Ops{
		SumSquares: sumSquaresSIMD,
		Scale:      f64.Scale,
	}
	reference = Ops{
		SumSquares: sumSquaresGo,
		Scale:      scaleGo,
	}
)

// Float64Ops returns the SIMD-accelerated operations.
func Float64Ops() *Ops {
	return &accelerated
}

// ReferenceOps returns the pure Go operations.
func ReferenceOps() *Ops {
	return &reference
}

// CPUInfo describes the instruction set selected by the SIMD library.
func CPUInfo() string {
	return cpu.Info()
}

// sumSquaresSIMD is a dot product of a with itself.
// DotProductUnsafe is safe here since both operands are the same slice.
func sumSquaresSIMD(a []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	return f64.DotProductUnsafe(a, a)
}

func sumSquaresGo(a []float64) float64 {
	var sum float64
	for _, v := range a {
		sum += v * v
	}
	return sum
}

func scaleGo(dst, a []float64, s float64) {
	n := min(len(dst), len(a))
	for i := range n {
		dst[i] = a[i] * s
	}
}
