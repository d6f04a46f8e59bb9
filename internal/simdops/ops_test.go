package simdops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSumSquares_MatchesReference(t *testing.T) {
	lengths := []int{0, 1, 3, 4, 7, 8, 15, 16, 17, 255, 1024}
	for _, n := range lengths {
		a := make([]float64, n)
		for i := range a {
			a[i] = math.Sin(float64(i)*0.37) * 0.8
		}

		got := Float64Ops().SumSquares(a)
		want := ReferenceOps().SumSquares(a)
		assert.InDelta(t, want, got, 1e-9, "length %d", n)
	}
}

func TestSumSquares_Empty(t *testing.T) {
	assert.Zero(t, Float64Ops().SumSquares(nil))
	assert.Zero(t, ReferenceOps().SumSquares(nil))
}

func TestScale_MatchesReference(t *testing.T) {
	a := []float64{1, -2, 3, -4, 5, -6, 7, -8, 9}
	got := make([]float64, len(a))
	want := make([]float64, len(a))

	Float64Ops().Scale(got, a, 0.25)
	ReferenceOps().Scale(want, a, 0.25)

	assert.InDeltaSlice(t, want, got, 1e-15)
}

func TestCPUInfo(t *testing.T) {
	assert.NotPanics(t, func() { _ = CPUInfo() })
}
