package splmeter

import (
	"fmt"

	"github.com/tphakala/go-spl-meter/internal/simdops"
)

// Normalizer converts raw fixed-point samples to amplitudes in [-1, 1].
//
// The raw sample is arithmetically shifted right by the number of invalid
// low-order bits and divided by the full-scale value of the remaining
// effective width, 2^(effective-1). Because the divisor is a power of two,
// the negative rail maps to exactly -1.0.
type Normalizer struct {
	shift        uint
	fullScale    float64
	invFullScale float64
	maxCode      int32
	minCode      int32
	ops          *simdops.Ops
}

// NewNormalizer creates a normalizer for samples of bitDepth bits whose
// lowest invalidLowBits bits carry no signal.
func NewNormalizer(bitDepth, invalidLowBits int) (*Normalizer, error) {
	if bitDepth < minBitDepth || bitDepth > maxBitDepth {
		return nil, fmt.Errorf("%w: bit depth must be %d-%d", ErrInvalidConfig, minBitDepth, maxBitDepth)
	}
	if invalidLowBits < 0 || invalidLowBits >= bitDepth {
		return nil, fmt.Errorf("%w: invalid low bits must be in [0, %d)", ErrInvalidConfig, bitDepth)
	}

	effective := bitDepth - invalidLowBits
	fullScale := float64(int64(1) << (effective - 1))

	return &Normalizer{
		shift:        uint(invalidLowBits),
		fullScale:    fullScale,
		invFullScale: 1.0 / fullScale,
		maxCode:      int32(int64(1)<<(effective-1) - 1),
		minCode:      int32(-(int64(1) << (effective - 1))),
		ops:          simdops.Float64Ops(),
	}, nil
}

// FullScale returns the divisor applied after the shift.
func (n *Normalizer) FullScale() float64 {
	return n.fullScale
}

// Normalize converts one raw sample.
func (n *Normalizer) Normalize(raw int32) float64 {
	return float64(raw>>n.shift) * n.invFullScale
}

// NormalizeBlock converts raw into dst, growing dst if needed, and returns
// the normalized slice of len(raw).
func (n *Normalizer) NormalizeBlock(dst []float64, raw []int32) []float64 {
	if cap(dst) < len(raw) {
		dst = make([]float64, len(raw))
	}
	dst = dst[:len(raw)]

	for i, s := range raw {
		dst[i] = float64(s >> n.shift)
	}
	n.ops.Scale(dst, dst, n.invFullScale)

	return dst
}

// CountClipped returns how many samples sit on either full-scale rail.
func (n *Normalizer) CountClipped(raw []int32) int {
	clipped := 0
	for _, s := range raw {
		v := s >> n.shift
		if v >= n.maxCode || v <= n.minCode {
			clipped++
		}
	}
	return clipped
}
