package source

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Byte widths for packed little-endian samples.
const (
	bitsPerByte    = 8
	maxSampleBytes = 4
)

// Stream decodes packed little-endian signed PCM from a byte stream, such
// as a microcontroller forwarding its microphone over a serial port.
// The sample width is the bit depth rounded up to whole bytes.
type Stream struct {
	r     io.Reader
	width int
	buf   []byte
}

// NewStream creates a stream source for bitDepth-bit samples.
func NewStream(r io.Reader, bitDepth int) (*Stream, error) {
	width := (bitDepth + bitsPerByte - 1) / bitsPerByte
	if bitDepth < 1 || width > maxSampleBytes {
		return nil, fmt.Errorf("%w: %d-bit stream samples", ErrUnsupportedFormat, bitDepth)
	}
	return &Stream{r: r, width: width}, nil
}

// SampleWidth returns the number of bytes per sample.
func (s *Stream) SampleWidth() int {
	return s.width
}

// Acquire blocks until a full block has been read. If the stream ends
// mid-block, the complete samples read so far are returned; a trailing
// partial sample is discarded. Once the stream is exhausted every call
// returns io.EOF.
func (s *Stream) Acquire(ctx context.Context, block []int32) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	need := len(block) * s.width
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	buf := s.buf[:need]

	read, err := io.ReadFull(s.r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, err
	}

	n := read / s.width
	if n == 0 {
		return 0, io.EOF
	}
	for i := range n {
		block[i] = decodeLE(buf[i*s.width:(i+1)*s.width])
	}
	return n, nil
}

// decodeLE assembles a little-endian signed sample and sign-extends it.
func decodeLE(b []byte) int32 {
	var u uint32
	for i, v := range b {
		u |= uint32(v) << (bitsPerByte * i)
	}
	pad := 32 - bitsPerByte*len(b)
	return int32(u<<pad) >> pad
}
