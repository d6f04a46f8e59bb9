package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Supported WAV sample widths.
const (
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// wavFormatPCM is the fmt chunk code for integer PCM.
	wavFormatPCM = 1
)

// WAV replays a mono PCM WAV file one block at a time.
type WAV struct {
	file       *os.File
	decoder    *wav.Decoder
	buf        *audio.IntBuffer
	loop       bool
	sampleRate int
	bitDepth   int
}

// OpenWAV opens a WAV file for metering. With loop set, the file restarts
// from the beginning when its end is reached; otherwise every acquisition
// after the end fails with io.EOF.
func OpenWAV(path string, loop bool) (*WAV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		_ = f.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	if decoder.WavAudioFormat != wavFormatPCM {
		_ = f.Close()
		return nil, fmt.Errorf("%w: audio format %d, only integer PCM is metered", ErrUnsupportedFormat, decoder.WavAudioFormat)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)

	if format.NumChannels != 1 {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %d channels, only mono is metered", ErrUnsupportedFormat, format.NumChannels)
	}
	switch bitDepth {
	case bitsPerSample16, bitsPerSample24, bitsPerSample32:
	default:
		_ = f.Close()
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, bitDepth)
	}

	return &WAV{
		file:       f,
		decoder:    decoder,
		buf:        &audio.IntBuffer{Format: format, SourceBitDepth: bitDepth},
		loop:       loop,
		sampleRate: format.SampleRate,
		bitDepth:   bitDepth,
	}, nil
}

// SampleRate returns the file's sample rate in Hz.
func (w *WAV) SampleRate() int {
	return w.sampleRate
}

// BitDepth returns the file's sample width in bits.
func (w *WAV) BitDepth() int {
	return w.bitDepth
}

// Acquire reads the next block. The final block of a file may be short.
func (w *WAV) Acquire(ctx context.Context, block []int32) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	n, err := w.read(len(block))
	if err != nil {
		return 0, err
	}
	if n == 0 && w.loop {
		if err := w.decoder.Rewind(); err != nil {
			return 0, fmt.Errorf("failed to rewind WAV file: %w", err)
		}
		if n, err = w.read(len(block)); err != nil {
			return 0, err
		}
	}
	if n == 0 {
		return 0, io.EOF
	}

	for i, v := range w.buf.Data[:n] {
		block[i] = int32(v)
	}
	return n, nil
}

// read decodes up to size samples into the internal buffer.
func (w *WAV) read(size int) (int, error) {
	if cap(w.buf.Data) < size {
		w.buf.Data = make([]int, size)
	}
	w.buf.Data = w.buf.Data[:size]

	n, err := w.decoder.PCMBuffer(w.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("failed to read audio data: %w", err)
	}
	return min(n, size), nil
}

// Close closes the underlying file.
func (w *WAV) Close() error {
	return w.file.Close()
}
