//go:build portaudio

package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// PortAudio captures mono 32-bit samples from the default input device.
type PortAudio struct {
	stream *portaudio.Stream
	buf    []int32
}

// OpenPortAudio initializes PortAudio and starts a capture stream that
// delivers framesPerBuffer samples per read.
func OpenPortAudio(sampleRate, framesPerBuffer int) (*PortAudio, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	buf := make([]int32, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), framesPerBuffer, buf)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to start input stream: %w", err)
	}

	return &PortAudio{stream: stream, buf: buf}, nil
}

// Acquire blocks until the device has filled one buffer.
// An input overflow only means audio was dropped before this block, so the
// block itself is still delivered.
func (p *PortAudio) Acquire(ctx context.Context, block []int32) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := p.stream.Read(); err != nil && !errors.Is(err, portaudio.InputOverflowed) {
		return 0, err
	}
	return copy(block, p.buf), nil
}

// Close stops the stream and releases PortAudio.
func (p *PortAudio) Close() error {
	return errors.Join(p.stream.Stop(), p.stream.Close(), portaudio.Terminate())
}

const portAudioCompiled = true
