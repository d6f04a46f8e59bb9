package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tphakala/go-spl-meter/internal/config"
	"github.com/tphakala/go-spl-meter/internal/source"
)

// sampleSource is a splmeter.SampleSource that owns a resource.
type sampleSource interface {
	Acquire(ctx context.Context, block []int32) (int, error)
	Close() error
}

// streamSource ties a Stream to the file it reads from.
type streamSource struct {
	*source.Stream
	closer io.Closer
}

func (s *streamSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// retryPause is how long a source with unpaced cycles waits before retrying
// after a failed acquisition, such as a drained stream.
const retryPause = 100 * time.Millisecond

// pacedSource delays the acquisition that follows a failure. Cycles that
// succeed are not slowed down.
type pacedSource struct {
	sampleSource
	pause  time.Duration
	failed bool
}

func (p *pacedSource) Acquire(ctx context.Context, block []int32) (int, error) {
	if p.failed {
		timer := time.NewTimer(p.pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			return 0, ctx.Err()
		case <-timer.C:
		}
	}

	n, err := p.sampleSource.Acquire(ctx, block)
	p.failed = err != nil
	return n, err
}

// openSource opens the configured sample source. For WAV input the meter
// configuration adopts the file's sample rate and bit depth.
func openSource(settings *config.Settings, stdin io.Reader) (sampleSource, error) {
	switch settings.Source {
	case config.SourceWAV:
		w, err := source.OpenWAV(settings.Input, settings.Loop)
		if err != nil {
			return nil, err
		}
		if err := settings.AdoptFormat(w.SampleRate(), w.BitDepth()); err != nil {
			_ = w.Close()
			return nil, err
		}
		return w, nil

	case config.SourceStream:
		var (
			r      = stdin
			closer io.Closer
		)
		if settings.Input != config.StdinInput {
			f, err := os.Open(settings.Input)
			if err != nil {
				return nil, fmt.Errorf("failed to open stream: %w", err)
			}
			r, closer = f, f
		}
		s, err := source.NewStream(r, settings.Meter.BitDepth)
		if err != nil {
			if closer != nil {
				_ = closer.Close()
			}
			return nil, err
		}
		return &streamSource{Stream: s, closer: closer}, nil

	case config.SourcePortAudio:
		p, err := source.OpenPortAudio(settings.Meter.SampleRate, settings.Meter.BlockSize)
		if err != nil {
			return nil, err
		}
		return p, nil

	default:
		return nil, fmt.Errorf("unknown source %q", settings.Source)
	}
}
