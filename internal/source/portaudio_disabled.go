//go:build !portaudio

package source

import "context"

// PortAudio is unavailable in this build.
type PortAudio struct{}

// OpenPortAudio always fails with ErrPortAudioUnavailable.
func OpenPortAudio(_, _ int) (*PortAudio, error) {
	return nil, ErrPortAudioUnavailable
}

// Acquire always fails with ErrPortAudioUnavailable.
func (*PortAudio) Acquire(context.Context, []int32) (int, error) {
	return 0, ErrPortAudioUnavailable
}

// Close is a no-op.
func (*PortAudio) Close() error {
	return nil
}

const portAudioCompiled = false
