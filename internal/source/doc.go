// Package source provides sample sources for the level meter: WAV file
// replay, raw little-endian PCM byte streams (serial ports, pipes, stdin)
// and, when built with the portaudio tag, live capture from the default
// input device.
//
// Every source fills an []int32 block per Acquire call and reports how
// many samples it wrote. Samples keep the width of the input; the meter's
// Normalizer is configured with the matching bit depth.
package source

import "errors"

// Errors returned when opening a source.
var (
	// ErrUnsupportedFormat indicates the input cannot be metered as-is.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrPortAudioUnavailable is returned by OpenPortAudio when the binary
	// was built without the portaudio tag.
	ErrPortAudioUnavailable = errors.New("portaudio support not compiled in (build with -tags portaudio)")
)
