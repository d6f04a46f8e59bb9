package splmeter

import "time"

// Defaults matching an INMP441-class I2S microphone on a 32-bit bus.
const (
	DefaultSampleRate     = 44100
	DefaultBitDepth       = 32
	DefaultBlockSize      = 1024
	DefaultInvalidLowBits = 8 // the mic drives only the upper 24 bits

	// DefaultSensitivityDB is the datasheet sensitivity in dBFS at 94 dB SPL.
	DefaultSensitivityDB = -26.0

	// DefaultReferenceDB is the SPL of the 1 Pa reference tone.
	DefaultReferenceDB = 94.0

	// DefaultRMSFloor keeps silence at a finite level instead of -Inf.
	DefaultRMSFloor = 1e-6

	DefaultCycleDelay = 100 * time.Millisecond
)

// Bit depth limits for samples carried in an int32 container.
const (
	minBitDepth = 1
	maxBitDepth = 32
)

// dbScale converts an amplitude ratio to decibels.
const dbScale = 20.0
