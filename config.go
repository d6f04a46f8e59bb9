package splmeter

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the calibration constants and capture parameters.
// It is fixed for the lifetime of a Meter; New takes a copy.
type Config struct {
	// SampleRate is the capture rate in Hz.
	SampleRate int `validate:"gt=0"`

	// BitDepth is the nominal width of a raw sample (1-32).
	BitDepth int `validate:"min=1,max=32"`

	// BlockSize is the number of samples acquired per cycle.
	BlockSize int `validate:"gt=0"`

	// InvalidLowBits is the number of low-order bits that carry no signal.
	// An I2S microphone with 24 significant bits in a 32-bit slot uses 8.
	InvalidLowBits int `validate:"min=0,ltfield=BitDepth"`

	// SensitivityDB is the microphone sensitivity offset in dB.
	SensitivityDB float64

	// ReferenceDB is the SPL of the calibration reference tone, usually 94 dB.
	ReferenceDB float64

	// RMSFloor is the smallest RMS value passed to the calibration stage.
	RMSFloor float64 `validate:"gt=0,lt=1"`

	// CycleDelay paces the loop between cycles. Zero disables pacing.
	CycleDelay time.Duration
}

// ErrInvalidConfig indicates invalid configuration parameters.
var ErrInvalidConfig = errors.New("invalid meter configuration")

// validate is the shared validator instance for configuration checks.
var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultConfig returns the configuration used by the reference hardware.
func DefaultConfig() *Config {
	return &Config{
		SampleRate:     DefaultSampleRate,
		BitDepth:       DefaultBitDepth,
		BlockSize:      DefaultBlockSize,
		InvalidLowBits: DefaultInvalidLowBits,
		SensitivityDB:  DefaultSensitivityDB,
		ReferenceDB:    DefaultReferenceDB,
		RMSFloor:       DefaultRMSFloor,
		CycleDelay:     DefaultCycleDelay,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, DescribeValidation(err))
	}

	if c.CycleDelay < 0 {
		return fmt.Errorf("%w: cycle delay must not be negative", ErrInvalidConfig)
	}

	if !isFinite(c.SensitivityDB) || !isFinite(c.ReferenceDB) {
		return fmt.Errorf("%w: calibration offsets must be finite", ErrInvalidConfig)
	}

	return nil
}

// EffectiveBits returns the number of bits that carry signal.
func (c *Config) EffectiveBits() int {
	return c.BitDepth - c.InvalidLowBits
}

// DescribeValidation renders validator field errors as one readable message.
// Other errors are returned as their plain text.
func DescribeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param()))
		case "lt":
			msgs = append(msgs, fmt.Sprintf("%s must be less than %s", fe.Field(), fe.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		case "ltfield":
			msgs = append(msgs, fmt.Sprintf("%s must be less than %s", fe.Field(), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s, got %q", fe.Field(), fe.Param(), fmt.Sprint(fe.Value())))
		case "required_if":
			field, value, _ := strings.Cut(fe.Param(), " ")
			msgs = append(msgs, fmt.Sprintf("%s is required when %s is %s", fe.Field(), field, value))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
