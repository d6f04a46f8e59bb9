// Package config loads the meter command configuration from defaults, an
// optional .env file, SPL_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	splmeter "github.com/tphakala/go-spl-meter"
)

// Source kinds.
const (
	SourceWAV       = "wav"
	SourceStream    = "stream"
	SourcePortAudio = "portaudio"
)

// Reporter kinds.
const (
	ReporterText = "text"
	ReporterLog  = "log"
)

// StdinInput selects standard input for the stream source.
const StdinInput = "-"

// Environment variables.
const (
	envFileVar        = "SPL_ENV_FILE"
	envSampleRate     = "SPL_SAMPLE_RATE"
	envBitDepth       = "SPL_BIT_DEPTH"
	envBlockSize      = "SPL_BLOCK_SIZE"
	envInvalidLowBits = "SPL_INVALID_LOW_BITS"
	envSensitivityDB  = "SPL_SENSITIVITY_DB"
	envReferenceDB    = "SPL_REFERENCE_DB"
	envRMSFloor       = "SPL_RMS_FLOOR"
	envCycleDelay     = "SPL_CYCLE_DELAY"
	envSource         = "SPL_SOURCE"
	envInput          = "SPL_INPUT"
	envLoop           = "SPL_LOOP"
	envReporter       = "SPL_REPORTER"
	envVerbose        = "SPL_VERBOSE"
	envLogLevel       = "SPL_LOG_LEVEL"
)

const defaultEnvFile = ".env"

// Settings holds everything the meter command needs at startup.
type Settings struct {
	// Meter holds the calibration constants passed to splmeter.New.
	Meter splmeter.Config `validate:"-"`

	// Source selects the sample source.
	Source string `validate:"oneof=wav stream portaudio"`

	// Input is the WAV path, or the stream path ("-" for stdin).
	Input string `validate:"required_if=Source wav,required_if=Source stream"`

	// Loop restarts WAV replay at the end of the file.
	Loop bool

	// Reporter selects the output format.
	Reporter string `validate:"oneof=text log"`

	// Verbose adds peak and clipping details to text reports.
	Verbose bool

	// LogLevel is the zap level for diagnostics on stderr.
	LogLevel string `validate:"oneof=debug info warn error"`

	// invalidBitsSet records whether InvalidLowBits was given explicitly.
	invalidBitsSet bool
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Defaults returns the settings used when nothing is configured.
func Defaults() *Settings {
	return &Settings{
		Meter:    *splmeter.DefaultConfig(),
		Source:   SourceStream,
		Input:    StdinInput,
		Reporter: ReporterText,
		LogLevel: "info",
	}
}

// Load builds settings from the environment and the given arguments
// (without the program name). Any malformed or invalid value is an error
// wrapping splmeter.ErrInvalidConfig.
func Load(name string, args []string, output io.Writer) (*Settings, error) {
	s := Defaults()

	envFile := os.Getenv(envFileVar)
	if envFile == "" {
		envFile = defaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if err := s.applyEnv(); err != nil {
		return nil, err
	}
	if err := s.applyFlags(name, args, output); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the command settings and the meter configuration.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %s", splmeter.ErrInvalidConfig, splmeter.DescribeValidation(err))
	}
	return s.Meter.Validate()
}

// AdoptFormat takes sample rate and bit depth from a self-describing input
// such as a WAV file. Unless set explicitly, the invalid low-bit count is
// reset to zero since file samples use their full width.
func (s *Settings) AdoptFormat(sampleRate, bitDepth int) error {
	s.Meter.SampleRate = sampleRate
	s.Meter.BitDepth = bitDepth
	if !s.invalidBitsSet {
		s.Meter.InvalidLowBits = 0
	}
	return s.Meter.Validate()
}

func (s *Settings) applyEnv() error {
	var err error
	intVar := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok && err == nil {
			n, perr := strconv.Atoi(v)
			if perr != nil {
				err = envError(key, perr)
				return
			}
			*dst = n
		}
	}
	floatVar := func(key string, dst *float64) {
		if v, ok := os.LookupEnv(key); ok && err == nil {
			f, perr := strconv.ParseFloat(v, 64)
			if perr != nil {
				err = envError(key, perr)
				return
			}
			*dst = f
		}
	}
	boolVar := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(key); ok && err == nil {
			b, perr := strconv.ParseBool(v)
			if perr != nil {
				err = envError(key, perr)
				return
			}
			*dst = b
		}
	}
	durationVar := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok && err == nil {
			d, perr := time.ParseDuration(v)
			if perr != nil {
				err = envError(key, perr)
				return
			}
			*dst = d
		}
	}
	stringVar := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	intVar(envSampleRate, &s.Meter.SampleRate)
	intVar(envBitDepth, &s.Meter.BitDepth)
	intVar(envBlockSize, &s.Meter.BlockSize)
	intVar(envInvalidLowBits, &s.Meter.InvalidLowBits)
	floatVar(envSensitivityDB, &s.Meter.SensitivityDB)
	floatVar(envReferenceDB, &s.Meter.ReferenceDB)
	floatVar(envRMSFloor, &s.Meter.RMSFloor)
	durationVar(envCycleDelay, &s.Meter.CycleDelay)
	stringVar(envSource, &s.Source)
	stringVar(envInput, &s.Input)
	boolVar(envLoop, &s.Loop)
	stringVar(envReporter, &s.Reporter)
	boolVar(envVerbose, &s.Verbose)
	stringVar(envLogLevel, &s.LogLevel)

	if _, ok := os.LookupEnv(envInvalidLowBits); ok {
		s.invalidBitsSet = true
	}
	return err
}

func (s *Settings) applyFlags(name string, args []string, output io.Writer) error {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(output)

	flags.IntVar(&s.Meter.SampleRate, "rate", s.Meter.SampleRate, "Sample rate in Hz")
	flags.IntVar(&s.Meter.BitDepth, "bits", s.Meter.BitDepth, "Sample bit depth (1-32)")
	flags.IntVar(&s.Meter.BlockSize, "block", s.Meter.BlockSize, "Samples per measurement cycle")
	flags.IntVar(&s.Meter.InvalidLowBits, "invalid-bits", s.Meter.InvalidLowBits, "Low-order bits that carry no signal")
	flags.Float64Var(&s.Meter.SensitivityDB, "sensitivity", s.Meter.SensitivityDB, "Microphone sensitivity offset in dB")
	flags.Float64Var(&s.Meter.ReferenceDB, "reference", s.Meter.ReferenceDB, "Reference tone SPL in dB")
	flags.Float64Var(&s.Meter.RMSFloor, "floor", s.Meter.RMSFloor, "Minimum RMS amplitude")
	flags.DurationVar(&s.Meter.CycleDelay, "delay", s.Meter.CycleDelay, "Delay between cycles (0 disables pacing)")
	flags.StringVar(&s.Source, "source", s.Source, "Sample source: wav, stream, portaudio")
	flags.StringVar(&s.Input, "input", s.Input, "WAV file, or stream path (- for stdin)")
	flags.BoolVar(&s.Loop, "loop", s.Loop, "Restart WAV replay at end of file")
	flags.StringVar(&s.Reporter, "report", s.Reporter, "Report format: text, log")
	flags.BoolVar(&s.Verbose, "v", s.Verbose, "Include peak and clipping in text reports")
	flags.StringVar(&s.LogLevel, "log-level", s.LogLevel, "Log level: debug, info, warn, error")

	if err := flags.Parse(args); err != nil {
		return err
	}

	if flags.NArg() > 0 {
		s.Input = flags.Arg(0)
	}
	flags.Visit(func(f *flag.Flag) {
		if f.Name == "invalid-bits" {
			s.invalidBitsSet = true
		}
	})
	return nil
}

func envError(key string, err error) error {
	return fmt.Errorf("%w: %s: %w", splmeter.ErrInvalidConfig, key, err)
}
