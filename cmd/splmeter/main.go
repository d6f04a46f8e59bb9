// Command splmeter prints a calibrated sound pressure level for each block
// of samples read from a microphone stream, a WAV file or a PortAudio
// input device.
//
// Usage:
//
//	splmeter -source stream -bits 32 -invalid-bits 8 /dev/ttyUSB0
//	splmeter -source stream -bits 16 -invalid-bits 0 -         # raw PCM on stdin
//	splmeter -source wav -loop -delay 0 calibration.wav
//	splmeter -source portaudio -bits 32 -invalid-bits 0        # needs -tags portaudio
//
// Every setting can also be given as an SPL_* environment variable or in a
// .env file; flags take precedence.
//
// The meter keeps running after a stream or a non-looping WAV file ends,
// printing an acquisition error on each cycle until interrupted. With
// -delay 0 those retries are spaced 100ms apart.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	splmeter "github.com/tphakala/go-spl-meter"
	"github.com/tphakala/go-spl-meter/internal/config"
	"github.com/tphakala/go-spl-meter/internal/logging"
	"github.com/tphakala/go-spl-meter/internal/report"
	"github.com/tphakala/go-spl-meter/internal/simdops"
)

const bannerLine = "dB check"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		stop()
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	settings, err := config.Load("splmeter", args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	logger, err := logging.New(settings.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	src, err := openSource(settings, stdin)
	if err != nil {
		return err
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Warnw("failed to close sample source", "error", err)
		}
	}()
	if settings.Meter.CycleDelay == 0 {
		src = &pacedSource{sampleSource: src, pause: retryPause}
	}

	var reporter splmeter.Reporter
	switch settings.Reporter {
	case config.ReporterLog:
		reporter = report.NewLog(logger.Named("report"))
	default:
		text := report.NewText(stdout, settings.Verbose)
		text.Banner(bannerLine)
		reporter = text
	}

	meter, err := splmeter.New(&settings.Meter, src, reporter, splmeter.WithLogger(logger.Named("meter")))
	if err != nil {
		return err
	}

	logger.Infow("starting level meter",
		"source", settings.Source,
		"input", settings.Input,
		"simd", simdops.CPUInfo(),
		"sensitivity_db", settings.Meter.SensitivityDB,
		"reference_db", settings.Meter.ReferenceDB,
	)

	err = meter.Run(ctx)
	stats := meter.Stats()
	logger.Infow("level meter stopped",
		"cycles", stats.Cycles,
		"readings", stats.Readings,
		"errors", stats.Errors,
	)

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("meter stopped: %w", err)
	}
	return nil
}
