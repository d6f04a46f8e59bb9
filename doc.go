// Package splmeter estimates calibrated sound pressure levels from a stream
// of fixed-point PCM samples, such as those delivered by an I2S MEMS
// microphone.
//
// # Pipeline
//
// Each measurement cycle runs the same fixed chain:
//
//	SampleSource -> Normalizer -> Estimator -> Calibrator -> Reporter
//	 (int32 block)   ([-1, 1])      (RMS)        (dB SPL)     (one line)
//
// The [Normalizer] discards the low-order bits the capture hardware does
// not drive and scales the remaining value by its full-scale divisor. The
// [Estimator] computes the block RMS using SIMD kernels from
// github.com/tphakala/simd and clamps it to a small floor so silence reads
// as a finite level. The [Calibrator] applies
//
//	level = 20*log10(rms) + sensitivity + reference
//
// where sensitivity is the microphone's dBFS rating at the reference tone
// (94 dB SPL for 1 Pa).
//
// # Quick Start
//
//	config := splmeter.DefaultConfig()
//	m, err := splmeter.New(config, source, reporter)
//	if err != nil {
//	    log.Fatal(err) // configuration errors surface here
//	}
//	_ = m.Run(ctx) // returns only when ctx is done
//
// For a single measurement without the loop, call [Meter.Cycle].
//
// # Error Handling
//
// Invalid configuration is rejected by [New] with an error wrapping
// [ErrInvalidConfig]. Once running, a failed or empty acquisition is
// passed to [Reporter.ReportError] as an [*AcquisitionError] and the loop
// carries on with the next cycle.
//
// # Thread Safety
//
// A [Meter] runs on a single goroutine. Only [Meter.Stats] may be called
// concurrently with [Meter.Run].
package splmeter
