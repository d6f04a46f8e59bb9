package splmeter

import "math"

// Calibrator maps an RMS amplitude to a calibrated sound pressure level.
//
//	level = 20*log10(rms) + SensitivityDB + ReferenceDB
//
// With the datasheet sensitivity (dBFS at 94 dB SPL) and a 94 dB reference,
// a full-scale RMS of 1.0 reads as SensitivityDB + 94. No upper bound is
// applied; loud transients may exceed physically plausible values.
type Calibrator struct {
	SensitivityDB float64
	ReferenceDB   float64
}

// NewCalibrator creates a calibrator from the two fixed offsets.
func NewCalibrator(sensitivityDB, referenceDB float64) Calibrator {
	return Calibrator{
		SensitivityDB: sensitivityDB,
		ReferenceDB:   referenceDB,
	}
}

// Level returns the calibrated level in dB for an RMS value.
// Callers pass an RMS already clamped by the Estimator.
func (c Calibrator) Level(rms float64) float64 {
	return DBFS(rms) + c.SensitivityDB + c.ReferenceDB
}

// DBFS converts a normalized amplitude to decibels relative to full scale.
func DBFS(v float64) float64 {
	return dbScale * math.Log10(v)
}
