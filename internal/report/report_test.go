package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	splmeter "github.com/tphakala/go-spl-meter"
)

var sampleReading = splmeter.Reading{
	Cycle:    3,
	LevelDB:  67.99987,
	RMS:      0.9999847,
	Peak:     1.0,
	PeakDBFS: 0,
	Samples:  4,
	Clipped:  4,
}

func TestText_Report(t *testing.T) {
	var buf bytes.Buffer
	NewText(&buf, false).Report(sampleReading)

	assert.Equal(t, "RMS: 0.999985, Level: 68.00 dB\n", buf.String())
}

func TestText_ReportVerbose(t *testing.T) {
	var buf bytes.Buffer
	NewText(&buf, true).Report(sampleReading)

	assert.Equal(t, "#3 RMS: 0.999985, Level: 68.00 dB, Peak: 0.00 dBFS, Clipped: 4/4\n", buf.String())
}

func TestText_ReportError(t *testing.T) {
	var buf bytes.Buffer
	rep := NewText(&buf, false)

	rep.ReportError(&splmeter.AcquisitionError{Cycle: 2, Err: errors.New("i2s read failed")})

	assert.Equal(t, "Acquisition error: cycle 2: acquisition failed: i2s read failed\n", buf.String())
}

func TestText_OneLinePerCall(t *testing.T) {
	var buf bytes.Buffer
	rep := NewText(&buf, false)

	rep.Banner("dB check")
	rep.Report(sampleReading)
	rep.ReportError(errors.New("boom"))
	rep.Report(sampleReading)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "dB check", lines[0])
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestText_WriteFailuresCounted(t *testing.T) {
	rep := NewText(failingWriter{}, false)
	rep.Report(sampleReading)
	rep.ReportError(errors.New("boom"))

	assert.Equal(t, 2, rep.WriteFailures())
}

func TestLog_Report(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	rep := NewLog(zap.New(core).Sugar())

	rep.Report(sampleReading)
	rep.ReportError(errors.New("boom"))

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "sound level", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.InDelta(t, 67.99987, fields["level_db"], 1e-9)
	assert.Equal(t, uint64(3), fields["cycle"])

	assert.Equal(t, "acquisition error", entries[1].Message)
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
}
