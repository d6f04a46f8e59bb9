// Package report provides Reporter implementations for the level meter.
package report

import (
	"fmt"
	"io"
	"sync"

	splmeter "github.com/tphakala/go-spl-meter"
)

// Text writes one human-readable line per cycle:
//
//	RMS: 0.012345, Level: 49.83 dB
//	Acquisition error: cycle 7: acquisition failed: ...
//
// Write errors are counted rather than returned since the meter loop has
// no way to act on them.
type Text struct {
	mu            sync.Mutex
	w             io.Writer
	verbose       bool
	writeFailures int
}

// NewText creates a text reporter. With verbose set, lines also carry the
// cycle number, peak level and clipped sample count.
func NewText(w io.Writer, verbose bool) *Text {
	return &Text{w: w, verbose: verbose}
}

// Banner writes the startup line.
func (t *Text) Banner(title string) {
	t.writeLine(title)
}

// Report writes a level line with the RMS to six decimals and the level
// to two.
func (t *Text) Report(r splmeter.Reading) {
	if t.verbose {
		t.writeLine(fmt.Sprintf("#%d RMS: %.6f, Level: %.2f dB, Peak: %.2f dBFS, Clipped: %d/%d",
			r.Cycle, r.RMS, r.LevelDB, r.PeakDBFS, r.Clipped, r.Samples))
		return
	}
	t.writeLine(fmt.Sprintf("RMS: %.6f, Level: %.2f dB", r.RMS, r.LevelDB))
}

// ReportError writes an error line.
func (t *Text) ReportError(err error) {
	t.writeLine("Acquisition error: " + err.Error())
}

// WriteFailures returns how many lines could not be written.
func (t *Text) WriteFailures() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writeFailures
}

func (t *Text) writeLine(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := io.WriteString(t.w, line+"\n"); err != nil {
		t.writeFailures++
	}
}
