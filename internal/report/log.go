package report

import (
	"go.uber.org/zap"

	splmeter "github.com/tphakala/go-spl-meter"
)

// Log reports readings as structured log entries, one per cycle.
type Log struct {
	logger *zap.SugaredLogger
}

// NewLog creates a reporter that logs through logger.
func NewLog(logger *zap.SugaredLogger) *Log {
	return &Log{logger: logger}
}

// Report logs a reading at info level.
func (l *Log) Report(r splmeter.Reading) {
	l.logger.Infow("sound level",
		"cycle", r.Cycle,
		"level_db", r.LevelDB,
		"rms", r.RMS,
		"peak_dbfs", r.PeakDBFS,
		"samples", r.Samples,
		"clipped", r.Clipped,
	)
}

// ReportError logs a failed cycle at error level.
func (l *Log) ReportError(err error) {
	l.logger.Errorw("acquisition error", "error", err)
}
