package splmeter

import (
	"errors"
	"fmt"
)

// Per-cycle acquisition failures. These are delivered to the Reporter
// wrapped in an *AcquisitionError and never stop the loop.
var (
	// ErrEmptyBlock indicates the source succeeded but delivered no samples.
	ErrEmptyBlock = errors.New("empty sample block")

	// ErrBlockOverrun indicates the source claimed more samples than the block holds.
	ErrBlockOverrun = errors.New("sample count exceeds block size")
)

// AcquisitionError reports that no level could be computed for a cycle.
type AcquisitionError struct {
	// Cycle is the 1-based cycle number that failed.
	Cycle uint64

	// Err is the underlying source error, ErrEmptyBlock or ErrBlockOverrun.
	Err error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("cycle %d: acquisition failed: %v", e.Cycle, e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}
