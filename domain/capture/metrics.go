package capture

import (
	"time"
)

// CaptureStats summarises the most recent scheduler run.
type CaptureStats struct {
	Attempts   uint64
	Accepted   uint64
	Duplicates uint64
	AvgSample  time.Duration
	LastSample time.Time
}
