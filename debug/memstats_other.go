//go:build !windows

package debug

import (
	"log/slog"
	"runtime"
	"time"
)

// StartMemLogger logs Go heap stats every interval. RSS is only reported on Windows.
func StartMemLogger(interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if logger == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			logMem(logger, &ms, runtime.NumGoroutine(), 0)
		}
	}()
}
