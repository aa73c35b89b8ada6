package debug

import (
	"log/slog"
	"runtime"
)

func logMem(logger *slog.Logger, ms *runtime.MemStats, goroutines int, rss uint64) {
	attrs := []any{
		slog.Int("goroutines", goroutines),
		slog.Uint64("heap_alloc", ms.HeapAlloc),
		slog.Uint64("heap_inuse", ms.HeapInuse),
		slog.Uint64("heap_idle", ms.HeapIdle),
		slog.Uint64("next_gc", ms.NextGC),
		slog.Uint64("num_gc", uint64(ms.NumGC)),
	}
	if rss > 0 {
		attrs = append(attrs, slog.Uint64("rss", rss))
	}
	logger.Debug("memstats", attrs...)
}
