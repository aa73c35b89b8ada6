package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/soocke/pixel-gif-go/app"
	"github.com/soocke/pixel-gif-go/config"
	"github.com/soocke/pixel-gif-go/debug"
)

const cfgPath = "pixel-gif.json"

func main() {
	cfg, err := config.Load(cfgPath)

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)
	if err != nil {
		logger.Warn("config load failed, using defaults", "path", cfgPath, "error", err)
	}
	if cfg.Debug {
		debug.StartMemLogger(5*time.Second, logger)
		debug.StartGoroutineLogger(5*time.Second, logger)
	}
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := cfg.Save(cfgPath); err != nil {
			logger.Warn("config save failed", "path", cfgPath, "error", err)
		}
	}

	application := app.NewApp("Pixel GIF", 560, 520, cfg, cfgPath, logger)
	application.Start()
}
