package config

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/spf13/afero"
)

// Config holds runtime configuration for capture, encoding and export.
// Fields may be loaded from a JSON file next to the executable.
type Config struct {
	Debug bool `json:"debug"`

	// Capture parameters
	TargetFrameCount   int  `json:"target_frame_count"`
	FrameDelayMs       int  `json:"frame_delay_ms"`
	StartDelayMs       int  `json:"start_delay_ms"`
	MaxAttempts        int  `json:"max_attempts"`
	AdvanceOnDuplicate bool `json:"advance_on_duplicate"`

	// Dedup
	DedupPolicy string `json:"dedup_policy"`
	Tolerance   int    `json:"tolerance"`

	// Output canvas; 0 keeps the source size.
	Width   int `json:"width"`
	Height  int `json:"height"`
	Quality int `json:"quality"`

	// Export
	OutputDir      string `json:"output_dir"`
	NamePrefix     string `json:"name_prefix"`
	ReleaseDelayMs int    `json:"release_delay_ms"`

	// Screen rectangle to record; zero size records the primary screen.
	SelectionX int `json:"selection_x"`
	SelectionY int `json:"selection_y"`
	SelectionW int `json:"selection_w"`
	SelectionH int `json:"selection_h"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:              false,
		TargetFrameCount:   3,
		FrameDelayMs:       100,
		StartDelayMs:       1000,
		MaxAttempts:        0,
		AdvanceOnDuplicate: false,
		DedupPolicy:        "hash-verify",
		Tolerance:          3,
		Width:              0,
		Height:             0,
		Quality:            10,
		OutputDir:          ".",
		NamePrefix:         "animation",
		ReleaseDelayMs:     5000,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.TargetFrameCount <= 0 {
		c.TargetFrameCount = 3
	}
	if c.TargetFrameCount > 500 {
		c.TargetFrameCount = 500
	}
	if c.FrameDelayMs < 10 {
		c.FrameDelayMs = 10
	}
	if c.StartDelayMs < 0 {
		c.StartDelayMs = 0
	}
	if c.MaxAttempts < 0 {
		c.MaxAttempts = 0
	}
	if c.DedupPolicy == "" {
		c.DedupPolicy = "hash-verify"
	}
	if c.Tolerance < 0 || c.Tolerance > 255 {
		c.Tolerance = 3
	}
	if c.Width < 0 || c.Height < 0 || (c.Width == 0) != (c.Height == 0) {
		c.Width, c.Height = 0, 0
	}
	if c.Quality <= 0 || c.Quality > 30 {
		c.Quality = 10
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.NamePrefix == "" {
		c.NamePrefix = "animation"
	}
	if c.ReleaseDelayMs <= 0 {
		c.ReleaseDelayMs = 5000
	}
	if c.SelectionW < 0 || c.SelectionH < 0 {
		c.SelectionW, c.SelectionH = 0, 0
	}
	return nil
}

func (c *Config) FrameDelay() time.Duration {
	return time.Duration(c.FrameDelayMs) * time.Millisecond
}

func (c *Config) StartDelay() time.Duration {
	return time.Duration(c.StartDelayMs) * time.Millisecond
}

func (c *Config) ReleaseDelay() time.Duration {
	return time.Duration(c.ReleaseDelayMs) * time.Millisecond
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) { return LoadFs(afero.NewOsFs(), path) }

// LoadFs is Load on an arbitrary filesystem.
func LoadFs(fs afero.Fs, path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error { return c.SaveFs(afero.NewOsFs(), path) }

// SaveFs is Save on an arbitrary filesystem.
func (c *Config) SaveFs(fs afero.Fs, path string) error {
	_ = c.Validate()
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
