// Package config handles benchmark configuration loading and management.
package config

import "time"

// Config holds all benchmark settings.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Benchmark BenchmarkConfig `yaml:"benchmark"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	// Offscreen renders into a framebuffer object instead of the window.
	Offscreen bool `yaml:"offscreen"`
}

// BenchmarkConfig selects what to run and for how long.
type BenchmarkConfig struct {
	// Benchmarks are scene descriptors, e.g. "buffer:columns=200:update-method=subdata".
	Benchmarks []string      `yaml:"benchmarks"`
	Duration   time.Duration `yaml:"duration"`
	// Results is an optional path to write the run's results to as YAML.
	Results string `yaml:"results"`
	// Capture is an optional directory to save the last frame of every
	// benchmark to, as CaptureFormat ("png" or "bmp").
	Capture       string `yaml:"capture"`
	CaptureFormat string `yaml:"capture_format"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// DefaultBenchmarks mirrors the buffer variants of the classic suite: the
// same update pressure pushed through each update method and layout.
var DefaultBenchmarks = []string{
	"buffer:update-fraction=0.5:update-dispersion=0.9:columns=200:update-method=map:interleave=false",
	"buffer:update-fraction=0.5:update-dispersion=0.9:columns=200:update-method=subdata:interleave=false",
	"buffer:update-fraction=0.5:update-dispersion=0.9:columns=200:update-method=map:interleave=true",
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      800,
			Height:     600,
			Fullscreen: false,
			VSync:      false,
		},
		Benchmark: BenchmarkConfig{
			Benchmarks:    append([]string(nil), DefaultBenchmarks...),
			Duration:      10 * time.Second,
			CaptureFormat: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
