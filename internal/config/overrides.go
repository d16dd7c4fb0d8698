package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Overrides are command-line settings applied on top of the file config.
// Zero values leave the config untouched.
type Overrides struct {
	Debug      bool
	Size       string // "WIDTHxHEIGHT"
	Fullscreen bool
	VSync      bool
	Offscreen  bool
	Benchmarks []string
	Duration   time.Duration
	Results    string
	Capture    string
	LogFile    string

	CaptureFormat string
}

func (o Overrides) apply(cfg *Config) error {
	if o.Debug {
		cfg.Logging.Level = "debug"
	}
	if o.Size != "" {
		w, h, err := ParseSize(o.Size)
		if err != nil {
			return err
		}
		cfg.Window.Width = w
		cfg.Window.Height = h
	}
	if o.Fullscreen {
		cfg.Window.Fullscreen = true
	}
	if o.VSync {
		cfg.Window.VSync = true
	}
	if o.Offscreen {
		cfg.Window.Offscreen = true
	}
	if len(o.Benchmarks) > 0 {
		cfg.Benchmark.Benchmarks = append([]string(nil), o.Benchmarks...)
	}
	if o.Duration > 0 {
		cfg.Benchmark.Duration = o.Duration
	}
	if o.Results != "" {
		cfg.Benchmark.Results = o.Results
	}
	if o.Capture != "" {
		cfg.Benchmark.Capture = o.Capture
	}
	if o.CaptureFormat != "" {
		cfg.Benchmark.CaptureFormat = o.CaptureFormat
	}
	if o.LogFile != "" {
		cfg.Logging.LogFile = o.LogFile
	}
	return nil
}

// ParseSize parses a "WIDTHxHEIGHT" window size.
func ParseSize(s string) (width, height int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q: want WIDTHxHEIGHT", s)
	}
	width, err = strconv.Atoi(ws)
	if err != nil || width <= 0 {
		return 0, 0, fmt.Errorf("invalid width in size %q", s)
	}
	height, err = strconv.Atoi(hs)
	if err != nil || height <= 0 {
		return 0, 0, fmt.Errorf("invalid height in size %q", s)
	}
	return width, height, nil
}
