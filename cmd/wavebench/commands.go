package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/Faultbox/wavebench/internal/bench"
	"github.com/Faultbox/wavebench/internal/config"
	"github.com/Faultbox/wavebench/internal/engine/capture"
	"github.com/Faultbox/wavebench/internal/engine/input"
	"github.com/Faultbox/wavebench/internal/engine/renderer"
	"github.com/Faultbox/wavebench/internal/engine/window"
	"github.com/Faultbox/wavebench/internal/logger"
	"github.com/Faultbox/wavebench/internal/scene"
)

// loadConfig merges the config file with the global command line flags.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	return config.Load(ctx.GlobalString("config"), config.Overrides{
		Debug:      ctx.GlobalBool("debug"),
		Size:       ctx.GlobalString("size"),
		Fullscreen: ctx.GlobalBool("fullscreen"),
		VSync:      ctx.GlobalBool("vsync"),
		Offscreen:  ctx.GlobalBool("offscreen"),
		Benchmarks: ctx.GlobalStringSlice("benchmark"),
		Duration:   ctx.GlobalDuration("duration"),
		Results:    ctx.GlobalString("results"),
		Capture:    ctx.GlobalString("capture"),
		LogFile:    ctx.GlobalString("log-file"),

		CaptureFormat: ctx.GlobalString("capture-format"),
	})
}

// runBenchmarks opens a window and runs every configured benchmark.
func runBenchmarks(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("=== wavebench ===",
		zap.Int("benchmarks", len(cfg.Benchmark.Benchmarks)),
		zap.Duration("duration", cfg.Benchmark.Duration),
	)

	win, err := window.New(window.Config{
		Title:      "wavebench",
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	width, height := win.DrawableSize()
	r, err := renderer.New(renderer.Config{
		Width:     width,
		Height:    height,
		Offscreen: cfg.Window.Offscreen,
	})
	if err != nil {
		return err
	}
	defer r.Close()

	info := r.Info()
	win.SetTitle("wavebench - " + info.Renderer)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := bench.NewRunner(r, win, input.New(), cfg.Benchmark.Duration)
	if cfg.Benchmark.Capture != "" {
		format, err := capture.ParseFormat(cfg.Benchmark.CaptureFormat)
		if err != nil {
			return err
		}
		runner.SetCapturer(capture.New(r, cfg.Benchmark.Capture, format))
	}
	records, runErr := runner.Run(sigCtx, cfg.Benchmark.Benchmarks)

	fmt.Printf("GL_VENDOR:   %s\nGL_RENDERER: %s\nGL_VERSION:  %s\n", info.Vendor, info.Renderer, info.Version)
	bench.WriteReport(os.Stdout, records)

	logger.Sugar.Infof("%d of %d benchmarks run, score %.0f",
		len(records), len(cfg.Benchmark.Benchmarks), bench.Score(records))

	if cfg.Benchmark.Results != "" {
		if err := bench.WriteResults(cfg.Benchmark.Results, bench.NewResults(records, info.Renderer, info.Version)); err != nil {
			logger.Error("writing results failed", zap.String("path", cfg.Benchmark.Results), zap.Error(err))
			return err
		}
		logger.Info("results written", zap.String("path", cfg.Benchmark.Results))
	}

	switch {
	case runErr == nil:
		return nil
	case errors.Is(runErr, bench.ErrQuit), errors.Is(runErr, context.Canceled):
		logger.Warn("run aborted", zap.Int("completed", len(records)))
		return nil
	default:
		logger.Error("run failed", zap.Error(runErr))
		return runErr
	}
}

// listScenes prints every scene option as a table.
func listScenes(ctx *cli.Context) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAutoMergeCells(true)
	table.SetHeader([]string{"Scene", "Option", "Default", "Values", "Description"})

	for _, name := range scene.Names() {
		s, err := scene.New(name)
		if err != nil {
			return err
		}
		for _, o := range s.Options() {
			values := strings.Join(o.Acceptable, "|")
			if values == "" {
				values = "any"
			}
			table.Append([]string{name, o.Name, o.Default, values, o.Description})
		}
	}

	table.Render()
	return nil
}

// writeConfig saves the merged configuration.
func writeConfig(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	path := ctx.String("output")
	if path == "" {
		path, err = cfg.Save()
	} else {
		err = cfg.SaveTo(path)
	}
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Println(path)
	return nil
}
