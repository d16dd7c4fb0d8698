// Package main is the entry point for the wavebench GPU buffer benchmark.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "wavebench"
	app.Usage = "benchmark partial vertex buffer updates with an animated wave mesh"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "path to a config file (default: ./wavebench.yaml or the user config dir)",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
		cli.StringFlag{
			Name:  "log-file",
			Usage: "also write logs to this file",
		},
		cli.StringFlag{
			Name:  "size, s",
			Usage: "window size as WIDTHxHEIGHT",
		},
		cli.BoolFlag{
			Name:  "fullscreen",
			Usage: "run in fullscreen",
		},
		cli.BoolFlag{
			Name:  "vsync",
			Usage: "wait for vertical blank on every swap",
		},
		cli.BoolFlag{
			Name:  "offscreen",
			Usage: "render into an offscreen framebuffer",
		},
		cli.StringSliceFlag{
			Name:  "benchmark, b",
			Usage: "benchmark to run as scene:option=value:... (repeatable)",
			Value: &cli.StringSlice{},
		},
		cli.DurationFlag{
			Name:  "duration, d",
			Usage: "default run time of every benchmark",
		},
		cli.StringFlag{
			Name:  "results, o",
			Usage: "write results as YAML to this file",
		},
		cli.StringFlag{
			Name:  "capture",
			Usage: "save the last frame of every benchmark into this directory",
		},
		cli.StringFlag{
			Name:  "capture-format",
			Usage: "image format of captured frames: png or bmp",
		},
	}
	app.Action = runBenchmarks
	app.Commands = []cli.Command{
		{
			Name:   "run",
			Usage:  "run the configured benchmarks (default)",
			Action: runBenchmarks,
		},
		{
			Name:   "scenes",
			Usage:  "list the available scenes and their options",
			Action: listScenes,
		},
		{
			Name:  "config",
			Usage: "write the effective configuration to a file",
			Description: `
Merge the defaults, the config file and the command line flags and write the
result as YAML. Without --output the file goes to the user config directory.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "output",
					Usage: "file to write",
				},
			},
			Action: writeConfig,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "wavebench: %v\n", err)
		os.Exit(1)
	}
}
