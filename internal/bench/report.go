package bench

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// WriteReport renders the records as a table.
func WriteReport(w io.Writer, records []Record) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Benchmark", "FPS", "Frame time", "Ranges/frame", "Vertices/frame", "KiB/frame", "Status"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})

	for _, rec := range records {
		if rec.Failed() {
			table.Append([]string{rec.Benchmark, "-", "-", "-", "-", "-", rec.Error})
			continue
		}
		status := "ok"
		if rec.Canceled {
			status = "canceled"
		}
		table.Append([]string{
			rec.Benchmark,
			fmt.Sprintf("%.0f", rec.FPS),
			fmt.Sprintf("%.3f ms", rec.FrameTimeMS),
			fmt.Sprintf("%.1f", rec.PerFrame(float64(rec.Uploads.Ranges))),
			fmt.Sprintf("%.0f", rec.PerFrame(float64(rec.Uploads.Vertices))),
			fmt.Sprintf("%.1f", rec.PerFrame(float64(rec.Uploads.Bytes))/1024),
			status,
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "SCORE", fmt.Sprintf("%.0f", Score(records))})

	table.Render()
}

// Results is the document written by WriteResults.
type Results struct {
	Date       time.Time `yaml:"date"`
	Renderer   string    `yaml:"renderer,omitempty"`
	Version    string    `yaml:"version,omitempty"`
	Score      float64   `yaml:"score"`
	Benchmarks []Record  `yaml:"benchmarks"`
}

// NewResults collects the records of a run.
func NewResults(records []Record, renderer, version string) Results {
	return Results{
		Date:       time.Now().UTC().Truncate(time.Second),
		Renderer:   renderer,
		Version:    version,
		Score:      Score(records),
		Benchmarks: records,
	}
}

// WriteResults writes the results as YAML, creating parent directories.
func WriteResults(path string, res Results) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating results directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	return f.Close()
}

// ReadResults loads results written by WriteResults.
func ReadResults(path string) (Results, error) {
	var res Results
	data, err := os.ReadFile(path)
	if err != nil {
		return res, err
	}
	if err := yaml.Unmarshal(data, &res); err != nil {
		return res, fmt.Errorf("decoding results: %w", err)
	}
	return res, nil
}
