package bench

import (
	"time"

	"github.com/Faultbox/wavebench/internal/engine/mesh"
	"github.com/Faultbox/wavebench/internal/scene"
)

// Record is the outcome of one benchmark.
type Record struct {
	Benchmark string            `yaml:"benchmark"`
	Scene     string            `yaml:"scene,omitempty"`
	Options   map[string]string `yaml:"options,omitempty"`

	Frames      int           `yaml:"frames"`
	Elapsed     time.Duration `yaml:"elapsed"`
	FPS         float64       `yaml:"fps"`
	FrameTimeMS float64       `yaml:"frame_time_ms"`
	Canceled    bool          `yaml:"canceled,omitempty"`
	Error       string        `yaml:"error,omitempty"`

	Uploads UploadRecord `yaml:"uploads"`
}

// UploadRecord is the buffer traffic of a benchmark.
type UploadRecord struct {
	Updates  int   `yaml:"updates"`
	Ranges   int   `yaml:"ranges"`
	Vertices int   `yaml:"vertices"`
	Calls    int   `yaml:"calls"`
	Bytes    int64 `yaml:"bytes"`
}

func (rec *Record) fill(r scene.Result) {
	rec.Frames = r.Frames
	rec.Elapsed = r.Elapsed
	rec.FPS = r.FPS
	rec.FrameTimeMS = float64(r.FrameTime()) / float64(time.Millisecond)
	rec.Canceled = r.Canceled
	rec.Uploads = uploadRecord(r.Uploads)
	if r.Error != nil {
		rec.Error = r.Error.Error()
	}
}

func uploadRecord(s mesh.UploadStats) UploadRecord {
	return UploadRecord{
		Updates:  s.Updates,
		Ranges:   s.Ranges,
		Vertices: s.Vertices,
		Calls:    s.Calls,
		Bytes:    s.Bytes,
	}
}

// Failed reports whether the benchmark did not produce a result.
func (rec Record) Failed() bool {
	return rec.Error != ""
}

// PerFrame divides a counter by the number of frames rendered.
func (rec Record) PerFrame(n float64) float64 {
	if rec.Frames == 0 {
		return 0
	}
	return n / float64(rec.Frames)
}

// Score is the mean FPS of the benchmarks that completed without error.
func Score(records []Record) float64 {
	var sum float64
	var n int
	for _, rec := range records {
		if rec.Failed() {
			continue
		}
		sum += rec.FPS
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
