package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/wavebench/internal/engine/input"
	"github.com/Faultbox/wavebench/internal/logger"
	"github.com/Faultbox/wavebench/internal/scene"
)

// Surface is the render target a benchmark draws to.
type Surface interface {
	scene.Canvas
	Resize(width, height int)
	Begin()
	Finish()
}

// Presenter shows a finished frame.
type Presenter interface {
	SwapBuffers()
}

// Events reports user input between frames.
type Events interface {
	Poll() input.Action
	Resized() *input.Resize
}

// FrameCapturer saves the last frame of a benchmark.
type FrameCapturer interface {
	CaptureFrame(name string) (string, error)
}

// ErrQuit is returned by Run when the user aborted the run.
var ErrQuit = errors.New("bench: run aborted")

// Runner drives scenes frame by frame.
type Runner struct {
	surface   Surface
	presenter Presenter
	events    Events
	duration  time.Duration
	capturer  FrameCapturer
	newScene  func(name string) (scene.Scene, error)
	log       *zap.Logger
}

// NewRunner creates a runner. duration is the default run length of every
// benchmark.
func NewRunner(surface Surface, presenter Presenter, events Events, duration time.Duration) *Runner {
	return &Runner{
		surface:   surface,
		presenter: presenter,
		events:    events,
		duration:  duration,
		newScene:  scene.New,
		log:       logger.Named("bench"),
	}
}

// SetCapturer saves the final frame of every completed benchmark through c.
func (r *Runner) SetCapturer(c FrameCapturer) {
	r.capturer = c
}

// Run runs the benchmarks in order and returns one record per benchmark
// started. A benchmark that fails to parse or set up is recorded with its
// error and the run moves on. Run stops early with ErrQuit when the user
// quits, or with the context error when ctx is done.
func (r *Runner) Run(ctx context.Context, descriptors []string) ([]Record, error) {
	records := make([]Record, 0, len(descriptors))

	for _, text := range descriptors {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		rec, action := r.runOne(ctx, text)
		records = append(records, rec)
		r.logRecord(rec)

		if action == input.ActionQuit {
			return records, ErrQuit
		}
	}

	if err := ctx.Err(); err != nil {
		return records, err
	}
	return records, nil
}

func (r *Runner) runOne(ctx context.Context, text string) (Record, input.Action) {
	rec := Record{Benchmark: text}

	d, err := ParseDescriptor(text)
	if err != nil {
		rec.Error = err.Error()
		return rec, input.ActionNone
	}
	rec.Scene = d.Scene
	rec.Benchmark = d.String()

	s, err := r.prepare(d)
	if err != nil {
		rec.Error = err.Error()
		return rec, input.ActionNone
	}
	rec.Options = optionValues(s)

	if err := s.Setup(r.surface); err != nil {
		rec.Error = fmt.Sprintf("setup: %v", err)
		return rec, input.ActionNone
	}
	defer s.Teardown()

	action := r.loop(ctx, s, rec.Benchmark)
	rec.fill(s.Result())
	return rec, action
}

func (r *Runner) prepare(d Descriptor) (scene.Scene, error) {
	s, err := r.newScene(d.Scene)
	if err != nil {
		return nil, err
	}
	duration, err := d.Duration(r.duration)
	if err != nil {
		return nil, err
	}
	s.SetDuration(duration)
	if err := d.Apply(s); err != nil {
		return nil, err
	}
	return s, nil
}

// loop renders frames until the scene finishes or the user intervenes.
func (r *Runner) loop(ctx context.Context, s scene.Scene, name string) input.Action {
	for s.Running() {
		if ctx.Err() != nil {
			s.Stop()
			return input.ActionNone
		}

		action := r.events.Poll()
		if action != input.ActionNone {
			s.Stop()
			return action
		}
		if size := r.events.Resized(); size != nil {
			r.surface.Resize(size.Width, size.Height)
			s.Resize(size.Width, size.Height)
		}

		r.surface.Begin()
		s.Draw()
		s.Update()
		r.surface.Finish()
		if !s.Running() {
			r.capture(name, s.Result())
		}
		r.presenter.SwapBuffers()
	}
	return input.ActionNone
}

// capture saves the frame that ended a run. Failed runs are not captured.
func (r *Runner) capture(name string, res scene.Result) {
	if r.capturer == nil || res.Error != nil {
		return
	}
	path, err := r.capturer.CaptureFrame(name)
	if err != nil {
		r.log.Warn("frame capture failed", zap.String("benchmark", name), zap.Error(err))
		return
	}
	r.log.Info("frame captured", zap.String("benchmark", name), zap.String("path", path))
}

func (r *Runner) logRecord(rec Record) {
	if rec.Error != "" {
		r.log.Warn("benchmark failed", zap.String("benchmark", rec.Benchmark), zap.String("error", rec.Error))
		return
	}
	r.log.Info("benchmark finished",
		zap.String("benchmark", rec.Benchmark),
		zap.Float64("fps", rec.FPS),
		zap.Float64("frame_time_ms", rec.FrameTimeMS),
		zap.Int("frames", rec.Frames),
		zap.Bool("canceled", rec.Canceled),
	)
}

// optionValues returns the options that differ from their defaults.
func optionValues(s scene.Scene) map[string]string {
	values := make(map[string]string)
	for _, o := range s.Options() {
		if o.Value != o.Default {
			values[o.Name] = o.Value
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}
