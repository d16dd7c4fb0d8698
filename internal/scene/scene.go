// Package scene provides the benchmark scenes and the option and timing
// machinery they share.
package scene

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/wavebench/internal/engine/mesh"
	"github.com/Faultbox/wavebench/internal/engine/renderer"
	"github.com/Faultbox/wavebench/internal/logger"
)

// Canvas is what a scene needs to know about the surface it draws on.
type Canvas interface {
	Size() (int, int)
	Projection() mgl32.Mat4
	Info() renderer.Info
}

// Scene is one benchmark. The harness calls Setup, then Update and Draw once
// per frame while Running, then Teardown.
type Scene interface {
	Name() string
	Options() []Option
	SetOption(name, value string) error
	ResetOptions()
	SetDuration(d time.Duration)

	Setup(c Canvas) error
	Teardown()
	Update()
	Draw()
	Resize(width, height int)
	Stop()

	Running() bool
	Result() Result
}

// Option is a named string setting of a scene.
type Option struct {
	Name        string
	Value       string
	Default     string
	Description string
	Acceptable  []string // Empty when any value is accepted
}

// Result is the outcome of one scene run.
type Result struct {
	Frames   int
	Elapsed  time.Duration
	FPS      float64
	Uploads  mesh.UploadStats
	Error    error
	Canceled bool
}

// FrameTime returns the average time per frame.
func (r Result) FrameTime() time.Duration {
	if r.Frames == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Frames)
}

// Base implements options and frame timing for scenes.
type Base struct {
	name     string
	options  map[string]*Option
	duration time.Duration
	clock    func() time.Time
	log      *zap.Logger

	running  bool
	start    time.Time
	elapsed  time.Duration
	frames   int
	fps      float64
	err      error
	canceled bool
}

// NewBase creates the shared part of a scene.
func NewBase(name string) Base {
	return Base{
		name:     name,
		options:  make(map[string]*Option),
		duration: 10 * time.Second,
		clock:    time.Now,
		log:      logger.Named("scene." + name),
	}
}

// Name returns the scene name.
func (b *Base) Name() string {
	return b.name
}

// AddOption declares an option with its default value.
func (b *Base) AddOption(name, def, description string, acceptable ...string) {
	b.options[name] = &Option{
		Name:        name,
		Value:       def,
		Default:     def,
		Description: description,
		Acceptable:  acceptable,
	}
}

// Options returns all options sorted by name.
func (b *Base) Options() []Option {
	out := make([]Option, 0, len(b.options))
	for _, o := range b.options {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SetOption sets an option value. Values outside the acceptable list are
// stored anyway; the scene decides how to interpret them.
func (b *Base) SetOption(name, value string) error {
	o, ok := b.options[name]
	if !ok {
		return fmt.Errorf("%w: %s has no option %q", ErrUnknownOption, b.name, name)
	}
	if len(o.Acceptable) > 0 && !slices.Contains(o.Acceptable, value) {
		b.log.Warn("unexpected option value",
			zap.String("option", name),
			zap.String("value", value),
			zap.Strings("acceptable", o.Acceptable),
		)
	}
	o.Value = value
	return nil
}

// ResetOptions restores every option to its default.
func (b *Base) ResetOptions() {
	for _, o := range b.options {
		o.Value = o.Default
	}
}

// Option returns the current value of an option.
func (b *Base) Option(name string) string {
	if o, ok := b.options[name]; ok {
		return o.Value
	}
	return ""
}

// SetDuration sets how long the scene runs.
func (b *Base) SetDuration(d time.Duration) {
	b.duration = d
}

// Resize is a no-op for scenes without size-dependent state.
func (b *Base) Resize(int, int) {}

// Running reports whether the scene wants more frames.
func (b *Base) Running() bool {
	return b.running
}

// Result returns the timing of the last run.
func (b *Base) Result() Result {
	return Result{
		Frames:   b.frames,
		Elapsed:  b.elapsed,
		FPS:      b.fps,
		Error:    b.err,
		Canceled: b.canceled,
	}
}

// startClock begins a run.
func (b *Base) startClock() {
	b.start = b.clock()
	b.elapsed = 0
	b.frames = 0
	b.fps = 0
	b.err = nil
	b.canceled = false
	b.running = true
}

// tick accounts for one frame and returns the seconds elapsed since
// startClock. The run ends on the first frame at or past the duration.
func (b *Base) tick() float64 {
	b.elapsed = b.clock().Sub(b.start)
	seconds := b.elapsed.Seconds()

	if b.elapsed >= b.duration {
		if seconds > 0 {
			b.fps = float64(b.frames) / seconds
		}
		b.running = false
	}

	b.frames++
	return seconds
}

// Stop ends a run before its duration is up.
func (b *Base) Stop() {
	if !b.running {
		return
	}
	b.elapsed = b.clock().Sub(b.start)
	if s := b.elapsed.Seconds(); s > 0 {
		b.fps = float64(b.frames) / s
	}
	b.canceled = true
	b.running = false
}

// fail stops the run with an error.
func (b *Base) fail(err error) {
	b.err = err
	b.running = false
	b.log.Error("scene failed", zap.Error(err))
}
