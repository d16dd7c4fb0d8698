package bench

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/wavebench/internal/engine/input"
	"github.com/Faultbox/wavebench/internal/engine/mesh"
	"github.com/Faultbox/wavebench/internal/engine/renderer"
	"github.com/Faultbox/wavebench/internal/scene"
)

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		in      string
		want    Descriptor
		wantErr error
	}{
		{in: "buffer", want: Descriptor{Scene: "buffer"}},
		{
			in: "buffer:columns=200:update-method=subdata",
			want: Descriptor{Scene: "buffer", Settings: []Setting{
				{Name: "columns", Value: "200"},
				{Name: "update-method", Value: "subdata"},
			}},
		},
		{in: " buffer:wavelength= ", want: Descriptor{Scene: "buffer", Settings: []Setting{{Name: "wavelength", Value: ""}}}},
		{in: "", wantErr: ErrEmptyDescriptor},
		{in: ":columns=2", wantErr: ErrInvalidDescriptor},
		{in: "buffer:columns", wantErr: ErrInvalidDescriptor},
		{in: "buffer:=3", wantErr: ErrInvalidDescriptor},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDescriptor(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestDescriptorString(t *testing.T) {
	const text = "buffer:update-fraction=0.5:columns=200"
	d, err := ParseDescriptor(text)
	require.NoError(t, err)
	assert.Equal(t, text, d.String())
}

func TestDescriptorDuration(t *testing.T) {
	d, _ := ParseDescriptor("buffer")
	got, err := d.Duration(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, got)

	d, _ = ParseDescriptor("buffer:duration=0.5")
	got, err = d.Duration(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, got)

	d, _ = ParseDescriptor("buffer:duration=-1")
	_, err = d.Duration(5 * time.Second)
	assert.ErrorIs(t, err, ErrInvalidDescriptor)
}

func TestDescriptorApply(t *testing.T) {
	s := scene.NewBuffer()
	require.NoError(t, s.SetOption("rows", "7"))

	d, _ := ParseDescriptor("buffer:columns=30:duration=2")
	require.NoError(t, d.Apply(s))
	assert.Equal(t, "30", s.Option("columns"))
	assert.Equal(t, "20", s.Option("rows"), "options not in the descriptor are reset")

	d, _ = ParseDescriptor("buffer:colour=red")
	assert.ErrorIs(t, d.Apply(s), scene.ErrUnknownOption)
}

// fakeScene runs for a fixed number of frames.
type fakeScene struct {
	scene.Base
	frames   int
	setupErr error

	setups, teardowns int
	draws, updates    int
	resized           [2]int
	running, stopped  bool
}

func newFakeScene(frames int) *fakeScene {
	s := &fakeScene{Base: scene.NewBase("fake"), frames: frames}
	s.AddOption("size", "1", "test option")
	return s
}

func (s *fakeScene) Setup(scene.Canvas) error {
	s.setups++
	if s.setupErr != nil {
		return s.setupErr
	}
	s.running = true
	return nil
}

func (s *fakeScene) Teardown()     { s.teardowns++ }
func (s *fakeScene) Draw()         { s.draws++ }
func (s *fakeScene) Running() bool { return s.running }

func (s *fakeScene) Update() {
	s.updates++
	if s.updates >= s.frames {
		s.running = false
	}
}

func (s *fakeScene) Resize(w, h int) { s.resized = [2]int{w, h} }

func (s *fakeScene) Stop() {
	s.stopped = true
	s.running = false
}

func (s *fakeScene) Result() scene.Result {
	return scene.Result{
		Frames:   s.updates,
		Elapsed:  time.Duration(s.updates) * 10 * time.Millisecond,
		FPS:      100,
		Canceled: s.stopped,
		Uploads:  mesh.UploadStats{Updates: s.updates, Ranges: 2 * s.updates, Vertices: 12 * s.updates, Bytes: 1024 * int64(s.updates)},
	}
}

type fakeSurface struct {
	begins, finishes int
	size             [2]int
}

func (f *fakeSurface) Size() (int, int)         { return 800, 600 }
func (f *fakeSurface) Projection() mgl32.Mat4   { return mgl32.Ident4() }
func (f *fakeSurface) Info() renderer.Info      { return renderer.Info{Major: 4, Minor: 1} }
func (f *fakeSurface) Resize(width, height int) { f.size = [2]int{width, height} }
func (f *fakeSurface) Begin()                   { f.begins++ }
func (f *fakeSurface) Finish()                  { f.finishes++ }

type fakePresenter struct{ swaps int }

func (p *fakePresenter) SwapBuffers() { p.swaps++ }

// scriptedEvents returns the scripted actions in order, then ActionNone.
type scriptedEvents struct {
	actions []input.Action
	resize  map[int]*input.Resize
	polls   int
}

func (e *scriptedEvents) Poll() input.Action {
	e.polls++
	if len(e.actions) == 0 {
		return input.ActionNone
	}
	a := e.actions[0]
	e.actions = e.actions[1:]
	return a
}

func (e *scriptedEvents) Resized() *input.Resize {
	return e.resize[e.polls]
}

type harness struct {
	runner    *Runner
	surface   *fakeSurface
	presenter *fakePresenter
	events    *scriptedEvents
	scenes    []*fakeScene
}

func newHarness(t *testing.T, frames int, events *scriptedEvents) *harness {
	t.Helper()
	h := &harness{
		surface:   &fakeSurface{},
		presenter: &fakePresenter{},
		events:    events,
	}
	h.runner = NewRunner(h.surface, h.presenter, h.events, time.Second)
	h.runner.newScene = func(name string) (scene.Scene, error) {
		if name != "fake" {
			return nil, scene.ErrUnknownScene
		}
		s := newFakeScene(frames)
		h.scenes = append(h.scenes, s)
		return s, nil
	}
	return h
}

func TestRunnerRunsEveryBenchmark(t *testing.T) {
	h := newHarness(t, 3, &scriptedEvents{})

	records, err := h.runner.Run(context.Background(), []string{"fake", "fake:size=4"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Len(t, h.scenes, 2)

	for _, s := range h.scenes {
		assert.Equal(t, 1, s.setups)
		assert.Equal(t, 1, s.teardowns)
		assert.Equal(t, 3, s.draws)
		assert.Equal(t, 3, s.updates)
	}
	assert.Equal(t, 6, h.presenter.swaps)
	assert.Equal(t, 6, h.surface.begins)
	assert.Equal(t, 6, h.surface.finishes)

	assert.Nil(t, records[0].Options)
	assert.Equal(t, map[string]string{"size": "4"}, records[1].Options)
	assert.Equal(t, "fake", records[1].Scene)
	assert.Equal(t, 3, records[1].Frames)
	assert.InDelta(t, 10.0, records[1].FrameTimeMS, 1e-9)
	assert.Equal(t, 6, records[1].Uploads.Ranges)
}

func TestRunnerRecordsFailuresAndContinues(t *testing.T) {
	h := newHarness(t, 2, &scriptedEvents{})

	records, err := h.runner.Run(context.Background(), []string{"bogus", "fake:nope=1", "fake:size", "fake"})
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Contains(t, records[0].Error, "unknown scene")
	assert.Contains(t, records[1].Error, "unknown option")
	assert.Contains(t, records[2].Error, "name=value")
	assert.False(t, records[3].Failed())

	// The scene with the bad option was never set up.
	assert.Zero(t, h.scenes[0].setups)
}

func TestRunnerSetupError(t *testing.T) {
	h := newHarness(t, 2, &scriptedEvents{})
	h.runner.newScene = func(string) (scene.Scene, error) {
		s := newFakeScene(2)
		s.setupErr = scene.ErrMapBufferUnsupported
		h.scenes = append(h.scenes, s)
		return s, nil
	}

	records, err := h.runner.Run(context.Background(), []string{"fake"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, records[0].Error, "setup")
	assert.Zero(t, h.scenes[0].teardowns)
	assert.Zero(t, h.presenter.swaps)
}

func TestRunnerSkip(t *testing.T) {
	h := newHarness(t, 100, &scriptedEvents{actions: []input.Action{input.ActionNone, input.ActionSkip}})

	records, err := h.runner.Run(context.Background(), []string{"fake", "fake"})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.True(t, records[0].Canceled)
	assert.Equal(t, 1, records[0].Frames)
	assert.True(t, h.scenes[0].stopped)
	assert.Equal(t, 1, h.scenes[0].teardowns)

	assert.False(t, records[1].Canceled)
	assert.Equal(t, 100, records[1].Frames)
}

func TestRunnerQuit(t *testing.T) {
	h := newHarness(t, 100, &scriptedEvents{actions: []input.Action{input.ActionQuit}})

	records, err := h.runner.Run(context.Background(), []string{"fake", "fake"})
	assert.ErrorIs(t, err, ErrQuit)
	require.Len(t, records, 1)
	assert.True(t, records[0].Canceled)
	assert.Equal(t, 1, h.scenes[0].teardowns)
}

func TestRunnerContextCanceled(t *testing.T) {
	h := newHarness(t, 100, &scriptedEvents{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records, err := h.runner.Run(ctx, []string{"fake"})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, records)
}

func TestRunnerForwardsResize(t *testing.T) {
	events := &scriptedEvents{resize: map[int]*input.Resize{2: {Width: 1024, Height: 768}}}
	h := newHarness(t, 3, events)

	_, err := h.runner.Run(context.Background(), []string{"fake"})
	require.NoError(t, err)
	assert.Equal(t, [2]int{1024, 768}, h.surface.size)
	assert.Equal(t, [2]int{1024, 768}, h.scenes[0].resized)
}

func TestRunnerDescriptorDuration(t *testing.T) {
	var got time.Duration
	h := newHarness(t, 1, &scriptedEvents{})
	h.runner.newScene = func(string) (scene.Scene, error) {
		return &durationScene{fakeScene: newFakeScene(1), got: &got}, nil
	}

	_, err := h.runner.Run(context.Background(), []string{"fake:duration=2.5"})
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, got)
}

type durationScene struct {
	*fakeScene
	got *time.Duration
}

func (s *durationScene) SetDuration(d time.Duration) { *s.got = d }

func TestScore(t *testing.T) {
	records := []Record{
		{FPS: 100},
		{FPS: 300},
		{FPS: 0, Error: "setup: failed"},
	}
	assert.Equal(t, 200.0, Score(records))
	assert.Zero(t, Score(nil))
}

func TestWriteReport(t *testing.T) {
	records := []Record{
		{
			Benchmark:   "buffer:update-method=map",
			Frames:      10,
			FPS:         250,
			FrameTimeMS: 4,
			Uploads:     UploadRecord{Ranges: 20, Vertices: 1200, Bytes: 10 * 2048},
		},
		{Benchmark: "buffer:update-method=subdata", Frames: 4, FPS: 50, FrameTimeMS: 20, Canceled: true},
		{Benchmark: "shading", Error: "unknown scene"},
	}

	var buf bytes.Buffer
	WriteReport(&buf, records)
	out := buf.String()

	for _, want := range []string{
		"Benchmark", "KiB/frame",
		"buffer:update-method=map", "250", "4.000 ms", "2.0", "120",
		"canceled", "unknown scene", "SCORE", "150",
	} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 1, strings.Count(out, "SCORE"))
}

func TestWriteResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.yaml")
	records := []Record{{
		Benchmark:   "buffer:columns=10",
		Scene:       "buffer",
		Options:     map[string]string{"columns": "10"},
		Frames:      60,
		Elapsed:     time.Second,
		FPS:         60,
		FrameTimeMS: 16.666,
		Uploads:     UploadRecord{Updates: 59, Ranges: 118, Vertices: 7080, Calls: 59, Bytes: 339840},
	}}

	res := NewResults(records, "llvmpipe", "4.1")
	require.NoError(t, WriteResults(path, res))

	loaded, err := ReadResults(path)
	require.NoError(t, err)
	assert.Equal(t, 60.0, loaded.Score)
	assert.Equal(t, "llvmpipe", loaded.Renderer)
	assert.True(t, res.Date.Equal(loaded.Date))
	require.Len(t, loaded.Benchmarks, 1)
	assert.Equal(t, records[0], loaded.Benchmarks[0])
}

type recordingCapturer struct {
	names []string
	err   error
}

func (c *recordingCapturer) CaptureFrame(name string) (string, error) {
	c.names = append(c.names, name)
	return name + ".png", c.err
}

func TestRunnerCapturesFinalFrame(t *testing.T) {
	h := newHarness(t, 3, &scriptedEvents{actions: []input.Action{
		input.ActionNone, input.ActionNone, input.ActionNone, // first benchmark completes
		input.ActionSkip, // second is skipped
	}})
	c := &recordingCapturer{}
	h.runner.SetCapturer(c)

	_, err := h.runner.Run(context.Background(), []string{"fake:size=2", "fake", "fake:size=3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"fake:size=2", "fake:size=3"}, c.names)
}

func TestRunnerCaptureErrorDoesNotFailBenchmark(t *testing.T) {
	h := newHarness(t, 1, &scriptedEvents{})
	h.runner.SetCapturer(&recordingCapturer{err: errors.New("disk full")})

	records, err := h.runner.Run(context.Background(), []string{"fake"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].Failed())
}
