package scene

import (
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/wavebench/internal/engine/mesh"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTimedBase(d time.Duration) (*Base, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	b := NewBase("test")
	b.clock = clock.Now
	b.SetDuration(d)
	return &b, clock
}

func TestBaseTickEndsRunAtDuration(t *testing.T) {
	b, clock := newTimedBase(time.Second)
	b.startClock()
	require.True(t, b.Running())

	assert.Equal(t, 0.0, b.tick())
	clock.advance(500 * time.Millisecond)
	assert.InDelta(t, 0.5, b.tick(), 1e-9)
	assert.True(t, b.Running())

	clock.advance(500 * time.Millisecond)
	assert.InDelta(t, 1.0, b.tick(), 1e-9)
	assert.False(t, b.Running())

	r := b.Result()
	assert.Equal(t, 3, r.Frames)
	assert.Equal(t, time.Second, r.Elapsed)
	assert.InDelta(t, 2.0, r.FPS, 1e-9)
	assert.False(t, r.Canceled)
	assert.NoError(t, r.Error)
}

func TestBaseStartClockResets(t *testing.T) {
	b, clock := newTimedBase(time.Second)
	b.startClock()
	clock.advance(2 * time.Second)
	b.tick()
	require.False(t, b.Running())

	b.startClock()
	assert.True(t, b.Running())
	r := b.Result()
	assert.Zero(t, r.Frames)
	assert.Zero(t, r.FPS)
}

func TestBaseStop(t *testing.T) {
	b, clock := newTimedBase(time.Minute)
	b.startClock()
	for i := 0; i < 4; i++ {
		clock.advance(250 * time.Millisecond)
		b.tick()
	}

	b.Stop()
	assert.False(t, b.Running())
	r := b.Result()
	assert.True(t, r.Canceled)
	assert.Equal(t, 4, r.Frames)
	assert.InDelta(t, 4.0, r.FPS, 1e-9)

	// Stopping twice keeps the first result.
	clock.advance(time.Second)
	b.Stop()
	assert.Equal(t, r, b.Result())
}

func TestBaseFail(t *testing.T) {
	b, _ := newTimedBase(time.Second)
	b.startClock()

	b.fail(mesh.ErrMapFailed)
	assert.False(t, b.Running())
	assert.ErrorIs(t, b.Result().Error, mesh.ErrMapFailed)
}

func TestResultFrameTime(t *testing.T) {
	assert.Zero(t, Result{}.FrameTime())
	assert.Equal(t, 20*time.Millisecond, Result{Frames: 50, Elapsed: time.Second}.FrameTime())
}

func TestOptions(t *testing.T) {
	b := NewBase("test")
	b.AddOption("zeta", "1", "last")
	b.AddOption("alpha", "a", "first", "a", "b")

	opts := b.Options()
	require.Len(t, opts, 2)
	assert.Equal(t, "alpha", opts[0].Name)
	assert.Equal(t, "zeta", opts[1].Name)

	require.NoError(t, b.SetOption("zeta", "2"))
	assert.Equal(t, "2", b.Option("zeta"))

	// Values outside the acceptable list are kept.
	require.NoError(t, b.SetOption("alpha", "c"))
	assert.Equal(t, "c", b.Option("alpha"))

	err := b.SetOption("missing", "x")
	assert.ErrorIs(t, err, ErrUnknownOption)
	assert.Equal(t, "", b.Option("missing"))

	b.ResetOptions()
	assert.Equal(t, "1", b.Option("zeta"))
	assert.Equal(t, "a", b.Option("alpha"))
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"buffer"}, Names())

	s, err := New("buffer")
	require.NoError(t, err)
	assert.Equal(t, "buffer", s.Name())

	_, err = New("shading")
	assert.ErrorIs(t, err, ErrUnknownScene)
}

func TestBufferDefaultOptions(t *testing.T) {
	s := NewBuffer()

	want := map[string]string{
		"interleave":        "false",
		"update-method":     "map",
		"update-fraction":   "1.0",
		"update-dispersion": "0.0",
		"columns":           "100",
		"rows":              "20",
		"buffer-usage":      "static",
		"wavelength":        "",
		"duty-cycle":        "",
	}
	opts := s.Options()
	require.Len(t, opts, len(want))
	for _, o := range opts {
		assert.Equal(t, want[o.Name], o.Value, o.Name)
		assert.Equal(t, o.Default, o.Value, o.Name)
	}

	settings, err := ParseBufferSettings(s.Option)
	require.NoError(t, err)
	assert.False(t, settings.Interleave)
	assert.Equal(t, mesh.UpdateMethodMap, settings.Method)
	assert.Equal(t, mesh.UsageStatic, settings.Usage)
	assert.Equal(t, 100, settings.Columns)
	assert.Equal(t, 20, settings.Rows)

	p := settings.WaveParams()
	assert.Equal(t, 5.0, p.Grid.Length)
	assert.Equal(t, 2.0, p.Grid.Width)
	assert.InDelta(t, 1.0001, p.Wavelength, 1e-12)
	assert.Equal(t, 1.0, p.DutyCycle)
}

func TestParseBufferSettings(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]string
		wantErr bool
		check   func(*testing.T, BufferSettings)
	}{
		{
			name: "subdata interleaved dynamic",
			set:  map[string]string{"update-method": "subdata", "interleave": "true", "buffer-usage": "dynamic"},
			check: func(t *testing.T, s BufferSettings) {
				assert.Equal(t, mesh.UpdateMethodSubData, s.Method)
				assert.True(t, s.Interleave)
				assert.Equal(t, mesh.UsageDynamic, s.Usage)
			},
		},
		{
			name: "unknown method falls back to map",
			set:  map[string]string{"update-method": "persistent"},
			check: func(t *testing.T, s BufferSettings) {
				assert.Equal(t, mesh.UpdateMethodMap, s.Method)
			},
		},
		{
			name: "pressure derives wave shape",
			set:  map[string]string{"update-fraction": "0.5", "update-dispersion": "0.9"},
			check: func(t *testing.T, s BufferSettings) {
				p := s.WaveParams()
				assert.InDelta(t, 0.5*(0.1+0.0001), p.Wavelength, 1e-12)
				assert.Equal(t, 0.5, p.DutyCycle)
			},
		},
		{
			name: "explicit wave shape wins",
			set:  map[string]string{"update-fraction": "0.5", "wavelength": "0.25", "duty-cycle": "0.75"},
			check: func(t *testing.T, s BufferSettings) {
				p := s.WaveParams()
				assert.Equal(t, 0.25, p.Wavelength)
				assert.Equal(t, 0.75, p.DutyCycle)
			},
		},
		{name: "non-numeric columns", set: map[string]string{"columns": "many"}, wantErr: true},
		{name: "non-numeric fraction", set: map[string]string{"update-fraction": "half"}, wantErr: true},
		{name: "zero rows", set: map[string]string{"rows": "0"}, wantErr: true},
		{name: "zero fraction", set: map[string]string{"update-fraction": "0"}, wantErr: true},
		{name: "duty cycle above one", set: map[string]string{"duty-cycle": "1.5"}, wantErr: true},
		{name: "bad wavelength", set: map[string]string{"wavelength": "long"}, wantErr: true},
		{name: "denormal fraction", set: map[string]string{"update-fraction": "1e-320"}, wantErr: true},
		{name: "denormal wavelength", set: map[string]string{"wavelength": "1e-320"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewBuffer()
			for k, v := range tt.set {
				require.NoError(t, s.SetOption(k, v))
			}

			settings, err := ParseBufferSettings(s.Option)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidOption), "got %v", err)
				return
			}
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestBufferModelView(t *testing.T) {
	mv := BufferModelView(5, 2)

	// The grid centre lands on the view axis, 4 units in front of the eye.
	centre := mv.Mul4x1(mgl32.Vec4{2.5, 1, 0, 1})
	assert.InDelta(t, 0, centre.X(), 1e-5)
	assert.InDelta(t, 0, centre.Y(), 1e-5)
	assert.InDelta(t, -4, centre.Z(), 1e-5)

	// Raised geometry tilts towards the viewer.
	up := mv.Mul4x1(mgl32.Vec4{2.5, 1, 1, 1})
	assert.Greater(t, up.Z(), centre.Z())

	// The far edge of the grid is further away than the near edge.
	far := mv.Mul4x1(mgl32.Vec4{2.5, 2, 0, 1})
	near := mv.Mul4x1(mgl32.Vec4{2.5, 0, 0, 1})
	assert.Less(t, far.Z(), near.Z())
}
