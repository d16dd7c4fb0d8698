package scene

import (
	"fmt"
	"strconv"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/wavebench/internal/engine/mesh"
	"github.com/Faultbox/wavebench/internal/engine/shader"
	"github.com/Faultbox/wavebench/internal/grid"
	"github.com/Faultbox/wavebench/internal/scene/shaders"
	"github.com/Faultbox/wavebench/internal/wave"
)

// Model-space extent of the wave grid.
const (
	bufferGridLength = 5.0
	bufferGridWidth  = 2.0
)

var (
	fillColor = mgl32.Vec4{0.1, 0.25, 0.5, 1.0}
	lineColor = mgl32.Vec4{1.0, 1.0, 1.0, 1.0}
)

// BufferSettings are the parsed options of the buffer scene.
type BufferSettings struct {
	Interleave bool
	Method     mesh.UpdateMethod
	Usage      mesh.Usage

	// UpdateFraction is the share of the mesh length updated every frame,
	// UpdateDispersion how spread out those updates are.
	UpdateFraction   float64
	UpdateDispersion float64

	Columns int
	Rows    int

	// Wavelength and DutyCycle override the values derived from the update
	// knobs when non-zero.
	Wavelength float64
	DutyCycle  float64
}

// WaveParams returns the wave mesh parameters for these settings.
func (s BufferSettings) WaveParams() wave.Params {
	wavelength, duty := wave.FromUpdatePressure(s.UpdateFraction, s.UpdateDispersion)
	if s.Wavelength != 0 {
		wavelength = s.Wavelength
	}
	if s.DutyCycle != 0 {
		duty = s.DutyCycle
	}

	return wave.Params{
		Grid: grid.Dims{
			Length:  bufferGridLength,
			Width:   bufferGridWidth,
			NLength: s.Columns,
			NWidth:  s.Rows,
		},
		Wavelength: wavelength,
		DutyCycle:  duty,
	}
}

// Buffer renders a wave grid whose vertex buffer is updated in place every
// frame. It measures how fast the driver takes partial buffer updates.
type Buffer struct {
	Base

	settings BufferSettings
	program  *shader.Program
	mesh     *mesh.Mesh
	wave     *wave.Animator
	canvas   Canvas
}

// NewBuffer creates the buffer scene with default options.
func NewBuffer() *Buffer {
	s := &Buffer{Base: NewBase("buffer")}

	s.AddOption("interleave", "false", "Whether to interleave vertex attribute data", "true", "false")
	s.AddOption("update-method", "map", "How to update the vertex buffer", "map", "subdata")
	s.AddOption("update-fraction", "1.0", "The fraction of the mesh length that is updated at every iteration (0.0-1.0)")
	s.AddOption("update-dispersion", "0.0", "How dispersed the updates are (0.0-1.0)")
	s.AddOption("columns", "100", "The number of mesh subdivisions length-wise")
	s.AddOption("rows", "20", "The number of mesh subdivisions width-wise")
	s.AddOption("buffer-usage", "static", "How the buffer will be used", "static", "stream", "dynamic")
	s.AddOption("wavelength", "", "Wave length as a fraction of the mesh length; derived from the update options when empty")
	s.AddOption("duty-cycle", "", "Fraction of each wave period that is displaced (0.0-1.0]; derived from the update options when empty")

	return s
}

// ParseBufferSettings reads the buffer scene options through opt.
func ParseBufferSettings(opt func(name string) string) (BufferSettings, error) {
	s := BufferSettings{
		Interleave: opt("interleave") == "true",
		Method:     mesh.ParseUpdateMethod(opt("update-method")),
		Usage:      mesh.ParseUsage(opt("buffer-usage")),
	}

	var err error
	if s.UpdateFraction, err = parseFloat(opt, "update-fraction"); err != nil {
		return s, err
	}
	if s.UpdateDispersion, err = parseFloat(opt, "update-dispersion"); err != nil {
		return s, err
	}
	if s.Columns, err = parseInt(opt, "columns"); err != nil {
		return s, err
	}
	if s.Rows, err = parseInt(opt, "rows"); err != nil {
		return s, err
	}
	if opt("wavelength") != "" {
		if s.Wavelength, err = parseFloat(opt, "wavelength"); err != nil {
			return s, err
		}
	}
	if opt("duty-cycle") != "" {
		if s.DutyCycle, err = parseFloat(opt, "duty-cycle"); err != nil {
			return s, err
		}
	}

	if err := s.WaveParams().Validate(); err != nil {
		return s, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}
	return s, nil
}

func parseFloat(opt func(string) string, name string) (float64, error) {
	v, err := strconv.ParseFloat(opt(name), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidOption, name, opt(name))
	}
	return v, nil
}

func parseInt(opt func(string) string, name string) (int, error) {
	v, err := strconv.Atoi(opt(name))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidOption, name, opt(name))
	}
	return v, nil
}

// Settings returns the settings of the current or last run.
func (s *Buffer) Settings() BufferSettings {
	return s.settings
}

// Setup parses the options and builds the program, mesh and animator.
func (s *Buffer) Setup(c Canvas) error {
	settings, err := ParseBufferSettings(s.Option)
	if err != nil {
		return err
	}
	if settings.Method == mesh.UpdateMethodMap && !c.Info().SupportsMapBuffer() {
		return ErrMapBufferUnsupported
	}
	s.settings = settings
	s.canvas = c

	program, err := shader.Compile(shaders.WireframeVertexShader, shaders.WireframeFragmentShader)
	if err != nil {
		return fmt.Errorf("wireframe shader: %w", err)
	}
	locations, err := program.Attribs("position", "tvertex0", "tvertex1", "tvertex2")
	if err != nil {
		program.Release()
		return err
	}

	m := mesh.New()
	m.SetVertexFormat(grid.VertexFormat())
	m.SetAttribLocations(locations)

	params := settings.WaveParams()
	animator, err := wave.New(params, m)
	if err != nil {
		program.Release()
		return err
	}

	m.Interleave(settings.Interleave)
	m.SetUpdateMethod(settings.Method)
	m.SetUsage(settings.Usage)
	if err := m.BuildVBO(); err != nil {
		program.Release()
		m.Reset()
		return err
	}

	s.program = program
	s.mesh = m
	s.wave = animator

	fn := animator.Func()
	s.log.Info("buffer scene ready",
		zap.Int("vertices", m.VertexCount()),
		zap.Int("columns", settings.Columns),
		zap.Int("rows", settings.Rows),
		zap.Bool("interleave", settings.Interleave),
		zap.Stringer("update_method", settings.Method),
		zap.Stringer("usage", settings.Usage),
		zap.Float64("wavelength", params.Wavelength),
		zap.Float64("duty_cycle", params.DutyCycle),
		zap.Float64("wave_period", fn.Period()),
		zap.Float64("wave_full_period", fn.FullPeriod()),
	)

	program.Start()
	w, h := c.Size()
	program.SetVec2("Viewport", mgl32.Vec2{float32(w), float32(h)})
	program.SetVec4("FillColor", fillColor)
	program.SetVec4("LineColor", lineColor)

	gl.Disable(gl.CULL_FACE)

	s.startClock()
	return nil
}

// Teardown releases GPU resources.
func (s *Buffer) Teardown() {
	if s.mesh != nil {
		s.mesh.Reset()
		s.mesh = nil
	}
	if s.program != nil {
		s.program.Stop()
		s.program.Release()
		s.program = nil
	}
	s.wave = nil

	gl.Enable(gl.CULL_FACE)
}

// Update advances the wave to the current time and uploads what changed.
func (s *Buffer) Update() {
	elapsed := s.tick()

	ranges, err := s.wave.Update(elapsed)
	if err != nil {
		s.fail(fmt.Errorf("updating vertex buffer: %w", err))
		return
	}
	if ce := s.log.Check(zap.DebugLevel, "frame"); ce != nil {
		ce.Write(zap.Int("frame", s.frames), zap.Int("ranges", len(ranges)))
	}
}

// Draw renders the mesh.
func (s *Buffer) Draw() {
	modelView := BufferModelView(bufferGridLength, bufferGridWidth)

	s.program.SetMat4("ModelViewProjectionMatrix", s.canvas.Projection().Mul4(modelView))

	s.mesh.Render()
}

// Resize updates the viewport size the wireframe width is computed in.
func (s *Buffer) Resize(width, height int) {
	if s.program == nil {
		return
	}
	s.program.SetVec2("Viewport", mgl32.Vec2{float32(width), float32(height)})
}

// Result adds the upload statistics to the timing result.
func (s *Buffer) Result() Result {
	r := s.Base.Result()
	if s.mesh != nil {
		r.Uploads = s.mesh.Stats()
	}
	return r
}

// BufferModelView centres a length x width grid at the origin, tilts it 45
// degrees away from the viewer and moves it 4 units into the screen.
func BufferModelView(length, width float32) mgl32.Mat4 {
	return mgl32.Translate3D(0, 0, -4).
		Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(45), mgl32.Vec3{-1, 0, 0})).
		Mul4(mgl32.Translate3D(-length/2, -width/2, 0))
}
