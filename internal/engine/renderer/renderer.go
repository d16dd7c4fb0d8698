// Package renderer owns global OpenGL state: initialisation, driver
// capabilities, viewport and per-frame clearing.
package renderer

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/wavebench/internal/engine/framebuffer"
	"github.com/Faultbox/wavebench/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int

	// Offscreen renders into a framebuffer object instead of the window.
	Offscreen bool
}

// Info describes the GL implementation in use.
type Info struct {
	Vendor   string
	Renderer string
	Version  string
	GLSL     string

	Major, Minor int
	ES           bool
	Extensions   map[string]bool
}

// Renderer handles all global OpenGL state.
type Renderer struct {
	config    Config
	info      Info
	offscreen *framebuffer.Framebuffer
}

// New initialises OpenGL and reads the driver capabilities.
// Must be called after the GL context is created.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r := &Renderer{
		config: cfg,
		info:   queryInfo(),
	}

	logger.Info("OpenGL initialized",
		zap.String("vendor", r.info.Vendor),
		zap.String("renderer", r.info.Renderer),
		zap.String("version", r.info.Version),
		zap.String("glsl", r.info.GLSL),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.CULL_FACE)
	gl.ClearColor(0.0, 0.0, 0.0, 1.0)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	if cfg.Offscreen {
		fb, err := framebuffer.New(cfg.Width, cfg.Height)
		if err != nil {
			return nil, err
		}
		r.offscreen = fb
		logger.Info("rendering offscreen", zap.Int("width", cfg.Width), zap.Int("height", cfg.Height))
	}

	return r, nil
}

func queryInfo() Info {
	info := Info{
		Vendor:     gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer:   gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:    gl.GoStr(gl.GetString(gl.VERSION)),
		GLSL:       gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
		Extensions: make(map[string]bool),
	}
	info.Major, info.Minor, info.ES = ParseVersion(info.Version)

	var n int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &n)
	for i := int32(0); i < n; i++ {
		info.Extensions[gl.GoStr(gl.GetStringi(gl.EXTENSIONS, uint32(i)))] = true
	}
	return info
}

// ParseVersion extracts the major and minor version from a GL_VERSION
// string such as "4.1 Metal - 83" or "OpenGL ES 3.2 Mesa 23.0".
func ParseVersion(s string) (major, minor int, es bool) {
	if rest, ok := strings.CutPrefix(s, "OpenGL ES"); ok {
		es = true
		s = strings.TrimLeft(rest, "-CM ")
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, 0, es
	}
	if _, err := fmt.Sscanf(fields[0], "%d.%d", &major, &minor); err != nil {
		return 0, 0, es
	}
	return major, minor, es
}

// SupportsMapBuffer reports whether whole-buffer mapping is available:
// core since desktop GL 1.5 and GLES 3.0, otherwise via GL_OES_mapbuffer.
func (i Info) SupportsMapBuffer() bool {
	if i.ES {
		return i.Major >= 3 || i.Extensions["GL_OES_mapbuffer"]
	}
	return i.Major > 1 || (i.Major == 1 && i.Minor >= 5)
}

// Info returns the GL implementation details.
func (r *Renderer) Info() Info {
	return r.info
}

// Size returns the current drawable size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Projection returns the perspective projection for the current size.
func (r *Renderer) Projection() mgl32.Mat4 {
	return Perspective(r.config.Width, r.config.Height)
}

// Perspective returns a 30 degree perspective projection for a drawable of
// the given size.
func Perspective(width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(mgl32.DegToRad(30), aspect, 2.0, 50.0)
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	if r.offscreen != nil {
		r.offscreen.Resize(width, height)
	}
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	if r.offscreen != nil {
		r.offscreen.Bind()
	}
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Finish blocks until all queued GL commands have completed.
func (r *Renderer) Finish() {
	gl.Finish()
}

// ReadPixels returns the last rendered frame as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	if r.offscreen != nil {
		width, height = r.offscreen.Size()
		return r.offscreen.ReadPixels(), width, height
	}

	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	gl.ReadBuffer(gl.BACK)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}

// Close resets the state New changed.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.offscreen != nil {
		r.offscreen.Unbind()
		r.offscreen.Destroy()
		r.offscreen = nil
	}
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
}
