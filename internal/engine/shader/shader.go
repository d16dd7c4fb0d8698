// Package shader compiles GLSL programs and caches their attribute and
// uniform locations.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Program is a linked GL program.
type Program struct {
	id       uint32
	uniforms map[string]int32
	attribs  map[string]int32
}

// Compile compiles and links a vertex/fragment shader pair.
func Compile(vertexSrc, fragmentSrc string) (*Program, error) {
	vert, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vert)

	frag, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(frag)

	id := gl.CreateProgram()
	gl.AttachShader(id, vert)
	gl.AttachShader(id, frag)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(id, logLen, nil, &log[0])
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("%w: %s", ErrLink, gl.GoStr(&log[0]))
	}

	return &Program{
		id:       id,
		uniforms: make(map[string]int32),
		attribs:  make(map[string]int32),
	}, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, csource, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(sh, logLen, nil, &log[0])
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("%w: %s shader: %s", ErrCompile, name, gl.GoStr(&log[0]))
	}

	return sh, nil
}

// ID returns the GL program name.
func (p *Program) ID() uint32 {
	return p.id
}

// Start makes the program current.
func (p *Program) Start() {
	gl.UseProgram(p.id)
}

// Stop unbinds any program.
func (p *Program) Stop() {
	gl.UseProgram(0)
}

// Release deletes the program.
func (p *Program) Release() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

// Attrib returns the location of a vertex attribute, or -1 if the program
// has no active attribute of that name.
func (p *Program) Attrib(name string) int32 {
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	loc := gl.GetAttribLocation(p.id, gl.Str(name+"\x00"))
	p.attribs[name] = loc
	return loc
}

// Attribs looks up several attributes at once. Every attribute must be active.
func (p *Program) Attribs(names ...string) ([]int32, error) {
	locs := make([]int32, len(names))
	for i, name := range names {
		locs[i] = p.Attrib(name)
		if locs[i] < 0 {
			return nil, fmt.Errorf("%w: %q", ErrNoAttrib, name)
		}
	}
	return locs, nil
}

// Uniform returns the location of a uniform, or -1 if it is inactive.
// Setting a -1 location is a no-op in GL.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

// SetMat4 sets a mat4 uniform. The program must be current.
func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(p.Uniform(name), 1, false, &m[0])
}

// SetVec2 sets a vec2 uniform. The program must be current.
func (p *Program) SetVec2(name string, v mgl32.Vec2) {
	gl.Uniform2f(p.Uniform(name), v[0], v[1])
}

// SetVec4 sets a vec4 uniform. The program must be current.
func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	gl.Uniform4f(p.Uniform(name), v[0], v[1], v[2], v[3])
}
