// Package shaders provides embedded GLSL shader sources for the scenes.
package shaders

import _ "embed"

// WireframeVertexShader projects the grid and passes each vertex's screen
// space distance to the edges of its triangle.
//
//go:embed buffer-wireframe.vert
var WireframeVertexShader string

// WireframeFragmentShader shades triangle edges over a flat fill.
//
//go:embed buffer-wireframe.frag
var WireframeFragmentShader string
