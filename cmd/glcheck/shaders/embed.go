// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// QuadVertexShader passes position and texture coordinates through.
//
//go:embed quad.vert
var QuadVertexShader string

// QuadFragmentShader samples the bound 2D texture.
//
//go:embed quad.frag
var QuadFragmentShader string
