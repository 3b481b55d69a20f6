// Package shaders provides the embedded GLSL sources of the built-in
// material kinds.
package shaders

import _ "embed"

// MeshVertexShader is the vertex shader shared by the lit materials.
//
//go:embed mesh.vert
var MeshVertexShader string

// BasicVertexShader is the vertex shader of the unlit material.
//
//go:embed basic.vert
var BasicVertexShader string

// BasicFragmentShader draws a flat diffuse color.
//
//go:embed basic.frag
var BasicFragmentShader string

// PhongFragmentShader is Blinn-Phong shading over the point lights.
//
//go:embed phong.frag
var PhongFragmentShader string

// StandardFragmentShader is the metalness/roughness model.
//
//go:embed standard.frag
var StandardFragmentShader string
