// Package provider supplies mesh geometry and material shader sources,
// either built in or from a remote geometry server over websocket.
package provider

import (
	"context"

	"github.com/pkg/errors"

	"github.com/eulertour/manim-opengl-tutorial/internal/geometry"
	"github.com/eulertour/manim-opengl-tutorial/internal/material"
	"github.com/eulertour/manim-opengl-tutorial/internal/render"
)

// Shape names understood by the built-in provider.
const (
	ShapeBox      = "box"
	ShapePlane    = "plane"
	ShapeGrid     = "grid"
	ShapeSphere   = "sphere"
	ShapeCylinder = "cylinder"
	ShapeCone     = "cone"
	ShapeCircle   = "circle"
)

var (
	// ErrUnknownShape is returned for geometry names a provider cannot build.
	ErrUnknownShape = errors.New("unknown geometry")
	// ErrRemote wraps an error reported by a remote provider.
	ErrRemote = errors.New("remote provider")
)

// GeometryRequest names a geometry and its dimensions. Config keys are
// shape specific: width, height and depth for a box; width and height for
// a plane; size and divisions for a grid; radius, width_segments and
// height_segments for a sphere; radius_top, radius_bottom, height and
// radial_segments for a cylinder; radius, height and radial_segments for a
// cone; radius and segments for a circle. Missing or zero keys take the
// shape's default.
type GeometryRequest struct {
	Name      string             `json:"name"`
	Config    map[string]float32 `json:"config,omitempty"`
	Wireframe bool               `json:"wireframe,omitempty"`
}

// MaterialRequest names a material kind. Values override the kind's
// defaults when the mesh is built; providers only use Kind.
type MaterialRequest struct {
	Kind   material.Kind           `json:"kind"`
	Values map[string]render.Value `json:"values,omitempty"`
}

// MaterialSource is the shader pair a provider returns for a material kind.
type MaterialSource struct {
	Kind           material.Kind `json:"kind"`
	VertexShader   string        `json:"vertexShader"`
	FragmentShader string        `json:"fragmentShader"`
}

// Provider resolves geometry and material requests.
type Provider interface {
	Geometry(ctx context.Context, req GeometryRequest) (*geometry.Geometry, error)
	Material(ctx context.Context, req MaterialRequest) (*MaterialSource, error)
}

// BuildMesh fetches the geometry and material of a mesh from p and returns
// a renderable whose shader inputs already hold the material values. The
// inputs are an in-memory store; the GPU side replaces them with a linked
// program that declares the same names.
func BuildMesh(ctx context.Context, p Provider, g GeometryRequest, m MaterialRequest) (*render.Mesh, *material.Definition, error) {
	geom, err := p.Geometry(ctx, g)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "geometry %q", g.Name)
	}
	if err := geom.Validate(); err != nil {
		return nil, nil, errors.Wrapf(err, "geometry %q", g.Name)
	}
	src, err := p.Material(ctx, m)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "material %q", m.Kind)
	}
	def, err := material.New(src.Kind, src.VertexShader, src.FragmentShader, m.Values)
	if err != nil {
		return nil, nil, err
	}
	return render.NewMesh(geom, def.Uniforms()), def, nil
}
