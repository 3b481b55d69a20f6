package provider

import (
	"context"

	"github.com/pkg/errors"

	"github.com/eulertour/manim-opengl-tutorial/internal/geometry"
	"github.com/eulertour/manim-opengl-tutorial/internal/material"
	"github.com/eulertour/manim-opengl-tutorial/internal/provider/shaders"
)

// Local builds geometry in process and serves the embedded shaders.
type Local struct{}

// NewLocal returns the built-in provider.
func NewLocal() *Local { return &Local{} }

// Geometry implements Provider.
func (l *Local) Geometry(ctx context.Context, req GeometryRequest) (*geometry.Geometry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := func(key string, def float32) float32 {
		if v := req.Config[key]; v != 0 {
			return v
		}
		return def
	}
	var g *geometry.Geometry
	switch req.Name {
	case ShapeBox:
		g = geometry.Box(req.Config["width"], req.Config["height"], req.Config["depth"])
	case ShapePlane:
		g = geometry.Plane(req.Config["width"], req.Config["height"])
	case ShapeGrid:
		g = geometry.Grid(req.Config["size"]/2, int(req.Config["divisions"]))
	case ShapeSphere:
		g = geometry.Sphere(cfg("radius", 1), int(cfg("width_segments", 8)), int(cfg("height_segments", 6)))
	case ShapeCylinder:
		g = geometry.Cylinder(cfg("radius_top", 1), cfg("radius_bottom", 1), cfg("height", 1), int(cfg("radial_segments", 8)))
	case ShapeCone:
		g = geometry.Cone(cfg("radius", 1), cfg("height", 1), int(cfg("radial_segments", 8)))
	case ShapeCircle:
		g = geometry.Circle(cfg("radius", 1), int(cfg("segments", 8)))
	default:
		return nil, errors.Wrapf(ErrUnknownShape, "%q", req.Name)
	}
	if req.Wireframe {
		g = geometry.Wireframe(g)
	}
	return g, nil
}

// Material implements Provider.
func (l *Local) Material(ctx context.Context, req MaterialRequest) (*MaterialSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src := &MaterialSource{Kind: req.Kind, VertexShader: shaders.MeshVertexShader}
	switch req.Kind {
	case material.Basic:
		src.VertexShader = shaders.BasicVertexShader
		src.FragmentShader = shaders.BasicFragmentShader
	case material.Phong:
		src.FragmentShader = shaders.PhongFragmentShader
	case material.Standard:
		src.FragmentShader = shaders.StandardFragmentShader
	default:
		return nil, errors.Wrapf(material.ErrUnknownKind, "%q", string(req.Kind))
	}
	return src, nil
}
