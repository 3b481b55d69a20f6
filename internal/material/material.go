// Package material defines the material kinds a mesh can be drawn with:
// their shader sources, default uniform values and declared inputs.
package material

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/eulertour/manim-opengl-tutorial/internal/render"
	"github.com/eulertour/manim-opengl-tutorial/pkg/math"
)

// DefaultLightSlots is the number of point light slots lit materials declare.
const DefaultLightSlots = 4

// Kind names a material model.
type Kind string

const (
	// Basic is unlit: a flat diffuse color.
	Basic Kind = "basic"
	// Phong is Blinn-Phong shading with a specular highlight.
	Phong Kind = "phong"
	// Standard is the metalness/roughness model.
	Standard Kind = "standard"
)

// ErrUnknownKind is returned for material kinds this package does not define.
var ErrUnknownKind = errors.New("unknown material kind")

// Kinds lists every material kind.
func Kinds() []Kind { return []Kind{Basic, Phong, Standard} }

// ParseKind converts a name such as "phong" to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownKind, "%q", s)
}

// Lit reports whether the kind reads scene lights.
func (k Kind) Lit() bool { return k == Phong || k == Standard }

// Defaults returns the default uniform values of kind.
func Defaults(k Kind) (map[string]render.Value, error) {
	white := render.Vec3Value(math.Vec3{X: 1, Y: 1, Z: 1})
	black := render.Vec3Value(math.Vec3{})

	switch k {
	case Basic:
		return map[string]render.Value{
			"diffuse": white,
			"opacity": render.Float(1),
		}, nil
	case Phong:
		return map[string]render.Value{
			"diffuse":   white,
			"emissive":  black,
			"specular":  render.Vec3Value(math.Vec3{X: 1.0 / 15, Y: 1.0 / 15, Z: 1.0 / 15}),
			"shininess": render.Float(30),
			"opacity":   render.Float(1),
		}, nil
	case Standard:
		return map[string]render.Value{
			"diffuse":   white,
			"emissive":  black,
			"roughness": render.Float(1),
			"metalness": render.Float(0),
			"opacity":   render.Float(1),
		}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "%q", string(k))
	}
}

// Definition is a material ready to be turned into shader inputs: sources,
// uniform values and the declaration the binder and GPU program agree on.
type Definition struct {
	Kind           Kind
	VertexShader   string
	FragmentShader string
	Values         map[string]render.Value
	Declaration    render.Declaration
}

// New builds a definition of kind from shader sources. Entries in
// overrides replace the kind's defaults and must match their kinds; names
// the kind does not define are rejected.
func New(kind Kind, vertexShader, fragmentShader string, overrides map[string]render.Value) (*Definition, error) {
	values, err := Defaults(kind)
	if err != nil {
		return nil, err
	}

	own := make(render.Declaration, len(values))
	for name, v := range values {
		own[name] = v.Kind()
	}
	for name, v := range overrides {
		want, ok := own[name]
		if !ok {
			return nil, errors.Wrapf(render.ErrUndeclared, "%s material: %s", kind, name)
		}
		if v.Kind() != want {
			return nil, errors.Wrapf(render.ErrKindMismatch, "%s material: %s is %s, got %s", kind, name, want, v.Kind())
		}
		values[name] = v
	}

	slots := 0
	if kind.Lit() {
		slots = DefaultLightSlots
	}
	scene := render.SceneInputs(slots)
	if !kind.Lit() {
		delete(scene, render.InputAmbientLight)
		delete(scene, render.InputNormalMatrix)
	}

	return &Definition{
		Kind:           kind,
		VertexShader:   vertexShader,
		FragmentShader: fragmentShader,
		Values:         values,
		Declaration:    scene.Merge(own),
	}, nil
}

// Uniforms returns an in-memory input store over the declaration with the
// material values already set.
func (d *Definition) Uniforms() *render.Uniforms {
	u := render.NewUniforms(d.Declaration)
	d.Apply(u)
	return u
}

// Apply writes the material values into in, in name order.
func (d *Definition) Apply(in render.Inputs) {
	names := make([]string, 0, len(d.Values))
	for name := range d.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		in.SetInput(name, d.Values[name])
	}
}
