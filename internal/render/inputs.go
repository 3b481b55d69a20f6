package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Inputs is the shader-input surface of a renderable.
type Inputs interface {
	// HasInput reports whether the shader declares name.
	HasInput(name string) bool
	// SetInput stores v for name. Undeclared names are ignored.
	SetInput(name string, v Value)
}

// Declared is implemented by inputs that expose their full declaration
// table. The binder walks the table instead of probing names.
type Declared interface {
	Inputs
	Declaration() Declaration
}

// Input names resolved by the binder.
const (
	InputViewMatrix       = "viewMatrix"
	InputProjectionMatrix = "projectionMatrix"
	InputModelViewMatrix  = "modelViewMatrix"
	InputNormalMatrix     = "normalMatrix"
	InputIsOrthographic   = "isOrthographic"
	InputAmbientLight     = "ambientLightColor"

	pointLightsPrefix = "pointLights["
)

// Point light fields, as in pointLights[i].<field>.
const (
	LightPosition = "position"
	LightColor    = "color"
	LightDistance = "distance"
	LightDecay    = "decay"
)

var lightFieldKinds = map[string]Kind{
	LightPosition: KindVec3,
	LightColor:    KindVec3,
	LightDistance: KindFloat,
	LightDecay:    KindFloat,
}

// PointLightInput returns the input name of field for light slot i.
func PointLightInput(i int, field string) string {
	return pointLightsPrefix + strconv.Itoa(i) + "]." + field
}

// ParsePointLightInput splits "pointLights[i].field" into its slot index
// and field. ok is false for any other or malformed name.
func ParsePointLightInput(name string) (index int, field string, ok bool) {
	if !strings.HasPrefix(name, pointLightsPrefix) {
		return 0, "", false
	}
	rest := name[len(pointLightsPrefix):]
	end := strings.Index(rest, "].")
	if end <= 0 {
		return 0, "", false
	}
	index, err := strconv.Atoi(rest[:end])
	if err != nil || index < 0 {
		return 0, "", false
	}
	field = rest[end+2:]
	if _, known := lightFieldKinds[field]; !known {
		return 0, "", false
	}
	return index, field, true
}

// SceneInputs returns the declaration of the inputs the binder can supply
// for a shader with lightSlots point light slots.
func SceneInputs(lightSlots int) Declaration {
	d := Declaration{
		InputViewMatrix:       KindMat4,
		InputProjectionMatrix: KindMat4,
		InputModelViewMatrix:  KindMat4,
		InputNormalMatrix:     KindMat3,
		InputIsOrthographic:   KindBool,
		InputAmbientLight:     KindVec3,
	}
	for i := 0; i < lightSlots; i++ {
		for field, kind := range lightFieldKinds {
			d[PointLightInput(i, field)] = kind
		}
	}
	return d
}

// Declaration maps each input a shader declares to its kind.
type Declaration map[string]Kind

// Names returns the declared names in sorted order.
func (d Declaration) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LightCapacity returns the number of point light slots declared: one more
// than the highest slot index seen in any pointLights[i].field name.
func (d Declaration) LightCapacity() int {
	capacity := 0
	for name := range d {
		if i, _, ok := ParsePointLightInput(name); ok && i+1 > capacity {
			capacity = i + 1
		}
	}
	return capacity
}

// Merge returns a new declaration holding the entries of d and other.
// Entries in other win.
func (d Declaration) Merge(other Declaration) Declaration {
	out := make(Declaration, len(d)+len(other))
	for k, v := range d {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

var (
	// ErrUndeclared is returned by Uniforms.Set for names outside the declaration.
	ErrUndeclared = errors.New("input not declared")
	// ErrKindMismatch is returned by Uniforms.Set when the value has the wrong kind.
	ErrKindMismatch = errors.New("input kind mismatch")
)

// Uniforms is an in-memory Inputs over a fixed declaration. It backs
// renderables in tests and headless runs and stages material defaults
// before a GPU program exists.
type Uniforms struct {
	decl   Declaration
	values map[string]Value
}

// NewUniforms returns an empty store for decl.
func NewUniforms(decl Declaration) *Uniforms {
	return &Uniforms{decl: decl, values: make(map[string]Value, len(decl))}
}

// HasInput reports whether name is declared.
func (u *Uniforms) HasInput(name string) bool {
	_, ok := u.decl[name]
	return ok
}

// SetInput stores v. Undeclared names and values of the wrong kind are dropped.
func (u *Uniforms) SetInput(name string, v Value) {
	_ = u.Set(name, v)
}

// Set stores v and reports why it could not.
func (u *Uniforms) Set(name string, v Value) error {
	kind, ok := u.decl[name]
	if !ok {
		return errors.Wrap(ErrUndeclared, name)
	}
	if v.Kind() != kind {
		return errors.Wrap(ErrKindMismatch, fmt.Sprintf("%s: declared %s, got %s", name, kind, v.Kind()))
	}
	u.values[name] = v
	return nil
}

// Get returns the value last stored for name.
func (u *Uniforms) Get(name string) (Value, bool) {
	v, ok := u.values[name]
	return v, ok
}

// Declaration returns the declaration table.
func (u *Uniforms) Declaration() Declaration { return u.decl }

// Declared returns the declared names in sorted order.
func (u *Uniforms) Declared() []string { return u.decl.Names() }

// LightCapacity returns the number of declared point light slots.
func (u *Uniforms) LightCapacity() int { return u.decl.LightCapacity() }

// Each calls fn for every stored value in name order.
func (u *Uniforms) Each(fn func(name string, v Value)) {
	for _, name := range u.decl.Names() {
		if v, ok := u.values[name]; ok {
			fn(name, v)
		}
	}
}
