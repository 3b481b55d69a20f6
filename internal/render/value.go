// Package render binds per-frame scene state (camera, lights and each
// node's world transform) onto the named shader inputs of renderables.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/eulertour/manim-opengl-tutorial/pkg/math"
)

// Kind is the type of a shader input.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindFloat
	KindVec2
	KindVec3
	KindVec4
	KindMat3
	KindMat4
	KindBool
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindFloat:   "float",
	KindVec2:    "vec2",
	KindVec3:    "vec3",
	KindVec4:    "vec4",
	KindMat3:    "mat3",
	KindMat4:    "mat4",
	KindBool:    "bool",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Components returns the number of floats a value of this kind carries.
func (k Kind) Components() int {
	switch k {
	case KindFloat, KindBool:
		return 1
	case KindVec2:
		return 2
	case KindVec3:
		return 3
	case KindVec4:
		return 4
	case KindMat3:
		return 9
	case KindMat4:
		return 16
	default:
		return 0
	}
}

// ParseKind converts a GLSL type name ("float", "vec3", "mat4", ...) to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if Kind(k) != KindInvalid && name == s {
			return Kind(k), nil
		}
	}
	return KindInvalid, errors.Errorf("unknown input kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k == KindInvalid || int(k) >= len(kindNames) {
		return nil, errors.Errorf("cannot marshal %s", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Value is a shader input value: a scalar, vector, matrix or boolean.
// Matrices are stored column-major.
type Value struct {
	kind Kind
	data [16]float32
}

// Float returns a scalar value.
func Float(f float32) Value {
	v := Value{kind: KindFloat}
	v.data[0] = f
	return v
}

// Vec2Value returns a two-component vector value.
func Vec2Value(x math.Vec2) Value {
	v := Value{kind: KindVec2}
	v.data[0], v.data[1] = x.X, x.Y
	return v
}

// Vec3Value returns a three-component vector value.
func Vec3Value(x math.Vec3) Value {
	v := Value{kind: KindVec3}
	v.data[0], v.data[1], v.data[2] = x.X, x.Y, x.Z
	return v
}

// Vec4Value returns a four-component vector value.
func Vec4Value(x math.Vec4) Value {
	v := Value{kind: KindVec4}
	copy(v.data[:4], x[:])
	return v
}

// Mat3Value returns a 3x3 matrix value.
func Mat3Value(m math.Mat3) Value {
	v := Value{kind: KindMat3}
	copy(v.data[:9], m[:])
	return v
}

// Mat4Value returns a 4x4 matrix value.
func Mat4Value(m math.Mat4) Value {
	return Value{kind: KindMat4, data: m}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.data[0] = 1
	}
	return v
}

// FromFloats builds a value of kind k from its components.
func FromFloats(k Kind, f []float32) (Value, error) {
	n := k.Components()
	if n == 0 {
		return Value{}, errors.Errorf("invalid kind %s", k)
	}
	if len(f) != n {
		return Value{}, errors.Errorf("%s needs %d components, got %d", k, n, len(f))
	}
	v := Value{kind: k}
	copy(v.data[:n], f)
	if k == KindBool && v.data[0] != 0 {
		v.data[0] = 1
	}
	return v, nil
}

// Kind returns the value's kind. The zero Value has KindInvalid.
func (v Value) Kind() Kind { return v.kind }

// Floats returns the value's components. Booleans are 0 or 1.
func (v Value) Floats() []float32 {
	out := make([]float32, v.kind.Components())
	copy(out, v.data[:])
	return out
}

// Scalar returns the first component.
func (v Value) Scalar() float32 { return v.data[0] }

// Bool reports whether a boolean value is true.
func (v Value) Bool() bool { return v.data[0] != 0 }

// Vec3 returns the first three components.
func (v Value) Vec3() math.Vec3 { return math.Vec3{X: v.data[0], Y: v.data[1], Z: v.data[2]} }

// Mat3 returns the first nine components as a matrix.
func (v Value) Mat3() math.Mat3 {
	var m math.Mat3
	copy(m[:], v.data[:9])
	return m
}

// Mat4 returns the components as a 4x4 matrix.
func (v Value) Mat4() math.Mat4 { return v.data }

func (v Value) String() string {
	if v.kind == KindBool {
		return fmt.Sprintf("bool(%t)", v.Bool())
	}
	return fmt.Sprintf("%s%v", v.kind, v.Floats())
}

type jsonValue struct {
	Kind Kind      `json:"kind"`
	Data []float32 `json:"data"`
}

// MarshalJSON encodes the value as {"kind": "vec3", "data": [x, y, z]}.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonValue{Kind: v.kind, Data: v.Floats()})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (v *Value) UnmarshalJSON(b []byte) error {
	var jv jsonValue
	if err := json.Unmarshal(b, &jv); err != nil {
		return err
	}
	parsed, err := FromFloats(jv.Kind, jv.Data)
	if err != nil {
		return errors.Wrap(err, "decode value")
	}
	*v = parsed
	return nil
}
