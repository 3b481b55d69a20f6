package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eulertour/manim-opengl-tutorial/pkg/math"
)

func TestParsePointLightInput(t *testing.T) {
	tests := []struct {
		name  string
		index int
		field string
		ok    bool
	}{
		{"pointLights[0].position", 0, "position", true},
		{"pointLights[12].decay", 12, "decay", true},
		{"pointLights[3].distance", 3, "distance", true},
		{"pointLights[].color", 0, "", false},
		{"pointLights[-1].color", 0, "", false},
		{"pointLights[x].color", 0, "", false},
		{"pointLights[1]color", 0, "", false},
		{"pointLights[1].intensity", 0, "", false},
		{"spotLights[1].color", 0, "", false},
		{"viewMatrix", 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, field, ok := ParsePointLightInput(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.index, i)
				assert.Equal(t, tt.field, field)
			}
		})
	}
	assert.Equal(t, "pointLights[7].color", PointLightInput(7, LightColor))
}

func TestDeclarationLightCapacity(t *testing.T) {
	assert.Equal(t, 0, SceneInputs(0).LightCapacity())
	assert.Equal(t, 4, SceneInputs(4).LightCapacity())

	// Capacity follows the highest slot, even with gaps.
	d := Declaration{"pointLights[5].color": KindVec3, "pointLights[bad].color": KindVec3}
	assert.Equal(t, 6, d.LightCapacity())
}

func TestDeclarationMergeAndNames(t *testing.T) {
	base := Declaration{"b": KindFloat, "a": KindVec3}
	merged := base.Merge(Declaration{"a": KindVec4, "c": KindBool})

	assert.Equal(t, []string{"a", "b", "c"}, merged.Names())
	assert.Equal(t, KindVec4, merged["a"])
	assert.Equal(t, KindVec3, base["a"], "merge leaves the receiver alone")
}

func TestUniformsSet(t *testing.T) {
	u := NewUniforms(Declaration{"opacity": KindFloat, "diffuse": KindVec3})

	require.NoError(t, u.Set("opacity", Float(0.5)))
	assert.ErrorIs(t, u.Set("opacity", Vec3Value(math.Vec3{})), ErrKindMismatch)
	assert.ErrorIs(t, u.Set("shininess", Float(30)), ErrUndeclared)

	u.SetInput("shininess", Float(30))
	_, ok := u.Get("shininess")
	assert.False(t, ok)
	assert.False(t, u.HasInput("shininess"))
	assert.True(t, u.HasInput("diffuse"))

	var seen []string
	u.Each(func(name string, v Value) { seen = append(seen, name) })
	assert.Equal(t, []string{"opacity"}, seen)
	assert.Equal(t, []string{"diffuse", "opacity"}, u.Declared())
}

func TestValueComponents(t *testing.T) {
	assert.Equal(t, []float32{1, 2, 3}, Vec3Value(math.Vec3{X: 1, Y: 2, Z: 3}).Floats())
	assert.Equal(t, []float32{1}, Bool(true).Floats())
	assert.Equal(t, []float32{0}, Bool(false).Floats())
	assert.Len(t, Mat3Value(math.Identity3()).Floats(), 9)
	assert.Equal(t, math.Identity(), Mat4Value(math.Identity()).Mat4())
	assert.Equal(t, []float32{4, 5}, Vec2Value(math.Vec2{X: 4, Y: 5}).Floats())
	assert.Equal(t, []float32{1, 2, 3, 4}, Vec4Value(math.Vec4{1, 2, 3, 4}).Floats())
	assert.Equal(t, KindInvalid, Value{}.Kind())

	_, err := FromFloats(KindVec3, []float32{1, 2})
	assert.Error(t, err)
	_, err = FromFloats(KindInvalid, nil)
	assert.Error(t, err)
}

func TestValueJSON(t *testing.T) {
	defaults := map[string]Value{
		"diffuse":   Vec3Value(math.Vec3{X: 1, Y: 1, Z: 1}),
		"shininess": Float(30),
		"flat":      Bool(true),
	}
	data, err := json.Marshal(defaults)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"vec3"`)

	var decoded map[string]Value
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, defaults, decoded)

	var bad Value
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"vec5","data":[1]}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"vec3","data":[1]}`), &bad))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("mat3")
	require.NoError(t, err)
	assert.Equal(t, KindMat3, k)
	assert.Equal(t, 9, k.Components())

	_, err = ParseKind("invalid")
	assert.Error(t, err)
	_, err = ParseKind("sampler2D")
	assert.Error(t, err)
}
