package lighting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eulertour/manim-opengl-tutorial/internal/config"
	"github.com/eulertour/manim-opengl-tutorial/pkg/math"
)

func TestAmbientScaled(t *testing.T) {
	a := AmbientLight{Color: math.Vec3{X: 0.2, Y: 0.4, Z: 1}, Intensity: 0.5}
	assert.Equal(t, math.Vec3{X: 0.1, Y: 0.2, Z: 0.5}, a.Scaled())
}

func TestStateOrderAndAmbient(t *testing.T) {
	var s State
	assert.Equal(t, 0, s.AddPointLight(PointLight{Decay: 1}))
	assert.Equal(t, 1, s.AddPointLight(PointLight{Decay: 2}))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, float32(2), s.PointLights[1].Decay)

	assert.Nil(t, s.Ambient)
	s.SetAmbient(AmbientLight{Intensity: 1})
	require.NotNil(t, s.Ambient)
	s.ClearAmbient()
	assert.Nil(t, s.Ambient)
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default().Lighting
	cfg.PointLights = append(cfg.PointLights, config.PointLightConfig{
		Position: [3]float32{12, -12, 12},
		Color:    [3]float32{7, 7, 1},
		Distance: 100,
		Decay:    1,
	})

	s := FromConfig(cfg)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, math.Vec3{X: 5, Y: 5, Z: 5}, s.PointLights[0].Color)
	assert.Equal(t, math.Vec3{X: 12, Y: -12, Z: 12}, s.PointLights[1].Position)
	require.NotNil(t, s.Ambient)
	assert.Equal(t, float32(0.5), s.Ambient.Intensity)

	cfg.Ambient.Enabled = false
	assert.Nil(t, FromConfig(cfg).Ambient)
}
