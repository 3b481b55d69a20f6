// Package lighting holds the scene-wide lights that are bound into shader
// inputs every frame.
package lighting

import (
	"github.com/eulertour/manim-opengl-tutorial/internal/config"
	"github.com/eulertour/manim-opengl-tutorial/pkg/math"
)

// PointLight is a light at a world position. Color is linear RGB and may
// exceed 1 for bright lights. A zero Distance means unlimited range.
type PointLight struct {
	Position math.Vec3
	Color    math.Vec3
	Distance float32
	Decay    float32
}

// AmbientLight lights every surface uniformly.
type AmbientLight struct {
	Color     math.Vec3
	Intensity float32
}

// Scaled returns the color multiplied by the intensity.
func (a AmbientLight) Scaled() math.Vec3 {
	return a.Color.Scale(a.Intensity)
}

// State is the lighting of one scene. PointLights[i] feeds shader slot i,
// so order matters. Ambient is nil when the scene has no ambient light.
type State struct {
	PointLights []PointLight
	Ambient     *AmbientLight
}

// AddPointLight appends a light and returns its slot index.
func (s *State) AddPointLight(l PointLight) int {
	s.PointLights = append(s.PointLights, l)
	return len(s.PointLights) - 1
}

// SetAmbient installs or replaces the ambient light.
func (s *State) SetAmbient(a AmbientLight) {
	s.Ambient = &a
}

// ClearAmbient removes the ambient light.
func (s *State) ClearAmbient() {
	s.Ambient = nil
}

// Len returns the number of point lights.
func (s *State) Len() int {
	return len(s.PointLights)
}

// FromConfig builds a lighting state from the lighting config section.
func FromConfig(cfg config.LightingConfig) *State {
	s := &State{}
	for _, l := range cfg.PointLights {
		s.AddPointLight(PointLight{
			Position: vec3(l.Position),
			Color:    vec3(l.Color),
			Distance: l.Distance,
			Decay:    l.Decay,
		})
	}
	if cfg.Ambient.Enabled {
		s.SetAmbient(AmbientLight{
			Color:     vec3(cfg.Ambient.Color),
			Intensity: cfg.Ambient.Intensity,
		})
	}
	return s
}

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
