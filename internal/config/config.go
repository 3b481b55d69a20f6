// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Picking  PickingConfig  `yaml:"picking"`
	Lighting LightingConfig `yaml:"lighting"`
	Provider ProviderConfig `yaml:"provider"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// CameraConfig holds projection and orbit settings. The field of view is in
// degrees, polar limits in radians.
type CameraConfig struct {
	Orthographic bool    `yaml:"orthographic"`
	FovDegrees   float32 `yaml:"fov_degrees"`
	Near         float32 `yaml:"near"`
	Far          float32 `yaml:"far"`
	HalfWidth    float32 `yaml:"half_width"`
	HalfHeight   float32 `yaml:"half_height"`
	MinPolar     float32 `yaml:"min_polar"`
	MaxPolar     float32 `yaml:"max_polar"`
	OrbitSpeed   float32 `yaml:"orbit_speed"` // Radians of azimuth per frame
}

// PickingConfig holds the viewport-to-world mapping used for mouse picking.
type PickingConfig struct {
	XRadius float32 `yaml:"x_radius"`
	YRadius float32 `yaml:"y_radius"`
	Near    float32 `yaml:"near"`
	Divisor float32 `yaml:"divisor"`
}

// PointLightConfig describes one point light.
type PointLightConfig struct {
	Position [3]float32 `yaml:"position"`
	Color    [3]float32 `yaml:"color"`
	Distance float32    `yaml:"distance"`
	Decay    float32    `yaml:"decay"`
}

// AmbientConfig describes the ambient light. It is ignored unless Enabled.
type AmbientConfig struct {
	Enabled   bool       `yaml:"enabled"`
	Color     [3]float32 `yaml:"color"`
	Intensity float32    `yaml:"intensity"`
}

// LightingConfig holds the scene lights. List order is shader slot order.
type LightingConfig struct {
	PointLights []PointLightConfig `yaml:"point_lights"`
	Ambient     AmbientConfig      `yaml:"ambient"`
}

// ProviderConfig selects where geometry and materials come from.
type ProviderConfig struct {
	Local   bool          `yaml:"local"`   // Use the built-in provider
	Address string        `yaml:"address"` // Websocket URL of a geometry server
	Listen  string        `yaml:"listen"`  // Listen address for geomserver
	Timeout time.Duration `yaml:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Scene Viewer",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Camera: CameraConfig{
			Orthographic: false,
			FovDegrees:   45,
			Near:         0.1,
			Far:          100,
			HalfWidth:    7.1,
			HalfHeight:   4,
			MinPolar:     0.0001,
			MaxPolar:     1.5707964,
			OrbitSpeed:   0.002,
		},
		Picking: PickingConfig{
			XRadius: 7.111111,
			YRadius: 4,
			Near:    2,
			Divisor: 6,
		},
		Lighting: LightingConfig{
			PointLights: []PointLightConfig{
				{Color: [3]float32{5, 5, 5}, Distance: 100, Decay: 1},
			},
			Ambient: AmbientConfig{
				Enabled:   true,
				Color:     [3]float32{0.612, 0.863, 0.922},
				Intensity: 0.5,
			},
		},
		Provider: ProviderConfig{
			Local:   true,
			Address: "ws://127.0.0.1:8765/ws",
			Listen:  "127.0.0.1:8765",
			Timeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
