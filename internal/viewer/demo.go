// Package viewer builds the interactive demo scene and runs it: a
// rotating camera orbiting a small solar system, a stationary camera
// watching both, and buttons in a frame attached to the rotating camera.
package viewer

import (
	"context"
	gomath "math"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/eulertour/manim-opengl-tutorial/internal/camera"
	"github.com/eulertour/manim-opengl-tutorial/internal/config"
	"github.com/eulertour/manim-opengl-tutorial/internal/lighting"
	"github.com/eulertour/manim-opengl-tutorial/internal/material"
	"github.com/eulertour/manim-opengl-tutorial/internal/picking"
	"github.com/eulertour/manim-opengl-tutorial/internal/provider"
	"github.com/eulertour/manim-opengl-tutorial/internal/render"
	"github.com/eulertour/manim-opengl-tutorial/internal/scene"
	"github.com/eulertour/manim-opengl-tutorial/pkg/math"
)

// Per-frame rotation steps, in radians.
const (
	sunSpin    = 0.01
	earthOrbit = 0.05
)

const (
	gridSize    = 10
	labelOffset = 0.3
)

var (
	white  = math.Vec3{X: 1, Y: 1, Z: 1}
	yellow = math.Vec3{X: 1, Y: 1}
)

// MeshFactory turns a geometry and material request into a scene payload.
type MeshFactory func(ctx context.Context, g provider.GeometryRequest, m provider.MaterialRequest) (scene.Renderable, error)

// CPUMeshes builds plain render.Mesh payloads from p. The viewer wraps
// them in GPU drawables; tests and headless runs use them directly.
func CPUMeshes(p provider.Provider) MeshFactory {
	return func(ctx context.Context, g provider.GeometryRequest, m provider.MaterialRequest) (scene.Renderable, error) {
		mesh, _, err := provider.BuildMesh(ctx, p, g, m)
		if err != nil {
			return nil, err
		}
		return mesh, nil
	}
}

// Demo is the viewer scene and its per-frame behavior.
type Demo struct {
	Tree       *scene.Tree
	Cameras    *camera.Switcher
	Rotating   *camera.Camera
	Stationary *camera.Camera
	Lights     *lighting.State
	// Frame maps pointer positions for the buttons. It is fitted to the
	// rotating camera's projection and refitted on viewport changes.
	Frame picking.Frame

	// OrbitSpeed is the rotating camera's azimuth step per frame.
	OrbitSpeed  float32
	PauseCamera bool
	PauseModel  bool

	log       *zap.Logger
	frameCfg  picking.Frame
	hover     *picking.Hover
	indicator scene.NodeID
	labels    []scene.NodeID
	sun       scene.NodeID
	earth     scene.NodeID
	moon      scene.NodeID
	frameNode scene.NodeID

	cameraButton scene.NodeID
	modelButton  scene.NodeID
}

// CameraParams converts the camera config section to projection settings.
func CameraParams(cfg config.CameraConfig) camera.Params {
	p := camera.DefaultParams()
	if cfg.Orthographic {
		p = camera.DefaultOrthographicParams()
	}
	if cfg.FovDegrees > 0 {
		p.FovY = cfg.FovDegrees * float32(gomath.Pi) / 180
	}
	if cfg.Near > 0 && !cfg.Orthographic {
		p.Near = cfg.Near
	}
	if cfg.Far > 0 && !cfg.Orthographic {
		p.Far = cfg.Far
	}
	if cfg.HalfWidth > 0 {
		p.HalfWidth = cfg.HalfWidth
	}
	if cfg.HalfHeight > 0 {
		p.HalfHeight = cfg.HalfHeight
	}
	p.MinPolarAngle = cfg.MinPolar
	p.MaxPolarAngle = cfg.MaxPolar
	return p
}

// NewDemo builds the scene. Every mesh is created through meshes. If
// building fails, payloads already created are released.
func NewDemo(ctx context.Context, cfg *config.Config, meshes MeshFactory, log *zap.Logger) (*Demo, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tree := scene.New(log)
	d := &Demo{
		Tree:       tree,
		Lights:     lighting.FromConfig(cfg.Lighting),
		frameCfg:   picking.FrameFromConfig(cfg.Picking),
		OrbitSpeed: cfg.Camera.OrbitSpeed,
		log:        log,
	}
	if err := d.build(ctx, cfg, meshes); err != nil {
		release(tree)
		return nil, err
	}

	log.Info("demo scene built",
		zap.Int("nodes", tree.Len()),
		zap.Int("point_lights", d.Lights.Len()),
	)
	return d, nil
}

func (d *Demo) build(ctx context.Context, cfg *config.Config, meshes MeshFactory) error {
	b := &builder{ctx: ctx, tree: d.Tree, meshes: meshes}

	d.buildReference(b)
	d.buildSolarSystem(b)
	d.buildIndicator(b)
	if b.err != nil {
		return b.err
	}
	if err := d.buildCameras(cfg.Camera); err != nil {
		return err
	}
	d.buildButtons(b)
	if b.err != nil {
		return b.err
	}

	if err := d.followRotatingCamera(); err != nil {
		return err
	}
	return d.faceLabels()
}

// releaser is implemented by payloads that hold GPU resources.
type releaser interface {
	Delete()
}

// release deletes every payload in tree that holds resources.
func release(tree *scene.Tree) {
	tree.WalkAll(func(id scene.NodeID) {
		if r, ok := tree.Renderable(id).(releaser); ok {
			r.Delete()
		}
	})
}

// builder creates mesh nodes and keeps the first error.
type builder struct {
	ctx    context.Context
	tree   *scene.Tree
	meshes MeshFactory
	err    error
}

func (b *builder) mesh(name string, g provider.GeometryRequest, kind material.Kind, values map[string]render.Value) scene.NodeID {
	if b.err != nil {
		return scene.NoNode
	}
	r, err := b.meshes(b.ctx, g, provider.MaterialRequest{Kind: kind, Values: values})
	if err != nil {
		b.err = errors.Wrapf(err, "building %s", name)
		return scene.NoNode
	}
	return b.tree.AddRenderable(name, r)
}

func (b *builder) child(parent scene.NodeID, name string, g provider.GeometryRequest, kind material.Kind, values map[string]render.Value) scene.NodeID {
	id := b.mesh(name, g, kind, values)
	if b.err == nil {
		b.err = b.tree.AddChild(parent, id)
	}
	return id
}

func box(w, h, depth float32) provider.GeometryRequest {
	return provider.GeometryRequest{Name: provider.ShapeBox, Config: map[string]float32{"width": w, "height": h, "depth": depth}}
}

func plane(w, h float32) provider.GeometryRequest {
	return provider.GeometryRequest{Name: provider.ShapePlane, Config: map[string]float32{"width": w, "height": h}}
}

func sphere() provider.GeometryRequest {
	return provider.GeometryRequest{Name: provider.ShapeSphere, Config: map[string]float32{"width_segments": 18, "height_segments": 18}}
}

func cone(radius, height float32) provider.GeometryRequest {
	return provider.GeometryRequest{Name: provider.ShapeCone, Config: map[string]float32{"radius": radius, "height": height, "radial_segments": 40}}
}

func color(c math.Vec3) map[string]render.Value {
	return map[string]render.Value{"diffuse": render.Vec3Value(c)}
}

// buildReference adds the floor grid, the axes and their labels.
func (d *Demo) buildReference(b *builder) {
	half := float32(gridSize) / 2
	b.mesh("grid", provider.GeometryRequest{
		Name:   provider.ShapeGrid,
		Config: map[string]float32{"size": gridSize, "divisions": gridSize},
	}, material.Basic, map[string]render.Value{
		"diffuse": render.Vec3Value(white),
		"opacity": render.Float(0.5),
	})

	zRadius := half * 0.55
	axes := []struct {
		name   string
		length float32
		dir    math.Vec3
		color  math.Vec3
	}{
		{"x", 2 * half, math.UnitX, math.Vec3{X: 1}},
		{"y", 2 * half, math.UnitY, math.Vec3{Y: 1}},
		{"z", 2 * zRadius, math.UnitZ, math.Vec3{Z: 1}},
	}
	for _, a := range axes {
		size := a.dir.Scale(a.length).Add(math.Vec3{X: 0.05, Y: 0.05, Z: 0.05})
		b.mesh(a.name+" axis", box(size.X, size.Y, size.Z), material.Phong, map[string]render.Value{
			"diffuse":   render.Vec3Value(a.color),
			"specular":  render.Vec3Value(math.Vec3{X: 1.0 / 3, Y: 1.0 / 3, Z: 1.0 / 3}),
			"shininess": render.Float(5),
		})

		group := b.tree.Add(a.name + " label group")
		b.tree.SetLocal(group, math.TranslateVec3(a.dir.Scale(a.length/2+labelOffset)).Mul(math.ScaleUniform(1.2)))
		label := b.child(group, a.name+" label", plane(0.3, 0.3), material.Basic, color(a.color))
		d.labels = append(d.labels, label)
	}
}

// buildSolarSystem adds a sun with an orbiting earth and moon.
func (d *Demo) buildSolarSystem(b *builder) {
	d.sun = b.mesh("sun", sphere(), material.Standard, map[string]render.Value{
		"emissive": render.Vec3Value(yellow),
	})
	earthColor := color(math.Vec3{X: 0.3, Y: 0.3, Z: 1})
	d.earth = b.child(d.sun, "earth", sphere(), material.Phong, earthColor)
	d.moon = b.child(d.earth, "moon", sphere(), material.Phong, earthColor)
	if b.err != nil {
		return
	}
	b.tree.SetLocal(d.earth, math.Translate(5, 0, 0).Mul(math.ScaleUniform(0.5)))
	b.tree.SetLocal(d.moon, math.Translate(3, 0, 0).Mul(math.ScaleUniform(0.3)))
}

// buildIndicator adds the mesh that marks the rotating camera's pose.
func (d *Demo) buildIndicator(b *builder) {
	d.indicator = b.tree.Add("camera indicator")
	body := b.child(d.indicator, "camera body", box(1, 1, 1), material.Standard, nil)
	lens := b.child(d.indicator, "camera lens", cone(0.5, 0.6), material.Standard, nil)
	if b.err != nil {
		return
	}
	b.tree.SetLocal(d.indicator, math.ScaleUniform(0.7))
	b.tree.SetPosition(body, math.Vec3{Z: 0.5})
	// The cone's apex points +Y; turn it toward the body so it opens along -Z.
	b.tree.SetLocal(lens, math.Translate(0, 0, -0.15).Mul(math.RotateX(float32(gomath.Pi/2))))
}

func (d *Demo) buildCameras(cfg config.CameraConfig) error {
	params := CameraParams(cfg)

	d.Rotating = camera.New(d.Tree, "rotating camera", params)
	d.Rotating.SetPosition(math.SphericalToCartesian(11, float32(gomath.Pi/4), float32(-gomath.Pi/2)))
	if err := d.Rotating.LookAt(math.Vec3{}, camera.WorldUp); err != nil {
		return err
	}
	d.Rotating.SaveDefault()

	d.Stationary = camera.New(d.Tree, "stationary camera", params)
	d.Stationary.SetPosition(math.SphericalToCartesian(30, float32(gomath.Pi/3), float32(-3*gomath.Pi/4)))
	if err := d.Stationary.LookAt(math.Vec3{}, camera.WorldUp); err != nil {
		return err
	}
	d.Stationary.SaveDefault()

	d.Cameras = camera.NewSwitcher(d.Rotating, d.Stationary)
	return nil
}

// buildButtons adds the camera frame group to the rotating camera and
// places the pause buttons in it.
func (d *Demo) buildButtons(b *builder) {
	d.frameNode = b.tree.Add("camera frame")
	if err := b.tree.AddChild(d.Rotating.Node(), d.frameNode); err != nil {
		b.err = err
		return
	}

	d.cameraButton = b.child(d.frameNode, "pause camera", plane(2.6, 0.8), material.Basic, color(white))
	d.modelButton = b.child(d.frameNode, "pause model", plane(2.6, 0.8), material.Basic, color(white))
	if b.err != nil {
		return
	}
	b.tree.SetLocal(d.cameraButton, math.Translate(2, -2, 0).Mul(math.ScaleUniform(0.7)))
	b.tree.SetLocal(d.modelButton, math.Translate(2, -3, 0).Mul(math.ScaleUniform(0.7)))
	d.hover = picking.NewHover(d.Frame, d.cameraButton, d.modelButton)
	d.fitFrame()
}

// fitFrame matches the button frame to the rotating camera's projection.
func (d *Demo) fitFrame() {
	d.Frame = d.frameCfg.Fit(d.Rotating)
	d.Tree.SetLocal(d.frameNode, d.Frame.GroupTransform())
	d.hover.SetFrame(d.Frame)
}

// Update advances the scene by one frame.
func (d *Demo) Update() error {
	if !d.PauseCamera {
		if err := d.Rotating.Orbit(d.OrbitSpeed, 0, math.Vec3{}); err != nil {
			return errors.Wrap(err, "orbiting camera")
		}
	}
	if err := d.followRotatingCamera(); err != nil {
		return err
	}
	if !d.PauseModel {
		d.Tree.Apply(d.sun, math.RotateZ(sunSpin))
		d.Tree.Apply(d.earth, math.RotateAbout(math.Vec3{X: 5}, math.RotateZ(earthOrbit)))
	}
	return d.faceLabels()
}

// followRotatingCamera moves the indicator onto the rotating camera and
// points it at the origin the way the camera looks.
func (d *Demo) followRotatingCamera() error {
	d.Tree.SetPosition(d.indicator, d.Rotating.WorldPosition())
	return d.Tree.LookAt(d.indicator, math.Vec3{}, camera.WorldUp, scene.FacingNegZ)
}

// faceLabels turns the axis labels toward the active camera.
func (d *Demo) faceLabels() error {
	eye := d.Cameras.Active().WorldPosition()
	for _, id := range d.labels {
		// Labels sit under a group, so eye and up are taken into group space.
		inv := d.Tree.HierarchicalTransform(d.Tree.Parent(id)).Inverse()
		target := inv.MulVec4(eye.Vec4(1)).XYZ()
		up := inv.TransformDirection(camera.WorldUp)
		if err := d.Tree.LookAt(id, target, up, scene.FacingPosZ); err != nil {
			return errors.Wrap(err, "facing label")
		}
	}
	return nil
}

// SwitchCamera makes the next camera active and returns it.
func (d *Demo) SwitchCamera() *camera.Camera {
	c := d.Cameras.Next()
	d.log.Debug("switched camera", zap.String("camera", c.Name()))
	return c
}

// SetViewport updates every camera's aspect ratio.
func (d *Demo) SetViewport(width, height int) {
	d.Rotating.SetAspect(width, height)
	d.Stationary.SetAspect(width, height)
	d.fitFrame()
}

// PointerMoved updates button highlighting for the frame point p.
func (d *Demo) PointerMoved(p math.Vec2) []picking.HoverEvent {
	events := d.hover.Update(d.Tree, d.Rotating, p)
	for _, e := range events {
		c := white
		if e.Entered {
			c = yellow
		}
		if r, ok := d.Tree.Renderable(e.Node).(render.Bindable); ok && r.ShaderInputs() != nil {
			r.ShaderInputs().SetInput("diffuse", render.Vec3Value(c))
		}
	}
	return events
}

// Click toggles the pause state of the button under frame point p and
// reports whether a button was hit.
func (d *Demo) Click(p math.Vec2) bool {
	id, ok := d.hover.Hit(d.Tree, d.Rotating, p)
	if !ok {
		return false
	}
	switch id {
	case d.cameraButton:
		d.PauseCamera = !d.PauseCamera
		d.log.Info("camera rotation toggled", zap.Bool("paused", d.PauseCamera))
	case d.modelButton:
		d.PauseModel = !d.PauseModel
		d.log.Info("model rotation toggled", zap.Bool("paused", d.PauseModel))
	}
	return true
}

// FrameContext returns the state the next frame is rendered with.
func (d *Demo) FrameContext() render.FrameContext {
	return render.FrameContext{Camera: d.Cameras.Active(), Lights: d.Lights}
}

// Node returns the node named name, for inspection.
func (d *Demo) Node(name string) (scene.NodeID, bool) {
	return d.Tree.Find(name)
}
