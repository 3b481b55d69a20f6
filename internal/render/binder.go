package render

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/eulertour/manim-opengl-tutorial/internal/camera"
	"github.com/eulertour/manim-opengl-tutorial/internal/geometry"
	"github.com/eulertour/manim-opengl-tutorial/internal/lighting"
	"github.com/eulertour/manim-opengl-tutorial/internal/scene"
	"github.com/eulertour/manim-opengl-tutorial/pkg/math"
)

// maxProbedLights bounds slot probing for inputs without a declaration table.
const maxProbedLights = 64

// ErrNoCamera is returned when a frame is bound without a camera.
var ErrNoCamera = errors.New("frame has no camera")

// FrameContext carries the scene state one frame is rendered with.
// Lights may be nil for an unlit scene.
type FrameContext struct {
	Camera *camera.Camera
	Lights *lighting.State
}

// Bindable is a scene payload whose shader inputs the binder fills.
type Bindable interface {
	scene.Renderable
	ShaderInputs() Inputs
}

// Mesh is the standard renderable: geometry plus the shader inputs of the
// material it is drawn with.
type Mesh struct {
	Geometry *geometry.Geometry
	Inputs   Inputs
	bounds   geometry.AABB
}

// NewMesh wraps g and in. The local bounds are computed once here.
func NewMesh(g *geometry.Geometry, in Inputs) *Mesh {
	return &Mesh{Geometry: g, Inputs: in, bounds: g.Bounds()}
}

// LocalBounds implements scene.Renderable.
func (m *Mesh) LocalBounds() geometry.AABB { return m.bounds }

// ShaderInputs implements Bindable.
func (m *Mesh) ShaderInputs() Inputs { return m.Inputs }

// frame holds the per-frame values shared by every renderable.
type frame struct {
	view       math.Mat4
	viewLinear math.Mat3
	projection math.Mat4
	ortho      bool
	lights     []lighting.PointLight
	viewLights []math.Vec3
	ambient    *lighting.AmbientLight
}

func newFrame(ctx FrameContext) (*frame, error) {
	if ctx.Camera == nil {
		return nil, ErrNoCamera
	}
	f := &frame{
		view:       ctx.Camera.ViewMatrix(),
		projection: ctx.Camera.ProjectionMatrix(),
		ortho:      ctx.Camera.Orthographic,
	}
	f.viewLinear = f.view.Mat3()
	if ctx.Lights != nil {
		f.lights = ctx.Lights.PointLights
		f.ambient = ctx.Lights.Ambient
		f.viewLights = make([]math.Vec3, len(f.lights))
		for i, l := range f.lights {
			f.viewLights[i] = f.view.MulVec4(l.Position.Vec4(1)).XYZ()
		}
	}
	return f, nil
}

// Binder resolves declared shader inputs from a FrameContext and a node's
// world transform. A Binder remembers which renderables it has warned
// about, so keep one per viewer rather than one per frame.
type Binder struct {
	log    *zap.Logger
	warned map[scene.NodeID]struct{}
}

// NewBinder creates a binder. A nil logger disables logging.
func NewBinder(log *zap.Logger) *Binder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Binder{log: log, warned: make(map[scene.NodeID]struct{})}
}

// Bind supplies every declared input of in that the frame can resolve for
// node id. Inputs the table does not cover are left untouched, and so are
// light slots past the number of lights. Lights past the shader's slot
// capacity are dropped; the first time that happens for a lit node a
// warning is logged. Shaders without light slots are unlit and never warn.
func (b *Binder) Bind(ctx FrameContext, tree *scene.Tree, id scene.NodeID, in Inputs) error {
	f, err := newFrame(ctx)
	if err != nil {
		return errors.Wrap(err, "bind")
	}
	b.bind(f, tree, id, in)
	return nil
}

// BindAll binds every node in tree whose payload is Bindable and returns
// how many were bound.
func (b *Binder) BindAll(ctx FrameContext, tree *scene.Tree) (int, error) {
	f, err := newFrame(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "bind all")
	}
	n := 0
	tree.WalkAll(func(id scene.NodeID) {
		r, ok := tree.Renderable(id).(Bindable)
		if !ok || r.ShaderInputs() == nil {
			return
		}
		b.bind(f, tree, id, r.ShaderInputs())
		n++
	})
	return n, nil
}

func (b *Binder) bind(f *frame, tree *scene.Tree, id scene.NodeID, in Inputs) {
	decl := declarationOf(in)
	world := tree.HierarchicalTransform(id)

	for _, name := range decl.Names() {
		v, ok := f.resolve(name, world)
		if !ok {
			continue
		}
		if want := decl[name]; v.Kind() != want {
			b.log.Debug("input kind mismatch",
				zap.String("node", tree.Name(id)),
				zap.String("input", name),
				zap.Stringer("declared", want),
				zap.Stringer("resolved", v.Kind()),
			)
			continue
		}
		in.SetInput(name, v)
	}

	if capacity := decl.LightCapacity(); capacity > 0 && len(f.lights) > capacity {
		b.warnOverflow(tree, id, len(f.lights), capacity)
	}
}

func (b *Binder) warnOverflow(tree *scene.Tree, id scene.NodeID, lights, slots int) {
	if _, seen := b.warned[id]; seen {
		return
	}
	b.warned[id] = struct{}{}
	b.log.Warn("point lights exceed shader slots, extra lights dropped",
		zap.String("node", tree.Name(id)),
		zap.Int("lights", lights),
		zap.Int("slots", slots),
	)
}

// resolve returns the value of one input for a node with world transform world.
func (f *frame) resolve(name string, world math.Mat4) (Value, bool) {
	switch name {
	case InputViewMatrix:
		return Mat4Value(f.view), true
	case InputProjectionMatrix:
		return Mat4Value(f.projection), true
	case InputModelViewMatrix:
		return Mat4Value(f.view.Mul(world)), true
	case InputNormalMatrix:
		return Mat3Value(f.viewLinear.Mul(math.NormalMatrix(world))), true
	case InputIsOrthographic:
		return Bool(f.ortho), true
	case InputAmbientLight:
		if f.ambient == nil {
			return Value{}, false
		}
		return Vec3Value(f.ambient.Scaled()), true
	}

	i, field, ok := ParsePointLightInput(name)
	if !ok || i >= len(f.lights) {
		return Value{}, false
	}
	l := f.lights[i]
	switch field {
	case LightPosition:
		return Vec3Value(f.viewLights[i]), true
	case LightColor:
		return Vec3Value(l.Color), true
	case LightDistance:
		return Float(l.Distance), true
	case LightDecay:
		return Float(l.Decay), true
	}
	return Value{}, false
}

// declarationOf returns the declaration table of in, probing the names the
// binder knows when in does not publish one.
func declarationOf(in Inputs) Declaration {
	if d, ok := in.(Declared); ok {
		return d.Declaration()
	}
	probed := make(Declaration)
	for name, kind := range SceneInputs(0) {
		if in.HasInput(name) {
			probed[name] = kind
		}
	}
	// Slots may be sparse; gaps do not end the search.
	for i := 0; i < maxProbedLights; i++ {
		for field, kind := range lightFieldKinds {
			if name := PointLightInput(i, field); in.HasInput(name) {
				probed[name] = kind
			}
		}
	}
	return probed
}
