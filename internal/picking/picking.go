// Package picking resolves mouse positions against flat UI nodes that sit
// in front of the camera, such as buttons in a camera-attached frame.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/eulertour/manim-opengl-tutorial/internal/camera"
	"github.com/eulertour/manim-opengl-tutorial/internal/config"
	"github.com/eulertour/manim-opengl-tutorial/internal/scene"
	"github.com/eulertour/manim-opengl-tutorial/pkg/math"
)

// Frame maps 2D frame coordinates to points in front of the camera. Frame
// coordinates have the origin at the viewport center, x in
// [-XRadius, XRadius] and y in [-YRadius, YRadius], y up.
//
// A frame point p lands at
//
//	cameraPos - Z*Near + X*(p.x/XRadius)*(XRadius/Divisor) + Y*(p.y/YRadius)*(YRadius/Divisor)
//
// where X, Y and Z are the columns of the camera's world transform. A
// group parented to the camera with translate(0, 0, -Near)*scale(1/Divisor)
// therefore has local x/y equal to frame coordinates.
type Frame struct {
	XRadius float32
	YRadius float32
	Near    float32
	Divisor float32
}

// DefaultFrame returns the 16:9 frame used by the viewer.
func DefaultFrame() Frame {
	return Frame{XRadius: 7.111111, YRadius: 4, Near: 2, Divisor: 6}
}

// FrameFromConfig builds a Frame from the picking config section.
func FrameFromConfig(cfg config.PickingConfig) Frame {
	return Frame{XRadius: cfg.XRadius, YRadius: cfg.YRadius, Near: cfg.Near, Divisor: cfg.Divisor}
}

// Fit returns f with Divisor and XRadius derived from cam's projection so
// that a node at frame point p in the group is drawn at the pixel
// ScreenToFrame maps back to p. YRadius and Near are kept. A perspective
// camera sees half extents Near*tan(FovY/2) at distance Near; an
// orthographic one sees HalfWidth by HalfHeight at any distance.
func (f Frame) Fit(cam *camera.Camera) Frame {
	out := f
	if cam.Orthographic {
		if cam.HalfHeight <= 0 {
			return f
		}
		out.Divisor = f.YRadius / cam.HalfHeight
		out.XRadius = cam.HalfWidth * out.Divisor
		return out
	}
	halfHeight := f.Near * math32.Tan(cam.FovY/2)
	if halfHeight <= 0 || cam.Aspect <= 0 {
		return f
	}
	out.Divisor = f.YRadius / halfHeight
	out.XRadius = f.YRadius * cam.Aspect
	return out
}

// GroupTransform returns the local transform that makes a child of the
// camera node share this frame's coordinates.
func (f Frame) GroupTransform() math.Mat4 {
	return math.Translate(0, 0, -f.Near).Mul(math.ScaleUniform(1 / f.Divisor))
}

// ScreenToFrame converts window pixel coordinates (origin top-left, y down)
// to frame coordinates.
func (f Frame) ScreenToFrame(px, py float32, width, height int) math.Vec2 {
	if width <= 0 || height <= 0 {
		return math.Vec2{}
	}
	return math.Vec2{
		X: (2*px/float32(width) - 1) * f.XRadius,
		Y: (1 - 2*py/float32(height)) * f.YRadius,
	}
}

// WorldPoint returns the world-space point the frame point p maps to.
func (f Frame) WorldPoint(cam *camera.Camera, p math.Vec2) math.Vec3 {
	m := cam.Tree().HierarchicalTransform(cam.Node())
	x, y, z := m.Column(0), m.Column(1), m.Column(2)
	return m.Translation().
		Sub(z.Scale(f.Near)).
		Add(x.Scale((p.X / f.XRadius) * (f.XRadius / f.Divisor))).
		Add(y.Scale((p.Y / f.YRadius) * (f.YRadius / f.Divisor)))
}

// MouseOver reports whether the frame point p falls inside the local x/y
// extent of node id's bounding box. Edges count as inside and z is ignored,
// so this is only meaningful for flat nodes facing the camera.
func (f Frame) MouseOver(tree *scene.Tree, id scene.NodeID, p math.Vec2, cam *camera.Camera) bool {
	box := tree.Bounds(id)
	if box.IsEmpty() {
		return false
	}
	world := f.WorldPoint(cam, p)
	local := tree.HierarchicalTransform(id).Inverse().MulVec4(world.Vec4(1)).XYZ()
	return box.ContainsXY(local)
}
