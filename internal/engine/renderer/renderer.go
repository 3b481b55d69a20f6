// Package renderer draws a scene tree with OpenGL.
package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/eulertour/manim-opengl-tutorial/internal/render"
	"github.com/eulertour/manim-opengl-tutorial/internal/scene"
)

// Renderer binds per-frame inputs and draws every Drawable in a tree.
type Renderer struct {
	log    *zap.Logger
	binder *render.Binder
	width  int
	height int
}

// New creates a renderer.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "initializing OpenGL")
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0, 0, 0, 1)

	return &Renderer{log: log, binder: render.NewBinder(log)}, nil
}

// Resize sets the viewport to the drawable size.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Frame clears the framebuffer, binds the frame's inputs into every
// Drawable in tree and draws them in traversal order.
func (r *Renderer) Frame(ctx render.FrameContext, tree *scene.Tree) error {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if _, err := r.binder.BindAll(ctx, tree); err != nil {
		return err
	}
	tree.WalkAll(func(id scene.NodeID) {
		if d, ok := tree.Renderable(id).(*Drawable); ok {
			d.Draw()
		}
	})
	return nil
}

// Close releases every Drawable in tree.
func (r *Renderer) Close(tree *scene.Tree) {
	r.log.Info("closing renderer")
	tree.WalkAll(func(id scene.NodeID) {
		if d, ok := tree.Renderable(id).(*Drawable); ok {
			d.Delete()
		}
	})
}
