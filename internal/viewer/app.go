package viewer

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/eulertour/manim-opengl-tutorial/internal/config"
	"github.com/eulertour/manim-opengl-tutorial/internal/engine/input"
	"github.com/eulertour/manim-opengl-tutorial/internal/engine/renderer"
	"github.com/eulertour/manim-opengl-tutorial/internal/engine/window"
	"github.com/eulertour/manim-opengl-tutorial/internal/provider"
	"github.com/eulertour/manim-opengl-tutorial/internal/scene"
	"github.com/eulertour/manim-opengl-tutorial/pkg/math"
)

// GPUMeshes builds meshes from p and uploads them as renderer drawables.
// A GL context must be current.
func GPUMeshes(p provider.Provider) MeshFactory {
	return func(ctx context.Context, g provider.GeometryRequest, m provider.MaterialRequest) (scene.Renderable, error) {
		mesh, def, err := provider.BuildMesh(ctx, p, g, m)
		if err != nil {
			return nil, err
		}
		return renderer.NewDrawable(mesh, def)
	}
}

// NewProvider returns the provider the provider config section selects.
func NewProvider(cfg config.ProviderConfig, log *zap.Logger) provider.Provider {
	if cfg.Local {
		return provider.NewLocal()
	}
	return provider.NewClient(cfg.Address, cfg.Timeout, log.Named("provider"))
}

// App is the interactive viewer.
type App struct {
	cfg      *config.Config
	log      *zap.Logger
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	provider provider.Provider
	demo     *Demo
}

// New opens the window and builds the demo scene.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{cfg: cfg, log: log}

	var err error
	a.window, err = window.New(cfg.Window, log.Named("window"))
	if err != nil {
		return nil, errors.Wrap(err, "creating window")
	}

	// The renderer needs the GL context the window created.
	a.renderer, err = renderer.New(log.Named("renderer"))
	if err != nil {
		a.window.Close()
		return nil, errors.Wrap(err, "creating renderer")
	}

	a.input = input.New()
	a.provider = NewProvider(cfg.Provider, log)

	a.demo, err = NewDemo(ctx, cfg, GPUMeshes(a.provider), log.Named("demo"))
	if err != nil {
		a.Close()
		return nil, errors.Wrap(err, "building scene")
	}
	a.resize()

	log.Info("viewer initialized", zap.Bool("local_provider", cfg.Provider.Local))
	return a, nil
}

// Run drives the frame loop until the window closes, Escape is pressed
// or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.running = true

	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting frame loop")

	for a.running {
		if ctx.Err() != nil || a.input.Update() {
			break
		}
		a.handleEvents()

		if err := a.demo.Update(); err != nil {
			return errors.Wrap(err, "update")
		}
		if err := a.renderer.Frame(a.demo.FrameContext(), a.demo.Tree); err != nil {
			return errors.Wrap(err, "render")
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handleEvents() {
	for _, e := range a.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			a.resize()
		case input.EventKeyDown:
			if e.Repeat {
				continue
			}
			switch e.Key {
			case sdl.SCANCODE_ESCAPE:
				a.running = false
			case sdl.SCANCODE_SPACE:
				a.demo.SwitchCamera()
			}
		case input.EventMouseMove:
			a.demo.PointerMoved(a.framePoint(e.MouseX, e.MouseY))
		case input.EventMouseDown:
			if e.Button == sdl.BUTTON_LEFT {
				a.demo.Click(a.framePoint(e.MouseX, e.MouseY))
			}
		}
	}
}

func (a *App) framePoint(x, y int) math.Vec2 {
	w, h := a.window.Size()
	return a.demo.Frame.ScreenToFrame(float32(x), float32(y), w, h)
}

func (a *App) resize() {
	w, h := a.window.DrawableSize()
	a.renderer.Resize(w, h)
	a.demo.SetViewport(w, h)
}

// Close releases GPU resources, the provider connection and the window.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.demo != nil && a.renderer != nil {
		a.renderer.Close(a.demo.Tree)
	}
	if c, ok := a.provider.(*provider.Client); ok {
		if err := c.Close(); err != nil {
			a.log.Warn("closing provider", zap.Error(err))
		}
	}
	if a.window != nil {
		a.window.Close()
	}
}
