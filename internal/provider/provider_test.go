package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eulertour/manim-opengl-tutorial/internal/geometry"
	"github.com/eulertour/manim-opengl-tutorial/internal/material"
	"github.com/eulertour/manim-opengl-tutorial/internal/render"
	"github.com/eulertour/manim-opengl-tutorial/pkg/math"
)

func box() GeometryRequest {
	return GeometryRequest{Name: ShapeBox, Config: map[string]float32{"width": 2, "height": 1, "depth": 0.5}}
}

func TestLocalGeometry(t *testing.T) {
	ctx := context.Background()
	l := NewLocal()

	g, err := l.Geometry(ctx, box())
	require.NoError(t, err)
	require.NoError(t, g.Validate())
	assert.Equal(t, 24, g.VertexCount())
	b := g.Bounds()
	assert.Equal(t, math.Vec3{X: -1, Y: -0.5, Z: -0.25}, b.Min)
	assert.Equal(t, math.Vec3{X: 1, Y: 0.5, Z: 0.25}, b.Max)

	wire, err := l.Geometry(ctx, GeometryRequest{Name: ShapePlane, Wireframe: true})
	require.NoError(t, err)
	assert.True(t, wire.Lines)
	assert.False(t, wire.HasNormals())

	_, err = l.Geometry(ctx, GeometryRequest{Name: "torusKnot"})
	assert.ErrorIs(t, err, ErrUnknownShape)
}

func TestLocalRoundShapes(t *testing.T) {
	tests := []struct {
		req      GeometryRequest
		vertices int
		max      math.Vec3
	}{
		{GeometryRequest{Name: ShapeSphere}, 9 * 7, math.Vec3{X: 1, Y: 1, Z: 1}},
		{GeometryRequest{Name: ShapeSphere, Config: map[string]float32{"radius": 3, "width_segments": 16, "height_segments": 18}}, 17 * 19, math.Vec3{X: 3, Y: 3, Z: 3}},
		{GeometryRequest{Name: ShapeCylinder, Config: map[string]float32{"height": 2}}, 2*9 + 2*10, math.Vec3{X: 1, Y: 1, Z: 1}},
		{GeometryRequest{Name: ShapeCone, Config: map[string]float32{"radius": 0.5, "height": 0.6, "radial_segments": 40}}, 2*41 + 42, math.Vec3{X: 0.5, Y: 0.3, Z: 0.5}},
		{GeometryRequest{Name: ShapeCircle, Config: map[string]float32{"radius": 2}}, 1 + 9, math.Vec3{X: 2, Y: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.req.Name, func(t *testing.T) {
			g, err := NewLocal().Geometry(context.Background(), tt.req)
			require.NoError(t, err)
			require.NoError(t, g.Validate())
			assert.True(t, g.HasNormals())
			assert.Equal(t, tt.vertices, g.VertexCount())
			assert.True(t, tt.max.ApproxEqual(g.Bounds().Max, 1e-5), "max %v", g.Bounds().Max)
		})
	}
}

func TestLocalMaterial(t *testing.T) {
	ctx := context.Background()
	l := NewLocal()
	for _, k := range material.Kinds() {
		src, err := l.Material(ctx, MaterialRequest{Kind: k})
		require.NoError(t, err, k)
		assert.Equal(t, k, src.Kind)
		assert.True(t, strings.HasPrefix(src.VertexShader, "#version 410"), k)
		assert.Contains(t, src.FragmentShader, "uniform vec3 diffuse;", k)
		if k.Lit() {
			assert.Contains(t, src.FragmentShader, "pointLights[NUM_POINT_LIGHTS]", k)
		}
	}

	_, err := l.Material(ctx, MaterialRequest{Kind: "toon"})
	assert.ErrorIs(t, err, material.ErrUnknownKind)
}

func TestLocalHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLocal().Geometry(ctx, box())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildMesh(t *testing.T) {
	red := render.Vec3Value(math.Vec3{X: 1})
	mesh, def, err := BuildMesh(context.Background(), NewLocal(), box(),
		MaterialRequest{Kind: material.Phong, Values: map[string]render.Value{"diffuse": red}})
	require.NoError(t, err)

	assert.Equal(t, material.Phong, def.Kind)
	assert.Equal(t, float32(1), mesh.LocalBounds().Max.X)

	u, ok := mesh.ShaderInputs().(*render.Uniforms)
	require.True(t, ok)
	got, ok := u.Get("diffuse")
	require.True(t, ok)
	assert.Equal(t, red, got)
	assert.True(t, u.HasInput(render.PointLightInput(0, render.LightColor)))

	_, _, err = BuildMesh(context.Background(), NewLocal(), GeometryRequest{Name: "torus"}, MaterialRequest{Kind: material.Basic})
	assert.ErrorIs(t, err, ErrUnknownShape)

	_, _, err = BuildMesh(context.Background(), NewLocal(), box(),
		MaterialRequest{Kind: material.Basic, Values: map[string]render.Value{"shininess": render.Float(1)}})
	assert.ErrorIs(t, err, render.ErrUndeclared)
}

func newTestServer(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()
	ts := httptest.NewServer(NewServer(NewLocal(), nil).Handler())
	t.Cleanup(ts.Close)
	c := NewClient("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", time.Second, nil)
	t.Cleanup(func() { c.Close() })
	return ts, c
}

func TestClientRoundTrip(t *testing.T) {
	_, c := newTestServer(t)
	ctx := context.Background()

	want, err := NewLocal().Geometry(ctx, box())
	require.NoError(t, err)
	got, err := c.Geometry(ctx, box())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	src, err := c.Material(ctx, MaterialRequest{Kind: material.Standard})
	require.NoError(t, err)
	local, err := NewLocal().Material(ctx, MaterialRequest{Kind: material.Standard})
	require.NoError(t, err)
	assert.Equal(t, local, src)
}

func TestClientRemoteError(t *testing.T) {
	_, c := newTestServer(t)
	ctx := context.Background()

	_, err := c.Geometry(ctx, GeometryRequest{Name: "icosahedron"})
	require.ErrorIs(t, err, ErrRemote)
	assert.Contains(t, err.Error(), "unknown geometry")

	// The connection survives a provider error.
	_, err = c.Geometry(ctx, box())
	assert.NoError(t, err)
}

func TestClientCancelAfterReturnKeepsConnection(t *testing.T) {
	_, c := newTestServer(t)

	// Each request's context is cancelled as soon as it returns. A late
	// cancellation must not expire the deadline of the request after it.
	for i := 0; i < 200; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		_, err := c.Geometry(ctx, box())
		cancel()
		require.NoError(t, err, "request %d", i)

		_, err = c.Material(context.Background(), MaterialRequest{Kind: material.Basic})
		require.NoError(t, err, "request %d", i)
	}
}

func TestClientBuildMesh(t *testing.T) {
	_, c := newTestServer(t)
	mesh, def, err := BuildMesh(context.Background(), c,
		GeometryRequest{Name: ShapePlane, Config: map[string]float32{"width": 4, "height": 2}},
		MaterialRequest{Kind: material.Basic})
	require.NoError(t, err)
	assert.Equal(t, material.Basic, def.Kind)
	assert.Equal(t, geometry.NewAABB(math.Vec3{X: -2, Y: -1}, math.Vec3{X: 2, Y: 1}), mesh.LocalBounds())
}

func TestClientCancelledContext(t *testing.T) {
	_, c := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Geometry(ctx, box())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClientDialFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()
	c := NewClient("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", 100*time.Millisecond, nil)
	_, err := c.Material(context.Background(), MaterialRequest{Kind: material.Basic})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dialing")
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestServerRejectsBadRequest(t *testing.T) {
	s := NewServer(NewLocal(), nil)
	resp := s.dispatch(context.Background(), &request{ID: 7, Op: "mesh"})
	assert.Equal(t, uint64(7), resp.ID)
	assert.Contains(t, resp.Error, "bad request")

	resp = s.dispatch(context.Background(), &request{ID: 8, Op: opGeometry})
	assert.NotEmpty(t, resp.Error)
}
