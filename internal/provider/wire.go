package provider

import (
	"github.com/eulertour/manim-opengl-tutorial/internal/geometry"
)

// Operations carried in a request envelope.
const (
	opGeometry = "geometry"
	opMaterial = "material"
)

// request is one websocket text frame sent by a Client.
type request struct {
	ID       uint64           `json:"id"`
	Op       string           `json:"op"`
	Geometry *GeometryRequest `json:"geometry,omitempty"`
	Material *MaterialRequest `json:"material,omitempty"`
}

// response answers the request with the same ID. Error is set instead of
// a payload when the provider failed.
type response struct {
	ID       uint64           `json:"id"`
	Geometry *geometryPayload `json:"geometry,omitempty"`
	Material *MaterialSource  `json:"material,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// geometryPayload is the JSON form of a geometry.Geometry.
type geometryPayload struct {
	Position []float32 `json:"position"`
	Normal   []float32 `json:"normal,omitempty"`
	Index    []uint32  `json:"index,omitempty"`
	Lines    bool      `json:"lines,omitempty"`
}

func toPayload(g *geometry.Geometry) *geometryPayload {
	return &geometryPayload{Position: g.Positions, Normal: g.Normals, Index: g.Indices, Lines: g.Lines}
}

func (p *geometryPayload) geometry() *geometry.Geometry {
	return &geometry.Geometry{Positions: p.Position, Normals: p.Normal, Indices: p.Index, Lines: p.Lines}
}
