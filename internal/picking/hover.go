package picking

import (
	"github.com/eulertour/manim-opengl-tutorial/internal/camera"
	"github.com/eulertour/manim-opengl-tutorial/internal/scene"
	"github.com/eulertour/manim-opengl-tutorial/pkg/math"
)

// HoverEvent reports that the pointer entered or left a tracked node.
type HoverEvent struct {
	Node    scene.NodeID
	Entered bool
}

// Hover tracks which of a set of nodes the pointer is over and turns
// pointer moves into enter/leave events.
type Hover struct {
	frame   Frame
	targets []scene.NodeID
	over    map[scene.NodeID]bool
}

// NewHover tracks targets in the given frame.
func NewHover(f Frame, targets ...scene.NodeID) *Hover {
	return &Hover{frame: f, targets: targets, over: make(map[scene.NodeID]bool)}
}

// SetFrame replaces the frame targets are tested in.
func (h *Hover) SetFrame(f Frame) {
	h.frame = f
}

// Track adds a node to the tracked set.
func (h *Hover) Track(id scene.NodeID) {
	h.targets = append(h.targets, id)
}

// Over reports whether the pointer was over id at the last Update.
func (h *Hover) Over(id scene.NodeID) bool {
	return h.over[id]
}

// Update tests every tracked node against the frame point p and returns
// the transitions since the previous call, in tracking order. Removed
// nodes are skipped.
func (h *Hover) Update(tree *scene.Tree, cam *camera.Camera, p math.Vec2) []HoverEvent {
	var events []HoverEvent
	for _, id := range h.targets {
		now := tree.Contains(id) && h.frame.MouseOver(tree, id, p, cam)
		if now != h.over[id] {
			events = append(events, HoverEvent{Node: id, Entered: now})
		}
		h.over[id] = now
	}
	return events
}

// Hit returns the first tracked node under p.
func (h *Hover) Hit(tree *scene.Tree, cam *camera.Camera, p math.Vec2) (scene.NodeID, bool) {
	for _, id := range h.targets {
		if tree.Contains(id) && h.frame.MouseOver(tree, id, p, cam) {
			return id, true
		}
	}
	return scene.NoNode, false
}
