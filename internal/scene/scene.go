// Package scene is the rendering collaborator boundary. The core pushes
// visual handles and poses into a Scene and never reads back; the shipped
// implementation retains the latest pose per handle and exports it as the
// snapshot the websocket broadcast sends to the browser renderer.
package scene

import "crane-cafe/server/internal/physics"

// Handle identifies one visual in the scene. Zero is never a live handle.
type Handle uint64

// Spec describes the visual to create. The server does not interpret these
// fields beyond forwarding them; the client picks meshes and materials.
type Spec struct {
	Kind   string  `json:"kind"`
	Skin   string  `json:"skin,omitempty"`
	Radius float64 `json:"radius,omitempty"`
}

// Scene is the capability consumed by the core.
type Scene interface {
	CreateVisual(spec Spec) Handle
	SetPose(h Handle, position physics.Vec3)
	RemoveVisual(h Handle)
}

// VisualState is one retained visual as it appears in broadcast snapshots.
type VisualState struct {
	ID       Handle       `json:"id"`
	Spec     Spec         `json:"spec"`
	Position physics.Vec3 `json:"position"`
}

// Retained is the default Scene: a retained-mode table of visuals with
// stable creation order, snapshotted once per tick for the broadcaster.
type Retained struct {
	nextID  Handle
	order   []Handle
	visuals map[Handle]*VisualState
}

// NewRetained constructs an empty retained scene.
func NewRetained() *Retained {
	return &Retained{visuals: make(map[Handle]*VisualState)}
}

// CreateVisual registers a visual and returns its handle.
func (s *Retained) CreateVisual(spec Spec) Handle {
	if s == nil {
		return 0
	}
	s.nextID++
	h := s.nextID
	s.visuals[h] = &VisualState{ID: h, Spec: spec}
	s.order = append(s.order, h)
	return h
}

// SetPose updates the retained position for a handle. Unknown handles are
// ignored.
func (s *Retained) SetPose(h Handle, position physics.Vec3) {
	if s == nil {
		return
	}
	if visual, ok := s.visuals[h]; ok {
		visual.Position = position
	}
}

// RemoveVisual drops a visual. Removing an unknown handle is a no-op.
func (s *Retained) RemoveVisual(h Handle) {
	if s == nil {
		return
	}
	if _, ok := s.visuals[h]; !ok {
		return
	}
	delete(s.visuals, h)
	for i, candidate := range s.order {
		if candidate == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Snapshot copies the retained visuals in creation order.
func (s *Retained) Snapshot() []VisualState {
	if s == nil {
		return nil
	}
	out := make([]VisualState, 0, len(s.order))
	for _, h := range s.order {
		if visual, ok := s.visuals[h]; ok {
			out = append(out, *visual)
		}
	}
	return out
}

// Len reports the number of retained visuals.
func (s *Retained) Len() int {
	if s == nil {
		return 0
	}
	return len(s.visuals)
}

var _ Scene = (*Retained)(nil)
