// Package input models the logical action state the client reports. Held
// actions are level-sampled once per tick; edge actions are queued by the
// transport and consumed exactly once by whatever mode handles them.
package input

// Action names one logical control. The client maps physical keys to these;
// the server never sees keycodes.
type Action string

const (
	ActionMoveUp    Action = "move_up"
	ActionMoveDown  Action = "move_down"
	ActionMoveLeft  Action = "move_left"
	ActionMoveRight Action = "move_right"
	ActionGrab      Action = "grab"
	ActionConfirm   Action = "confirm"
	ActionCancel    Action = "cancel"
	ActionSelect1   Action = "select_1"
	ActionSelect2   Action = "select_2"
	ActionSelect3   Action = "select_3"
)

// Actions lists every known action for validation at the transport edge.
var Actions = []Action{
	ActionMoveUp, ActionMoveDown, ActionMoveLeft, ActionMoveRight,
	ActionGrab, ActionConfirm, ActionCancel,
	ActionSelect1, ActionSelect2, ActionSelect3,
}

// Known reports whether the action name is one the server understands.
func Known(a Action) bool {
	for _, candidate := range Actions {
		if candidate == a {
			return true
		}
	}
	return false
}

// State holds the current-frame boolean state plus pending edge events for
// one player. Mutated only under the hub lock.
type State struct {
	held    map[Action]bool
	pressed map[Action]bool
}

// NewState constructs an empty input state.
func NewState() *State {
	return &State{
		held:    make(map[Action]bool),
		pressed: make(map[Action]bool),
	}
}

// SetHeld replaces the level state of one action.
func (s *State) SetHeld(a Action, down bool) {
	if s == nil {
		return
	}
	if down {
		s.held[a] = true
	} else {
		delete(s.held, a)
	}
}

// Held samples the level state of one action.
func (s *State) Held(a Action) bool {
	if s == nil {
		return false
	}
	return s.held[a]
}

// Press queues an edge event for the action.
func (s *State) Press(a Action) {
	if s == nil {
		return
	}
	s.pressed[a] = true
}

// ConsumePress reports and clears a pending edge event, so holding a key
// never retriggers a single-shot action.
func (s *State) ConsumePress(a Action) bool {
	if s == nil {
		return false
	}
	if s.pressed[a] {
		delete(s.pressed, a)
		return true
	}
	return false
}

// DropPresses discards all pending edge events; called when a mode switch
// must not leak stale presses into the next mode.
func (s *State) DropPresses() {
	if s == nil {
		return
	}
	for a := range s.pressed {
		delete(s.pressed, a)
	}
}

// MoveAxes derives the per-axis movement input, each axis independent with
// no diagonal normalization.
func (s *State) MoveAxes() (dx, dz float64) {
	if s == nil {
		return 0, 0
	}
	if s.held[ActionMoveLeft] {
		dx -= 1
	}
	if s.held[ActionMoveRight] {
		dx += 1
	}
	if s.held[ActionMoveUp] {
		dz -= 1
	}
	if s.held[ActionMoveDown] {
		dz += 1
	}
	return dx, dz
}
