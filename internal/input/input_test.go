package input

import "testing"

func TestConsumePressFiresOnce(t *testing.T) {
	state := NewState()
	state.Press(ActionConfirm)

	if !state.ConsumePress(ActionConfirm) {
		t.Fatalf("expected first consume to report the press")
	}
	if state.ConsumePress(ActionConfirm) {
		t.Fatalf("expected second consume to be empty")
	}
}

func TestHeldDoesNotImplyPressed(t *testing.T) {
	state := NewState()
	state.SetHeld(ActionGrab, true)

	for tick := 0; tick < 3; tick++ {
		if state.ConsumePress(ActionGrab) {
			t.Fatalf("tick %d: held key produced an edge event", tick)
		}
	}
	if !state.Held(ActionGrab) {
		t.Fatalf("held state lost")
	}
}

func TestMoveAxesIndependentPerAxis(t *testing.T) {
	state := NewState()
	state.SetHeld(ActionMoveRight, true)
	state.SetHeld(ActionMoveUp, true)

	dx, dz := state.MoveAxes()
	if dx != 1 || dz != -1 {
		t.Fatalf("expected axes (1,-1), got (%.0f,%.0f)", dx, dz)
	}

	state.SetHeld(ActionMoveLeft, true)
	dx, _ = state.MoveAxes()
	if dx != 0 {
		t.Fatalf("opposing keys should cancel, got dx=%.0f", dx)
	}
}

func TestDropPressesClearsPending(t *testing.T) {
	state := NewState()
	state.Press(ActionCancel)
	state.Press(ActionSelect2)

	state.DropPresses()

	if state.ConsumePress(ActionCancel) || state.ConsumePress(ActionSelect2) {
		t.Fatalf("expected no presses after drop")
	}
}

func TestKnownRejectsUnknownActions(t *testing.T) {
	if Known(Action("fly")) {
		t.Fatalf("unexpectedly accepted unknown action")
	}
	if !Known(ActionSelect3) {
		t.Fatalf("rejected a known action")
	}
}
