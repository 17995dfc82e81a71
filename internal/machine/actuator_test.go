package machine

import (
	"math"
	"math/rand"
	"testing"

	"crane-cafe/server/internal/input"
	"crane-cafe/server/internal/physics"
	"crane-cafe/server/internal/prize"
	"crane-cafe/server/internal/scene"
)

// clawFixture wires a registry with a single prize at the given position and
// a claw parked at the field centre.
func clawFixture(t *testing.T, at physics.Vec3) (*Actuator, *prize.Registry, *prize.Entity) {
	t.Helper()
	engine := physics.NewEngine(physics.DefaultEngineConfig())
	sc := scene.NewRetained()
	rng := prize.NewDeterministicRNG("actuator-test", "fixture")
	registry := prize.NewRegistry(engine, sc, rng)
	spawned := registry.Spawn(prize.SpawnConfig{
		Count:  1,
		Radius: 0.4,
		Mass:   1,
		Placement: func(_ *rand.Rand, _ int) physics.Vec3 {
			return at
		},
	})
	actuator := NewActuator(ActuatorClaw, 3.0, sc, rng)
	return actuator, registry, spawned[0]
}

func TestGrabOutOfRangeStaysIdle(t *testing.T) {
	actuator, registry, entity := clawFixture(t, physics.Vec3{X: 2.0, Y: 1.45})

	in := input.NewState()
	in.SetHeld(input.ActionGrab, true)
	actuator.Update(in, 1.0/30.0, registry)

	if actuator.State() != ActuatorIdle {
		t.Fatalf("expected idle, got %s", actuator.State())
	}
	if entity.State != prize.StateActive {
		t.Fatalf("entity state changed to %s", entity.State)
	}
}

func TestGrabWithinRangeCarries(t *testing.T) {
	actuator, registry, entity := clawFixture(t, physics.Vec3{Y: 1.45})

	in := input.NewState()
	in.SetHeld(input.ActionGrab, true)
	actuator.Update(in, 1.0/30.0, registry)

	if actuator.State() != ActuatorCarrying {
		t.Fatalf("expected carrying, got %s", actuator.State())
	}
	if entity.State != prize.StateGrabbed {
		t.Fatalf("entity not grabbed: %s", entity.State)
	}
	if entity.Body.Type() != physics.Kinematic {
		t.Fatalf("carried body type %s, expected kinematic", entity.Body.Type())
	}
	if entity.Body.Velocity != (physics.Vec3{}) {
		t.Fatalf("carried body kept velocity %+v", entity.Body.Velocity)
	}
	if entity.Body.Position.Y != carryHeight {
		t.Fatalf("carried body at y=%.2f, expected carry height %.2f", entity.Body.Position.Y, carryHeight)
	}
}

func TestGrabPicksNearestCandidate(t *testing.T) {
	engine := physics.NewEngine(physics.DefaultEngineConfig())
	sc := scene.NewRetained()
	rng := prize.NewDeterministicRNG("actuator-test", "nearest")
	registry := prize.NewRegistry(engine, sc, rng)
	positions := []physics.Vec3{{X: 0.8, Y: 1.45}, {X: 0.2, Y: 1.45}}
	spawned := registry.Spawn(prize.SpawnConfig{
		Count:  2,
		Radius: 0.4,
		Mass:   1,
		Placement: func(_ *rand.Rand, index int) physics.Vec3 {
			return positions[index]
		},
	})
	actuator := NewActuator(ActuatorClaw, 3.0, sc, rng)

	in := input.NewState()
	in.SetHeld(input.ActionGrab, true)
	actuator.Update(in, 1.0/30.0, registry)

	if actuator.Carrying() != spawned[1] {
		t.Fatalf("claw picked the farther prize")
	}
}

func TestCarriedBodyFollowsClawEveryFrame(t *testing.T) {
	actuator, registry, entity := clawFixture(t, physics.Vec3{Y: 1.45})

	in := input.NewState()
	in.SetHeld(input.ActionGrab, true)
	actuator.Update(in, 1.0/30.0, registry)

	in.SetHeld(input.ActionMoveRight, true)
	for i := 0; i < 10; i++ {
		actuator.Update(in, 1.0/30.0, registry)
		if entity.Body.Position.X != actuator.Position().X {
			t.Fatalf("frame %d: carried body x=%.3f, claw x=%.3f", i, entity.Body.Position.X, actuator.Position().X)
		}
	}
}

func TestReleaseDropsAtLowerHeight(t *testing.T) {
	actuator, registry, entity := clawFixture(t, physics.Vec3{Y: 1.45})

	in := input.NewState()
	in.SetHeld(input.ActionGrab, true)
	actuator.Update(in, 1.0/30.0, registry)

	in.SetHeld(input.ActionGrab, false)
	actuator.Update(in, 1.0/30.0, registry)

	if actuator.State() != ActuatorIdle {
		t.Fatalf("claw still %s after release", actuator.State())
	}
	if entity.State != prize.StateActive {
		t.Fatalf("released entity state %s", entity.State)
	}
	if entity.Body.Type() != physics.Dynamic {
		t.Fatalf("released body type %s", entity.Body.Type())
	}
	if entity.Body.Position.Y != dropHeight {
		t.Fatalf("released at y=%.2f, expected drop height %.2f", entity.Body.Position.Y, dropHeight)
	}
}

func TestClawMotionClampsAfterIntegration(t *testing.T) {
	actuator, registry, _ := clawFixture(t, physics.Vec3{X: 2.0, Y: 1.45})

	in := input.NewState()
	in.SetHeld(input.ActionMoveRight, true)
	for i := 0; i < 300; i++ {
		actuator.Update(in, 1.0/30.0, registry)
	}

	if got := actuator.Position().X; got > actuator.bounds {
		t.Fatalf("claw escaped bounds: x=%.3f", got)
	}
	if got := actuator.Position().X; math.Abs(got-actuator.bounds) > 1e-9 {
		t.Fatalf("claw should sit at the bound, x=%.3f", got)
	}
}

func TestNudgeTriggerFiresOncePerPress(t *testing.T) {
	engine := physics.NewEngine(physics.DefaultEngineConfig())
	sc := scene.NewRetained()
	rng := prize.NewDeterministicRNG("actuator-test", "nudge")
	registry := prize.NewRegistry(engine, sc, rng)
	spawned := registry.Spawn(prize.SpawnConfig{
		Count:  2,
		Radius: 0.4,
		Mass:   1,
		Placement: func(_ *rand.Rand, index int) physics.Vec3 {
			return physics.Vec3{X: float64(index) * 2, Y: 3}
		},
	})
	actuator := NewActuator(ActuatorNudge, 0, sc, rng)

	in := input.NewState()
	in.Press(input.ActionGrab)
	in.SetHeld(input.ActionGrab, true)

	// Held across three ticks: the impulse lands exactly once.
	actuator.Update(in, 1.0/30.0, registry)
	afterFirst := make([]physics.Vec3, len(spawned))
	moved := false
	for i, entity := range spawned {
		afterFirst[i] = entity.Body.Velocity
		if entity.Body.Velocity.X != 0 || entity.Body.Velocity.Z != 0 {
			moved = true
		}
	}
	if !moved {
		t.Fatalf("first trigger applied no impulse")
	}

	for tick := 0; tick < 2; tick++ {
		actuator.Update(in, 1.0/30.0, registry)
		for i, entity := range spawned {
			if entity.Body.Velocity != afterFirst[i] {
				t.Fatalf("tick %d re-applied impulse to prize %d", tick+2, i)
			}
		}
	}
}

func TestNudgeImpulseStaysWithinHalfUnit(t *testing.T) {
	engine := physics.NewEngine(physics.DefaultEngineConfig())
	sc := scene.NewRetained()
	rng := prize.NewDeterministicRNG("actuator-test", "impulse-range")
	registry := prize.NewRegistry(engine, sc, rng)
	registry.Spawn(prize.SpawnConfig{Count: 1, Radius: 0.4, Mass: 1})
	actuator := NewActuator(ActuatorNudge, 0, sc, rng)

	for trial := 0; trial < 50; trial++ {
		entity := registry.All()[0]
		entity.Body.Velocity = physics.Vec3{}
		in := input.NewState()
		in.Press(input.ActionGrab)
		actuator.Update(in, 1.0/30.0, registry)
		v := entity.Body.Velocity
		if math.Abs(v.X) > nudgeImpulseHalf || math.Abs(v.Z) > nudgeImpulseHalf {
			t.Fatalf("trial %d impulse out of range: %+v", trial, v)
		}
		if v.Y != 0 {
			t.Fatalf("trial %d vertical impulse applied: %+v", trial, v)
		}
	}
}
