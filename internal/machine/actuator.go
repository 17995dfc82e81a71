package machine

import (
	"math/rand"

	"crane-cafe/server/internal/input"
	"crane-cafe/server/internal/physics"
	"crane-cafe/server/internal/prize"
	"crane-cafe/server/internal/scene"
)

// ActuatorKind selects the player-controlled effector for a machine kind.
type ActuatorKind int

const (
	// ActuatorClaw grabs, carries, and releases a single prize.
	ActuatorClaw ActuatorKind = iota
	// ActuatorNudge shoves every active prize with a random impulse.
	ActuatorNudge
)

func (k ActuatorKind) String() string {
	if k == ActuatorNudge {
		return "nudge"
	}
	return "claw"
}

// ActuatorState is the claw's lifecycle state. The nudge actuator is
// stateless.
type ActuatorState int

const (
	ActuatorIdle ActuatorState = iota
	ActuatorCarrying
)

func (s ActuatorState) String() string {
	if s == ActuatorCarrying {
		return "carrying"
	}
	return "idle"
}

// Actuator is the per-session effector. At most one prize is carried at a
// time, and only by the claw kind.
type Actuator struct {
	kind     ActuatorKind
	position physics.Vec3
	speed    float64
	bounds   float64
	carrying *prize.Entity
	rng      *rand.Rand
	sc       scene.Scene
	visual   scene.Handle
}

// NewActuator places the effector at the field centre and registers its
// visual.
func NewActuator(kind ActuatorKind, speed float64, sc scene.Scene, rng *rand.Rand) *Actuator {
	a := &Actuator{
		kind:     kind,
		speed:    speed,
		bounds:   pickupWallHalf - 0.2,
		position: physics.Vec3{Y: clawHeight},
		rng:      rng,
		sc:       sc,
	}
	if sc != nil {
		a.visual = sc.CreateVisual(scene.Spec{Kind: "actuator", Skin: kind.String()})
		sc.SetPose(a.visual, a.position)
	}
	return a
}

// State reports the claw state; the nudge actuator is always Idle.
func (a *Actuator) State() ActuatorState {
	if a == nil || a.carrying == nil {
		return ActuatorIdle
	}
	return ActuatorCarrying
}

// Position reports the effector pose for snapshots.
func (a *Actuator) Position() physics.Vec3 {
	if a == nil {
		return physics.Vec3{}
	}
	return a.position
}

// Carrying returns the held prize, if any.
func (a *Actuator) Carrying() *prize.Entity {
	if a == nil {
		return nil
	}
	return a.carrying
}

// Update advances the actuator one frame. Runs after the physics step so a
// carried body's pose override wins over whatever the integrator did.
func (a *Actuator) Update(in *input.State, dt float64, registry *prize.Registry) {
	if a == nil {
		return
	}
	if a.kind == ActuatorNudge {
		a.updateNudge(in, registry)
		return
	}
	a.move(in, dt)
	a.updateClaw(in, registry)
	if a.sc != nil {
		a.sc.SetPose(a.visual, a.position)
	}
}

// move integrates horizontal motion per axis, then clamps to the session
// bounds. Clamping after integration keeps wall-hugging motion smooth.
func (a *Actuator) move(in *input.State, dt float64) {
	dx, dz := in.MoveAxes()
	a.position.X += dx * a.speed * dt
	a.position.Z += dz * a.speed * dt
	a.position.X = clamp(a.position.X, -a.bounds, a.bounds)
	a.position.Z = clamp(a.position.Z, -a.bounds, a.bounds)
}

func (a *Actuator) updateClaw(in *input.State, registry *prize.Registry) {
	grabHeld := in.Held(input.ActionGrab)

	if a.carrying != nil {
		if !grabHeld {
			a.release()
			return
		}
		a.carry()
		return
	}

	if !grabHeld {
		return
	}
	candidate := a.nearestWithinRange(registry)
	if candidate == nil {
		// No prize in reach: the grab is a no-op and the claw stays idle.
		return
	}
	a.carrying = candidate
	candidate.State = prize.StateGrabbed
	candidate.Body.SetType(physics.Kinematic)
	candidate.Body.Velocity = physics.Vec3{}
	a.carry()
}

// carry pins the held body under the claw at the carry height. This runs
// every frame while carrying; the body is kinematic so the integrator leaves
// it alone between overrides.
func (a *Actuator) carry() {
	body := a.carrying.Body
	body.Position = physics.Vec3{X: a.position.X, Y: carryHeight, Z: a.position.Z}
	body.Velocity = physics.Vec3{}
}

// release hands the body back to the world at the drop height. Velocity is
// left as-is; gravity takes over on the next step.
func (a *Actuator) release() {
	entity := a.carrying
	a.carrying = nil
	entity.State = prize.StateActive
	entity.Body.Position = physics.Vec3{X: a.position.X, Y: dropHeight, Z: a.position.Z}
	entity.Body.SetType(physics.Dynamic)
}

// nearestWithinRange finds the closest Active entity inside the grab
// threshold, by straight Euclidean distance to the claw head.
func (a *Actuator) nearestWithinRange(registry *prize.Registry) *prize.Entity {
	var best *prize.Entity
	bestDist := grabRange
	for _, entity := range registry.All() {
		if entity.State != prize.StateActive || entity.Body == nil {
			continue
		}
		dist := entity.Body.Position.Sub(a.position).Length()
		if dist <= bestDist {
			best = entity
			bestDist = dist
		}
	}
	return best
}

// updateNudge consumes the edge-triggered trigger and shoves every active
// prize once. Holding the key does not retrigger.
func (a *Actuator) updateNudge(in *input.State, registry *prize.Registry) {
	if !in.ConsumePress(input.ActionGrab) {
		return
	}
	for _, entity := range registry.All() {
		if entity.State != prize.StateActive || entity.Body == nil {
			continue
		}
		impulse := physics.Vec3{
			X: randRange(a.rng, -nudgeImpulseHalf, nudgeImpulseHalf),
			Z: randRange(a.rng, -nudgeImpulseHalf, nudgeImpulseHalf),
		}
		entity.Body.ApplyImpulse(impulse, entity.Body.Position)
	}
}

// Detach releases the scene handle on session teardown.
func (a *Actuator) Detach() {
	if a == nil || a.sc == nil {
		return
	}
	a.sc.RemoveVisual(a.visual)
	a.visual = 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
