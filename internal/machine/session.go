// Package machine implements the crane cabinets: per-kind arenas, the
// player-controlled actuator, and the delivery pipeline that feeds the
// ledger.
package machine

import (
	"crane-cafe/server/internal/input"
	"crane-cafe/server/internal/ledger"
	"crane-cafe/server/internal/physics"
	"crane-cafe/server/internal/prize"
	"crane-cafe/server/internal/scene"
)

// Outcome pairs one delivery with what it changed in the ledger, so the
// caller can log and journal without re-deriving anything.
type Outcome struct {
	Delivery ledger.Delivery
	Result   ledger.DeliveryResult
}

// Session is one live machine: physics world, scene, prize registry, and
// actuator for a single kind. It exists from machine entry until the player
// leaves; teardown releases everything at once.
type Session struct {
	params   Params
	world    *physics.Engine
	sc       *scene.Retained
	registry *prize.Registry
	actuator *Actuator
	done     bool
}

// NewSession builds the arena, spawns the prize field, and parks the
// actuator. The rng streams are derived per concern so replays of the same
// seed reproduce the same field.
func NewSession(params Params, rootSeed string) *Session {
	world := physics.NewEngine(physics.DefaultEngineConfig())
	params.installArena(world)
	sc := scene.NewRetained()

	spawnRNG := prize.NewDeterministicRNG(rootSeed, "spawn/"+params.Kind.String())
	registry := prize.NewRegistry(world, sc, spawnRNG)
	registry.Spawn(prize.SpawnConfig{
		Count:     params.SpawnCount,
		Radius:    params.PrizeRadius,
		Mass:      params.PrizeMass,
		Skin:      params.Kind.String(),
		Themes:    params.Themes,
		Placement: params.placement(),
	})

	actuatorRNG := prize.NewDeterministicRNG(rootSeed, "actuator/"+params.Kind.String())
	actuator := NewActuator(params.ActuatorKind, params.ActuatorSpeed, sc, actuatorRNG)

	return &Session{
		params:   params,
		world:    world,
		sc:       sc,
		registry: registry,
		actuator: actuator,
	}
}

// Params exposes the resolved session configuration.
func (s *Session) Params() Params {
	if s == nil {
		return Params{}
	}
	return s.params
}

// Actuator exposes the effector for snapshots.
func (s *Session) Actuator() *Actuator {
	if s == nil {
		return nil
	}
	return s.actuator
}

// Registry exposes the prize registry; tests use it to force poses.
func (s *Session) Registry() *prize.Registry {
	if s == nil {
		return nil
	}
	return s.registry
}

// Advance runs one machine frame in the fixed order the cabinets require:
// physics step, actuator update, pose sync, then delivery detection feeding
// the ledger.
func (s *Session) Advance(tick uint64, dt float64, in *input.State, led *ledger.Ledger) []Outcome {
	if s == nil || s.done {
		return nil
	}
	s.world.Step(dt)
	s.actuator.Update(in, dt, s.registry)
	s.registry.SyncPoses()

	deliveries := detectDeliveries(s.params, s.registry)
	if len(deliveries) == 0 {
		return nil
	}
	outcomes := make([]Outcome, 0, len(deliveries))
	for _, delivery := range deliveries {
		outcomes = append(outcomes, Outcome{
			Delivery: delivery,
			Result:   led.OnDelivery(tick, delivery),
		})
	}
	return outcomes
}

// Snapshot exports the retained scene for broadcasting.
func (s *Session) Snapshot() []scene.VisualState {
	if s == nil {
		return nil
	}
	return s.sc.Snapshot()
}

// RemainingPrizes counts entities still in play.
func (s *Session) RemainingPrizes() int {
	if s == nil {
		return 0
	}
	return len(s.registry.All())
}

// Teardown discards the session: every entity, the actuator visual, and the
// physics world go together, so no partial state survives a mode switch.
func (s *Session) Teardown() {
	if s == nil || s.done {
		return
	}
	s.registry.Teardown()
	s.actuator.Detach()
	s.done = true
}
