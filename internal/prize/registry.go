package prize

import (
	"fmt"
	"math/rand"

	"crane-cafe/server/internal/physics"
	"crane-cafe/server/internal/scene"
)

// SpawnConfig describes how a machine session populates its field.
type SpawnConfig struct {
	Count     int
	Radius    float64
	Mass      float64
	Skin      string
	Themes    []Class
	Placement PlacementFunc
}

// PlacementFunc produces the initial pose for the i-th spawned prize.
type PlacementFunc func(rng *rand.Rand, index int) physics.Vec3

// Registry owns every prize entity for one machine session. It is the only
// component allowed to create or retire entities, which keeps the
// handle-liveness invariant in one place.
type Registry struct {
	world    physics.World
	scene    scene.Scene
	rng      *rand.Rand
	entities []*Entity
	nextID   int
}

// NewRegistry binds a registry to the session's physics world and scene.
func NewRegistry(world physics.World, sc scene.Scene, rng *rand.Rand) *Registry {
	return &Registry{world: world, scene: sc, rng: rng}
}

// Spawn creates cfg.Count entities with rolled class/rarity and randomized
// poses, registering each with the physics world and the scene.
func (r *Registry) Spawn(cfg SpawnConfig) []*Entity {
	if r == nil || cfg.Count <= 0 {
		return nil
	}
	spawned := make([]*Entity, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		var position physics.Vec3
		if cfg.Placement != nil {
			position = cfg.Placement(r.rng, i)
		}
		body := r.world.AddBody(physics.BodyDef{
			Position: position,
			Radius:   cfg.Radius,
			Mass:     cfg.Mass,
			Type:     physics.Dynamic,
		})
		r.nextID++
		entity := &Entity{
			ID:     fmt.Sprintf("prize-%d", r.nextID),
			Class:  RollClass(r.rng, cfg.Themes),
			Rarity: RollRarity(r.rng),
			Body:   body,
			State:  StateActive,
		}
		entity.Visual = r.scene.CreateVisual(scene.Spec{
			Kind:   "prize",
			Skin:   cfg.Skin + "/" + string(entity.Class) + "/" + string(entity.Rarity),
			Radius: cfg.Radius,
		})
		r.scene.SetPose(entity.Visual, position)
		r.entities = append(r.entities, entity)
		spawned = append(spawned, entity)
	}
	return spawned
}

// Retire transitions an entity to Delivered and releases both handles.
// Retiring an entity that already left the active set is a no-op, which
// keeps double detection within one frame harmless.
func (r *Registry) Retire(e *Entity) {
	if r == nil || e == nil || !e.Live() {
		return
	}
	r.world.RemoveBody(e.Body)
	r.scene.RemoveVisual(e.Visual)
	e.Body = nil
	e.Visual = 0
	e.State = StateDelivered
}

// All returns the Active and Grabbed entities in spawn order. The detector
// iterates this order, so delivery ordering is deterministic.
func (r *Registry) All() []*Entity {
	if r == nil {
		return nil
	}
	live := make([]*Entity, 0, len(r.entities))
	for _, entity := range r.entities {
		if entity.Live() {
			live = append(live, entity)
		}
	}
	return live
}

// Teardown releases every remaining entity without marking deliveries; used
// when a machine session is discarded on mode switch.
func (r *Registry) Teardown() {
	if r == nil {
		return
	}
	for _, entity := range r.entities {
		if !entity.Live() {
			continue
		}
		r.world.RemoveBody(entity.Body)
		r.scene.RemoveVisual(entity.Visual)
		entity.Body = nil
		entity.Visual = 0
		entity.State = StateRemoved
	}
	r.entities = nil
}

// SyncPoses pushes each live entity's physics pose into the scene. Runs once
// per frame after the physics step.
func (r *Registry) SyncPoses() {
	if r == nil {
		return
	}
	for _, entity := range r.entities {
		if entity.Live() && entity.Body != nil {
			r.scene.SetPose(entity.Visual, entity.Body.Position)
		}
	}
}
