package machine

import (
	"math"
	"math/rand"

	"crane-cafe/server/internal/physics"
	"crane-cafe/server/internal/prize"
	"crane-cafe/server/internal/tuning"
)

// Kind is the tagged machine variant. The two pickup kinds share geometry
// and differ in prize softness (radius/mass); the bridge kind swaps the claw
// for a nudge trigger and an open bar-supported arena.
type Kind int

const (
	KindPickupSoft Kind = iota
	KindPickupRigid
	KindBridge
)

func (k Kind) String() string {
	switch k {
	case KindPickupSoft:
		return "pickup_soft"
	case KindPickupRigid:
		return "pickup_rigid"
	case KindBridge:
		return "bridge"
	default:
		return "unknown"
	}
}

// Pickup reports whether the kind uses the claw and chute.
func (k Kind) Pickup() bool {
	return k == KindPickupSoft || k == KindPickupRigid
}

// Field geometry and win boundaries. Not tunable: the win predicates and
// arena layout define the cabinets, so the bridge threshold stays the
// literal 1.4 rather than being derived from bar height.
const (
	pickupFloorHeight   = 1.0
	pickupHoleRadius    = 1.5
	pickupWallHalf      = 3.0
	chuteMaxY           = 0.5
	chuteMaxRadius      = 2.0
	bridgeBarTop        = 2.5
	bridgeBarHalfLength = 1.5
	bridgeBarInnerX     = 0.2
	bridgeBarOuterX     = 0.4
	bridgeMaxY          = 1.4

	grabRange        = 1.2
	clawHeight       = 2.0
	carryHeight      = 2.6
	dropHeight       = 1.8
	nudgeImpulseHalf = 0.5
)

// Params is the resolved configuration for one machine session.
type Params struct {
	Kind          Kind
	SpawnCount    int
	PrizeRadius   float64
	PrizeMass     float64
	EntryCost     int
	ActuatorKind  ActuatorKind
	ActuatorSpeed float64
	Themes        []prize.Class
}

// ParamsFor merges the fixed per-kind layout with the tunable surface.
func ParamsFor(kind Kind, t tuning.MachineTuning) Params {
	p := Params{
		Kind:          kind,
		SpawnCount:    t.SpawnCount,
		PrizeRadius:   t.PrizeRadius,
		PrizeMass:     t.PrizeMass,
		EntryCost:     t.EntryCost,
		ActuatorSpeed: t.ActuatorSpeed,
		ActuatorKind:  ActuatorClaw,
	}
	if kind == KindBridge {
		p.ActuatorKind = ActuatorNudge
	}
	return p
}

// installArena adds the static colliders for the kind.
func (p Params) installArena(world physics.World) {
	if p.Kind.Pickup() {
		world.AddCollider(physics.Floor{Height: pickupFloorHeight, HoleRadius: pickupHoleRadius})
		world.AddCollider(physics.Walls{HalfExtent: pickupWallHalf, Bottom: chuteMaxY})
		return
	}
	// Two parallel bars running along Z; everything else is open air.
	world.AddCollider(physics.Box{
		Min: physics.Vec3{X: -bridgeBarOuterX, Y: 0, Z: -bridgeBarHalfLength},
		Max: physics.Vec3{X: -bridgeBarInnerX, Y: bridgeBarTop, Z: bridgeBarHalfLength},
	})
	world.AddCollider(physics.Box{
		Min: physics.Vec3{X: bridgeBarInnerX, Y: 0, Z: -bridgeBarHalfLength},
		Max: physics.Vec3{X: bridgeBarOuterX, Y: bridgeBarTop, Z: bridgeBarHalfLength},
	})
}

// delivered is the machine-kind success predicate over an entity pose.
func (p Params) delivered(pos physics.Vec3) bool {
	if p.Kind.Pickup() {
		return pos.Y < chuteMaxY && math.Hypot(pos.X, pos.Z) < chuteMaxRadius
	}
	return pos.Y < bridgeMaxY
}

// placement returns the spawn pose function for the kind. Pickup prizes
// scatter across the floor but never over the chute hole; bridge prizes line
// up along the bars.
func (p Params) placement() prize.PlacementFunc {
	if p.Kind.Pickup() {
		margin := pickupWallHalf - p.PrizeRadius - 0.1
		return func(rng *rand.Rand, index int) physics.Vec3 {
			x := randRange(rng, -margin, margin)
			z := randRange(rng, -margin, margin)
			if dist := math.Hypot(x, z); dist < pickupHoleRadius+p.PrizeRadius {
				// Push the spawn point radially clear of the hole. A point
				// near the centre has no usable direction to scale along, so
				// re-aim it at a random angle instead.
				clearance := pickupHoleRadius + p.PrizeRadius + 0.2
				if dist < 0.1 {
					angle := randRange(rng, 0, 2*math.Pi)
					x = clearance * math.Cos(angle)
					z = clearance * math.Sin(angle)
				} else {
					scale := clearance / dist
					x *= scale
					z *= scale
				}
			}
			return physics.Vec3{X: x, Y: pickupFloorHeight + 1.5 + 0.3*float64(index%3), Z: z}
		}
	}
	spacing := (2 * bridgeBarHalfLength) / float64(p.SpawnCount+1)
	return func(rng *rand.Rand, index int) physics.Vec3 {
		z := -bridgeBarHalfLength + spacing*float64(index+1)
		return physics.Vec3{
			X: randRange(rng, -0.05, 0.05),
			Y: bridgeBarTop + p.PrizeRadius + 0.4,
			Z: z,
		}
	}
}

func randRange(rng *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	if rng == nil {
		return min
	}
	return min + rng.Float64()*(max-min)
}
