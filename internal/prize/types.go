package prize

import (
	"crane-cafe/server/internal/physics"
	"crane-cafe/server/internal/scene"
)

// Class tags a prize with the collection theme it belongs to.
type Class string

const (
	ClassMaid   Class = "maid"
	ClassIdol   Class = "idol"
	ClassTech   Class = "tech"
	ClassShrine Class = "shrine"
	ClassNeko   Class = "neko"
)

// Classes lists every class in roll order.
var Classes = []Class{ClassMaid, ClassIdol, ClassTech, ClassShrine, ClassNeko}

// Rarity grades a prize for inventory counting and mission matching.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RaritySuperRare Rarity = "super_rare"
	RarityLegendary Rarity = "legendary"
	RarityUltimate  Rarity = "ultimate"
)

// Rarities lists every rarity from most to least frequent.
var Rarities = []Rarity{RarityCommon, RarityRare, RaritySuperRare, RarityLegendary, RarityUltimate}

// State tracks where an entity is in its lifecycle. Entities never move
// backwards past Delivered.
type State int

const (
	StateActive State = iota
	StateGrabbed
	StateDelivered
	StateRemoved
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateGrabbed:
		return "grabbed"
	case StateDelivered:
		return "delivered"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Entity is a single collectible prize inside a machine session. The registry
// owns it for the session's lifetime; Active/Grabbed entities always hold both
// a live physics body and a live visual handle, Delivered/Removed hold neither.
type Entity struct {
	ID     string
	Class  Class
	Rarity Rarity
	Body   *physics.Body
	Visual scene.Handle
	State  State
}

// Live reports whether the entity still participates in the simulation.
func (e *Entity) Live() bool {
	if e == nil {
		return false
	}
	return e.State == StateActive || e.State == StateGrabbed
}
