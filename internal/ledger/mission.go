package ledger

import "crane-cafe/server/internal/prize"

// Template is a designer-authored mission blueprint. Templates are consumed
// in catalog order; accepting one mints a live Mission.
type Template struct {
	ID          string         `yaml:"id" json:"id"`
	Description string         `yaml:"description" json:"description"`
	TargetClass prize.Class    `yaml:"target_class" json:"targetClass"`
	Rarities    []prize.Rarity `yaml:"rarities" json:"rarities"`
	Required    int            `yaml:"required" json:"required"`
	Reward      int            `yaml:"reward" json:"reward"`
	Decor       string         `yaml:"decor,omitempty" json:"decor,omitempty"`
}

// Mission is a live, accepted mission. Progress only moves forward and never
// exceeds Required; Completed flips false -> true exactly once.
type Mission struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	TargetClass prize.Class    `json:"targetClass"`
	Rarities    []prize.Rarity `json:"rarities"`
	Required    int            `json:"required"`
	Progress    int            `json:"progress"`
	Reward      int            `json:"reward"`
	Decor       string         `json:"decor,omitempty"`
	Completed   bool           `json:"completed"`
}

func newMission(tpl Template) *Mission {
	required := tpl.Required
	if required <= 0 {
		required = 1
	}
	return &Mission{
		ID:          tpl.ID,
		Description: tpl.Description,
		TargetClass: tpl.TargetClass,
		Rarities:    append([]prize.Rarity(nil), tpl.Rarities...),
		Required:    required,
		Reward:      tpl.Reward,
		Decor:       tpl.Decor,
	}
}

// accepts reports whether a delivery of the given class/rarity counts toward
// this mission.
func (m *Mission) accepts(class prize.Class, rarity prize.Rarity) bool {
	if m == nil || m.Completed || m.TargetClass != class {
		return false
	}
	if len(m.Rarities) == 0 {
		return true
	}
	for _, candidate := range m.Rarities {
		if candidate == rarity {
			return true
		}
	}
	return false
}
