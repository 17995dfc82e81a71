package game

import (
	"crane-cafe/server/internal/ledger"
	"crane-cafe/server/internal/physics"
	"crane-cafe/server/internal/scene"
)

// MissionView is the HUD projection of one mission.
type MissionView struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Progress    int    `json:"progress"`
	Required    int    `json:"required"`
	Reward      int    `json:"reward"`
	Completed   bool   `json:"completed"`
}

// HUD is the per-tick text-layer state the client renders.
type HUD struct {
	Balance       int            `json:"balance"`
	Inventory     map[string]int `json:"inventory,omitempty"`
	Missions      []MissionView  `json:"missions,omitempty"`
	Decor         []string       `json:"decor,omitempty"`
	Notifications []string       `json:"notifications,omitempty"`
}

// ActuatorView is the broadcast pose of the machine effector.
type ActuatorView struct {
	Kind     string       `json:"kind"`
	State    string       `json:"state"`
	Position physics.Vec3 `json:"position"`
}

// Snapshot is everything the client needs to draw this player's frame.
type Snapshot struct {
	Mode     string              `json:"mode"`
	Machine  string              `json:"machine,omitempty"`
	Avatar   physics.Vec3        `json:"avatar"`
	Scene    []scene.VisualState `json:"scene,omitempty"`
	Actuator *ActuatorView       `json:"actuator,omitempty"`
	HUD      HUD                 `json:"hud"`
}

// Snapshot projects the session state for broadcasting. Notifications are
// pruned against the given tick as a side effect.
func (s *Session) Snapshot(tick uint64) Snapshot {
	if s == nil {
		return Snapshot{}
	}
	snapshot := Snapshot{
		Mode:   s.mode.String(),
		Avatar: s.avatar,
		HUD:    s.hud(tick),
	}
	if s.mode == ModeMachine && s.mach != nil {
		snapshot.Machine = s.machineKind.String()
		snapshot.Scene = s.mach.Snapshot()
		actuator := s.mach.Actuator()
		snapshot.Actuator = &ActuatorView{
			Kind:     s.mach.Params().ActuatorKind.String(),
			State:    actuator.State().String(),
			Position: actuator.Position(),
		}
	}
	return snapshot
}

func (s *Session) hud(tick uint64) HUD {
	hud := HUD{
		Balance: s.led.Balance(),
		Decor:   s.led.Decor(),
	}
	inventory := s.led.Inventory()
	if len(inventory) > 0 {
		hud.Inventory = make(map[string]int, len(inventory))
		for rarity, count := range inventory {
			hud.Inventory[string(rarity)] = count
		}
	}
	for _, mission := range s.led.Missions() {
		hud.Missions = append(hud.Missions, missionView(mission))
	}
	for _, notification := range s.led.Notifications(tick) {
		hud.Notifications = append(hud.Notifications, notification.Text)
	}
	return hud
}

func missionView(m *ledger.Mission) MissionView {
	return MissionView{
		ID:          m.ID,
		Description: m.Description,
		Progress:    m.Progress,
		Required:    m.Required,
		Reward:      m.Reward,
		Completed:   m.Completed,
	}
}
