// Package tuning loads the server gameplay tuning file. Every field has a
// sane default; the YAML file only needs the values a designer wants to
// override, and invalid values are normalized rather than rejected.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MachineTuning is the designer-adjustable surface of one machine kind.
// Spec-fixed boundaries (grab range, chute geometry) live in the machine
// package and are not tunable.
type MachineTuning struct {
	SpawnCount    int     `yaml:"spawn_count" json:"spawnCount"`
	EntryCost     int     `yaml:"entry_cost" json:"entryCost"`
	PrizeRadius   float64 `yaml:"prize_radius" json:"prizeRadius"`
	PrizeMass     float64 `yaml:"prize_mass" json:"prizeMass"`
	ActuatorSpeed float64 `yaml:"actuator_speed" json:"actuatorSpeed"`
}

// Tuning is the whole tuning file.
type Tuning struct {
	TickRate            int     `yaml:"tick_rate" json:"tickRate"`
	OverworldSpeed      float64 `yaml:"overworld_speed" json:"overworldSpeed"`
	StartingBalance     int     `yaml:"starting_balance" json:"startingBalance"`
	NotificationSeconds float64 `yaml:"notification_seconds" json:"notificationSeconds"`

	PickupSoft  MachineTuning `yaml:"pickup_soft" json:"pickupSoft"`
	PickupRigid MachineTuning `yaml:"pickup_rigid" json:"pickupRigid"`
	Bridge      MachineTuning `yaml:"bridge" json:"bridge"`
}

// Default returns the tuning the game ships with.
func Default() Tuning {
	return Tuning{
		TickRate:            30,
		OverworldSpeed:      6.0,
		StartingBalance:     1000,
		NotificationSeconds: 3.0,
		PickupSoft: MachineTuning{
			SpawnCount:    8,
			EntryCost:     200,
			PrizeRadius:   0.45,
			PrizeMass:     0.6,
			ActuatorSpeed: 3.0,
		},
		PickupRigid: MachineTuning{
			SpawnCount:    8,
			EntryCost:     200,
			PrizeRadius:   0.35,
			PrizeMass:     1.2,
			ActuatorSpeed: 3.0,
		},
		Bridge: MachineTuning{
			SpawnCount:    6,
			EntryCost:     300,
			PrizeRadius:   0.4,
			PrizeMass:     1.0,
			ActuatorSpeed: 0,
		},
	}
}

// Load reads the tuning file at path, or returns the defaults when path is
// empty. Unknown values fall back to their defaults via normalization.
func Load(path string) (Tuning, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("decode tuning: %w", err)
	}
	return t.Normalized(), nil
}

// Normalized clamps nonsensical values back to the defaults.
func (t Tuning) Normalized() Tuning {
	defaults := Default()
	if t.TickRate <= 0 || t.TickRate > 120 {
		t.TickRate = defaults.TickRate
	}
	if t.OverworldSpeed <= 0 {
		t.OverworldSpeed = defaults.OverworldSpeed
	}
	if t.StartingBalance < 0 {
		t.StartingBalance = defaults.StartingBalance
	}
	if t.NotificationSeconds <= 0 {
		t.NotificationSeconds = defaults.NotificationSeconds
	}
	t.PickupSoft = t.PickupSoft.normalized(defaults.PickupSoft)
	t.PickupRigid = t.PickupRigid.normalized(defaults.PickupRigid)
	t.Bridge = t.Bridge.normalized(defaults.Bridge)
	return t
}

func (m MachineTuning) normalized(defaults MachineTuning) MachineTuning {
	if m.SpawnCount <= 0 {
		m.SpawnCount = defaults.SpawnCount
	}
	if m.EntryCost < 0 {
		m.EntryCost = defaults.EntryCost
	}
	if m.PrizeRadius <= 0 {
		m.PrizeRadius = defaults.PrizeRadius
	}
	if m.PrizeMass <= 0 {
		m.PrizeMass = defaults.PrizeMass
	}
	if m.ActuatorSpeed < 0 {
		m.ActuatorSpeed = defaults.ActuatorSpeed
	}
	return m
}

// NotificationTicks converts the notification duration into ticks at the
// configured tick rate.
func (t Tuning) NotificationTicks() uint64 {
	ticks := t.NotificationSeconds * float64(t.TickRate)
	if ticks < 1 {
		ticks = 1
	}
	return uint64(ticks)
}
