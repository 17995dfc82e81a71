package tuning

import (
	"os"
	"testing"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	got, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if got != Default() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestLoadOverridesSelectedFields(t *testing.T) {
	path := t.TempDir() + "/tuning.yaml"
	raw := "tick_rate: 60\npickup_soft:\n  spawn_count: 12\n  entry_cost: 100\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write tuning: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load tuning: %v", err)
	}
	if got.TickRate != 60 {
		t.Fatalf("tick rate override lost: %d", got.TickRate)
	}
	if got.PickupSoft.SpawnCount != 12 || got.PickupSoft.EntryCost != 100 {
		t.Fatalf("pickup_soft override lost: %+v", got.PickupSoft)
	}
	if got.Bridge.SpawnCount != Default().Bridge.SpawnCount {
		t.Fatalf("untouched machine drifted: %+v", got.Bridge)
	}
}

func TestNormalizedClampsNonsense(t *testing.T) {
	bad := Tuning{TickRate: -5, OverworldSpeed: 0, StartingBalance: -1}
	got := bad.Normalized()
	defaults := Default()
	if got.TickRate != defaults.TickRate {
		t.Fatalf("tick rate not clamped: %d", got.TickRate)
	}
	if got.OverworldSpeed != defaults.OverworldSpeed {
		t.Fatalf("speed not clamped: %f", got.OverworldSpeed)
	}
	if got.StartingBalance != defaults.StartingBalance {
		t.Fatalf("balance not clamped: %d", got.StartingBalance)
	}
	if got.PickupSoft.PrizeRadius != defaults.PickupSoft.PrizeRadius {
		t.Fatalf("machine radius not clamped: %f", got.PickupSoft.PrizeRadius)
	}
}

func TestNotificationTicks(t *testing.T) {
	tn := Default()
	tn.TickRate = 30
	tn.NotificationSeconds = 2
	if got := tn.NotificationTicks(); got != 60 {
		t.Fatalf("expected 60 ticks, got %d", got)
	}
}
