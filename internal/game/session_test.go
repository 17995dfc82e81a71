package game

import (
	"strings"
	"testing"

	"crane-cafe/server/internal/input"
	"crane-cafe/server/internal/journal"
	"crane-cafe/server/internal/ledger"
	"crane-cafe/server/internal/machine"
	"crane-cafe/server/internal/physics"
	"crane-cafe/server/internal/tuning"
)

const testDT = 1.0 / 30.0

func newTestSession(t *testing.T, balance int) (*Session, *journal.Journal) {
	t.Helper()
	tun := tuning.Default()
	tun.StartingBalance = balance
	jour := journal.New(32, 0)
	sess := NewSession(Config{
		PlayerID: "player-1",
		Seed:     "game-test",
		Tuning:   tun,
		Templates: []ledger.Template{
			{ID: "neko-1", Description: "Catch a Neko", TargetClass: "neko", Required: 1, Reward: 150},
		},
		Journal: jour,
	})
	return sess, jour
}

func TestOverworldMovementClampsToBounds(t *testing.T) {
	sess, _ := newTestSession(t, 1000)

	sess.Input().SetHeld(input.ActionMoveRight, true)
	for tick := uint64(1); tick <= 1000; tick++ {
		sess.Advance(tick, testDT)
	}

	if got := sess.Avatar().X; got != overworldHalfExtent {
		t.Fatalf("avatar x=%.3f, expected clamp at %.1f", got, overworldHalfExtent)
	}
	if sess.Mode() != ModeOverworld {
		t.Fatalf("movement changed mode to %s", sess.Mode())
	}
}

func TestConfirmEntersCafeAndCancelReturns(t *testing.T) {
	sess, _ := newTestSession(t, 1000)

	sess.Input().Press(input.ActionConfirm)
	sess.Advance(1, testDT)
	if sess.Mode() != ModeCafe {
		t.Fatalf("confirm did not enter the café: %s", sess.Mode())
	}

	sess.Input().Press(input.ActionCancel)
	sess.Advance(2, testDT)
	if sess.Mode() != ModeOverworld {
		t.Fatalf("cancel did not leave the café: %s", sess.Mode())
	}
}

func TestMachineEntryChargesEntryCost(t *testing.T) {
	sess, jour := newTestSession(t, 1000)

	sess.Input().Press(input.ActionSelect1)
	sess.Advance(1, testDT)

	if sess.Mode() != ModeMachine {
		t.Fatalf("select did not enter the machine: %s", sess.Mode())
	}
	if sess.MachineKind() != machine.KindPickupSoft {
		t.Fatalf("wrong machine kind %s", sess.MachineKind())
	}
	wantBalance := 1000 - tuning.Default().PickupSoft.EntryCost
	if got := sess.Ledger().Balance(); got != wantBalance {
		t.Fatalf("balance %d after entry, expected %d", got, wantBalance)
	}
	if sess.Machine() == nil {
		t.Fatalf("no machine session started")
	}
	if jour.Len() == 0 {
		t.Fatalf("machine entry not journaled")
	}
}

func TestMachineEntryRejectedWithoutFunds(t *testing.T) {
	sess, _ := newTestSession(t, 100)

	sess.Input().Press(input.ActionSelect1)
	sess.Advance(1, testDT)

	if sess.Mode() != ModeOverworld {
		t.Fatalf("rejected entry still switched mode: %s", sess.Mode())
	}
	if got := sess.Ledger().Balance(); got != 100 {
		t.Fatalf("rejected entry mutated balance: %d", got)
	}
	notifications := sess.Ledger().Notifications(1)
	if len(notifications) != 1 || !strings.Contains(notifications[0].Text, "credits") {
		t.Fatalf("expected an insufficient-credits notification, got %+v", notifications)
	}
}

func TestCancelTearsDownMachineSession(t *testing.T) {
	sess, _ := newTestSession(t, 1000)

	sess.Input().Press(input.ActionSelect3)
	sess.Advance(1, testDT)
	if sess.Mode() != ModeMachine || sess.MachineKind() != machine.KindBridge {
		t.Fatalf("bridge entry failed: mode=%s kind=%s", sess.Mode(), sess.MachineKind())
	}
	mach := sess.Machine()

	sess.Input().Press(input.ActionCancel)
	sess.Advance(2, testDT)

	if sess.Mode() != ModeOverworld {
		t.Fatalf("cancel did not exit the machine: %s", sess.Mode())
	}
	if sess.Machine() != nil {
		t.Fatalf("machine session survived exit")
	}
	if got := mach.RemainingPrizes(); got != 0 {
		t.Fatalf("%d prizes survived teardown", got)
	}
}

func TestDeliveryInsideMachineReachesLedgerAndJournal(t *testing.T) {
	sess, jour := newTestSession(t, 1000)

	sess.Input().Press(input.ActionSelect1)
	sess.Advance(1, testDT)

	target := sess.Machine().Registry().All()[0]
	target.Body.Position = physics.Vec3{X: 0, Y: 0.3, Z: 0}
	target.Body.Velocity = physics.Vec3{}
	sess.Advance(2, testDT)

	if got := sess.Ledger().InventoryCount(target.Rarity); got != 1 {
		t.Fatalf("delivery did not credit inventory: %d", got)
	}
	delivered := false
	for _, entry := range jour.Entries() {
		if entry.Type == "economy.prize_delivered" {
			delivered = true
			if entry.Player != "player-1" {
				t.Fatalf("journal entry attributed to %q", entry.Player)
			}
		}
	}
	if !delivered {
		t.Fatalf("delivery missing from journal: %+v", jour.Entries())
	}
}

func TestModeSwitchDropsPendingPresses(t *testing.T) {
	sess, _ := newTestSession(t, 1000)

	// Confirm wins the tick; the stale select must not fire next tick.
	sess.Input().Press(input.ActionConfirm)
	sess.Input().Press(input.ActionSelect1)
	sess.Advance(1, testDT)
	if sess.Mode() != ModeCafe {
		t.Fatalf("expected café, got %s", sess.Mode())
	}

	sess.Advance(2, testDT)
	if sess.Mode() != ModeCafe {
		t.Fatalf("stale select leaked into the café: %s", sess.Mode())
	}
}

func TestSnapshotCarriesMachineScene(t *testing.T) {
	sess, _ := newTestSession(t, 1000)

	overworld := sess.Snapshot(1)
	if overworld.Mode != "overworld" || overworld.Scene != nil || overworld.Actuator != nil {
		t.Fatalf("unexpected overworld snapshot %+v", overworld)
	}
	if overworld.HUD.Balance != 1000 {
		t.Fatalf("HUD balance %d", overworld.HUD.Balance)
	}
	if len(overworld.HUD.Missions) != 1 {
		t.Fatalf("HUD missing the auto-accepted mission: %+v", overworld.HUD.Missions)
	}

	sess.Input().Press(input.ActionSelect2)
	sess.Advance(1, testDT)

	snapshot := sess.Snapshot(2)
	if snapshot.Mode != "machine" || snapshot.Machine != "pickup_rigid" {
		t.Fatalf("unexpected machine snapshot %+v", snapshot)
	}
	want := tuning.Default().PickupRigid.SpawnCount + 1
	if len(snapshot.Scene) != want {
		t.Fatalf("scene has %d visuals, expected %d", len(snapshot.Scene), want)
	}
	if snapshot.Actuator == nil || snapshot.Actuator.Kind != "claw" {
		t.Fatalf("actuator view missing or wrong: %+v", snapshot.Actuator)
	}
}
