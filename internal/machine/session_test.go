package machine

import (
	"testing"

	"crane-cafe/server/internal/input"
	"crane-cafe/server/internal/ledger"
	"crane-cafe/server/internal/physics"
	"crane-cafe/server/internal/prize"
	"crane-cafe/server/internal/tuning"
)

func newPickupSession(t *testing.T) (*Session, *ledger.Ledger) {
	t.Helper()
	params := ParamsFor(KindPickupSoft, tuning.Default().PickupSoft)
	session := NewSession(params, "session-test")
	led := ledger.New(ledger.Config{StartingBalance: 1000})
	return session, led
}

func TestSessionSpawnsConfiguredField(t *testing.T) {
	session, _ := newPickupSession(t)
	defer session.Teardown()

	if got := session.RemainingPrizes(); got != tuning.Default().PickupSoft.SpawnCount {
		t.Fatalf("expected %d prizes, got %d", tuning.Default().PickupSoft.SpawnCount, got)
	}
	for _, entity := range session.Registry().All() {
		pos := entity.Body.Position
		if params := session.Params(); params.delivered(pos) {
			t.Fatalf("prize %s spawned already delivered at %+v", entity.ID, pos)
		}
	}
}

func TestForcedChutePoseDeliversExactlyOnce(t *testing.T) {
	session, led := newPickupSession(t)
	defer session.Teardown()

	target := session.Registry().All()[0]
	wantClass, wantRarity := target.Class, target.Rarity
	target.Body.Position = physics.Vec3{X: 0, Y: 0.3, Z: 0}
	target.Body.Velocity = physics.Vec3{}

	outcomes := session.Advance(1, 1.0/30.0, input.NewState(), led)

	if len(outcomes) != 1 {
		t.Fatalf("expected exactly 1 delivery, got %d", len(outcomes))
	}
	got := outcomes[0].Delivery
	if got.Class != wantClass || got.Rarity != wantRarity {
		t.Fatalf("delivery %+v does not match forced prize %s/%s", got, wantClass, wantRarity)
	}
	if target.State != prize.StateDelivered {
		t.Fatalf("forced prize state %s", target.State)
	}
	if led.InventoryCount(wantRarity) != 1 {
		t.Fatalf("inventory not credited")
	}

	// The next pass must not re-deliver the retired prize.
	if again := session.Advance(2, 1.0/30.0, input.NewState(), led); len(again) != 0 {
		t.Fatalf("retired prize delivered again: %d outcomes", len(again))
	}
}

func TestBridgeDeliveryBelowBarThreshold(t *testing.T) {
	params := ParamsFor(KindBridge, tuning.Default().Bridge)
	session := NewSession(params, "bridge-test")
	defer session.Teardown()
	led := ledger.New(ledger.Config{})

	target := session.Registry().All()[0]
	target.Body.Position = physics.Vec3{X: 3, Y: 1.3, Z: 0}

	outcomes := session.Advance(1, 1.0/60.0, input.NewState(), led)
	if len(outcomes) != 1 {
		t.Fatalf("expected bridge delivery below y=1.4, got %d", len(outcomes))
	}
}

func TestBridgePrizeAboveThresholdStays(t *testing.T) {
	params := ParamsFor(KindBridge, tuning.Default().Bridge)
	session := NewSession(params, "bridge-stay-test")
	defer session.Teardown()
	led := ledger.New(ledger.Config{})

	// Resting on the bars, well above the 1.4 boundary.
	before := session.RemainingPrizes()
	session.Advance(1, 1.0/60.0, input.NewState(), led)
	if got := session.RemainingPrizes(); got != before {
		t.Fatalf("prizes delivered while resting on bars: %d -> %d", before, got)
	}
}

func TestMultipleSimultaneousDeliveries(t *testing.T) {
	session, led := newPickupSession(t)
	defer session.Teardown()

	live := session.Registry().All()
	live[0].Body.Position = physics.Vec3{X: 0.2, Y: 0.3, Z: 0}
	live[1].Body.Position = physics.Vec3{X: -0.2, Y: 0.2, Z: 0.1}
	live[0].Body.Velocity = physics.Vec3{}
	live[1].Body.Velocity = physics.Vec3{}

	outcomes := session.Advance(1, 1.0/30.0, input.NewState(), led)
	if len(outcomes) != 2 {
		t.Fatalf("expected both prizes delivered in one frame, got %d", len(outcomes))
	}
}

func TestTeardownReleasesEverything(t *testing.T) {
	session, _ := newPickupSession(t)

	session.Teardown()

	if got := session.RemainingPrizes(); got != 0 {
		t.Fatalf("%d prizes survived teardown", got)
	}
	if got := len(session.Snapshot()); got != 0 {
		t.Fatalf("%d visuals survived teardown", got)
	}
}

func TestSessionSnapshotTracksPrizesAndActuator(t *testing.T) {
	session, _ := newPickupSession(t)
	defer session.Teardown()

	snapshot := session.Snapshot()
	want := tuning.Default().PickupSoft.SpawnCount + 1 // prizes + actuator
	if len(snapshot) != want {
		t.Fatalf("expected %d visuals, got %d", want, len(snapshot))
	}
}

func TestGrabbedPrizeIsNotDeliveredWhileCarried(t *testing.T) {
	session, led := newPickupSession(t)
	defer session.Teardown()

	target := session.Registry().All()[0]
	target.State = prize.StateGrabbed
	target.Body.SetType(physics.Kinematic)
	target.Body.Position = physics.Vec3{Y: carryHeight}

	if outcomes := session.Advance(1, 1.0/30.0, input.NewState(), led); len(outcomes) != 0 {
		t.Fatalf("carried prize delivered: %d outcomes", len(outcomes))
	}
}
