// Package game owns the per-player session: the mode state machine spanning
// the overworld, the café, and the crane machines, plus the ledger and input
// state that survive mode switches.
package game

import (
	"context"
	"fmt"

	"crane-cafe/server/internal/input"
	"crane-cafe/server/internal/journal"
	"crane-cafe/server/internal/ledger"
	"crane-cafe/server/internal/machine"
	"crane-cafe/server/internal/physics"
	"crane-cafe/server/internal/tuning"
	"crane-cafe/server/logging"
	"crane-cafe/server/logging/economy"
	"crane-cafe/server/logging/lifecycle"
)

// Mode is where the player currently is.
type Mode int

const (
	ModeOverworld Mode = iota
	ModeCafe
	ModeMachine
)

func (m Mode) String() string {
	switch m {
	case ModeCafe:
		return "cafe"
	case ModeMachine:
		return "machine"
	default:
		return "overworld"
	}
}

// overworldHalfExtent bounds the walkable overworld square.
const overworldHalfExtent = 12.0

// Config seeds a new player session.
type Config struct {
	PlayerID  string
	Seed      string
	Tuning    tuning.Tuning
	Templates []ledger.Template
	Publisher logging.Publisher
	Journal   *journal.Journal
}

// Session is the explicit per-player context: all gameplay state lives here,
// one instance per connected player, never shared.
type Session struct {
	id   string
	seed string
	tun  tuning.Tuning

	mode        Mode
	machineKind machine.Kind
	avatar      physics.Vec3
	in          *input.State
	led         *ledger.Ledger
	mach        *machine.Session

	// entries counts machine entries so each session gets a fresh rng stream.
	entries int

	pub  logging.Publisher
	jour *journal.Journal
}

// NewSession builds a session in the overworld with a fresh ledger.
func NewSession(cfg Config) *Session {
	pub := cfg.Publisher
	if pub == nil {
		pub = logging.NopPublisher()
	}
	led := ledger.New(ledger.Config{
		StartingBalance:   cfg.Tuning.StartingBalance,
		Templates:         cfg.Templates,
		NotificationTicks: cfg.Tuning.NotificationTicks(),
	})
	return &Session{
		id:   cfg.PlayerID,
		seed: cfg.Seed,
		tun:  cfg.Tuning,
		in:   input.NewState(),
		led:  led,
		pub:  pub,
		jour: cfg.Journal,
	}
}

// ID reports the player id.
func (s *Session) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// Mode reports the current mode.
func (s *Session) Mode() Mode {
	if s == nil {
		return ModeOverworld
	}
	return s.mode
}

// MachineKind reports the active machine; meaningful only in ModeMachine.
func (s *Session) MachineKind() machine.Kind {
	if s == nil {
		return machine.KindPickupSoft
	}
	return s.machineKind
}

// Input exposes the player's input state for the transport to mutate.
func (s *Session) Input() *input.State {
	if s == nil {
		return nil
	}
	return s.in
}

// Ledger exposes the collection state.
func (s *Session) Ledger() *ledger.Ledger {
	if s == nil {
		return nil
	}
	return s.led
}

// Machine exposes the live machine session, nil outside ModeMachine.
func (s *Session) Machine() *machine.Session {
	if s == nil {
		return nil
	}
	return s.mach
}

// Avatar reports the overworld pose.
func (s *Session) Avatar() physics.Vec3 {
	if s == nil {
		return physics.Vec3{}
	}
	return s.avatar
}

// Advance runs one tick for this player: mode logic first, then any machine
// frame. Mode transitions fire on edge-triggered input and take effect within
// the same tick boundary.
func (s *Session) Advance(tick uint64, dt float64) {
	if s == nil {
		return
	}
	switch s.mode {
	case ModeOverworld:
		s.advanceOverworld(tick, dt)
	case ModeCafe:
		s.advanceCafe(tick)
	case ModeMachine:
		s.advanceMachine(tick, dt)
	}
}

// advanceOverworld moves the avatar and watches for café or machine entry.
func (s *Session) advanceOverworld(tick uint64, dt float64) {
	dx, dz := s.in.MoveAxes()
	s.avatar.X = clamp(s.avatar.X+dx*s.tun.OverworldSpeed*dt, -overworldHalfExtent, overworldHalfExtent)
	s.avatar.Z = clamp(s.avatar.Z+dz*s.tun.OverworldSpeed*dt, -overworldHalfExtent, overworldHalfExtent)

	if s.in.ConsumePress(input.ActionConfirm) {
		s.mode = ModeCafe
		s.in.DropPresses()
		return
	}
	if kind, ok := s.selectedMachine(); ok {
		s.tryEnterMachine(tick, kind)
	}
}

// advanceCafe handles the mission board; missions arrive in the HUD snapshot,
// so the server side only routes the exits.
func (s *Session) advanceCafe(tick uint64) {
	if s.in.ConsumePress(input.ActionCancel) {
		s.mode = ModeOverworld
		s.in.DropPresses()
		return
	}
	if kind, ok := s.selectedMachine(); ok {
		s.tryEnterMachine(tick, kind)
	}
}

// advanceMachine runs one machine frame and forwards delivery outcomes to the
// logging and journal pipelines.
func (s *Session) advanceMachine(tick uint64, dt float64) {
	if s.in.ConsumePress(input.ActionCancel) {
		s.exitMachine(tick)
		return
	}
	outcomes := s.mach.Advance(tick, dt, s.in, s.led)
	for _, outcome := range outcomes {
		s.recordDelivery(tick, outcome)
	}
}

// selectedMachine maps a pending select press to a machine kind.
func (s *Session) selectedMachine() (machine.Kind, bool) {
	switch {
	case s.in.ConsumePress(input.ActionSelect1):
		return machine.KindPickupSoft, true
	case s.in.ConsumePress(input.ActionSelect2):
		return machine.KindPickupRigid, true
	case s.in.ConsumePress(input.ActionSelect3):
		return machine.KindBridge, true
	default:
		return 0, false
	}
}

// tryEnterMachine charges the entry cost and starts the session. A rejected
// spend changes nothing except posting a notification.
func (s *Session) tryEnterMachine(tick uint64, kind machine.Kind) {
	mt := s.machineTuning(kind)
	if !s.led.Spend(mt.EntryCost) {
		s.led.Notify(tick, "Not enough credits")
		economy.SpendRejected(context.Background(), s.pub, tick, s.actorRef(), economy.CurrencyPayload{
			Amount:  mt.EntryCost,
			Balance: s.led.Balance(),
			Reason:  "machine entry",
		}, nil)
		return
	}
	economy.CurrencySpent(context.Background(), s.pub, tick, s.actorRef(), economy.CurrencyPayload{
		Amount:  mt.EntryCost,
		Balance: s.led.Balance(),
		Reason:  "machine entry",
	}, nil)

	s.entries++
	params := machine.ParamsFor(kind, mt)
	s.mach = machine.NewSession(params, fmt.Sprintf("%s/%d", s.seed, s.entries))
	s.machineKind = kind
	s.mode = ModeMachine
	s.in.DropPresses()

	lifecycle.MachineEntered(context.Background(), s.pub, tick, s.actorRef(), lifecycle.MachinePayload{
		Machine: kind.String(),
		Cost:    mt.EntryCost,
	}, nil)
	s.journal(tick, string(lifecycle.EventMachineEntered), map[string]any{"machine": kind.String()})
}

// exitMachine tears the session down instantly; nothing is preserved.
func (s *Session) exitMachine(tick uint64) {
	kind := s.machineKind
	s.mach.Teardown()
	s.mach = nil
	s.mode = ModeOverworld
	s.in.DropPresses()

	lifecycle.MachineExited(context.Background(), s.pub, tick, s.actorRef(), lifecycle.MachinePayload{
		Machine: kind.String(),
	}, nil)
	s.journal(tick, string(lifecycle.EventMachineExited), map[string]any{"machine": kind.String()})
}

func (s *Session) recordDelivery(tick uint64, outcome machine.Outcome) {
	ctx := context.Background()
	economy.PrizeDelivered(ctx, s.pub, tick, s.actorRef(), economy.PrizeDeliveredPayload{
		Machine: s.machineKind.String(),
		Class:   string(outcome.Delivery.Class),
		Rarity:  string(outcome.Delivery.Rarity),
	}, nil)
	s.journal(tick, string(economy.EventPrizeDelivered), map[string]any{
		"machine": s.machineKind.String(),
		"class":   string(outcome.Delivery.Class),
		"rarity":  string(outcome.Delivery.Rarity),
	})

	for _, mission := range outcome.Result.Progressed {
		economy.MissionProgressed(ctx, s.pub, tick, s.actorRef(), economy.MissionProgressPayload{
			MissionID: mission.ID,
			Progress:  mission.Progress,
			Required:  mission.Required,
		}, nil)
	}
	for _, mission := range outcome.Result.Completed {
		economy.MissionCompleted(ctx, s.pub, tick, s.actorRef(), economy.MissionCompletedPayload{
			MissionID: mission.ID,
			Reward:    mission.Reward,
			Decor:     mission.Decor,
		}, nil)
		s.journal(tick, string(economy.EventMissionCompleted), map[string]any{"mission": mission.ID})
	}
	for _, mission := range outcome.Result.Accepted {
		economy.MissionAccepted(ctx, s.pub, tick, s.actorRef(), economy.MissionAcceptedPayload{
			MissionID: mission.ID,
		}, nil)
	}
}

// Close releases everything on disconnect.
func (s *Session) Close() {
	if s == nil {
		return
	}
	if s.mach != nil {
		s.mach.Teardown()
		s.mach = nil
	}
}

func (s *Session) machineTuning(kind machine.Kind) tuning.MachineTuning {
	switch kind {
	case machine.KindPickupRigid:
		return s.tun.PickupRigid
	case machine.KindBridge:
		return s.tun.Bridge
	default:
		return s.tun.PickupSoft
	}
}

func (s *Session) actorRef() logging.EntityRef {
	return logging.EntityRef{ID: s.id, Kind: logging.EntityKindPlayer}
}

func (s *Session) journal(tick uint64, eventType string, payload map[string]any) {
	if s.jour == nil {
		return
	}
	s.jour.Record(journal.Entry{
		Tick:    tick,
		Type:    eventType,
		Player:  s.id,
		Payload: payload,
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
