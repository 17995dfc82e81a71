// Package server owns the hub: the set of connected players, their game
// sessions, and the fixed tick loop that advances and broadcasts them.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"crane-cafe/server/internal/game"
	"crane-cafe/server/internal/input"
	"crane-cafe/server/internal/journal"
	"crane-cafe/server/internal/ledger"
	"crane-cafe/server/internal/telemetry"
	"crane-cafe/server/internal/tuning"
	"crane-cafe/server/logging"
	"crane-cafe/server/logging/lifecycle"
	"crane-cafe/server/logging/network"
)

// HubConfig wires the hub's collaborators.
type HubConfig struct {
	Tuning    tuning.Tuning
	Templates []ledger.Template
	Seed      string
	Publisher logging.Publisher
	Journal   *journal.Journal
	Logger    telemetry.Logger
	Metrics   telemetry.Metrics
}

// Hub owns all live player sessions and websocket subscribers. Sessions are
// fully independent; the hub only serializes their ticks.
type Hub struct {
	mu          sync.Mutex
	players     map[string]*playerState
	subscribers map[string]*subscriber
	nextID      atomic.Uint64
	tick        atomic.Uint64

	cfg       HubConfig
	publisher logging.Publisher
	journal   *journal.Journal
	logger    telemetry.Logger
	metrics   telemetry.Metrics
}

type playerState struct {
	session       *game.Session
	lastHeartbeat time.Time
	lastRTT       time.Duration
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// WriteMessage serializes writes to the underlying connection.
func (s *subscriber) WriteMessage(messageType int, data []byte) error {
	if s == nil || s.conn == nil {
		return fmt.Errorf("subscriber closed")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(messageType, data)
}

// NewHub constructs an empty hub.
func NewHub(cfg HubConfig) *Hub {
	if cfg.Publisher == nil {
		cfg.Publisher = logging.NopPublisher()
	}
	if cfg.Logger == nil {
		cfg.Logger = telemetry.LoggerFunc(func(string, ...any) {})
	}
	if cfg.Metrics == nil {
		cfg.Metrics = telemetry.NopMetrics()
	}
	if cfg.Seed == "" {
		cfg.Seed = "crane-cafe"
	}
	return &Hub{
		players:     make(map[string]*playerState),
		subscribers: make(map[string]*subscriber),
		cfg:         cfg,
		publisher:   cfg.Publisher,
		journal:     cfg.Journal,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}
}

// Tick reports the last completed tick.
func (h *Hub) Tick() uint64 {
	return h.tick.Load()
}

// TickRate reports the configured simulation rate.
func (h *Hub) TickRate() int {
	return h.cfg.Tuning.TickRate
}

// Join mints a player id, builds a fresh session, and returns the first
// snapshot so the client can draw before the websocket is up.
func (h *Hub) Join() joinResponse {
	id := h.nextID.Add(1)
	playerID := fmt.Sprintf("player-%d", id)
	tick := h.tick.Load()

	session := game.NewSession(game.Config{
		PlayerID:  playerID,
		Seed:      fmt.Sprintf("%s/%s", h.cfg.Seed, playerID),
		Tuning:    h.cfg.Tuning,
		Templates: h.cfg.Templates,
		Publisher: h.publisher,
		Journal:   h.journal,
	})

	h.mu.Lock()
	h.players[playerID] = &playerState{session: session, lastHeartbeat: time.Now()}
	h.mu.Unlock()
	h.metrics.Add("players_joined_total", 1)

	lifecycle.PlayerJoined(context.Background(), h.publisher, tick,
		logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		lifecycle.PlayerJoinedPayload{}, nil)

	return joinResponse{
		Ver:      ProtocolVersion,
		ID:       playerID,
		TickRate: h.cfg.Tuning.TickRate,
		Snapshot: session.Snapshot(tick),
	}
}

// Subscribe attaches a websocket to a joined player. Unknown players are
// rejected so stale clients cannot resurrect sessions.
func (h *Hub) Subscribe(playerID string, conn *websocket.Conn) (*subscriber, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.players[playerID]; !ok {
		return nil, false
	}
	sub := &subscriber{conn: conn}
	h.subscribers[playerID] = sub
	return sub, true
}

// Disconnect tears down a player and closes their subscriber.
func (h *Hub) Disconnect(playerID string, reason string) {
	h.mu.Lock()
	state, ok := h.players[playerID]
	if ok {
		delete(h.players, playerID)
	}
	sub := h.subscribers[playerID]
	delete(h.subscribers, playerID)
	h.mu.Unlock()
	if !ok {
		return
	}

	state.session.Close()
	if sub != nil && sub.conn != nil {
		sub.conn.Close()
	}
	h.metrics.Add("players_disconnected_total", 1)

	lifecycle.PlayerDisconnected(context.Background(), h.publisher, h.tick.Load(),
		logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		lifecycle.PlayerDisconnectedPayload{Reason: reason}, nil)
}

// ApplyInput replaces a player's held action set. Unknown action names
// reject the whole message so a typo cannot half-apply.
func (h *Hub) ApplyInput(playerID string, held []string) bool {
	for _, name := range held {
		if !input.Known(input.Action(name)) {
			return false
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	state, ok := h.players[playerID]
	if !ok {
		return false
	}
	in := state.session.Input()
	for _, action := range input.Actions {
		in.SetHeld(action, false)
	}
	for _, name := range held {
		in.SetHeld(input.Action(name), true)
	}
	return true
}

// ApplyAction queues one edge-triggered action press.
func (h *Hub) ApplyAction(playerID string, action string) bool {
	a := input.Action(action)
	if !input.Known(a) {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	state, ok := h.players[playerID]
	if !ok {
		return false
	}
	state.session.Input().Press(a)
	return true
}

// UpdateHeartbeat stamps the player's liveness and reports the round trip.
func (h *Hub) UpdateHeartbeat(playerID string, now time.Time, sentAt int64) (time.Duration, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	state, ok := h.players[playerID]
	if !ok {
		return 0, false
	}
	state.lastHeartbeat = now
	if sentAt > 0 {
		state.lastRTT = now.Sub(time.UnixMilli(sentAt))
	}
	return state.lastRTT, true
}

// PublishNetworkFault reports a transport-level problem for a player.
func (h *Hub) PublishNetworkFault(playerID, detail string) {
	network.MalformedMessage(context.Background(), h.publisher, h.tick.Load(),
		logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		network.FaultPayload{Detail: detail}, nil)
	h.metrics.Add("malformed_messages_total", 1)
}

// RunSimulation drives the fixed tick loop until stop closes. Each tick
// advances every session with a clamped wall-clock delta, then broadcasts
// per-player snapshots.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	interval := time.Second / time.Duration(h.cfg.Tuning.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if dt > maxFrameDelta {
				dt = maxFrameDelta
			}
			h.step(now, dt)
		}
	}
}

// step advances one tick: sessions in stable id order, then broadcast, then
// heartbeat-based eviction. Sessions advance under the hub lock because the
// transport mutates their input state under the same lock; only the network
// writes happen outside it.
func (h *Hub) step(now time.Time, dt float64) {
	tick := h.tick.Add(1)

	h.mu.Lock()
	ids := make([]string, 0, len(h.players))
	for id := range h.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var stale []string
	for _, id := range ids {
		state := h.players[id]
		state.session.Advance(tick, dt)
		if now.Sub(state.lastHeartbeat) > disconnectAfter {
			stale = append(stale, id)
		}
	}
	h.mu.Unlock()

	h.metrics.Store("tick", tick)

	h.broadcast(tick, now)

	for _, id := range stale {
		h.logger.Printf("disconnecting %s: heartbeat timeout", id)
		h.Disconnect(id, "heartbeat timeout")
	}
}

// broadcast pushes each player their own state message. A failed write
// disconnects only that player.
func (h *Hub) broadcast(tick uint64, now time.Time) {
	h.mu.Lock()
	targets := make(map[string]*subscriber, len(h.subscribers))
	snapshots := make(map[string]game.Snapshot, len(h.subscribers))
	for id, sub := range h.subscribers {
		state, ok := h.players[id]
		if !ok {
			continue
		}
		targets[id] = sub
		snapshots[id] = state.session.Snapshot(tick)
	}
	h.mu.Unlock()

	var failed []string
	for id, sub := range targets {
		msg := stateMessage{
			Ver:        ProtocolVersion,
			Type:       "state",
			Tick:       tick,
			ServerTime: now.UnixMilli(),
			Snapshot:   snapshots[id],
		}
		data, err := json.Marshal(msg)
		if err != nil {
			h.logger.Printf("failed to marshal state for %s: %v", id, err)
			continue
		}
		if err := sub.WriteMessage(websocket.TextMessage, data); err != nil {
			network.BroadcastFailed(context.Background(), h.publisher, tick,
				logging.EntityRef{ID: id, Kind: logging.EntityKindPlayer},
				network.FaultPayload{Detail: err.Error()}, nil)
			failed = append(failed, id)
			continue
		}
		h.metrics.Add("broadcast_bytes_total", uint64(len(data)))
	}
	for _, id := range failed {
		h.Disconnect(id, "write failed")
	}
}

// SnapshotFor exports one player's current frame, for the transport's
// initial push and for tests.
func (h *Hub) SnapshotFor(playerID string) (game.Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	state, ok := h.players[playerID]
	if !ok {
		return game.Snapshot{}, false
	}
	return state.session.Snapshot(h.tick.Load()), true
}

// MarshalStateFor encodes one player's current frame as a state message.
func (h *Hub) MarshalStateFor(playerID string) ([]byte, bool) {
	snapshot, ok := h.SnapshotFor(playerID)
	if !ok {
		return nil, false
	}
	msg := stateMessage{
		Ver:        ProtocolVersion,
		Type:       "state",
		Tick:       h.tick.Load(),
		ServerTime: time.Now().UnixMilli(),
		Snapshot:   snapshot,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, false
	}
	return data, true
}

// DiagnosticsSnapshot summarizes hub state for the diagnostics endpoint.
func (h *Hub) DiagnosticsSnapshot() DiagnosticsReport {
	h.mu.Lock()
	defer h.mu.Unlock()
	report := DiagnosticsReport{
		Tick:        h.tick.Load(),
		Players:     len(h.players),
		Subscribers: len(h.subscribers),
		Modes:       make(map[string]int),
	}
	for _, state := range h.players {
		report.Modes[state.session.Mode().String()]++
	}
	return report
}

// Journal exposes the shared gameplay journal, nil when disabled.
func (h *Hub) Journal() *journal.Journal {
	return h.journal
}

// session looks a player's session up for tests.
func (h *Hub) session(playerID string) *game.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	state, ok := h.players[playerID]
	if !ok {
		return nil
	}
	return state.session
}
