package server

import "crane-cafe/server/internal/game"

// joinResponse answers the HTTP join and carries the first frame.
type joinResponse struct {
	Ver      int           `json:"ver"`
	ID       string        `json:"id"`
	TickRate int           `json:"tickRate"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// stateMessage is the per-tick push to one subscriber.
type stateMessage struct {
	Ver        int           `json:"ver"`
	Type       string        `json:"type"`
	Tick       uint64        `json:"t"`
	ServerTime int64         `json:"serverTime"`
	Snapshot   game.Snapshot `json:"snapshot"`
}

// DiagnosticsReport is the payload of the diagnostics endpoint.
type DiagnosticsReport struct {
	Tick        uint64         `json:"tick"`
	Players     int            `json:"players"`
	Subscribers int            `json:"subscribers"`
	Modes       map[string]int `json:"modes"`
}
