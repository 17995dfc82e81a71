// Package net is the HTTP and websocket edge: join, state subscription,
// diagnostics, journal export, and static client serving.
package net

import (
	"encoding/json"
	nethttp "net/http"
	"time"

	"github.com/gorilla/websocket"

	server "crane-cafe/server"
	"crane-cafe/server/internal/telemetry"
)

// HTTPHandlerConfig configures the edge handler.
type HTTPHandlerConfig struct {
	ClientDir string
	Logger    telemetry.Logger
}

// clientMessage is everything a client can send over the websocket.
type clientMessage struct {
	Ver    int      `json:"ver,omitempty"`
	Type   string   `json:"type"`
	Held   []string `json:"held,omitempty"`
	Action string   `json:"action,omitempty"`
	SentAt int64    `json:"sentAt,omitempty"`
}

type heartbeatMessage struct {
	Ver        int    `json:"ver"`
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
	RTTMillis  int64  `json:"rtt"`
}

// NewHTTPHandler builds the full route table around a hub.
func NewHTTPHandler(hub *server.Hub, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.LoggerFunc(func(string, ...any) {})
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		payload := struct {
			Status     string                   `json:"status"`
			ServerTime int64                    `json:"serverTime"`
			TickRate   int                      `json:"tickRate"`
			Heartbeat  int64                    `json:"heartbeatMillis"`
			Hub        server.DiagnosticsReport `json:"hub"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			TickRate:   hub.TickRate(),
			Heartbeat:  server.HeartbeatInterval().Milliseconds(),
			Hub:        hub.DiagnosticsSnapshot(),
		}
		writeJSON(w, payload)
	})

	mux.HandleFunc("/join", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, hub.Join())
	})

	mux.HandleFunc("/journal", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		jour := hub.Journal()
		if jour == nil {
			httpError(w, "journal disabled", nethttp.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Header().Set("Content-Encoding", "gzip")
		if err := jour.ExportGzip(w); err != nil {
			logger.Printf("journal export failed: %v", err)
		}
	})

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	mux.HandleFunc("/ws", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		playerID := r.URL.Query().Get("id")
		if playerID == "" {
			httpError(w, "missing id", nethttp.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Printf("upgrade failed for %s: %v", playerID, err)
			return
		}

		sub, ok := hub.Subscribe(playerID, conn)
		if !ok {
			message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unknown player")
			conn.WriteMessage(websocket.CloseMessage, message)
			conn.Close()
			return
		}

		// Push the current frame immediately so the client never waits a
		// full tick to draw.
		if data, ok := hub.MarshalStateFor(playerID); ok {
			if err := sub.WriteMessage(websocket.TextMessage, data); err != nil {
				hub.Disconnect(playerID, "initial write failed")
				return
			}
		}

		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				hub.Disconnect(playerID, "read failed")
				return
			}

			var msg clientMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				logger.Printf("discarding malformed message from %s: %v", playerID, err)
				hub.PublishNetworkFault(playerID, "malformed json")
				continue
			}

			switch msg.Type {
			case "input":
				if !hub.ApplyInput(playerID, msg.Held) {
					hub.PublishNetworkFault(playerID, "rejected input")
				}
			case "action":
				if msg.Action == "" {
					continue
				}
				if !hub.ApplyAction(playerID, msg.Action) {
					hub.PublishNetworkFault(playerID, "unknown action "+msg.Action)
				}
			case "heartbeat":
				now := time.Now()
				rtt, ok := hub.UpdateHeartbeat(playerID, now, msg.SentAt)
				if !ok {
					continue
				}
				ack := heartbeatMessage{
					Ver:        server.ProtocolVersion,
					Type:       "heartbeat",
					ServerTime: now.UnixMilli(),
					ClientTime: msg.SentAt,
					RTTMillis:  rtt.Milliseconds(),
				}
				data, err := json.Marshal(ack)
				if err != nil {
					logger.Printf("failed to marshal heartbeat ack for %s: %v", playerID, err)
					continue
				}
				if err := sub.WriteMessage(websocket.TextMessage, data); err != nil {
					hub.Disconnect(playerID, "write failed")
					return
				}
			default:
				logger.Printf("unknown message type %q from %s", msg.Type, playerID)
				hub.PublishNetworkFault(playerID, "unknown message type")
			}
		}
	})

	if cfg.ClientDir != "" {
		mux.Handle("/", nethttp.FileServer(nethttp.Dir(cfg.ClientDir)))
	}

	return mux
}

func writeJSON(w nethttp.ResponseWriter, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		httpError(w, "failed to encode", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func httpError(w nethttp.ResponseWriter, msg string, code int) {
	nethttp.Error(w, msg, code)
}
