// Package network publishes transport fault events.
package network

import (
	"context"

	"crane-cafe/server/logging"
)

const (
	// EventMalformedMessage is emitted when a client payload fails to decode.
	EventMalformedMessage logging.EventType = "network.malformed_message"
	// EventBroadcastFailed is emitted when a state push to a subscriber fails.
	EventBroadcastFailed logging.EventType = "network.broadcast_failed"
)

// FaultPayload describes a transport fault.
type FaultPayload struct {
	Detail string `json:"detail"`
}

// MalformedMessage publishes a decode failure.
func MalformedMessage(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload FaultPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMalformedMessage,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryNetwork,
		Payload:  payload,
		Extra:    extra,
	})
}

// BroadcastFailed publishes a failed state push.
func BroadcastFailed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload FaultPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventBroadcastFailed,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryNetwork,
		Payload:  payload,
		Extra:    extra,
	})
}
