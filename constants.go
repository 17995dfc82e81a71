package server

import "time"

const (
	ProtocolVersion = 1

	writeWait         = 10 * time.Second
	heartbeatInterval = 2 * time.Second
	disconnectAfter   = 3 * heartbeatInterval

	// maxFrameDelta caps the wall-clock delta handed to sessions after a
	// stall, so physics never integrates a huge step.
	maxFrameDelta = 0.25
)

// HeartbeatInterval is the cadence clients are expected to ping at.
func HeartbeatInterval() time.Duration {
	return heartbeatInterval
}
