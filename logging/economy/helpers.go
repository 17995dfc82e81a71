// Package economy publishes prize, mission, and currency events.
package economy

import (
	"context"

	"crane-cafe/server/logging"
)

const (
	// EventPrizeDelivered is emitted when a prize crosses a chute or falls past the bridge bars.
	EventPrizeDelivered logging.EventType = "economy.prize_delivered"
	// EventMissionProgressed is emitted when a delivery advances a mission counter.
	EventMissionProgressed logging.EventType = "economy.mission_progressed"
	// EventMissionCompleted is emitted when a mission reaches its requirement.
	EventMissionCompleted logging.EventType = "economy.mission_completed"
	// EventMissionAccepted is emitted when the next mission template is taken up.
	EventMissionAccepted logging.EventType = "economy.mission_accepted"
	// EventCurrencySpent is emitted when a balance deduction succeeds.
	EventCurrencySpent logging.EventType = "economy.currency_spent"
	// EventSpendRejected is emitted when a deduction would overdraw the balance.
	EventSpendRejected logging.EventType = "economy.spend_rejected"
)

// PrizeDeliveredPayload describes what landed in the chute.
type PrizeDeliveredPayload struct {
	Machine string `json:"machine"`
	Class   string `json:"class"`
	Rarity  string `json:"rarity"`
}

// MissionProgressPayload describes a mission counter change.
type MissionProgressPayload struct {
	MissionID string `json:"missionId"`
	Progress  int    `json:"progress"`
	Required  int    `json:"required"`
}

// MissionCompletedPayload describes a completed mission and its reward.
type MissionCompletedPayload struct {
	MissionID string `json:"missionId"`
	Reward    int    `json:"reward"`
	Decor     string `json:"decor,omitempty"`
}

// MissionAcceptedPayload identifies the newly active mission.
type MissionAcceptedPayload struct {
	MissionID string `json:"missionId"`
}

// CurrencyPayload describes a balance movement.
type CurrencyPayload struct {
	Amount  int    `json:"amount"`
	Balance int    `json:"balance"`
	Reason  string `json:"reason,omitempty"`
}

// PrizeDelivered publishes a delivery event.
func PrizeDelivered(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PrizeDeliveredPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPrizeDelivered,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
		Extra:    extra,
	})
}

// MissionProgressed publishes a mission progress event.
func MissionProgressed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload MissionProgressPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMissionProgressed,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryEconomy,
		Payload:  payload,
		Extra:    extra,
	})
}

// MissionCompleted publishes a mission completion event.
func MissionCompleted(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload MissionCompletedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMissionCompleted,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
		Extra:    extra,
	})
}

// MissionAccepted publishes a mission acceptance event.
func MissionAccepted(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload MissionAcceptedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMissionAccepted,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
		Extra:    extra,
	})
}

// CurrencySpent publishes a successful deduction.
func CurrencySpent(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload CurrencyPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCurrencySpent,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
		Extra:    extra,
	})
}

// SpendRejected publishes a rejected deduction.
func SpendRejected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload CurrencyPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventSpendRejected,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryEconomy,
		Payload:  payload,
		Extra:    extra,
	})
}
