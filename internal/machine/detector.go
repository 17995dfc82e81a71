package machine

import (
	"crane-cafe/server/internal/ledger"
	"crane-cafe/server/internal/prize"
)

// detectDeliveries scans every live entity against the kind's success
// predicate, retiring winners and collecting their delivery events. All
// qualifying entities in one frame are processed before returning, each
// independently; retirement is idempotent so a double match is harmless.
func detectDeliveries(params Params, registry *prize.Registry) []ledger.Delivery {
	var deliveries []ledger.Delivery
	for _, entity := range registry.All() {
		if entity.Body == nil {
			continue
		}
		if !params.delivered(entity.Body.Position) {
			continue
		}
		class, rarity := entity.Class, entity.Rarity
		registry.Retire(entity)
		deliveries = append(deliveries, ledger.Delivery{Class: class, Rarity: rarity})
	}
	return deliveries
}
