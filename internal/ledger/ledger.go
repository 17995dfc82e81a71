// Package ledger keeps the collection economy for one game session:
// currency, per-rarity inventory, accepted missions, decor unlocks, and the
// transient notifications the HUD shows. All mutation happens on the tick
// goroutine, so the ledger carries no locks.
package ledger

import "crane-cafe/server/internal/prize"

// Delivery is the event a machine session forwards when a prize leaves the
// field of play successfully.
type Delivery struct {
	Class  prize.Class  `json:"class"`
	Rarity prize.Rarity `json:"rarity"`
}

// DeliveryResult reports what a single delivery changed, for logging and
// journaling by the caller.
type DeliveryResult struct {
	Progressed []*Mission
	Completed  []*Mission
	Accepted   []*Mission
}

// Notification is a transient HUD message; it disappears once the tick
// clock passes ExpiresTick.
type Notification struct {
	Text        string `json:"text"`
	ExpiresTick uint64 `json:"expiresTick"`
}

// Ledger owns the collection state. It survives machine sessions but not
// the process.
type Ledger struct {
	balance       int
	missions      []*Mission
	inventory     map[prize.Rarity]int
	decor         []string
	templates     []Template
	nextTemplate  int
	notifications []Notification
	notifyTicks   uint64
}

// Config seeds a new ledger.
type Config struct {
	StartingBalance int
	Templates       []Template
	// NotificationTicks is how many ticks a notification stays visible.
	NotificationTicks uint64
}

// New constructs a ledger and auto-accepts the first mission template, if
// the catalog has any.
func New(cfg Config) *Ledger {
	notifyTicks := cfg.NotificationTicks
	if notifyTicks == 0 {
		notifyTicks = 90
	}
	l := &Ledger{
		balance:     cfg.StartingBalance,
		inventory:   make(map[prize.Rarity]int),
		templates:   append([]Template(nil), cfg.Templates...),
		notifyTicks: notifyTicks,
	}
	l.acceptNext(0)
	return l
}

// Balance reports the current currency balance.
func (l *Ledger) Balance() int {
	if l == nil {
		return 0
	}
	return l.balance
}

// Credit adds currency.
func (l *Ledger) Credit(amount int) {
	if l == nil || amount <= 0 {
		return
	}
	l.balance += amount
}

// Spend withdraws the amount if the balance covers it. Insufficient funds
// reject without any mutation.
func (l *Ledger) Spend(amount int) bool {
	if l == nil || amount < 0 {
		return false
	}
	if l.balance < amount {
		return false
	}
	l.balance -= amount
	return true
}

// Missions returns the accepted missions in acceptance order.
func (l *Ledger) Missions() []*Mission {
	if l == nil {
		return nil
	}
	return l.missions
}

// InventoryCount reports the collected count for one rarity.
func (l *Ledger) InventoryCount(rarity prize.Rarity) int {
	if l == nil {
		return 0
	}
	return l.inventory[rarity]
}

// Inventory copies the rarity counts for snapshotting.
func (l *Ledger) Inventory() map[prize.Rarity]int {
	if l == nil {
		return nil
	}
	out := make(map[prize.Rarity]int, len(l.inventory))
	for rarity, count := range l.inventory {
		out[rarity] = count
	}
	return out
}

// Decor returns the unlocked café decor in unlock order.
func (l *Ledger) Decor() []string {
	if l == nil {
		return nil
	}
	return l.decor
}

// OnDelivery applies one delivery: the inventory count always increments,
// then every accepted, incomplete mission whose predicate matches gains one
// progress. Missions reaching their requirement complete in the same pass:
// reward credited, decor unlocked, and the next template auto-accepted.
// Completion is evaluated once per delivery, never re-entrantly.
func (l *Ledger) OnDelivery(tick uint64, d Delivery) DeliveryResult {
	var result DeliveryResult
	if l == nil {
		return result
	}
	l.inventory[d.Rarity]++

	for _, mission := range l.missions {
		if !mission.accepts(d.Class, d.Rarity) {
			continue
		}
		if mission.Progress < mission.Required {
			mission.Progress++
			result.Progressed = append(result.Progressed, mission)
		}
		if mission.Progress >= mission.Required && !mission.Completed {
			mission.Completed = true
			l.balance += mission.Reward
			if mission.Decor != "" {
				l.decor = append(l.decor, mission.Decor)
			}
			l.notify(tick, "Mission complete: "+mission.Description)
			result.Completed = append(result.Completed, mission)
			if accepted := l.acceptNext(tick); accepted != nil {
				result.Accepted = append(result.Accepted, accepted)
			}
		}
	}
	return result
}

// acceptNext consumes the next template, silently doing nothing once the
// catalog is exhausted.
func (l *Ledger) acceptNext(tick uint64) *Mission {
	if l.nextTemplate >= len(l.templates) {
		return nil
	}
	mission := newMission(l.templates[l.nextTemplate])
	l.nextTemplate++
	l.missions = append(l.missions, mission)
	if tick > 0 {
		l.notify(tick, "New mission: "+mission.Description)
	}
	return mission
}

// Notify posts a transient HUD notification.
func (l *Ledger) Notify(tick uint64, text string) {
	if l == nil {
		return
	}
	l.notify(tick, text)
}

func (l *Ledger) notify(tick uint64, text string) {
	l.notifications = append(l.notifications, Notification{
		Text:        text,
		ExpiresTick: tick + l.notifyTicks,
	})
}

// Notifications prunes expired entries and returns the live ones.
func (l *Ledger) Notifications(tick uint64) []Notification {
	if l == nil {
		return nil
	}
	live := l.notifications[:0]
	for _, n := range l.notifications {
		if n.ExpiresTick > tick {
			live = append(live, n)
		}
	}
	l.notifications = live
	return append([]Notification(nil), live...)
}
