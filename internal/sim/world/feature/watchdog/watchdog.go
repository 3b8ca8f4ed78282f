// Package watchdog scans state for crossings of configured bounds and
// emits synthetic events under a per-type cooldown, independent of every
// other component.
package watchdog

import (
	"govsim.ai/internal/sim/world/kernel/model"
	"govsim.ai/internal/sim/world/kernel/modifier"
	"govsim.ai/internal/sim/world/logic/noise"
)

// Condition is one static threshold-trigger rule.
type Condition string

const (
	Above Condition = "above"
	Below Condition = "below"
)

type Rule struct {
	Variable      string
	Condition     Condition
	Value         float64
	EventType     string
	Severity      int
	CooldownTicks uint64
}

// Table is the static Threshold Triggers Table.
var Table = []Rule{
	{Variable: "economy.gdp", Condition: Below, Value: 100, EventType: "economic_crisis", Severity: 5, CooldownTicks: 10},
	{Variable: "economy.inflation", Condition: Above, Value: 50, EventType: "hyperinflation", Severity: 4, CooldownTicks: 5},
	{Variable: "economy.unemployment", Condition: Above, Value: 25, EventType: "protest", Severity: 3, CooldownTicks: 3},
	{Variable: "society.stability", Condition: Below, Value: 20, EventType: "revolution", Severity: 5, CooldownTicks: 20},
	{Variable: "society.stability", Condition: Above, Value: 90, EventType: "scandal", Severity: 2, CooldownTicks: 5},
	{Variable: "society.radicalization", Condition: Above, Value: 80, EventType: "revolution", Severity: 4, CooldownTicks: 15},
	{Variable: "society.radicalization", Condition: Above, Value: 60, EventType: "movement_formed", Severity: 2, CooldownTicks: 5},
	{Variable: "economy.budget.reserves", Condition: Below, Value: 0, EventType: "budget_crisis", Severity: 3, CooldownTicks: 5},
}

// Watchdog carries the per-game cooldown bookkeeping. It is not
// persisted with the WorldState and is not rebuilt on restart: a restored
// game starts with empty cooldowns, since cooldowns are an anti-spam
// heuristic, not a correctness invariant.
type Watchdog struct {
	lastTriggered map[int]uint64 // index into Table -> last-fired tick
}

func New() *Watchdog {
	return &Watchdog{lastTriggered: map[int]uint64{}}
}

func meets(rule Rule, value float64) bool {
	switch rule.Condition {
	case Above:
		return value > rule.Value
	case Below:
		return value < rule.Value
	default:
		return false
	}
}

// Scan evaluates every rule independently; multiple may fire in the same
// tick. Fired events are inserted directly into state.Events with
// status=applied, since the table's events are narrative-only (no
// modifiers) and pre-validated by construction.
func (wd *Watchdog) Scan(w *model.WorldState) []*model.GameEvent {
	var fired []*model.GameEvent
	for i, rule := range Table {
		v, err := modifier.Get(w, rule.Variable)
		if err != nil {
			continue
		}
		if !meets(rule, v) {
			continue
		}
		last, seen := wd.lastTriggered[i]
		if seen && w.Meta.Tick-last <= rule.CooldownTicks {
			continue
		}
		wd.lastTriggered[i] = w.Meta.Tick
		id := "evt_wd_" + noise.IDSuffix(w.Meta.Seed, w.Meta.Tick, uint64(i))
		ev := &model.GameEvent{
			ID:          id,
			Source:      model.SourceCore,
			Tick:        w.Meta.Tick,
			Type:        rule.EventType,
			Severity:    rule.Severity,
			Status:      model.EventApplied,
			Description: rule.EventType + " threshold crossed",
			Modifiers:   nil,
		}
		w.Events[id] = ev
		fired = append(fired, ev)
	}
	return fired
}
