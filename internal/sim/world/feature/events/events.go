// Package events implements priority-ordered application of pending
// events with all-or-nothing modifier batches and expiration.
package events

import (
	"sort"

	"govsim.ai/internal/sim/world/kernel/model"
	"govsim.ai/internal/sim/world/kernel/modifier"
)

// Process runs one pass: expire anything past its expiry, then apply every
// still-pending event in descending source-priority order (ties broken by
// id, per the ordering guarantee).
func Process(w *model.WorldState) {
	expire(w)

	ids := make([]string, 0, len(w.Events))
	for id, ev := range w.Events {
		if ev.Status == model.EventPending {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := w.Events[ids[i]], w.Events[ids[j]]
		pa, pb := model.SourcePriority[a.Source], model.SourcePriority[b.Source]
		if pa != pb {
			return pa > pb
		}
		return a.ID < b.ID
	})

	for _, id := range ids {
		applyOne(w, w.Events[id])
	}
}

func expire(w *model.WorldState) {
	for _, ev := range w.Events {
		if ev.Status == model.EventApplied && ev.ExpiresTick != nil && *ev.ExpiresTick <= w.Meta.Tick {
			ev.Status = model.EventExpired
		}
	}
}

func applyOne(w *model.WorldState, ev *model.GameEvent) {
	if len(ev.Modifiers) == 0 {
		ev.Status = model.EventApplied
		setExpiry(w, ev)
		return
	}
	if err := modifier.ApplyBatch(w, ev.Modifiers, modifier.SourceEvent); err != nil {
		ev.Status = model.EventRejected
		return
	}
	ev.Status = model.EventApplied
	setExpiry(w, ev)
}

func setExpiry(w *model.WorldState, ev *model.GameEvent) {
	if ev.DurationTicks == nil {
		return
	}
	end := w.Meta.Tick + *ev.DurationTicks
	ev.ExpiresTick = &end
}
