package events

import (
	"testing"

	"govsim.ai/internal/sim/world/kernel/model"
)

func TestProcess_AppliesHighestPriorityFirst(t *testing.T) {
	w := model.New("srv", 1, 24)
	w.Events["media_evt"] = &model.GameEvent{
		ID: "media_evt", Source: model.SourceMedia, Status: model.EventPending,
		Modifiers: []model.Modifier{{Path: "economy.gdp", Op: model.OpSet, Value: 1}},
	}
	w.Events["core_evt"] = &model.GameEvent{
		ID: "core_evt", Source: model.SourceCore, Status: model.EventPending,
		Modifiers: []model.Modifier{{Path: "economy.gdp", Op: model.OpSet, Value: 2}},
	}

	Process(w)

	// core_evt (priority 100) applies first, media_evt (priority 10) applies
	// last and its set wins as the final value.
	if w.Economy.GDP != 1 {
		t.Fatalf("gdp=%v want 1 (media event applied last, after core)", w.Economy.GDP)
	}
	if w.Events["core_evt"].Status != model.EventApplied {
		t.Fatalf("core_evt status=%v want applied", w.Events["core_evt"].Status)
	}
	if w.Events["media_evt"].Status != model.EventApplied {
		t.Fatalf("media_evt status=%v want applied", w.Events["media_evt"].Status)
	}
}

func TestProcess_RejectsBatchOnUnknownPath(t *testing.T) {
	w := model.New("srv", 1, 24)
	startGDP := w.Economy.GDP
	w.Events["bad_evt"] = &model.GameEvent{
		ID: "bad_evt", Source: model.SourceCrisis, Status: model.EventPending,
		Modifiers: []model.Modifier{
			{Path: "economy.gdp", Op: model.OpAdd, Value: 500},
			{Path: "nonexistent.path", Op: model.OpSet, Value: 1},
		},
	}

	Process(w)

	if w.Events["bad_evt"].Status != model.EventRejected {
		t.Fatalf("status=%v want rejected", w.Events["bad_evt"].Status)
	}
	if w.Economy.GDP != startGDP {
		t.Fatalf("gdp=%v want unchanged at %v after rejected batch", w.Economy.GDP, startGDP)
	}
}

func TestProcess_ExpiresPastDuration(t *testing.T) {
	w := model.New("srv", 1, 24)
	w.Meta.Tick = 10
	expires := uint64(5)
	w.Events["old_evt"] = &model.GameEvent{
		ID: "old_evt", Source: model.SourceMedia, Status: model.EventApplied, ExpiresTick: &expires,
	}

	Process(w)

	if w.Events["old_evt"].Status != model.EventExpired {
		t.Fatalf("status=%v want expired", w.Events["old_evt"].Status)
	}
}

func TestProcess_SetsExpiryFromDuration(t *testing.T) {
	w := model.New("srv", 1, 24)
	w.Meta.Tick = 3
	dur := uint64(4)
	w.Events["dur_evt"] = &model.GameEvent{
		ID: "dur_evt", Source: model.SourceCore, Status: model.EventPending, DurationTicks: &dur,
	}

	Process(w)

	ev := w.Events["dur_evt"]
	if ev.ExpiresTick == nil || *ev.ExpiresTick != 7 {
		t.Fatalf("expires_tick=%v want 7", ev.ExpiresTick)
	}
}
