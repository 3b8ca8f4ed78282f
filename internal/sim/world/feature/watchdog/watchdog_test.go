package watchdog

import (
	"testing"

	"govsim.ai/internal/sim/world/kernel/model"
)

func TestScan_FiresOnThresholdCrossing(t *testing.T) {
	w := model.New("srv", 1, 24)
	w.Economy.GDP = 50 // below the economic_crisis threshold of 100

	wd := New()
	fired := wd.Scan(w)

	if len(fired) != 1 {
		t.Fatalf("fired=%d want 1", len(fired))
	}
	if fired[0].Type != "economic_crisis" {
		t.Fatalf("type=%q want economic_crisis", fired[0].Type)
	}
	if _, ok := w.Events[fired[0].ID]; !ok {
		t.Fatalf("fired event not inserted into state.Events")
	}
}

func TestScan_RespectsCooldown(t *testing.T) {
	w := model.New("srv", 1, 24)
	w.Economy.GDP = 50
	wd := New()

	first := wd.Scan(w)
	if len(first) != 1 {
		t.Fatalf("first scan fired=%d want 1", len(first))
	}

	w.Meta.Tick = 5 // still within the 10-tick cooldown for economic_crisis
	second := wd.Scan(w)
	if len(second) != 0 {
		t.Fatalf("second scan fired=%d want 0 (cooldown active)", len(second))
	}

	w.Meta.Tick = 11 // cooldown elapsed
	third := wd.Scan(w)
	if len(third) != 1 {
		t.Fatalf("third scan fired=%d want 1 (cooldown elapsed)", len(third))
	}
}

func TestScan_MultipleRulesCanFireInOneTick(t *testing.T) {
	w := model.New("srv", 1, 24)
	w.Economy.GDP = 50
	w.Economy.Inflation = 60
	wd := New()

	fired := wd.Scan(w)
	if len(fired) != 2 {
		t.Fatalf("fired=%d want 2 (gdp and inflation both crossed)", len(fired))
	}
}

func TestScan_NoFireWhenWithinBounds(t *testing.T) {
	w := model.New("srv", 1, 24)
	wd := New()
	fired := wd.Scan(w)
	if len(fired) != 0 {
		t.Fatalf("fired=%d want 0 for fresh game state", len(fired))
	}
}
