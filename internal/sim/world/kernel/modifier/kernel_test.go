package modifier

import (
	"testing"

	"govsim.ai/internal/sim/world/kernel/model"
)

func newState() *model.WorldState {
	return model.New("srv_test", 42, 24)
}

func TestGet_UnknownPath(t *testing.T) {
	w := newState()
	if _, err := Get(w, "economy.does_not_exist"); err == nil {
		t.Fatalf("expected error for unknown path")
	}
}

func TestApplyBatch_AddRespectsHardBound(t *testing.T) {
	w := newState()
	w.Economy.Unemployment = 98
	err := ApplyBatch(w, []model.Modifier{{Path: "economy.unemployment", Op: model.OpAdd, Value: 50}}, SourceEvent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Economy.Unemployment != 100 {
		t.Fatalf("unemployment=%v want clamped to 100", w.Economy.Unemployment)
	}
}

func TestApplyBatch_RollsBackOnRejection(t *testing.T) {
	w := newState()
	startGDP := w.Economy.GDP
	startInflation := w.Economy.Inflation

	mods := []model.Modifier{
		{Path: "economy.gdp", Op: model.OpAdd, Value: 500},
		{Path: "economy.inflation", Op: model.OpAdd, Value: 10},
		{Path: "economy.unknown_field", Op: model.OpSet, Value: 1},
	}
	err := ApplyBatch(w, mods, SourceLaw)
	if err == nil {
		t.Fatalf("expected error from unknown path in batch")
	}
	if w.Economy.GDP != startGDP {
		t.Fatalf("gdp=%v want rolled back to %v", w.Economy.GDP, startGDP)
	}
	if w.Economy.Inflation != startInflation {
		t.Fatalf("inflation=%v want rolled back to %v", w.Economy.Inflation, startInflation)
	}
}

func TestApplyBatch_RejectsNonFinite(t *testing.T) {
	w := newState()
	// economy.budget.spending has no hard bound, so an overflowing multiply
	// reaches the finiteness check as +Inf. A bounded path such as
	// economy.gdp would be clamped to its max first and stay finite.
	startSpending := w.Economy.Budget.Spending
	err := ApplyBatch(w, []model.Modifier{{Path: "economy.budget.spending", Op: model.OpMultiply, Value: 1e308}}, SourceEvent)
	if _, ok := err.(*ErrNotFinite); !ok {
		t.Fatalf("err=%v want not-finite rejection for overflow multiply", err)
	}
	if w.Economy.Budget.Spending != startSpending {
		t.Fatalf("spending=%v want unchanged at %v after rejection", w.Economy.Budget.Spending, startSpending)
	}
}

func TestApplyBatch_ClampOp(t *testing.T) {
	w := newState()
	w.Society.Stability = 5
	err := ApplyBatch(w, []model.Modifier{{Path: "society.stability", Op: model.OpClamp, Min: 10, Max: 90}}, SourceEvent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Society.Stability != 10 {
		t.Fatalf("stability=%v want clamp floor 10", w.Society.Stability)
	}
}

func TestSortByPath_Deterministic(t *testing.T) {
	mods := []model.Modifier{
		{Path: "society.stability", Op: model.OpAdd, Value: 1},
		{Path: "economy.gdp", Op: model.OpAdd, Value: 1},
		{Path: "economy.inflation", Op: model.OpAdd, Value: 1},
	}
	SortByPath(mods)
	want := []string{"economy.gdp", "economy.inflation", "society.stability"}
	for i, m := range mods {
		if m.Path != want[i] {
			t.Fatalf("mods[%d].Path=%q want %q", i, m.Path, want[i])
		}
	}
}
