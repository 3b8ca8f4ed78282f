package actions

import (
	"testing"

	"govsim.ai/internal/sim/world/kernel/model"
)

func newCitizen(state *model.WorldState, id string) *model.Player {
	p := &model.Player{
		ID:      id,
		Role:    model.RoleCitizen,
		Alive:   true,
		Citizen: &model.CitizenRecord{},
	}
	state.Players[id] = p
	return p
}

func TestValidateDispatch(t *testing.T) {
	if err := ValidateDispatch(); err != nil {
		t.Fatalf("dispatch/role table mismatch: %v", err)
	}
}

func TestSubmit_RejectsWrongRole(t *testing.T) {
	state := model.New("srv", 1, 24)
	newCitizen(state, "p1")
	if err := Submit(state, "p1", TypeProduce, nil); err != ErrWrongRole {
		t.Fatalf("err=%v want ErrWrongRole", err)
	}
}

func TestSubmit_RejectsWrongPhase(t *testing.T) {
	state := model.New("srv", 1, 24)
	newCitizen(state, "p1")
	state.Meta.Phase = model.PhaseProcessing
	if err := Submit(state, "p1", TypeWork, nil); err != ErrWrongPhase {
		t.Fatalf("err=%v want ErrWrongPhase", err)
	}
}

func TestSubmit_RateLimitsAtFive(t *testing.T) {
	state := model.New("srv", 1, 24)
	newCitizen(state, "p1")
	for i := 0; i < 5; i++ {
		if err := Submit(state, "p1", TypeConsume, nil); err != nil {
			t.Fatalf("submit %d: unexpected error %v", i, err)
		}
	}
	if err := Submit(state, "p1", TypeConsume, nil); err != ErrRateLimited {
		t.Fatalf("err=%v want ErrRateLimited", err)
	}
}

func TestSubmit_UnknownPlayer(t *testing.T) {
	state := model.New("srv", 1, 24)
	if err := Submit(state, "ghost", TypeWork, nil); err != ErrNotFound {
		t.Fatalf("err=%v want ErrNotFound", err)
	}
}

func TestResolve_UnemployedWorkRaisesPressure(t *testing.T) {
	state := model.New("srv", 1, 24)
	p := newCitizen(state, "p1")
	_ = Submit(state, "p1", TypeWork, nil)

	Resolve(state, nil)

	if p.Citizen.EconomicPressure != 5 {
		t.Fatalf("economic_pressure=%v want 5", p.Citizen.EconomicPressure)
	}
	if len(p.ActionsPending) != 0 {
		t.Fatalf("actions_pending should be drained, got %d", len(p.ActionsPending))
	}
	if len(p.ActionsHistory) != 1 || p.ActionsHistory[0].Outcomes[0] != model.OutcomeApplied {
		t.Fatalf("actions_history not recorded correctly: %+v", p.ActionsHistory)
	}
}

func TestResolve_UnknownActionTypeRecordsUnknownOutcome(t *testing.T) {
	state := model.New("srv", 1, 24)
	p := newCitizen(state, "p1")
	p.ActionsPending = append(p.ActionsPending, model.PendingAction{ActionType: "not_a_real_action"})

	Resolve(state, nil)

	if len(p.ActionsHistory) != 1 || p.ActionsHistory[0].Outcomes[0] != model.OutcomeUnknown {
		t.Fatalf("expected unknown outcome recorded, got %+v", p.ActionsHistory)
	}
}

func TestHandleAllocateBudget_RejectsFractionsNotSummingToOne(t *testing.T) {
	state := model.New("srv", 1, 24)
	p := &model.Player{ID: "pol", Role: model.RolePolitician, Alive: true, Politician: &model.PoliticianRecord{}}
	state.Players["pol"] = p
	before := state.Government.BudgetAllocation

	params := map[string]interface{}{
		"welfare": 0.5, "infrastructure": 0.5, "enforcement": 0.5, "education": 0.0, "discretionary": 0.0,
	}
	out := handleAllocateBudget(state, p, params)
	if out != model.OutcomeNoop {
		t.Fatalf("outcome=%v want noop for fractions summing to 1.5", out)
	}
	if len(state.Government.BudgetAllocation) != len(before) {
		t.Fatalf("budget allocation should be unchanged on rejection")
	}
}

func TestHandleAllocateBudget_AcceptsValidFractions(t *testing.T) {
	state := model.New("srv", 1, 24)
	p := &model.Player{ID: "pol", Role: model.RolePolitician, Alive: true, Politician: &model.PoliticianRecord{}}
	state.Players["pol"] = p

	params := map[string]interface{}{
		"welfare": 0.2, "infrastructure": 0.2, "enforcement": 0.2, "education": 0.2, "discretionary": 0.2,
	}
	out := handleAllocateBudget(state, p, params)
	if out != model.OutcomeApplied {
		t.Fatalf("outcome=%v want applied", out)
	}
	if state.Government.BudgetAllocation[model.CategoryWelfare] != 0.2 {
		t.Fatalf("welfare allocation not written")
	}
}
