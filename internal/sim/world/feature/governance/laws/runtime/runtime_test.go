package runtime

import (
	"testing"

	"govsim.ai/internal/sim/world/kernel/model"
)

func TestNextTransition_ProposedAdvancesAfterOneTick(t *testing.T) {
	tr := NextTransition(TransitionInput{Status: model.LawProposed, NowTick: 6, ProposedTick: 5})
	if !tr.ShouldTransition || tr.NextStatus != model.LawVoting {
		t.Fatalf("tr=%+v want voting", tr)
	}
}

func TestNextTransition_ProposedStaysSameTick(t *testing.T) {
	tr := NextTransition(TransitionInput{Status: model.LawProposed, NowTick: 5, ProposedTick: 5})
	if tr.ShouldTransition {
		t.Fatalf("should not transition on the proposal tick itself")
	}
}

func TestNextTransition_VotingStaysWithNoVotes(t *testing.T) {
	tr := NextTransition(TransitionInput{Status: model.LawVoting, Tally: model.VoteTally{}})
	if tr.ShouldTransition {
		t.Fatalf("should not transition with a 0-0-0 tally")
	}
}

func TestNextTransition_VotingStaysWithOnlyAbstentions(t *testing.T) {
	tr := NextTransition(TransitionInput{Status: model.LawVoting, Tally: model.VoteTally{Abstain: 4}})
	if tr.ShouldTransition {
		t.Fatalf("abstain-only tally must not decide passage, got %+v", tr)
	}
}

func TestNextTransition_VotingActivatesOnMajorityFor(t *testing.T) {
	tr := NextTransition(TransitionInput{Status: model.LawVoting, Tally: model.VoteTally{For: 5, Against: 2}})
	if !tr.ShouldTransition || tr.NextStatus != model.LawActive {
		t.Fatalf("tr=%+v want active", tr)
	}
}

func TestNextTransition_VotingRejectsOnMajorityAgainst(t *testing.T) {
	tr := NextTransition(TransitionInput{Status: model.LawVoting, Tally: model.VoteTally{For: 2, Against: 5}})
	if !tr.ShouldTransition || tr.NextStatus != model.LawRejected {
		t.Fatalf("tr=%+v want rejected", tr)
	}
}

func TestTickLaws_AdvancesInLexicographicOrderAndFiresHooks(t *testing.T) {
	laws := map[string]*model.Law{
		"law_b": {ID: "law_b", Status: model.LawProposed, ProposedTick: 0},
		"law_a": {ID: "law_a", Status: model.LawVoting, Tally: model.VoteTally{For: 3}},
	}
	var order []string
	hooks := TickLawsHooks{
		OnActivated:  func(l *model.Law) { order = append(order, "activated:"+l.ID) },
		OnEnterVoting: func(l *model.Law) { order = append(order, "voting:"+l.ID) },
	}

	TickLaws(1, laws, hooks)

	if laws["law_a"].Status != model.LawActive {
		t.Fatalf("law_a status=%v want active", laws["law_a"].Status)
	}
	if laws["law_b"].Status != model.LawVoting {
		t.Fatalf("law_b status=%v want voting", laws["law_b"].Status)
	}
	if len(order) != 2 || order[0] != "activated:law_a" || order[1] != "voting:law_b" {
		t.Fatalf("hook order=%v want [activated:law_a voting:law_b]", order)
	}
	if laws["law_a"].ActivatedTick == nil || *laws["law_a"].ActivatedTick != 1 {
		t.Fatalf("law_a.ActivatedTick=%v want 1", laws["law_a"].ActivatedTick)
	}
}

func TestApplyActiveInterpretations_RollsBackAndFlagsOnRejection(t *testing.T) {
	state := model.New("srv", 1, 24)
	state.Laws["law_x"] = &model.Law{
		ID:     "law_x",
		Status: model.LawActive,
		Interpretation: &model.JudiciaryInterpretation{
			Implementation: model.LawImplementation{
				Modifiers: []model.Modifier{{Path: "not.a.real.path", Op: model.OpSet, Value: 1}},
			},
		},
	}

	ApplyActiveInterpretations(state)

	if !state.Laws["law_x"].Interpretation.RejectedByCore {
		t.Fatalf("expected RejectedByCore=true after kernel rejection")
	}
	if state.Laws["law_x"].Status != model.LawActive {
		t.Fatalf("status=%v want still active after rejection", state.Laws["law_x"].Status)
	}
}
