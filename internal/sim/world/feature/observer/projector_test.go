package observer

import (
	"testing"

	"govsim.ai/internal/sim/world/kernel/model"
)

func newCitizenState() *model.WorldState {
	w := model.New("srv", 5, 24)
	w.Players["p1"] = &model.Player{
		ID: "p1", Role: model.RoleCitizen, Alive: true,
		Citizen: &model.CitizenRecord{Employed: true},
		Visible: model.VisibleStats{Wealth: 123.456},
	}
	return w
}

func TestProject_UnknownPlayerReturnsNil(t *testing.T) {
	w := newCitizenState()
	if v := Project(w, "ghost"); v != nil {
		t.Fatalf("expected nil view for unknown player, got %+v", v)
	}
}

func TestProject_NeverLeaksHiddenStats(t *testing.T) {
	w := newCitizenState()
	w.Players["p1"].Hidden.Corruption = 99
	v := Project(w, "p1")
	if v == nil {
		t.Fatalf("expected a view")
	}
	// the View type carries no hidden-stat field at all; this asserts the
	// citizen role block only ever surfaces employment/mood.
	blk, ok := v.RoleBlock.(CitizenBlock)
	if !ok {
		t.Fatalf("role_block=%T want CitizenBlock", v.RoleBlock)
	}
	if !blk.Employed {
		t.Fatalf("expected employed=true")
	}
}

func TestProject_SameSeedAndTickIsDeterministic(t *testing.T) {
	run := func() *View {
		w := newCitizenState()
		return Project(w, "p1")
	}
	a, b := run(), run()
	if a.PriceTrend != b.PriceTrend || a.Availability != b.Availability || a.ApprovalVague != b.ApprovalVague {
		t.Fatalf("projections differ across runs with identical seed/tick: %+v vs %+v", a, b)
	}
}

func TestProject_RoundsWealthToTwoDecimals(t *testing.T) {
	w := newCitizenState()
	v := Project(w, "p1")
	if v.Wealth != 123.46 {
		t.Fatalf("wealth=%v want 123.46", v.Wealth)
	}
}
