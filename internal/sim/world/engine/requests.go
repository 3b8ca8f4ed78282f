package engine

import (
	"context"
	"fmt"

	"govsim.ai/internal/sim/world/feature/actions"
	"govsim.ai/internal/sim/world/feature/observer"
	"govsim.ai/internal/sim/world/kernel/model"
)

// JoinPlayer enrolls a new player under role, seeding the role-specific
// record the way the teacher's joinAgent seeds a fresh Agent.
func (g *Game) JoinPlayer(ctx context.Context, playerID string, role model.Role) (*model.Player, error) {
	v, err := g.Do(ctx, func(w *model.WorldState) (any, error) {
		if _, exists := w.Players[playerID]; exists {
			return nil, fmt.Errorf("engine: player %s already joined", playerID)
		}
		p := &model.Player{
			ID:         playerID,
			Role:       role,
			JoinedTick: w.Meta.Tick,
			Alive:      true,
			Visible:    model.VisibleStats{Wealth: 100},
		}
		switch role {
		case model.RoleCitizen:
			p.Citizen = &model.CitizenRecord{}
		case model.RoleBusinessOwner:
			p.Business = &model.BusinessRecord{ProductionCapacity: 50, WageLevel: 1, Employees: 1}
		case model.RolePolitician:
			p.Politician = &model.PoliticianRecord{}
		}
		w.Players[playerID] = p
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Player), nil
}

// SubmitAction enqueues one pending action for playerID.
func (g *Game) SubmitAction(ctx context.Context, playerID, actionType string, params map[string]interface{}) error {
	_, err := g.Do(ctx, func(w *model.WorldState) (any, error) {
		return nil, actions.Submit(w, playerID, actionType, params)
	})
	return err
}

// View returns playerID's role-filtered, seeded-noise projection of the
// current state.
func (g *Game) View(ctx context.Context, playerID string) (*observer.View, error) {
	v, err := g.Do(ctx, func(w *model.WorldState) (any, error) {
		view := observer.Project(w, playerID)
		if view == nil {
			return nil, fmt.Errorf("engine: unknown player %s", playerID)
		}
		return view, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*observer.View), nil
}

// StatusSnapshot is the public /server/:id/status payload: tick clock and
// the handful of scalars every role is allowed to see unfiltered.
type StatusSnapshot struct {
	Tick             uint64      `json:"tick"`
	Phase            model.Phase `json:"phase"`
	TickDeadlineUnix int64       `json:"tick_deadline_unix"`
	PlayerCount      int         `json:"player_count"`
	ActiveLawCount   int         `json:"active_law_count"`
}

func (g *Game) Status(ctx context.Context) (*StatusSnapshot, error) {
	v, err := g.Do(ctx, func(w *model.WorldState) (any, error) {
		return &StatusSnapshot{
			Tick:             w.Meta.Tick,
			Phase:            w.Meta.Phase,
			TickDeadlineUnix: w.Meta.TickDeadlineUnix,
			PlayerCount:      len(w.Players),
			ActiveLawCount:   w.Government.ActiveLawCount,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*StatusSnapshot), nil
}

// History returns playerID's reputation record and the era ledger, the
// supplemented debug surface beyond the distilled external interface.
type HistoryView struct {
	Eras       []model.Era              `json:"eras"`
	Reputation *model.ReputationRecord  `json:"reputation,omitempty"`
}

func (g *Game) History(ctx context.Context, playerID string) (*HistoryView, error) {
	v, err := g.Do(ctx, func(w *model.WorldState) (any, error) {
		return &HistoryView{
			Eras:       w.History.Eras,
			Reputation: w.History.PlayerReputations[playerID],
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*HistoryView), nil
}
