// Package actions implements the per-action-type handlers of the Action
// Resolver. Handlers never read wall-clock or call advisors; they read and
// write state only through model fields and, for hard-constrained paths,
// through the modifier kernel. The dispatch-table-plus-validator idiom
// mirrors the teacher's instant/task dispatch maps.
package actions

import (
	"fmt"
	"log"
	"sort"

	"govsim.ai/internal/sim/world/feature/governance/laws"
	"govsim.ai/internal/sim/world/kernel/model"
	"govsim.ai/internal/sim/world/kernel/modifier"
	"govsim.ai/internal/sim/world/policy/rules"
)

const (
	TypeWork             = "work"
	TypeConsume          = "consume"
	TypeVoteLaw          = "vote_law"
	TypeJoinMovement     = "join_movement"
	TypeLeaveMovement    = "leave_movement"
	TypeProduce          = "produce"
	TypeSetWages         = "set_wages"
	TypeLobby            = "lobby"
	TypeEvadeTaxes       = "evade_taxes"
	TypeComplyTaxes      = "comply_taxes"
	TypeProposeLaw       = "propose_law"
	TypeVoteLawPolitician = "vote_law_politician"
	TypeAllocateBudget   = "allocate_budget"
	TypePublishStatement = "publish_statement"
)

// RoleActions is the role -> allowed action types table from the external
// interface surface.
var RoleActions = map[model.Role][]string{
	model.RoleCitizen:       {TypeWork, TypeConsume, TypeVoteLaw, TypeJoinMovement, TypeLeaveMovement},
	model.RoleBusinessOwner: {TypeProduce, TypeSetWages, TypeLobby, TypeEvadeTaxes, TypeComplyTaxes},
	model.RolePolitician:    {TypeProposeLaw, TypeVoteLawPolitician, TypeAllocateBudget, TypePublishStatement},
}

// Allowed reports whether role may submit actionType.
func Allowed(role model.Role, actionType string) bool {
	for _, t := range RoleActions[role] {
		if t == actionType {
			return true
		}
	}
	return false
}

const maxPendingActions = 5

// SubmitError is a distinct user-facing rejection at the handler boundary;
// it never mutates state.
type SubmitError string

const (
	ErrNotFound    SubmitError = "E_NOT_FOUND"
	ErrWrongPhase  SubmitError = "E_WRONG_PHASE"
	ErrWrongRole   SubmitError = "E_WRONG_ROLE"
	ErrRateLimited SubmitError = "E_RATE_LIMITED"
)

func (e SubmitError) Error() string { return string(e) }

// Submit validates and enqueues one action per the eligibility rule in
// 4.2: player exists and alive, phase is accepting_actions, action type is
// listed for the role, and fewer than 5 actions already pending.
func Submit(state *model.WorldState, playerID, actionType string, params map[string]interface{}) error {
	p, ok := state.Players[playerID]
	if !ok || !p.Alive {
		return ErrNotFound
	}
	if state.Meta.Phase != model.PhaseAcceptingActions {
		return ErrWrongPhase
	}
	if !Allowed(p.Role, actionType) {
		return ErrWrongRole
	}
	if len(p.ActionsPending) >= maxPendingActions {
		return ErrRateLimited
	}
	p.ActionsPending = append(p.ActionsPending, model.PendingAction{
		ActionType:    actionType,
		Params:        params,
		SubmittedTick: state.Meta.Tick,
	})
	return nil
}

type handlerFunc func(state *model.WorldState, p *model.Player, params map[string]interface{}) model.ActionOutcome

var dispatch = map[string]handlerFunc{
	TypeWork:              handleWork,
	TypeConsume:           handleConsume,
	TypeVoteLaw:           handleVoteLaw,
	TypeJoinMovement:      handleJoinMovement,
	TypeLeaveMovement:     handleLeaveMovement,
	TypeProduce:           handleProduce,
	TypeSetWages:          handleSetWages,
	TypeLobby:             handleLobby,
	TypeEvadeTaxes:        handleEvadeTaxes,
	TypeComplyTaxes:       handleComplyTaxes,
	TypeProposeLaw:        handleProposeLaw,
	TypeVoteLawPolitician: handleVoteLawPolitician,
	TypeAllocateBudget:    handleAllocateBudget,
	TypePublishStatement:  handlePublishStatement,
}

// Resolve runs every player's pending actions in player-id lexicographic
// order, then drains each player's queue to actions_history exactly once.
// Unknown action types are skipped with a logged warning; a handler that
// fails its own parameter validation is a silent no-op, never an error.
func Resolve(state *model.WorldState, logger *log.Logger) {
	ids := make([]string, 0, len(state.Players))
	for id := range state.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		p := state.Players[id]
		if p == nil || len(p.ActionsPending) == 0 {
			continue
		}
		outcomes := make([]model.ActionOutcome, len(p.ActionsPending))
		for i, act := range p.ActionsPending {
			h, ok := dispatch[act.ActionType]
			if !ok {
				if logger != nil {
					logger.Printf("action resolver: player=%s unknown action type %q", id, act.ActionType)
				}
				outcomes[i] = model.OutcomeUnknown
				continue
			}
			outcomes[i] = h(state, p, act.Params)
		}
		p.DrainPending(state.Meta.Tick, outcomes)
	}
}

func clampf(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func bumpSociety(state *model.WorldState, path string, delta float64) {
	_ = modifier.ApplyBatch(state, []model.Modifier{{Path: path, Op: model.OpAdd, Value: delta}}, modifier.SourceEvent)
}

func handleWork(state *model.WorldState, p *model.Player, _ map[string]interface{}) model.ActionOutcome {
	if p.Citizen == nil {
		return model.OutcomeNoop
	}
	if p.Citizen.Employed {
		employer := state.Players[p.Citizen.EmployerID]
		if employer == nil || employer.Business == nil {
			p.Citizen.EconomicPressure = clampf(p.Citizen.EconomicPressure+5, 0, 100)
			return model.OutcomeApplied
		}
		wage := state.Economy.WageIndex * employer.Business.WageLevel
		p.Visible.Wealth += wage
		bumpSociety(state, "economy.gdp", 0.01*wage)
		bumpSociety(state, "society.satisfaction", 1)
		return model.OutcomeApplied
	}
	p.Citizen.EconomicPressure = clampf(p.Citizen.EconomicPressure+5, 0, 100)
	return model.OutcomeApplied
}

func handleConsume(state *model.WorldState, p *model.Player, _ map[string]interface{}) model.ActionOutcome {
	if p.Citizen == nil {
		return model.OutcomeNoop
	}
	amount := min(0.3*p.Visible.Wealth, 0.01*state.Economy.Market.Supply)
	if amount <= 0 {
		p.Citizen.EconomicPressure = clampf(p.Citizen.EconomicPressure+8, 0, 100)
		return model.OutcomeApplied
	}
	p.Visible.Wealth -= amount
	bumpSociety(state, "economy.market.demand", 0.1*amount)
	bumpSociety(state, "economy.market.supply", -0.05*amount)
	bumpSociety(state, "society.satisfaction", 3)
	return model.OutcomeApplied
}

func handleVoteLaw(state *model.WorldState, p *model.Player, params map[string]interface{}) model.ActionOutcome {
	return castVote(state, p, params, false)
}

func handleVoteLawPolitician(state *model.WorldState, p *model.Player, params map[string]interface{}) model.ActionOutcome {
	return castVote(state, p, params, true)
}

func castVote(state *model.WorldState, p *model.Player, params map[string]interface{}, isPolitician bool) model.ActionOutcome {
	lawID, err := rules.ParamString(params, "law_id")
	if err != nil {
		return model.OutcomeNoop
	}
	choiceRaw, err := rules.ParamString(params, "choice")
	if err != nil {
		return model.OutcomeNoop
	}
	law, ok := state.Laws[lawID]
	if !ok || law.Status != model.LawVoting {
		return model.OutcomeNoop
	}
	choice, ok := laws.NormalizeVoteChoice(choiceRaw)
	if !ok {
		return model.OutcomeNoop
	}
	law.CastVote(p.ID, choice, laws.VoteWeight(isPolitician))
	p.Hidden.Influence += 0.5
	if p.Citizen != nil {
		p.Citizen.VotedThisTick = true
	}
	return model.OutcomeApplied
}

func handleJoinMovement(state *model.WorldState, p *model.Player, params map[string]interface{}) model.ActionOutcome {
	if p.Citizen == nil {
		return model.OutcomeNoop
	}
	moveID, err := rules.ParamString(params, "movement_id")
	if err != nil {
		return model.OutcomeNoop
	}
	m := state.Society.MovementByID(moveID)
	if m == nil {
		return model.OutcomeNoop
	}
	m.AddMember(p.ID)
	p.Visible.MovementID = moveID
	if m.Type == model.MovementRadical {
		bumpSociety(state, "society.radicalization", 10)
	}
	p.Hidden.Influence += 2
	return model.OutcomeApplied
}

func handleLeaveMovement(state *model.WorldState, p *model.Player, _ map[string]interface{}) model.ActionOutcome {
	if p.Visible.MovementID == "" {
		return model.OutcomeNoop
	}
	if m := state.Society.MovementByID(p.Visible.MovementID); m != nil {
		m.RemoveMember(p.ID)
	}
	p.Visible.MovementID = ""
	return model.OutcomeApplied
}

func handleProduce(state *model.WorldState, p *model.Player, _ map[string]interface{}) model.ActionOutcome {
	if p.Business == nil {
		return model.OutcomeNoop
	}
	b := p.Business
	if b.StrikeRisk > 0.8 {
		b.ProductionCapacity /= 2
	}
	output := b.ProductionCapacity
	bumpSociety(state, "economy.market.supply", output)
	bumpSociety(state, "economy.gdp", 0.1*output)
	profit := output*state.Economy.Market.PriceIndex - float64(b.Employees)*b.WageLevel*state.Economy.WageIndex
	if profit > 0 {
		p.Visible.Wealth += profit
	}
	p.Hidden.Influence += 1
	return model.OutcomeApplied
}

func handleSetWages(state *model.WorldState, p *model.Player, params map[string]interface{}) model.ActionOutcome {
	if p.Business == nil {
		return model.OutcomeNoop
	}
	newWage, err := rules.ParamFloat(params, "wage_level")
	if err != nil {
		return model.OutcomeNoop
	}
	newWage = clampf(newWage, 0.1, 10)
	old := p.Business.WageLevel
	p.Business.WageLevel = newWage
	wi := state.Economy.WageIndex
	if newWage < 0.7*wi {
		p.Business.StrikeRisk = clampf(p.Business.StrikeRisk+0.15, 0, 1)
	} else if newWage > 1.2*wi {
		p.Business.StrikeRisk = clampf(p.Business.StrikeRisk-0.1, 0, 1)
	}
	bumpSociety(state, "economy.wage_index", 0.01*(newWage-old))
	return model.OutcomeApplied
}

func handleLobby(state *model.WorldState, p *model.Player, params map[string]interface{}) model.ActionOutcome {
	if p.Business == nil {
		return model.OutcomeNoop
	}
	targetID, err := rules.ParamString(params, "target_politician_id")
	if err != nil {
		return model.OutcomeNoop
	}
	requested, err := rules.ParamFloat(params, "amount")
	if err != nil {
		return model.OutcomeNoop
	}
	target, ok := state.Players[targetID]
	if !ok || target.Role != model.RolePolitician {
		return model.OutcomeNoop
	}
	actual := min(0.2*p.Visible.Wealth, requested)
	if actual <= 0 {
		return model.OutcomeNoop
	}
	p.Visible.Wealth -= actual
	target.Hidden.LobbyMoneyReceived += actual
	target.Hidden.Corruption += 0.5 * actual
	p.Hidden.Influence += 3
	p.Hidden.Corruption += 2
	return model.OutcomeApplied
}

func handleEvadeTaxes(state *model.WorldState, p *model.Player, _ map[string]interface{}) model.ActionOutcome {
	evasion := evasionRecord(p)
	if evasion == nil {
		return model.OutcomeNoop
	}
	*evasion = clampf(*evasion+0.1, 0, 1)
	bumpSociety(state, "economy.tax_compliance", -0.02)
	p.Visible.Wealth += 0.05 * p.Visible.Wealth
	p.Hidden.Corruption += 1
	return model.OutcomeApplied
}

func handleComplyTaxes(state *model.WorldState, p *model.Player, _ map[string]interface{}) model.ActionOutcome {
	evasion := evasionRecord(p)
	if evasion == nil {
		return model.OutcomeNoop
	}
	*evasion = clampf(*evasion-0.1, 0, 1)
	bumpSociety(state, "economy.tax_compliance", 0.01)
	p.Hidden.Corruption = clampf(p.Hidden.Corruption-0.5, 0, 100)
	return model.OutcomeApplied
}

func evasionRecord(p *model.Player) *float64 {
	switch {
	case p.Citizen != nil:
		return &p.Citizen.TaxEvasion
	case p.Business != nil:
		return &p.Business.TaxEvasion
	default:
		return nil
	}
}

func handleProposeLaw(state *model.WorldState, p *model.Player, params map[string]interface{}) model.ActionOutcome {
	if p.Politician == nil {
		return model.OutcomeNoop
	}
	text, err := rules.ParamString(params, "text")
	if err != nil || len(text) > laws.MaxOriginalTextLen {
		return model.OutcomeNoop
	}
	id := laws.NewLawID(state.Meta.Seed, uint64(len(state.Laws)))
	state.Laws[id] = &model.Law{
		ID:           id,
		Proposer:     p.ID,
		ProposedTick: state.Meta.Tick,
		OriginalText: text,
		Status:       model.LawProposed,
	}
	p.Politician.LawsProposed++
	p.Hidden.Influence += 3
	return model.OutcomeApplied
}

func handleAllocateBudget(state *model.WorldState, p *model.Player, params map[string]interface{}) model.ActionOutcome {
	if p.Politician == nil {
		return model.OutcomeNoop
	}
	next := make(map[model.BudgetCategory]float64, len(model.BudgetCategories))
	sum := 0.0
	for _, cat := range model.BudgetCategories {
		f, err := rules.ParamFloat(params, string(cat))
		if err != nil || f < 0 || f > 1 {
			return model.OutcomeNoop
		}
		next[cat] = f
		sum += f
	}
	if sum < 0.99 || sum > 1.01 {
		return model.OutcomeNoop
	}
	state.Government.BudgetAllocation = next
	p.Hidden.Influence += 2
	return model.OutcomeApplied
}

func handlePublishStatement(state *model.WorldState, p *model.Player, params map[string]interface{}) model.ActionOutcome {
	if p.Politician == nil {
		return model.OutcomeNoop
	}
	text, err := rules.ParamString(params, "text")
	if err != nil || len(text) > 500 {
		return model.OutcomeNoop
	}
	p.Politician.Statements = append(p.Politician.Statements, model.Statement{Tick: state.Meta.Tick, Text: text})
	p.Hidden.Reputation += 0.5
	return model.OutcomeApplied
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// ValidateDispatch mirrors the teacher's map/supported-list consistency
// check; called from init-time tests, not from the hot path.
func ValidateDispatch() error {
	all := map[string]struct{}{}
	for _, list := range RoleActions {
		for _, t := range list {
			all[t] = struct{}{}
		}
	}
	if len(all) != len(dispatch) {
		return fmt.Errorf("actions: dispatch size mismatch: got=%d want=%d", len(dispatch), len(all))
	}
	for t := range all {
		if _, ok := dispatch[t]; !ok {
			return fmt.Errorf("actions: missing handler for %q", t)
		}
	}
	return nil
}
