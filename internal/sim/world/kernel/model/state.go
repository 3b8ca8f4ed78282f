// Package model holds the typed WorldState tree owned by a single game
// instance. Every field reachable from WorldState is addressed either by a
// Go field access (within this package and its callers) or, for the
// modifier kernel, by a dot-path string resolved through the kernel/modifier
// table. Nothing here performs I/O.
package model

import "time"

// Phase is the tick's current stage, cycling once per tick.
type Phase string

const (
	PhaseAcceptingActions Phase = "accepting_actions"
	PhaseProcessing       Phase = "processing"
	PhaseAIEvaluation     Phase = "ai_evaluation"
	PhaseResolved         Phase = "resolved"
)

// Meta carries the tick clock and game-wide bookkeeping.
type Meta struct {
	ServerID          string `json:"server_id"`
	Tick              uint64 `json:"tick"`
	TickIntervalHours int    `json:"tick_interval_hours"`
	TickDeadlineUnix  int64  `json:"tick_deadline_unix"`
	Phase             Phase  `json:"phase"`
	Seed              uint32 `json:"seed"`
}

type Budget struct {
	Revenue  float64 `json:"revenue"`
	Spending float64 `json:"spending"`
	Reserves float64 `json:"reserves"`
	Deficit  float64 `json:"deficit"`
}

type Market struct {
	Supply     float64 `json:"supply"`
	Demand     float64 `json:"demand"`
	PriceIndex float64 `json:"price_index"`
	Shortage   bool    `json:"shortage"`
}

type Economy struct {
	GDP            float64 `json:"gdp"`
	GDPDelta       float64 `json:"gdp_delta"`
	Inflation      float64 `json:"inflation"`
	Unemployment   float64 `json:"unemployment"`
	TaxRate        float64 `json:"tax_rate"`
	TaxCompliance  float64 `json:"tax_compliance"`
	WageIndex      float64 `json:"wage_index"`
	Budget         Budget  `json:"budget"`
	Market         Market  `json:"market"`
	GDPHistory     []float64 `json:"gdp_history"`
	StabilityHist  []float64 `json:"stability_history"`
}

// MovementType enumerates the social movements players may join.
type MovementType string

const (
	MovementReform      MovementType = "reform"
	MovementPopulist    MovementType = "populist"
	MovementRadical     MovementType = "radical"
	MovementSeparatist  MovementType = "separatist"
	MovementLabor       MovementType = "labor"
	MovementBusiness    MovementType = "business"
)

type Movement struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Type           MovementType `json:"type"`
	Strength       float64      `json:"strength"`
	Demands        []string     `json:"demands"`
	MemberPlayerID []string     `json:"member_player_ids"`
	CreatedTick    uint64       `json:"created_tick"`
}

func (m *Movement) HasMember(playerID string) bool {
	for _, id := range m.MemberPlayerID {
		if id == playerID {
			return true
		}
	}
	return false
}

func (m *Movement) AddMember(playerID string) {
	if playerID == "" || m.HasMember(playerID) {
		return
	}
	m.MemberPlayerID = append(m.MemberPlayerID, playerID)
}

func (m *Movement) RemoveMember(playerID string) {
	out := m.MemberPlayerID[:0]
	for _, id := range m.MemberPlayerID {
		if id != playerID {
			out = append(out, id)
		}
	}
	m.MemberPlayerID = out
}

type Society struct {
	Stability        float64    `json:"stability"`
	PublicTrust      float64    `json:"public_trust"`
	Satisfaction     float64    `json:"satisfaction"`
	Radicalization   float64    `json:"radicalization"`
	ProtestPressure  float64    `json:"protest_pressure"`
	Movements        []*Movement `json:"movements"`
}

func (s *Society) MovementByID(id string) *Movement {
	for _, m := range s.Movements {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// BudgetCategory is one of the five fixed government spending buckets.
type BudgetCategory string

const (
	CategoryWelfare        BudgetCategory = "welfare"
	CategoryInfrastructure BudgetCategory = "infrastructure"
	CategoryEnforcement    BudgetCategory = "enforcement"
	CategoryEducation      BudgetCategory = "education"
	CategoryDiscretionary  BudgetCategory = "discretionary"
)

var BudgetCategories = []BudgetCategory{
	CategoryWelfare, CategoryInfrastructure, CategoryEnforcement, CategoryEducation, CategoryDiscretionary,
}

type Approval struct {
	Economic  float64 `json:"economic"`
	Social    float64 `json:"social"`
	Security  float64 `json:"security"`
	Overall   float64 `json:"overall"`
}

type Government struct {
	Approval         Approval                     `json:"approval"`
	BudgetAllocation map[BudgetCategory]float64   `json:"budget_allocation"`
	ActiveLawCount   int                          `json:"active_law_count"`
	ElectionTick     *uint64                      `json:"election_tick,omitempty"`
}

func DefaultBudgetAllocation() map[BudgetCategory]float64 {
	return map[BudgetCategory]float64{
		CategoryWelfare:        0.25,
		CategoryInfrastructure: 0.25,
		CategoryEnforcement:    0.2,
		CategoryEducation:      0.2,
		CategoryDiscretionary:  0.1,
	}
}

// Role is a player's fixed station, assigned at join and never changed.
type Role string

const (
	RoleCitizen       Role = "citizen"
	RoleBusinessOwner Role = "business_owner"
	RolePolitician    Role = "politician"
)

type HiddenStats struct {
	Influence          float64 `json:"influence"`
	Reputation         float64 `json:"reputation"`
	Fear               float64 `json:"fear"`
	Corruption         float64 `json:"corruption"`
	HistoricalLegacy   float64 `json:"historical_legacy"`
	LobbyMoneyReceived float64 `json:"lobby_money_received"`
}

type VisibleStats struct {
	Wealth     float64 `json:"wealth"`
	MovementID string  `json:"movement_id,omitempty"`
}

// CitizenRecord holds fields specific to the citizen role.
type CitizenRecord struct {
	Employed         bool    `json:"employed"`
	EmployerID       string  `json:"employer_id"`
	EconomicPressure float64 `json:"economic_pressure"`
	TaxEvasion       float64 `json:"tax_evasion"`
	VotedThisTick    bool    `json:"voted_this_tick"`
}

// BusinessRecord holds fields specific to the business_owner role.
type BusinessRecord struct {
	ProductionCapacity float64 `json:"production_capacity"`
	WageLevel          float64 `json:"wage_level"`
	StrikeRisk         float64 `json:"strike_risk"`
	Employees          int     `json:"employees"`
	TaxEvasion         float64 `json:"tax_evasion"`
}

// PoliticianRecord holds fields specific to the politician role.
type PoliticianRecord struct {
	LawsProposed int          `json:"laws_proposed"`
	LawsPassed   int          `json:"laws_passed"`
	Statements   []Statement  `json:"statements"`
}

type Statement struct {
	Tick uint64 `json:"tick"`
	Text string `json:"text"`
}

type PendingAction struct {
	ActionType string                 `json:"action_type"`
	Params     map[string]interface{} `json:"params"`
	SubmittedTick uint64              `json:"submitted_tick"`
}

type ActionOutcome string

const (
	OutcomeApplied ActionOutcome = "applied"
	OutcomeNoop    ActionOutcome = "noop"
	OutcomeUnknown ActionOutcome = "unknown"
)

type ActionHistoryEntry struct {
	Tick    uint64        `json:"tick"`
	Actions []PendingAction `json:"actions"`
	Outcomes []ActionOutcome `json:"outcomes"`
}

type Player struct {
	ID         string       `json:"id"`
	Role       Role         `json:"role"`
	JoinedTick uint64       `json:"joined_tick"`
	Alive      bool         `json:"alive"`

	Hidden  HiddenStats  `json:"hidden_stats"`
	Visible VisibleStats `json:"visible_stats"`

	Citizen    *CitizenRecord    `json:"citizen,omitempty"`
	Business   *BusinessRecord   `json:"business,omitempty"`
	Politician *PoliticianRecord `json:"politician,omitempty"`

	ActionsPending []PendingAction      `json:"actions_pending"`
	ActionsHistory []ActionHistoryEntry `json:"actions_history"`
}

const maxPendingActions = 5
const maxActionHistory = 10

func (p *Player) PendingFull() bool {
	return len(p.ActionsPending) >= maxPendingActions
}

// DrainPending moves the pending queue into history exactly once per tick,
// trimming history to the retained window.
func (p *Player) DrainPending(tick uint64, outcomes []ActionOutcome) {
	if len(p.ActionsPending) == 0 {
		return
	}
	entry := ActionHistoryEntry{Tick: tick, Actions: p.ActionsPending, Outcomes: outcomes}
	p.ActionsHistory = append(p.ActionsHistory, entry)
	if len(p.ActionsHistory) > maxActionHistory {
		p.ActionsHistory = p.ActionsHistory[len(p.ActionsHistory)-maxActionHistory:]
	}
	p.ActionsPending = nil
}

type LawStatus string

const (
	LawProposed    LawStatus = "proposed"
	LawVoting      LawStatus = "voting"
	LawActive      LawStatus = "active"
	LawRepealed    LawStatus = "repealed"
	LawRejected    LawStatus = "rejected"
	LawInvalidated LawStatus = "invalidated"
)

type VoteTally struct {
	For     int `json:"for"`
	Against int `json:"against"`
	Abstain int `json:"abstain"`
}

type LawImplementation struct {
	AffectedVariables []string   `json:"affected_variables"`
	Modifiers         []Modifier `json:"modifiers"`
}

type JudiciaryInterpretation struct {
	Interpretation string            `json:"interpretation"`
	Ambiguities    []string          `json:"ambiguities"`
	Implementation LawImplementation `json:"implementation"`
	RejectedByCore bool              `json:"rejected_by_core"`
}

type Law struct {
	ID             string     `json:"id"`
	Proposer       string     `json:"proposer"`
	ProposedTick   uint64     `json:"proposed_tick"`
	OriginalText   string     `json:"original_text"`
	Status         LawStatus  `json:"status"`
	Tally          VoteTally  `json:"tally"`
	Voted          map[string]bool `json:"voted"`
	Interpretation *JudiciaryInterpretation `json:"judiciary_interpretation,omitempty"`
	ActivatedTick  *uint64    `json:"activated_tick,omitempty"`
	RepealedTick   *uint64    `json:"repealed_tick,omitempty"`
}

func (l *Law) CastVote(playerID string, choice string, weight int) {
	if l.Voted == nil {
		l.Voted = map[string]bool{}
	}
	if l.Voted[playerID] {
		return
	}
	l.Voted[playerID] = true
	switch choice {
	case "for":
		l.Tally.For += weight
	case "against":
		l.Tally.Against += weight
	case "abstain":
		l.Tally.Abstain += weight
	}
}

type EventSource string

const (
	SourceCore              EventSource = "core_engine"
	SourceJudiciary         EventSource = "judiciary"
	SourceCrisis            EventSource = "crisis"
	SourcePoliticalReaction EventSource = "political_reaction"
	SourceStateAnalyst      EventSource = "state_analyst"
	SourceMedia             EventSource = "media"
)

// SourcePriority is the Event Processor's fixed descending-priority order.
var SourcePriority = map[EventSource]int{
	SourceCore:              100,
	SourceJudiciary:         85,
	SourceCrisis:            70,
	SourcePoliticalReaction: 60,
	SourceStateAnalyst:      50,
	SourceMedia:             10,
}

type EventStatus string

const (
	EventPending  EventStatus = "pending"
	EventApplied  EventStatus = "applied"
	EventRejected EventStatus = "rejected"
	EventExpired  EventStatus = "expired"
)

type GameEvent struct {
	ID           string      `json:"id"`
	Source       EventSource `json:"source"`
	Tick         uint64      `json:"tick"`
	Type         string      `json:"type"`
	Severity     int         `json:"severity"`
	Status       EventStatus `json:"status"`
	Description  string      `json:"description"`
	Modifiers    []Modifier  `json:"modifiers"`
	DurationTicks *uint64    `json:"duration_ticks,omitempty"`
	ExpiresTick  *uint64     `json:"expires_tick,omitempty"`
	NarrativeHook string     `json:"narrative_hook"`
}

type Headline struct {
	ID          string  `json:"id"`
	Tick        uint64  `json:"tick"`
	Text        string  `json:"text"`
	Credibility float64 `json:"credibility"`
}

type Article struct {
	ID          string  `json:"id"`
	Tick        uint64  `json:"tick"`
	Text        string  `json:"text"`
	TruthScore  float64 `json:"truth_score"`
}

type Rumor struct {
	ID          string  `json:"id"`
	Tick        uint64  `json:"tick"`
	Text        string  `json:"text"`
	Credibility float64 `json:"credibility"`
}

type MediaState struct {
	Headlines []Headline `json:"headlines"`
	Articles  []Article  `json:"articles"`
	Rumors    []Rumor    `json:"rumors"`
}

type TickLogEntry struct {
	Tick           uint64         `json:"tick"`
	ActionsApplied int            `json:"actions_applied"`
	ActionsNoop    int            `json:"actions_noop"`
	ActionsUnknown int            `json:"actions_unknown"`
	EventsApplied  int            `json:"events_applied"`
	EventsRejected int            `json:"events_rejected"`
	EventsExpired  int            `json:"events_expired"`
	LawsActivated  int            `json:"laws_activated"`
	LawsRejected   int            `json:"laws_rejected"`
	ContentHash    string         `json:"content_hash"`
	AdvisorOutputs map[string]any `json:"advisor_outputs"`
}

const maxTickLogEntries = 50

type Era struct {
	Name     string `json:"name"`
	TickStart uint64 `json:"tick_start"`
	TickEnd   *uint64 `json:"tick_end,omitempty"`
	Summary  string `json:"summary"`
}

type ReputationRecord struct {
	PlayerID string  `json:"player_id"`
	Score    float64 `json:"score"`
	Notes    []string `json:"notes"`
}

type HistoryState struct {
	Eras               []Era                        `json:"eras"`
	PlayerReputations  map[string]*ReputationRecord  `json:"player_reputations"`
}

// WorldState is the single owning container for one game instance. All
// cross-entity references inside it are stable string ids, never pointers.
type WorldState struct {
	Meta       Meta                `json:"meta"`
	Economy    Economy             `json:"economy"`
	Society    Society             `json:"society"`
	Government Government          `json:"government"`
	Players    map[string]*Player  `json:"players"`
	Laws       map[string]*Law     `json:"laws"`
	Events     map[string]*GameEvent `json:"events"`
	Media      MediaState          `json:"media"`
	TickLog    []TickLogEntry      `json:"tick_log"`
	History    HistoryState        `json:"history"`
}

// AppendTickLog trims the retained window to at most maxTickLogEntries,
// dropping the oldest entries first.
func (w *WorldState) AppendTickLog(entry TickLogEntry) {
	w.TickLog = append(w.TickLog, entry)
	if len(w.TickLog) > maxTickLogEntries {
		w.TickLog = w.TickLog[len(w.TickLog)-maxTickLogEntries:]
	}
}

// New builds a fresh WorldState at tick 0. The initial tick_deadline is
// stamped from the wall clock, same as every later finalize step computes
// the next one (engine.nextDeadline) — the one-time moment a game is
// created is inherently non-deterministic (it also mints the server id),
// so it sits outside the tick core's determinism invariant.
func New(serverID string, seed uint32, tickIntervalHours int) *WorldState {
	hours := tickIntervalHours
	if hours <= 0 {
		hours = 24
	}
	return &WorldState{
		Meta: Meta{
			ServerID:          serverID,
			Tick:              0,
			TickIntervalHours: tickIntervalHours,
			TickDeadlineUnix:  time.Now().Add(time.Duration(hours) * time.Hour).Unix(),
			Phase:             PhaseAcceptingActions,
			Seed:              seed,
		},
		Economy: Economy{
			GDP:           10000,
			Inflation:     2,
			Unemployment:  8,
			TaxRate:       20,
			TaxCompliance: 0.8,
			WageIndex:     1.0,
			Budget:        Budget{Revenue: 0, Spending: 2000, Reserves: 5000, Deficit: 0},
			Market:        Market{Supply: 10000, Demand: 10000, PriceIndex: 1.0},
		},
		Society: Society{
			Stability:    60,
			PublicTrust:  50,
			Satisfaction: 50,
		},
		Government: Government{
			Approval:         Approval{Economic: 50, Social: 50, Security: 50, Overall: 50},
			BudgetAllocation: DefaultBudgetAllocation(),
		},
		Players: map[string]*Player{},
		Laws:    map[string]*Law{},
		Events:  map[string]*GameEvent{},
		History: HistoryState{Eras: []Era{{Name: "Founding Era", TickStart: 0}}},
	}
}
