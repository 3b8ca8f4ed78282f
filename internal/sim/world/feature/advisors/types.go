// Package advisors sequences the six untrusted advisor stages strictly in
// order, marshals each stage's input from state, and applies validated
// outputs (or a deterministic fallback) per the application semantics in
// spec §4.7. The stage count and wiring are static — a fixed tuple of
// concrete Advisor[In,Out] values, never a plugin registry.
package advisors

import "govsim.ai/internal/sim/world/kernel/model"

// Snapshot is the read-only slice of state every stage's input is built
// from; stages never see the full WorldState, only this projection, so an
// advisor cannot accidentally leak something the core didn't marshal.
type Snapshot struct {
	Tick       uint64          `json:"tick"`
	Economy    model.Economy   `json:"economy"`
	Society    model.Society   `json:"society"`
	Government model.Government `json:"government"`
}

// AnalystIn/Out — stage 1.
type AnalystIn struct {
	State Snapshot `json:"state"`
}

type AnalystOut struct {
	Trends      []string           `json:"trends"`
	Risks       []string           `json:"risks"`
	Projections map[string]float64 `json:"projections"`
	Confidence  float64            `json:"confidence"`
}

var AnalystRequiredFields = []string{"trends", "risks", "projections", "confidence"}

func analystFallback() *AnalystOut {
	return &AnalystOut{Trends: nil, Risks: nil, Projections: map[string]float64{}, Confidence: 0}
}

// JudiciaryIn/Out — stage 2, run once per newly-active law this tick.
type JudiciaryIn struct {
	LawID        string   `json:"law_id"`
	OriginalText string   `json:"original_text"`
	State        Snapshot `json:"state"`
}

type JudiciaryOut struct {
	LawID          string                   `json:"law_id"`
	Interpretation string                   `json:"interpretation"`
	Ambiguities    []string                 `json:"ambiguities"`
	Implementation model.LawImplementation  `json:"implementation"`
}

var JudiciaryRequiredFields = []string{"law_id", "interpretation", "ambiguities", "implementation"}

func judiciaryFallback(lawID string) *JudiciaryOut {
	return &JudiciaryOut{
		LawID:          lawID,
		Interpretation: "no-op: advisor unavailable",
		Ambiguities:    nil,
		Implementation: model.LawImplementation{},
	}
}

// MediaIn/Out — stage 3.
type MediaIn struct {
	State Snapshot `json:"state"`
}

type MediaOut struct {
	Headlines []string `json:"headlines"`
	Articles  []string `json:"articles"`
	Rumors    []string `json:"rumors"`
}

var MediaRequiredFields = []string{"headlines", "articles", "rumors"}

func mediaFallback() *MediaOut {
	return &MediaOut{
		Headlines: []string{"Citizens go about their day.", "Government offices report normal operations."},
		Articles:  nil,
		Rumors:    nil,
	}
}

// ReactionIn/Out — stage 4.
type ReactionIn struct {
	State Snapshot `json:"state"`
}

type MovementDirective struct {
	Action     string            `json:"action"` // create | strengthen | dissolve
	MovementID string            `json:"movement_id"`
	Name       string            `json:"name"`
	Type       model.MovementType `json:"type"`
	Strength   float64           `json:"strength"`
}

type ApprovalDelta struct {
	Economic float64 `json:"economic"`
	Social   float64 `json:"social"`
	Security float64 `json:"security"`
	Overall  float64 `json:"overall"`
}

type ReactionOut struct {
	ApprovalDelta      ApprovalDelta        `json:"approval_delta"`
	ProtestProb        float64              `json:"protest_prob"`
	Movements          []MovementDirective  `json:"movements"`
	SuppressedWarnings []string             `json:"suppressed_warnings"`
}

var ReactionRequiredFields = []string{"approval_delta", "protest_prob", "movements", "suppressed_warnings"}

func reactionFallback() *ReactionOut {
	return &ReactionOut{
		ApprovalDelta: ApprovalDelta{Economic: -1, Social: -1, Security: -1, Overall: -1},
		ProtestProb:   0,
		Movements:     nil,
	}
}

// CrisisIn/Out — stage 5. A legitimate null response means "no crisis";
// it is not an advisor failure.
type CrisisIn struct {
	State        Snapshot  `json:"state"`
	GDPHistory   []float64 `json:"gdp_history"`
	StabilityHistory []float64 `json:"stability_history"`
}

type CrisisOut struct {
	EventType     string           `json:"event_type"`
	Severity      int              `json:"severity"`
	Modifiers     []model.Modifier `json:"modifiers"`
	NarrativeHook string           `json:"narrative_hook"`
	DurationTicks *uint64          `json:"duration_ticks"`
}

var CrisisRequiredFields = []string{"event_type", "severity", "modifiers", "narrative_hook", "duration_ticks"}

// HistorianIn/Out — stage 6.
type HistorianIn struct {
	State   Snapshot            `json:"state"`
	TickLog []model.TickLogEntry `json:"recent_ticks"`
}

type EraTransition struct {
	NewEraName string `json:"new_era_name"`
}

type HistorianOut struct {
	EraTransition     *EraTransition     `json:"era_transition"`
	Summary           string             `json:"summary"`
	PlayerReputations map[string]float64 `json:"player_reputations"`
}

var HistorianRequiredFields = []string{"era_transition", "summary", "player_reputations"}

func historianFallback() *HistorianOut {
	return nil
}
