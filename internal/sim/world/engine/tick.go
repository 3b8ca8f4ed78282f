package engine

import (
	"context"

	"govsim.ai/internal/sim/world/feature/actions"
	"govsim.ai/internal/sim/world/feature/economy"
	"govsim.ai/internal/sim/world/feature/events"
	lawruntime "govsim.ai/internal/sim/world/feature/governance/laws/runtime"
	"govsim.ai/internal/sim/world/kernel/model"
)

const gdpHistoryWindow = 8

// runTick executes one full tick in the fixed order: actions, economy
// recalculation, law lifecycle, the advisor pipeline's early stages, law
// interpretation application, the threshold watchdog, the event
// processor, the historian, then finalize.
func (g *Game) runTick() {
	w := g.state
	w.Meta.Phase = model.PhaseProcessing

	appliedBefore, rejectedBefore := countEventOutcomes(w)

	actions.Resolve(w, g.logger)

	economy.Recalculate(w)

	var newlyActive []string
	lawsActivated, lawsRejected := 0, 0
	lawruntime.TickLaws(w.Meta.Tick, w.Laws, lawruntime.TickLawsHooks{
		OnActivated: func(law *model.Law) {
			newlyActive = append(newlyActive, law.ID)
			w.Government.ActiveLawCount++
			lawsActivated++
			if proposer, ok := w.Players[law.Proposer]; ok && proposer.Politician != nil {
				proposer.Politician.LawsPassed++
			}
		},
		OnRejected: func(law *model.Law) {
			lawsRejected++
		},
	})

	w.Meta.Phase = model.PhaseAIEvaluation
	ctx := context.Background()
	var advisorOutputs map[string]any
	if g.pipeline != nil {
		advisorOutputs = g.pipeline.RunEarlyStages(ctx, w, newlyActive)
	}

	lawruntime.ApplyActiveInterpretations(w)

	if g.watchdog != nil {
		g.watchdog.Scan(w)
	}

	events.Process(w)

	if g.pipeline != nil {
		historian := g.pipeline.RunHistorian(ctx, w)
		if advisorOutputs == nil {
			advisorOutputs = map[string]any{}
		}
		advisorOutputs["historian"] = historian
	}

	g.finalize(appliedBefore, rejectedBefore, lawsActivated, lawsRejected, advisorOutputs)
}

func countEventOutcomes(w *model.WorldState) (applied, rejected int) {
	for _, ev := range w.Events {
		switch ev.Status {
		case model.EventApplied:
			applied++
		case model.EventRejected:
			rejected++
		}
	}
	return
}

func (g *Game) finalize(appliedBefore, rejectedBefore, lawsActivated, lawsRejected int, advisorOutputs map[string]any) {
	w := g.state

	w.Economy.GDPHistory = append(w.Economy.GDPHistory, w.Economy.GDP)
	if len(w.Economy.GDPHistory) > gdpHistoryWindow {
		w.Economy.GDPHistory = w.Economy.GDPHistory[len(w.Economy.GDPHistory)-gdpHistoryWindow:]
	}
	w.Economy.StabilityHist = append(w.Economy.StabilityHist, w.Society.Stability)
	if len(w.Economy.StabilityHist) > gdpHistoryWindow {
		w.Economy.StabilityHist = w.Economy.StabilityHist[len(w.Economy.StabilityHist)-gdpHistoryWindow:]
	}

	appliedAfter, rejectedAfter := countEventOutcomes(w)
	actionsApplied, actionsNoop, actionsUnknown := countActionOutcomes(w, w.Meta.Tick)

	entry := model.TickLogEntry{
		Tick:           w.Meta.Tick,
		ActionsApplied: actionsApplied,
		ActionsNoop:    actionsNoop,
		ActionsUnknown: actionsUnknown,
		EventsApplied:  appliedAfter - appliedBefore,
		EventsRejected: rejectedAfter - rejectedBefore,
		LawsActivated:  lawsActivated,
		LawsRejected:   lawsRejected,
		AdvisorOutputs: advisorOutputs,
	}
	entry.ContentHash = contentHash(w)
	w.AppendTickLog(entry)

	w.Meta.Tick++
	w.Meta.Seed++
	w.Meta.Phase = model.PhaseAcceptingActions
	w.Meta.TickDeadlineUnix = nextDeadline(w.Meta.TickIntervalHours)

	if g.audit != nil {
		if err := g.audit.WriteTick(entry, w.Economy.GDP, w.Meta.TickDeadlineUnix); err != nil && g.logger != nil {
			g.logger.Printf("engine: audit write failed server=%s tick=%d: %v", g.serverID, entry.Tick, err)
		}
	}

	g.broadcastTick()
}

func countActionOutcomes(w *model.WorldState, tick uint64) (applied, noop, unknown int) {
	for _, p := range w.Players {
		if len(p.ActionsHistory) == 0 {
			continue
		}
		last := p.ActionsHistory[len(p.ActionsHistory)-1]
		if last.Tick != tick {
			continue
		}
		for _, outcome := range last.Outcomes {
			switch outcome {
			case model.OutcomeApplied:
				applied++
			case model.OutcomeNoop:
				noop++
			case model.OutcomeUnknown:
				unknown++
			}
		}
	}
	return
}
