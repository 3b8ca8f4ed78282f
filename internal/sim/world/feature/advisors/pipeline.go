package advisors

import (
	"context"
	"log"
	"sort"
	"time"

	"govsim.ai/internal/sim/world/kernel/model"
	"govsim.ai/internal/sim/world/kernel/modifier"
	"govsim.ai/internal/sim/world/logic/noise"
)

// Pipeline is the fixed tuple of six advisor collaborators. Each field is
// wired once at construction; there is no registry to look stages up by
// name.
type Pipeline struct {
	Analyst   Advisor[AnalystIn, AnalystOut]
	Judiciary Advisor[JudiciaryIn, JudiciaryOut]
	Media     Advisor[MediaIn, MediaOut]
	Reaction  Advisor[ReactionIn, ReactionOut]
	Crisis    Advisor[CrisisIn, CrisisOut]
	Historian Advisor[HistorianIn, HistorianOut]

	Logger  *log.Logger
	Timeout time.Duration
}

func snapshotOf(w *model.WorldState) Snapshot {
	return Snapshot{Tick: w.Meta.Tick, Economy: w.Economy, Society: w.Society, Government: w.Government}
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.Logger != nil {
		p.Logger.Printf(format, args...)
	}
}

func (p *Pipeline) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.Timeout)
}

// RunEarlyStages runs the first five stages, strictly in order: Analyst,
// Judiciary, Media, Reaction, Crisis. The Tick Orchestrator calls this
// before the Threshold Watchdog and Event Processor, and calls
// RunHistorian afterward, since the Historian must see the tick's final
// event outcomes before it writes history.
func (p *Pipeline) RunEarlyStages(ctx context.Context, w *model.WorldState, newlyActiveLawIDs []string) map[string]any {
	outputs := map[string]any{}
	outputs["analyst"] = p.runAnalyst(ctx, w)
	outputs["judiciary"] = p.runJudiciary(ctx, w, newlyActiveLawIDs)
	outputs["media"] = p.runMedia(ctx, w)
	outputs["reaction"] = p.runReaction(ctx, w)
	outputs["crisis"] = p.runCrisis(ctx, w)
	return outputs
}

// RunHistorian runs the sixth and final stage.
func (p *Pipeline) RunHistorian(ctx context.Context, w *model.WorldState) *HistorianOut {
	return p.runHistorian(ctx, w)
}

func (p *Pipeline) runAnalyst(ctx context.Context, w *model.WorldState) *AnalystOut {
	cctx, cancel := p.withTimeout(ctx)
	defer cancel()
	out, err := p.Analyst.Invoke(cctx, AnalystIn{State: snapshotOf(w)})
	if err != nil || out == nil {
		if err != nil {
			p.logf("advisor pipeline: analyst failed: %v", err)
		}
		return analystFallback()
	}
	return out
}

func (p *Pipeline) runJudiciary(ctx context.Context, w *model.WorldState, newlyActiveLawIDs []string) map[string]*JudiciaryOut {
	results := map[string]*JudiciaryOut{}
	for _, lawID := range newlyActiveLawIDs {
		law, ok := w.Laws[lawID]
		if !ok {
			continue
		}
		cctx, cancel := p.withTimeout(ctx)
		out, err := p.Judiciary.Invoke(cctx, JudiciaryIn{LawID: lawID, OriginalText: law.OriginalText, State: snapshotOf(w)})
		cancel()
		if err != nil || out == nil {
			if err != nil {
				p.logf("advisor pipeline: judiciary failed for law %s: %v", lawID, err)
			}
			out = judiciaryFallback(lawID)
		}
		law.Interpretation = &model.JudiciaryInterpretation{
			Interpretation: out.Interpretation,
			Ambiguities:    out.Ambiguities,
			Implementation: out.Implementation,
		}
		results[lawID] = out
	}
	return results
}

func (p *Pipeline) runMedia(ctx context.Context, w *model.WorldState) *MediaOut {
	cctx, cancel := p.withTimeout(ctx)
	defer cancel()
	out, err := p.Media.Invoke(cctx, MediaIn{State: snapshotOf(w)})
	if err != nil || out == nil {
		if err != nil {
			p.logf("advisor pipeline: media failed: %v", err)
		}
		out = mediaFallback()
	}
	applyMedia(w, out)
	return out
}

func applyMedia(w *model.WorldState, out *MediaOut) {
	headlines := make([]model.Headline, 0, len(out.Headlines))
	for i, text := range out.Headlines {
		headlines = append(headlines, model.Headline{
			ID:          "hl_" + noise.IDSuffix(w.Meta.Seed, w.Meta.Tick, uint64(i)),
			Tick:        w.Meta.Tick,
			Text:        text,
			Credibility: 0.8,
		})
	}
	rumors := make([]model.Rumor, 0, len(out.Rumors))
	for i, text := range out.Rumors {
		rumors = append(rumors, model.Rumor{
			ID:          "ru_" + noise.IDSuffix(w.Meta.Seed, w.Meta.Tick, uint64(1000+i)),
			Tick:        w.Meta.Tick,
			Text:        text,
			Credibility: 0.4,
		})
	}
	articles := make([]model.Article, 0, len(out.Articles))
	for i, text := range out.Articles {
		articles = append(articles, model.Article{
			ID:         "ar_" + noise.IDSuffix(w.Meta.Seed, w.Meta.Tick, uint64(2000+i)),
			Tick:       w.Meta.Tick,
			Text:       text,
			TruthScore: 0.7,
		})
	}
	w.Media.Headlines = headlines
	w.Media.Rumors = rumors
	w.Media.Articles = articles
}

func (p *Pipeline) runReaction(ctx context.Context, w *model.WorldState) *ReactionOut {
	cctx, cancel := p.withTimeout(ctx)
	defer cancel()
	out, err := p.Reaction.Invoke(cctx, ReactionIn{State: snapshotOf(w)})
	if err != nil || out == nil {
		if err != nil {
			p.logf("advisor pipeline: reaction failed: %v", err)
		}
		out = reactionFallback()
		applyApprovalDelta(w, "government.approval.economic", out.ApprovalDelta.Economic)
		applyApprovalDelta(w, "government.approval.social", out.ApprovalDelta.Social)
		applyApprovalDelta(w, "government.approval.security", out.ApprovalDelta.Security)
		applyApprovalDelta(w, "government.approval.overall", out.ApprovalDelta.Overall)
		_ = modifier.ApplyBatch(w, []model.Modifier{{Path: "society.protest_pressure", Op: model.OpAdd, Value: 0.02}}, modifier.SourceEvent)
		return out
	}
	applyReaction(w, out)
	return out
}

func applyReaction(w *model.WorldState, out *ReactionOut) {
	applyApprovalDelta(w, "government.approval.economic", out.ApprovalDelta.Economic)
	applyApprovalDelta(w, "government.approval.social", out.ApprovalDelta.Social)
	applyApprovalDelta(w, "government.approval.security", out.ApprovalDelta.Security)
	applyApprovalDelta(w, "government.approval.overall", out.ApprovalDelta.Overall)

	if out.ProtestProb > w.Society.ProtestPressure {
		next := 0.5*w.Society.ProtestPressure + 0.5*out.ProtestProb
		_ = modifier.ApplyBatch(w, []model.Modifier{{Path: "society.protest_pressure", Op: model.OpSet, Value: next}}, modifier.SourceEvent)
	}

	for _, d := range out.Movements {
		applyMovementDirective(w, d)
	}
}

func applyApprovalDelta(w *model.WorldState, path string, delta float64) {
	if delta == 0 {
		return
	}
	_ = modifier.ApplyBatch(w, []model.Modifier{{Path: path, Op: model.OpAdd, Value: delta}}, modifier.SourceEvent)
}

func applyMovementDirective(w *model.WorldState, d MovementDirective) {
	switch d.Action {
	case "create":
		if d.MovementID == "" || w.Society.MovementByID(d.MovementID) != nil {
			return
		}
		w.Society.Movements = append(w.Society.Movements, &model.Movement{
			ID: d.MovementID, Name: d.Name, Type: d.Type, Strength: clampf(d.Strength, 0, 1), CreatedTick: w.Meta.Tick,
		})
	case "strengthen":
		if m := w.Society.MovementByID(d.MovementID); m != nil {
			m.Strength = clampf(m.Strength+d.Strength, 0, 1)
		}
	case "dissolve":
		out := w.Society.Movements[:0]
		for _, m := range w.Society.Movements {
			if m.ID != d.MovementID {
				out = append(out, m)
			}
		}
		w.Society.Movements = out
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

func (p *Pipeline) runCrisis(ctx context.Context, w *model.WorldState) *CrisisOut {
	cctx, cancel := p.withTimeout(ctx)
	defer cancel()
	out, err := p.Crisis.Invoke(cctx, CrisisIn{
		State:            snapshotOf(w),
		GDPHistory:       w.Economy.GDPHistory,
		StabilityHistory: w.Economy.StabilityHist,
	})
	if err != nil {
		p.logf("advisor pipeline: crisis failed: %v", err)
		return nil
	}
	if out == nil {
		return nil
	}
	pushCrisisEvent(w, out)
	return out
}

func pushCrisisEvent(w *model.WorldState, out *CrisisOut) {
	id := "evt_crisis_" + noise.IDSuffix(w.Meta.Seed, w.Meta.Tick, 9001)
	w.Events[id] = &model.GameEvent{
		ID:            id,
		Source:        model.SourceCrisis,
		Tick:          w.Meta.Tick,
		Type:          out.EventType,
		Severity:      out.Severity,
		Status:        model.EventPending,
		NarrativeHook: out.NarrativeHook,
		Modifiers:     out.Modifiers,
		DurationTicks: out.DurationTicks,
	}
}

func (p *Pipeline) runHistorian(ctx context.Context, w *model.WorldState) *HistorianOut {
	cctx, cancel := p.withTimeout(ctx)
	defer cancel()
	recent := w.TickLog
	if len(recent) > 8 {
		recent = recent[len(recent)-8:]
	}
	out, err := p.Historian.Invoke(cctx, HistorianIn{State: snapshotOf(w), TickLog: recent})
	if err != nil {
		p.logf("advisor pipeline: historian failed: %v", err)
		return historianFallback()
	}
	if out == nil {
		return nil
	}
	applyHistorian(w, out)
	return out
}

func applyHistorian(w *model.WorldState, out *HistorianOut) {
	if out.EraTransition != nil && out.EraTransition.NewEraName != "" {
		if n := len(w.History.Eras); n > 0 {
			t := w.Meta.Tick
			w.History.Eras[n-1].TickEnd = &t
			w.History.Eras[n-1].Summary = out.Summary
		}
		w.History.Eras = append(w.History.Eras, model.Era{Name: out.EraTransition.NewEraName, TickStart: w.Meta.Tick})
	}
	if w.History.PlayerReputations == nil {
		w.History.PlayerReputations = map[string]*model.ReputationRecord{}
	}
	ids := make([]string, 0, len(out.PlayerReputations))
	for id := range out.PlayerReputations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		score := out.PlayerReputations[id]
		rec, ok := w.History.PlayerReputations[id]
		if !ok {
			rec = &model.ReputationRecord{PlayerID: id}
			w.History.PlayerReputations[id] = rec
		}
		rec.Score = score
	}
}
