package runtime

import (
	"sort"

	"govsim.ai/internal/sim/world/kernel/model"
)

// TickLawsHooks lets the tick orchestrator react to a status change without
// this package importing the engine or the active-law-count bookkeeping.
type TickLawsHooks struct {
	OnEnterVoting func(law *model.Law)
	OnActivated   func(law *model.Law)
	OnRejected    func(law *model.Law)
}

// TickLaws advances every law at most one hop, in lexicographic id order
// per the ordering guarantee in the concurrency section.
func TickLaws(nowTick uint64, laws map[string]*model.Law, hooks TickLawsHooks) {
	if len(laws) == 0 {
		return
	}
	ids := make([]string, 0, len(laws))
	for id := range laws {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		law := laws[id]
		if law == nil {
			continue
		}
		tr := NextTransition(TransitionInput{
			Status:       law.Status,
			NowTick:      nowTick,
			ProposedTick: law.ProposedTick,
			Tally:        law.Tally,
		})
		if !tr.ShouldTransition {
			continue
		}
		law.Status = tr.NextStatus
		switch tr.NextStatus {
		case model.LawVoting:
			if hooks.OnEnterVoting != nil {
				hooks.OnEnterVoting(law)
			}
		case model.LawActive:
			t := nowTick
			law.ActivatedTick = &t
			if hooks.OnActivated != nil {
				hooks.OnActivated(law)
			}
		case model.LawRejected:
			if hooks.OnRejected != nil {
				hooks.OnRejected(law)
			}
		}
	}
}
