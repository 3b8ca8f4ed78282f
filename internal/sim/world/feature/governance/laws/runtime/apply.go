package runtime

import (
	"sort"

	"govsim.ai/internal/sim/world/kernel/model"
	"govsim.ai/internal/sim/world/kernel/modifier"
)

// ApplyActiveInterpretations runs the judiciary's bound modifier batch for
// every active law that has one and hasn't already been flagged dead. A
// Kernel rejection rolls the batch back and flags rejected_by_core; the law
// keeps its active status either way and is simply skipped on future ticks.
func ApplyActiveInterpretations(state *model.WorldState) {
	ids := make([]string, 0, len(state.Laws))
	for id := range state.Laws {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		law := state.Laws[id]
		if law == nil || law.Status != model.LawActive {
			continue
		}
		interp := law.Interpretation
		if interp == nil || interp.RejectedByCore {
			continue
		}
		if len(interp.Implementation.Modifiers) == 0 {
			continue
		}
		if err := modifier.ApplyBatch(state, interp.Implementation.Modifiers, modifier.SourceLaw); err != nil {
			interp.RejectedByCore = true
		}
	}
}
