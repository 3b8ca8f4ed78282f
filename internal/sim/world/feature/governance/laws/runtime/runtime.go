package runtime

import "govsim.ai/internal/sim/world/kernel/model"

// TransitionInput carries exactly the law fields NextTransition needs,
// kept separate from *model.Law so the transition rule stays pure.
type TransitionInput struct {
	Status       model.LawStatus
	NowTick      uint64
	ProposedTick uint64
	Tally        model.VoteTally
}

type Transition struct {
	ShouldTransition bool
	NextStatus       model.LawStatus
}

// NextTransition decides at most one hop, per the documented graph:
// proposed -> voting the tick after proposal; voting -> active/rejected
// once a for/against vote has been cast. Abstentions are tallied but play
// no part in the decision, so a law with only abstain votes stays in
// voting rather than being pushed to rejected.
func NextTransition(in TransitionInput) Transition {
	switch in.Status {
	case model.LawProposed:
		if in.NowTick > in.ProposedTick {
			return Transition{ShouldTransition: true, NextStatus: model.LawVoting}
		}
	case model.LawVoting:
		decided := in.Tally.For + in.Tally.Against
		if decided == 0 {
			return Transition{}
		}
		if in.Tally.For > in.Tally.Against {
			return Transition{ShouldTransition: true, NextStatus: model.LawActive}
		}
		return Transition{ShouldTransition: true, NextStatus: model.LawRejected}
	}
	return Transition{}
}
