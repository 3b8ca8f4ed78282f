// Package laws holds the pure helpers shared by law proposal handling and
// the lifecycle runtime: vote-choice normalization, vote weighting, and
// deterministic id minting. No type in this package touches *model.WorldState
// directly; that wiring lives in runtime and the action resolver.
package laws

import (
	"fmt"
	"strings"
)

const MaxOriginalTextLen = 2000

// NormalizeVoteChoice maps free-form vote text to one of the three tally
// buckets, or ("", false) if the text is not a recognized choice.
func NormalizeVoteChoice(choice string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(choice)) {
	case "for", "yes", "y", "1", "true":
		return "for", true
	case "against", "no", "n", "0", "false":
		return "against", true
	case "abstain":
		return "abstain", true
	default:
		return "", false
	}
}

// VoteWeight is the tally weight a cast vote carries: a politician's
// vote_law_politician counts triple a citizen's vote_law.
func VoteWeight(isPolitician bool) int {
	if isPolitician {
		return 3
	}
	return 1
}

// NewLawID mints a deterministic id from the core seed and the count of
// laws proposed so far this game, never from wall-clock or a random source.
func NewLawID(seed uint32, countSoFar uint64) string {
	return fmt.Sprintf("law_%08x_%04d", seed, countSoFar)
}
