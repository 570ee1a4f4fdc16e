package allotment

import (
	"fmt"
	"strings"
)

// ConflictError rejects a batch in which several participants claim the same seat.
type ConflictError struct {
	ParticipantIds []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("duplicate portfolio detected for participants %s", strings.Join(e.ParticipantIds, ", "))
}

type claims map[string]map[string]struct{}

func (c claims) has(committee, portfolio string) bool {
	_, ok := c[committee][portfolio]
	return ok
}

func (c claims) claim(committee, portfolio string) {
	if c[committee] == nil {
		c[committee] = map[string]struct{}{}
	}
	c[committee][portfolio] = struct{}{}
}

// DetectConflicts returns, in batch order, the participants whose proposal
// repeats a (committee, portfolio) pair already claimed earlier in the batch.
// The first claimant of a pair is never reported. Incomplete proposals are ignored.
//
// Seats in persisted are claimed before the batch is walked, except those of
// participants that the batch moves with a complete proposal. Pass nothing to compare the batch
// only against itself.
func DetectConflicts(batch *Batch, persisted ...Proposal) []string {
	claimed := claims{}
	for _, p := range persisted {
		if !p.IsComplete() {
			continue
		}
		if q, ok := batch.Get(p.ParticipantId); ok && q.IsComplete() {
			continue
		}
		claimed.claim(p.Committee, p.Portfolio)
	}

	conflicts := []string{}
	for _, p := range batch.Proposals() {
		if !p.IsComplete() {
			continue
		}
		if claimed.has(p.Committee, p.Portfolio) {
			conflicts = append(conflicts, p.ParticipantId)
			continue
		}
		claimed.claim(p.Committee, p.Portfolio)
	}
	return conflicts
}
