// Package allotment assigns conference participants to committee portfolios.
//
// An organiser edits a Batch of proposals. Before anything is persisted the
// batch is checked for duplicate (committee, portfolio) pairs; a batch with
// conflicts is rejected as a whole. A clean batch is written one participant
// at a time and every row reports its own outcome.
package allotment

// Proposal is an unsaved committee/portfolio choice for one participant.
type Proposal struct {
	ParticipantId string `json:"participant_id" validate:"required"`
	Committee     string `json:"committee"`
	Portfolio     string `json:"portfolio"`
}

// IsComplete is false while either the committee or the portfolio is unset.
func (p Proposal) IsComplete() bool {
	return p.Committee != "" && p.Portfolio != ""
}

// Batch keeps proposals in the order participants were first edited.
// Editing a participant again replaces its proposal in place.
type Batch struct {
	proposals []Proposal
	index     map[string]int
}

func NewBatch(proposals ...Proposal) *Batch {
	b := &Batch{index: make(map[string]int, len(proposals))}
	for _, p := range proposals {
		b.Set(p.ParticipantId, p.Committee, p.Portfolio)
	}
	return b
}

func (b *Batch) Set(participantId, committee, portfolio string) {
	if b.index == nil {
		b.index = map[string]int{}
	}
	p := Proposal{ParticipantId: participantId, Committee: committee, Portfolio: portfolio}
	if i, ok := b.index[participantId]; ok {
		b.proposals[i] = p
		return
	}
	b.index[participantId] = len(b.proposals)
	b.proposals = append(b.proposals, p)
}

// SetCommittee switches the participant to committee and clears the portfolio,
// since portfolios are only meaningful within their committee.
func (b *Batch) SetCommittee(participantId, committee string) {
	b.Set(participantId, committee, "")
}

func (b *Batch) Get(participantId string) (Proposal, bool) {
	i, ok := b.index[participantId]
	if !ok {
		return Proposal{}, false
	}
	return b.proposals[i], true
}

func (b *Batch) Len() int {
	return len(b.proposals)
}

// Proposals returns a copy of the proposals in batch order.
func (b *Batch) Proposals() []Proposal {
	out := make([]Proposal, len(b.proposals))
	copy(out, b.proposals)
	return out
}
