package allotment

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Updater persists one participant's assignment.
type Updater interface {
	UpdateAssignment(ctx context.Context, participantId, committee, portfolio string) error
}

type UpdaterFunc func(ctx context.Context, participantId, committee, portfolio string) error

func (f UpdaterFunc) UpdateAssignment(ctx context.Context, participantId, committee, portfolio string) error {
	return f(ctx, participantId, committee, portfolio)
}

type RowStatus string

const (
	StatusSubmitted RowStatus = "submitted"
	StatusFailed    RowStatus = "failed"
	StatusSkipped   RowStatus = "skipped"
)

type RowResult struct {
	ParticipantId string    `json:"participant_id"`
	Committee     string    `json:"committee"`
	Portfolio     string    `json:"portfolio"`
	Status        RowStatus `json:"status"`
	Error         string    `json:"error,omitempty"`
}

type Report struct {
	Id        string      `json:"id"`
	Rows      []RowResult `json:"rows"`
	Assigned  Assigned    `json:"assigned"`
	Submitted int         `json:"submitted"`
	Failed    int         `json:"failed"`
	Skipped   int         `json:"skipped"`
}

// SubmittedIds lists the rows that were written, in submission order.
func (r *Report) SubmittedIds() []string {
	ids := []string{}
	for _, row := range r.Rows {
		if row.Status == StatusSubmitted {
			ids = append(ids, row.ParticipantId)
		}
	}
	return ids
}

type SubmitOptions struct {
	// Persisted holds the assignments already stored for the conference.
	// It seeds Report.Assigned.
	Persisted []Proposal
	// Strict also treats seats in Persisted as taken when detecting conflicts.
	Strict bool
}

type Submitter struct {
	updater Updater
	logger  *slog.Logger
}

func NewSubmitter(updater Updater, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{updater: updater, logger: logger}
}

// Submit writes the batch one participant at a time, following the order of
// participantIds. A batch with conflicts is refused with a *ConflictError and
// nothing is written. Otherwise every row is attempted regardless of earlier
// failures and the outcome of each row is returned in the report.
//
// Proposals for ids missing from participantIds are reported as skipped.
func (s *Submitter) Submit(ctx context.Context, participantIds []string, batch *Batch, opts SubmitOptions) (*Report, error) {
	var seed []Proposal
	if opts.Strict {
		seed = opts.Persisted
	}
	if conflicts := DetectConflicts(batch, seed...); len(conflicts) > 0 {
		return nil, &ConflictError{ParticipantIds: conflicts}
	}

	report := &Report{Id: uuid.NewString(), Rows: []RowResult{}}
	current := newAssignmentLedger(opts.Persisted)
	listed := make(map[string]struct{}, len(participantIds))

	for _, id := range participantIds {
		listed[id] = struct{}{}
		p, ok := batch.Get(id)
		if !ok {
			continue
		}
		row := RowResult{ParticipantId: id, Committee: p.Committee, Portfolio: p.Portfolio}
		switch {
		case !p.IsComplete():
			row.Status = StatusSkipped
			row.Error = "committee and portfolio are both required"
			report.Skipped++
		default:
			if err := s.updater.UpdateAssignment(ctx, id, p.Committee, p.Portfolio); err != nil {
				s.logger.Warn("allotment row failed", "participant", id, "error", err)
				row.Status = StatusFailed
				row.Error = err.Error()
				report.Failed++
			} else {
				row.Status = StatusSubmitted
				report.Submitted++
				current.set(p)
			}
		}
		report.Rows = append(report.Rows, row)
	}

	for _, p := range batch.Proposals() {
		if _, ok := listed[p.ParticipantId]; ok {
			continue
		}
		report.Rows = append(report.Rows, RowResult{
			ParticipantId: p.ParticipantId,
			Committee:     p.Committee,
			Portfolio:     p.Portfolio,
			Status:        StatusSkipped,
			Error:         "participant is not registered for this conference",
		})
		report.Skipped++
	}

	report.Assigned = current.assigned()
	s.logger.Info("allotment batch submitted",
		"report", report.Id, "submitted", report.Submitted, "failed", report.Failed, "skipped", report.Skipped)
	return report, nil
}

// assignmentLedger tracks the latest seat of every participant in first-seen order.
type assignmentLedger struct {
	order []string
	seats map[string]Proposal
}

func newAssignmentLedger(persisted []Proposal) *assignmentLedger {
	l := &assignmentLedger{seats: map[string]Proposal{}}
	for _, p := range persisted {
		if p.IsComplete() {
			l.set(p)
		}
	}
	return l
}

func (l *assignmentLedger) set(p Proposal) {
	if _, ok := l.seats[p.ParticipantId]; !ok {
		l.order = append(l.order, p.ParticipantId)
	}
	l.seats[p.ParticipantId] = p
}

func (l *assignmentLedger) assigned() Assigned {
	a := Assigned{}
	for _, id := range l.order {
		p := l.seats[id]
		a.Add(p.Committee, p.Portfolio)
	}
	return a
}
