package handlers

import (
	"context"
	goerrors "errors"
	"fmt"
	"strings"

	"conference-webapp/allotment"
	"conference-webapp/database"
	"conference-webapp/errors"
	"conference-webapp/model"
	"conference-webapp/validation"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type assignmentRequest struct {
	Committee string `json:"committee"`
	Portfolio string `json:"portfolio"`
}

// AllotParticipant assigns a single participant to a committee and portfolio.
func (h *Handler) AllotParticipant(c *fiber.Ctx) error {
	conf, err := h.ownedConference(c)
	if err != nil {
		return h.fail(c, err)
	}
	participantId, err := objectIdParam(c, "participantId")
	if err != nil {
		return h.fail(c, err)
	}

	req := new(assignmentRequest)
	if err := c.BodyParser(req); err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect input for allotment parameters: %v", err))
	}
	req.Committee = strings.TrimSpace(req.Committee)
	req.Portfolio = strings.TrimSpace(req.Portfolio)
	if req.Committee == "" || req.Portfolio == "" {
		return errors.RaiseBadRequestError(c, "Missing committee or portfolio")
	}
	if !conf.HasPortfolio(req.Committee, req.Portfolio) {
		return errors.RaiseBadRequestError(c,
			fmt.Sprintf("portfolio %q is not part of committee %q", req.Portfolio, req.Committee))
	}

	if err := h.updateAssignment(c.UserContext(), conf.Id, participantId, req.Committee, req.Portfolio); err != nil {
		return h.fail(c, err)
	}
	updated, err := h.store.GetParticipant(c.UserContext(), participantId)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "updated": updated})
}

// updateAssignment writes the assignment after checking the participant belongs to the conference.
func (h *Handler) updateAssignment(ctx context.Context, confId, participantId primitive.ObjectID, committee, portfolio string) error {
	participant, err := h.store.GetParticipant(ctx, participantId)
	if database.IsNotFound(err) || (err == nil && participant.ConferenceId != confId) {
		return notFound(fmt.Sprintf("participant %v not found in conference %v", participantId.Hex(), confId.Hex()))
	}
	if err != nil {
		return err
	}
	return h.store.UpdateAssignment(ctx, participantId, committee, portfolio)
}

type allotmentBatchRequest struct {
	Proposals []allotment.Proposal `json:"proposals" validate:"dive"`
	// Strict also refuses seats already held by participants outside the batch.
	Strict bool `json:"strict"`
}

// SubmitAllotments checks a batch of proposals for duplicate seats and, when
// there are none, writes them one participant at a time. The response lists
// the outcome of every row.
func (h *Handler) SubmitAllotments(c *fiber.Ctx) error {
	conf, err := h.ownedConference(c)
	if err != nil {
		return h.fail(c, err)
	}

	req := new(allotmentBatchRequest)
	if err := c.BodyParser(req); err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect input for allotment batch: %v", err))
	}
	fields, err := validation.Struct(req)
	if err != nil {
		return h.fail(c, err)
	}
	if fields != nil {
		return errors.RaiseValidationError(c, fields)
	}

	batch := allotment.NewBatch()
	for _, p := range req.Proposals {
		batch.Set(strings.TrimSpace(p.ParticipantId), strings.TrimSpace(p.Committee), strings.TrimSpace(p.Portfolio))
	}
	if invalidIds := allotment.InvalidProposals(conf.CommitteeMatrix, batch); len(invalidIds) > 0 {
		return errors.RaiseBadRequestError(c,
			fmt.Sprintf("portfolio does not belong to the chosen committee for participants %s", strings.Join(invalidIds, ", ")))
	}

	participants, err := h.store.GetParticipants(c.UserContext(), conf.Id)
	if err != nil {
		return h.fail(c, err)
	}

	ids, persisted := participantSeats(participants)
	updater := allotment.UpdaterFunc(func(ctx context.Context, participantId, committee, portfolio string) error {
		id, err := primitive.ObjectIDFromHex(participantId)
		if err != nil {
			return err
		}
		return h.updateAssignment(ctx, conf.Id, id, committee, portfolio)
	})

	report, err := allotment.NewSubmitter(updater, h.logger).
		Submit(c.UserContext(), ids, batch, allotment.SubmitOptions{Persisted: persisted, Strict: req.Strict})
	var conflictErr *allotment.ConflictError
	if goerrors.As(err, &conflictErr) {
		return errors.RaiseConflictError(c, fiber.Map{
			"reason":    "Duplicate portfolio detected. Fix conflicts before submitting.",
			"conflicts": conflictErr.ParticipantIds,
		})
	}
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(report)
}

// GetAllotments shows which portfolios are taken in every committee and who is still unassigned.
func (h *Handler) GetAllotments(c *fiber.Ctx) error {
	conf, err := h.ownedConference(c)
	if err != nil {
		return h.fail(c, err)
	}
	participants, err := h.store.GetParticipants(c.UserContext(), conf.Id)
	if err != nil {
		return h.fail(c, err)
	}

	assigned := allotment.Assigned{}
	unassigned := []string{}
	for _, p := range participants {
		if p.IsAllotted() {
			assigned.Add(p.Committee, p.Portfolio)
		} else {
			unassigned = append(unassigned, p.Id.Hex())
		}
	}

	return c.JSON(fiber.Map{"assigned": assigned, "unassigned": unassigned})
}

func participantSeats(participants []model.Participant) ([]string, []allotment.Proposal) {
	ids := make([]string, 0, len(participants))
	seats := make([]allotment.Proposal, 0, len(participants))
	for _, p := range participants {
		ids = append(ids, p.Id.Hex())
		if p.IsAllotted() {
			seats = append(seats, allotment.Proposal{ParticipantId: p.Id.Hex(), Committee: p.Committee, Portfolio: p.Portfolio})
		}
	}
	return ids, seats
}
