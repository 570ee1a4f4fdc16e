package handlers

import (
	"fmt"
	"strings"
	"time"

	"conference-webapp/database"
	"conference-webapp/errors"
	"conference-webapp/middleware"
	"conference-webapp/model"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type registrationRequest struct {
	CommitteePref1 string `json:"committee_pref1"`
	PortfolioPref1 string `json:"portfolio_pref1"`
	CommitteePref2 string `json:"committee_pref2"`
	PortfolioPref2 string `json:"portfolio_pref2"`
	CommitteePref3 string `json:"committee_pref3"`
	PortfolioPref3 string `json:"portfolio_pref3"`
	Remarks        string `json:"remarks"`
}

func (r registrationRequest) preferences() []model.Preference {
	return []model.Preference{
		{Committee: strings.TrimSpace(r.CommitteePref1), Portfolio: strings.TrimSpace(r.PortfolioPref1)},
		{Committee: strings.TrimSpace(r.CommitteePref2), Portfolio: strings.TrimSpace(r.PortfolioPref2)},
		{Committee: strings.TrimSpace(r.CommitteePref3), Portfolio: strings.TrimSpace(r.PortfolioPref3)},
	}
}

// validatePreferences accepts a rank that is empty, names only a committee of
// the conference, or names a committee together with one of its portfolios.
func validatePreferences(conf model.Conference, prefs []model.Preference) error {
	for i, pref := range prefs {
		rank := i + 1
		switch {
		case pref.Committee == "" && pref.Portfolio == "":
			continue
		case pref.Committee == "":
			return badRequest(fmt.Sprintf("preference %d names a portfolio without a committee", rank))
		}
		if _, ok := conf.CommitteeMatrix[pref.Committee]; !ok {
			return badRequest(fmt.Sprintf("preference %d: committee %q is not part of this conference", rank, pref.Committee))
		}
		if pref.Portfolio != "" && !conf.HasPortfolio(pref.Committee, pref.Portfolio) {
			return badRequest(fmt.Sprintf("preference %d: portfolio %q is not part of committee %q", rank, pref.Portfolio, pref.Committee))
		}
	}
	return nil
}

func callerId(c *fiber.Ctx) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(middleware.GetIdentity(c).UserId)
	if err != nil {
		return primitive.NilObjectID, &requestError{fiber.StatusUnauthorized, "lack of permissions", "token does not identify a user"}
	}
	return id, nil
}

// Register signs the caller up for the conference with their ranked preferences.
func (h *Handler) Register(c *fiber.Ctx) error {
	conf, err := h.conference(c)
	if err != nil {
		return h.fail(c, err)
	}
	userId, err := callerId(c)
	if err != nil {
		return h.fail(c, err)
	}

	req := new(registrationRequest)
	if err := c.BodyParser(req); err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect input for registration parameters: %v", err))
	}
	prefs := req.preferences()
	if err := validatePreferences(conf, prefs); err != nil {
		return h.fail(c, err)
	}

	user, err := h.store.GetUserData(c.UserContext(), middleware.GetIdentity(c).Login)
	if err != nil {
		return h.fail(c, err)
	}

	participant := model.Participant{
		Id:             primitive.NewObjectID(),
		ConferenceId:   conf.Id,
		UserId:         userId,
		Name:           user.Name,
		Email:          user.Login,
		CommitteePref1: prefs[0].Committee,
		PortfolioPref1: prefs[0].Portfolio,
		CommitteePref2: prefs[1].Committee,
		PortfolioPref2: prefs[1].Portfolio,
		CommitteePref3: prefs[2].Committee,
		PortfolioPref3: prefs[2].Portfolio,
		Remarks:        strings.TrimSpace(req.Remarks),
		CreatedAt:      time.Now().UTC(),
	}
	err = h.store.CreateParticipant(c.UserContext(), participant)
	if database.IsAlreadyExists(err) {
		return errors.RaiseConflictError(c, "Already registered")
	}
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(participant)
}

func (h *Handler) IsRegistered(c *fiber.Ctx) error {
	conf, err := h.conference(c)
	if err != nil {
		return h.fail(c, err)
	}
	userId, err := callerId(c)
	if err != nil {
		return h.fail(c, err)
	}

	_, err = h.store.GetParticipantByUser(c.UserContext(), conf.Id, userId)
	if database.IsNotFound(err) {
		return c.JSON(fiber.Map{"isRegistered": false})
	}
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"isRegistered": true})
}

// GetMyParticipant returns the caller's registration, including the current allotment.
func (h *Handler) GetMyParticipant(c *fiber.Ctx) error {
	conf, err := h.conference(c)
	if err != nil {
		return h.fail(c, err)
	}
	userId, err := callerId(c)
	if err != nil {
		return h.fail(c, err)
	}

	participant, err := h.store.GetParticipantByUser(c.UserContext(), conf.Id, userId)
	if database.IsNotFound(err) {
		return errors.RaiseNotFoundError(c, "Participant not found")
	}
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(participant)
}

func (h *Handler) GetParticipants(c *fiber.Ctx) error {
	conf, err := h.ownedConference(c)
	if err != nil {
		return h.fail(c, err)
	}

	participants, err := h.store.GetParticipants(c.UserContext(), conf.Id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(participants)
}
