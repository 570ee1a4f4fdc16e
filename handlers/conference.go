package handlers

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"conference-webapp/allotment"
	"conference-webapp/errors"
	"conference-webapp/middleware"
	"conference-webapp/model"
	"conference-webapp/validation"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetConferences lists the caller's own conferences for organisers and every conference otherwise.
func (h *Handler) GetConferences(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	organiser := ""
	if identity.IsOrganiser() {
		organiser = identity.Login
	}

	conferences, err := h.store.GetConferences(c.UserContext(), organiser)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(conferences)
}

func (h *Handler) GetConference(c *fiber.Ctx) error {
	conf, err := h.conference(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(conf)
}

func (h *Handler) CreateNewConference(c *fiber.Ctx) error {
	newConf := new(model.Conference)
	if jsonErr := c.BodyParser(newConf); jsonErr != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("unacceptable conference parameters: %v", jsonErr))
	}
	newConf.Id = primitive.NewObjectID()
	newConf.OrganiserEmail = middleware.GetIdentity(c).Login
	newConf.CreatedAt = time.Now().UTC()
	normalizeConference(newConf)

	if err := validateConferenceInfoInput(*newConf); err != nil {
		return h.fail(c, err)
	}

	if err := h.store.CreateConference(c.UserContext(), *newConf); err != nil {
		return h.fail(c, err)
	}
	h.logger.Info("conference created", "conference", newConf.Id.Hex(), "organiser", newConf.OrganiserEmail)

	return c.Status(fiber.StatusCreated).JSON(newConf)
}

func (h *Handler) UpdateConference(c *fiber.Ctx) error {
	conf, err := h.ownedConference(c)
	if err != nil {
		return h.fail(c, err)
	}

	updatedConf := new(model.Conference)
	if jsonErr := c.BodyParser(updatedConf); jsonErr != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("unacceptable conference parameters: %v", jsonErr))
	}
	updatedConf.Id = conf.Id
	updatedConf.OrganiserEmail = conf.OrganiserEmail
	updatedConf.CreatedAt = conf.CreatedAt
	normalizeConference(updatedConf)

	if err := validateConferenceInfoInput(*updatedConf); err != nil {
		return h.fail(c, err)
	}

	if err := h.store.UpdateConference(c.UserContext(), *updatedConf); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(updatedConf)
}

func (h *Handler) DeleteConference(c *fiber.Ctx) error {
	conf, err := h.ownedConference(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.store.DeleteConference(c.UserContext(), conf.Id); err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "entity deleted",
		"data":    fmt.Sprintf("conference with id %v was deleted", conf.Id.Hex())})
}

// GetPortfolioOptions lists the portfolios that may be chosen in a committee, in matrix order.
func (h *Handler) GetPortfolioOptions(c *fiber.Ctx) error {
	conf, err := h.conference(c)
	if err != nil {
		return h.fail(c, err)
	}
	committee, err := url.PathUnescape(c.Params("committee"))
	if err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("malformed committee name: %v", err))
	}
	if _, ok := conf.CommitteeMatrix[committee]; !ok {
		return errors.RaiseNotFoundError(c, fmt.Sprintf("committee %q not found in conference %v", committee, conf.Id.Hex()))
	}

	return c.JSON(fiber.Map{
		"committee":  committee,
		"portfolios": allotment.PortfolioOptions(conf.CommitteeMatrix, committee),
	})
}

// GetCommitteeOptions lists the committees that have portfolios to allot.
func (h *Handler) GetCommitteeOptions(c *fiber.Ctx) error {
	conf, err := h.conference(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(allotment.CommitteeOptions(conf.Committees, conf.CommitteeMatrix))
}

func normalizeConference(conf *model.Conference) {
	conf.Name = strings.TrimSpace(conf.Name)
	conf.Venue = strings.TrimSpace(conf.Venue)
	conf.Committees = trimAll(conf.Committees)
	conf.Agendas = trimAll(conf.Agendas)
	conf.Announcements = trimAll(conf.Announcements)
	if len(conf.CommitteeMatrix) == 0 {
		return
	}
	matrix := make(map[string][]string, len(conf.CommitteeMatrix))
	for committee, portfolios := range conf.CommitteeMatrix {
		matrix[strings.TrimSpace(committee)] = trimAll(portfolios)
	}
	conf.CommitteeMatrix = matrix
}

// trimAll trims every entry and drops the ones left empty.
func trimAll(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func validateConferenceInfoInput(conf model.Conference) error {
	fields, err := validation.Struct(conf)
	if err != nil {
		return err
	}
	if fields != nil {
		return invalid(fields)
	}
	if err := allotment.ValidateMatrix(conf.CommitteeMatrix); err != nil {
		return badRequest(fmt.Sprintf("incorrect committee matrix: %v", err))
	}
	return nil
}
