package handlers

import (
	"fmt"
	"strings"

	"conference-webapp/database"
	"conference-webapp/errors"
	"conference-webapp/middleware"
	"conference-webapp/model"
	"conference-webapp/validation"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type executiveBoardRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Title     string `json:"title" validate:"required"`
	Committee string `json:"committee" validate:"required"`
}

func (h *Handler) GetExecutiveBoard(c *fiber.Ctx) error {
	conf, err := h.conference(c)
	if err != nil {
		return h.fail(c, err)
	}
	members, err := h.store.GetExecutiveBoard(c.UserContext(), conf.Id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(members)
}

func (h *Handler) AddExecutiveBoardMember(c *fiber.Ctx) error {
	conf, err := h.ownedConference(c)
	if err != nil {
		return h.fail(c, err)
	}

	req := new(executiveBoardRequest)
	if err := c.BodyParser(req); err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect input for executive board member: %v", err))
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Title = strings.TrimSpace(req.Title)
	req.Committee = strings.TrimSpace(req.Committee)
	fields, err := validation.Struct(req)
	if err != nil {
		return h.fail(c, err)
	}
	if fields != nil {
		return errors.RaiseValidationError(c, fields)
	}

	user, err := h.store.GetUserData(c.UserContext(), req.Email)
	if database.IsNotFound(err) {
		return errors.RaiseNotFoundError(c, "User not found")
	}
	if err != nil {
		return h.fail(c, err)
	}

	member := model.ExecutiveBoardMember{
		Id:           primitive.NewObjectID(),
		ConferenceId: conf.Id,
		UserId:       user.Id,
		Email:        user.Login,
		Name:         user.Name,
		Title:        req.Title,
		Committee:    req.Committee,
	}
	if err := h.store.CreateExecutiveBoardMember(c.UserContext(), member); err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(member)
}

// ownedExecutiveBoardMember loads the member named in the path and checks the caller organises its conference.
func (h *Handler) ownedExecutiveBoardMember(c *fiber.Ctx) (model.ExecutiveBoardMember, error) {
	execId, err := objectIdParam(c, "execId")
	if err != nil {
		return model.ExecutiveBoardMember{}, err
	}
	member, err := h.store.GetExecutiveBoardMember(c.UserContext(), execId)
	if err != nil {
		return model.ExecutiveBoardMember{}, err
	}
	conf, err := h.store.GetConference(c.UserContext(), member.ConferenceId)
	if err != nil {
		return model.ExecutiveBoardMember{}, err
	}
	if conf.OrganiserEmail != middleware.GetIdentity(c).Login {
		return model.ExecutiveBoardMember{}, forbidden("only the organiser of this conference can perform this operation")
	}
	return member, nil
}

func (h *Handler) UpdateExecutiveBoardMember(c *fiber.Ctx) error {
	member, err := h.ownedExecutiveBoardMember(c)
	if err != nil {
		return h.fail(c, err)
	}

	type updateRequest struct {
		Title     string `json:"title" validate:"required"`
		Committee string `json:"committee" validate:"required"`
	}
	req := new(updateRequest)
	if err := c.BodyParser(req); err != nil {
		return errors.RaiseBadRequestError(c, fmt.Sprintf("incorrect input for executive board member: %v", err))
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Committee = strings.TrimSpace(req.Committee)
	fields, err := validation.Struct(req)
	if err != nil {
		return h.fail(c, err)
	}
	if fields != nil {
		return errors.RaiseValidationError(c, fields)
	}

	member.Title = req.Title
	member.Committee = req.Committee
	if err := h.store.UpdateExecutiveBoardMember(c.UserContext(), member); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(member)
}

func (h *Handler) DeleteExecutiveBoardMember(c *fiber.Ctx) error {
	member, err := h.ownedExecutiveBoardMember(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.store.DeleteExecutiveBoardMember(c.UserContext(), member.Id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
