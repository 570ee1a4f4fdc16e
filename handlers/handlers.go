package handlers

import (
	goerrors "errors"
	"fmt"
	"log/slog"
	"time"

	"conference-webapp/database"
	"conference-webapp/errors"
	"conference-webapp/middleware"
	"conference-webapp/model"
	"conference-webapp/validation"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Handler struct {
	store    database.Store
	sign     string
	tokenTTL time.Duration
	logger   *slog.Logger
}

func New(store database.Store, sign string, tokenTTL time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: store, sign: sign, tokenTTL: tokenTTL, logger: logger}
}

// requestError is a client error whose response is decided where it is detected.
type requestError struct {
	status  int
	message string
	data    interface{}
}

func (e *requestError) Error() string {
	return fmt.Sprintf("%s: %v", e.message, e.data)
}

func badRequest(data string) error {
	return &requestError{fiber.StatusBadRequest, "bad request", data}
}

func invalid(fields []validation.FieldError) error {
	return &requestError{fiber.StatusBadRequest, "validation failed", fields}
}

func forbidden(data string) error {
	return &requestError{fiber.StatusForbidden, "forbidden", data}
}

func notFound(data string) error {
	return &requestError{fiber.StatusNotFound, "resource not found", data}
}

// fail writes the error response matching err.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var reqErr *requestError
	switch {
	case goerrors.As(err, &reqErr):
		return errors.RaiseError(c, reqErr.status, reqErr.message, reqErr.data)
	case database.IsNotFound(err):
		return errors.RaiseNotFoundError(c, err.Error())
	case database.IsAlreadyExists(err):
		return errors.RaiseConflictError(c, err.Error())
	default:
		h.logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return errors.RaiseInternalServerError(c, fmt.Sprintf("database error: %v", err))
	}
}

func objectIdParam(c *fiber.Ctx, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params(name))
	if err != nil {
		return primitive.NilObjectID, notFound(fmt.Sprintf("%s %q is not a valid id", name, c.Params(name)))
	}
	return id, nil
}

func (h *Handler) conference(c *fiber.Ctx) (model.Conference, error) {
	confId, err := objectIdParam(c, "confId")
	if err != nil {
		return model.Conference{}, err
	}
	conf, err := h.store.GetConference(c.UserContext(), confId)
	if database.IsNotFound(err) {
		return model.Conference{}, notFound(fmt.Sprintf("conference %v not found", c.Params("confId")))
	}
	return conf, err
}

// ownedConference loads the conference of the request and checks that the caller organises it.
func (h *Handler) ownedConference(c *fiber.Ctx) (model.Conference, error) {
	conf, err := h.conference(c)
	if err != nil {
		return model.Conference{}, err
	}
	if conf.OrganiserEmail != middleware.GetIdentity(c).Login {
		return model.Conference{}, forbidden("only the organiser of this conference can perform this operation")
	}
	return conf, nil
}
