package handlers

import (
	"strings"
	"time"

	"conference-webapp/database"
	"conference-webapp/errors"
	"conference-webapp/middleware"
	"conference-webapp/model"
	"conference-webapp/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func isPasswordHashCorrect(dbHash, pass string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(dbHash), []byte(pass))
	return err == nil
}

func (h *Handler) issueToken(user model.UserData) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["username"] = user.Login
	claims["uid"] = user.Id.Hex()
	claims["role"] = user.Role
	claims["exp"] = time.Now().Add(h.tokenTTL).Unix()

	return token.SignedString([]byte(h.sign))
}

func (h *Handler) Login(c *fiber.Ctx) error {
	type Credentials struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}

	var creds = new(Credentials)

	if err := c.BodyParser(creds); err != nil {
		return errors.RaiseBadRequestError(c, "Error on login request when parse credentials")
	}

	user, err := h.store.GetUserData(c.UserContext(), strings.TrimSpace(creds.Login))
	if database.IsNotFound(err) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid login or password",
			"data":    nil})
	}
	if err != nil {
		return h.fail(c, err)
	}

	if !isPasswordHashCorrect(user.HashedPassword, creds.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid login or password",
			"data":    nil})
	}

	t, err := h.issueToken(user)
	if err != nil {
		h.logger.Error("signing token", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Success login", "data": t})
}

type signupRequest struct {
	Login    string `json:"login" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=organiser participant"`
}

func (h *Handler) Signup(c *fiber.Ctx) error {
	req := new(signupRequest)
	if err := c.BodyParser(req); err != nil {
		return errors.RaiseBadRequestError(c, "unacceptable signup parameters: "+err.Error())
	}
	req.Login = strings.TrimSpace(req.Login)
	req.Name = strings.TrimSpace(req.Name)

	fields, err := validation.Struct(req)
	if err != nil {
		return h.fail(c, err)
	}
	if fields != nil {
		return errors.RaiseValidationError(c, fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return h.fail(c, err)
	}

	user := model.UserData{
		Id:             primitive.NewObjectID(),
		Login:          req.Login,
		Name:           req.Name,
		HashedPassword: string(hash),
		Role:           req.Role,
	}
	if err := h.store.CreateUser(c.UserContext(), user); err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// SetRole stores the caller's role and answers with a token carrying it.
func (h *Handler) SetRole(c *fiber.Ctx) error {
	type roleRequest struct {
		Role string `json:"role" validate:"required,oneof=organiser participant"`
	}
	req := new(roleRequest)
	if err := c.BodyParser(req); err != nil {
		return errors.RaiseBadRequestError(c, "unacceptable role parameters: "+err.Error())
	}
	fields, err := validation.Struct(req)
	if err != nil {
		return h.fail(c, err)
	}
	if fields != nil {
		return errors.RaiseValidationError(c, fields)
	}

	login := middleware.GetIdentity(c).Login
	if err := h.store.SetUserRole(c.UserContext(), login, req.Role); err != nil {
		return h.fail(c, err)
	}
	user, err := h.store.GetUserData(c.UserContext(), login)
	if err != nil {
		return h.fail(c, err)
	}

	t, err := h.issueToken(user)
	if err != nil {
		h.logger.Error("signing token", "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Role updated", "data": t})
}
