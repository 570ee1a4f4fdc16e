package middleware

import (
	"conference-webapp/errors"
	"conference-webapp/model"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
)

const identityKey = "identity"

func Authorize(sign string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(sign),
		ErrorHandler: jwtError,
		ContextKey:   identityKey,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

// Identity is the caller as described by the verified token.
type Identity struct {
	Login  string
	UserId string
	Role   string
}

func (i Identity) IsOrganiser() bool {
	return i.Role == model.RoleOrganiser
}

func GetIdentity(c *fiber.Ctx) Identity {
	token, ok := c.Locals(identityKey).(*jwt.Token)
	if !ok {
		return Identity{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}
	}
	login, _ := claims["username"].(string)
	userId, _ := claims["uid"].(string)
	role, _ := claims["role"].(string)
	return Identity{Login: login, UserId: userId, Role: role}
}

// RequireOrganiser rejects callers whose token does not carry the organiser role.
func RequireOrganiser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !GetIdentity(c).IsOrganiser() {
			return errors.RaisePermissionsError(c, "only organisers can perform this operation")
		}
		return c.Next()
	}
}
