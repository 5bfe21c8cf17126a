package identity

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Optional decodes a bearer token when one is presented and leaves the parsed
// token in the request locals. Requests without an Authorization header pass
// through untouched, so checkout stays open to guests. Issuing tokens is not
// this service's job; it only consumes them.
func Optional(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: []byte(secret),
		Filter: func(c *fiber.Ctx) bool {
			return c.Get(fiber.HeaderAuthorization) == ""
		},
	})
}

// UserIDFromCtx extracts the user_id claim from the JWT token stored in
// c.Locals("user"). Returns 0 when the request carried no usable identity.
func UserIDFromCtx(c *fiber.Ctx) int {
	u := c.Locals("user")
	if u == nil {
		return 0
	}
	tok, ok := u.(*jwt.Token)
	if !ok {
		return 0
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0
	}
	switch v := claims["user_id"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if id, err := strconv.Atoi(v); err == nil {
			return id
		}
	}
	return 0
}
