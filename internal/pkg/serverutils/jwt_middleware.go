package serverutils

import (
	"fmt"
	"strings"

	"enterprise-assistant-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const requesterKey = "requester"

// JwtMiddleware reads the requester from a bearer token signed with secret.
// With required=false an absent or invalid token leaves the request
// anonymous; with required=true it is rejected with 401.
func JwtMiddleware(secret string, required bool) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		requester, err := parseBearer(ctx.Get("Authorization"), secret)
		if err != nil {
			if required {
				return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, err.Error()))
			}
			return ctx.Next()
		}

		ctx.Locals(requesterKey, requester)
		return ctx.Next()
	}
}

// RequesterFrom returns the identity set by JwtMiddleware, anonymous if none.
func RequesterFrom(ctx *fiber.Ctx) store.Requester {
	if r, ok := ctx.Locals(requesterKey).(store.Requester); ok {
		return r
	}
	return store.Requester{}.Normalize()
}

func parseBearer(header, secret string) (store.Requester, error) {
	if secret == "" {
		return store.Requester{}, fmt.Errorf("Authentication not configured")
	}
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return store.Requester{}, fmt.Errorf("Missing token")
	}

	token, err := jwt.Parse(header[7:], func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return store.Requester{}, fmt.Errorf("Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return store.Requester{}, fmt.Errorf("Invalid claims")
	}

	r := store.Requester{
		ID:    claimString(claims, "user_id", "sub"),
		Name:  claimString(claims, "name", "full_name"),
		Email: claimString(claims, "email"),
	}
	return r.Normalize(), nil
}

func claimString(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if v, ok := claims[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
