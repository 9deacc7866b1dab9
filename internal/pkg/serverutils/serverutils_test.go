package serverutils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"enterprise-assistant-be/internal/pkg/logger"
	"enterprise-assistant-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func newApp(required bool) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNopLogger()))
	app.Use(JwtMiddleware(secret, required))
	app.Get("/me", func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse("ok", RequesterFrom(ctx)))
	})
	return app
}

func decode[T any](t *testing.T, resp *http.Response) Response[T] {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out Response[T]
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestJwtMiddleware_OptionalIdentity(t *testing.T) {
	app := newApp(false)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, store.Requester{Name: "User"}, decode[store.Requester](t, resp).Data)

	token := sign(t, jwt.MapClaims{
		"user_id": "u-1",
		"name":    "Dana",
		"email":   "dana@example.com",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, store.Requester{ID: "u-1", Name: "Dana", Email: "dana@example.com"}, decode[store.Requester](t, resp).Data)
}

func TestJwtMiddleware_Required(t *testing.T) {
	app := newApp(true)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	expired := sign(t, jwt.MapClaims{"user_id": "u-1", "exp": time.Now().Add(-time.Hour).Unix()})
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNopLogger()))
	app.Get("/bad", func(*fiber.Ctx) error { return fiber.NewError(fiber.StatusBadRequest, "message is required") })
	app.Get("/boom", func(*fiber.Ctx) error { return io.ErrUnexpectedEOF })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/bad", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[any](t, resp)
	assert.False(t, body.Success)
	assert.Equal(t, "message is required", body.Message)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal server error", decode[any](t, resp).Message)
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		Message string `json:"message" validate:"required,max=5"`
		Status  string `json:"status" validate:"omitempty,oneof=OPEN CLOSED"`
	}

	assert.NoError(t, ValidateRequest(req{Message: "hi"}))

	err := ValidateRequest(req{Message: "", Status: "MAYBE"})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
	assert.Contains(t, fe.Message, "Message is required")
	assert.Contains(t, fe.Message, "Status must be one of [OPEN CLOSED]")
}
