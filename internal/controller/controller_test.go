package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"enterprise-assistant-be/internal/dto"
	"enterprise-assistant-be/internal/pkg/logger"
	"enterprise-assistant-be/internal/pkg/serverutils"
	"enterprise-assistant-be/internal/service"
	"enterprise-assistant-be/pkg/assistant/action"
	"enterprise-assistant-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssistant struct {
	lastRequester store.Requester
	invokeErr     error
}

func (f *fakeAssistant) CreateSession(context.Context, store.Requester) (*dto.CreateSessionResponse, error) {
	return &dto.CreateSessionResponse{SessionId: "s-1"}, nil
}

func (f *fakeAssistant) GetSession(_ context.Context, id string) (*dto.SessionResponse, error) {
	if id != "s-1" {
		return nil, fmt.Errorf("session %s: %w", id, service.ErrNotFound)
	}
	return &dto.SessionResponse{SessionId: id}, nil
}

func (f *fakeAssistant) ResetSession(context.Context, string) error { return nil }

func (f *fakeAssistant) Invoke(_ context.Context, sessionID, text string, requester store.Requester) (*dto.InvokeResponse, error) {
	f.lastRequester = requester
	if f.invokeErr != nil {
		return nil, f.invokeErr
	}
	return &dto.InvokeResponse{SessionId: sessionID, Output: "echo: " + text, Kind: "answer"}, nil
}

type fakeRecords struct {
	service.IRecordService
}

func (fakeRecords) GetTicket(_ context.Context, id string) (*dto.TicketResponse, error) {
	if id == "TICKET-1001" {
		return &dto.TicketResponse{Id: id, Status: action.TicketStatusOpen}, nil
	}
	return nil, fmt.Errorf("ticket %s: %w", id, service.ErrNotFound)
}

func (fakeRecords) UpdateTicketStatus(_ context.Context, id, status string) (*dto.TicketResponse, error) {
	return &dto.TicketResponse{Id: id, Status: status}, nil
}

func newTestApp(register func(r fiber.Router)) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(logger.NewNopLogger()))
	register(app.Group("/api"))
	return app
}

func decode(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestAssistantController_Invoke(t *testing.T) {
	fake := &fakeAssistant{}
	app := newTestApp(NewAssistantController(fake, "", 0, logger.NewNopLogger()).RegisterRoutes)

	req := httptest.NewRequest("POST", "/api/assistant/v1/invoke", strings.NewReader(`{"session_id":"s-1","message":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "echo: hello", data["output"])
	assert.Equal(t, store.DefaultRequesterName, fake.lastRequester.Name)
}

func TestAssistantController_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"invalid input", fmt.Errorf("%w: message is required", service.ErrInvalidInput), 400, "invalid input: message is required"},
		{"busy", service.ErrBusy, 409, service.ErrBusy.Error()},
		{"internal", errors.New("pq: connection refused"), 500, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(NewAssistantController(&fakeAssistant{invokeErr: tt.err}, "", 0, logger.NewNopLogger()).RegisterRoutes)

			req := httptest.NewRequest("POST", "/api/assistant/v1/invoke", strings.NewReader(`{"message":"hi"}`))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, tt.code, resp.StatusCode)
			assert.Equal(t, tt.msg, decode(t, resp.Body)["message"])
		})
	}
}

func TestAssistantController_MissingMessageIsRejected(t *testing.T) {
	app := newTestApp(NewAssistantController(&fakeAssistant{}, "", 0, logger.NewNopLogger()).RegisterRoutes)

	req := httptest.NewRequest("POST", "/api/assistant/v1/invoke", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestAssistantController_EmptyMessageReachesService(t *testing.T) {
	app := newTestApp(NewAssistantController(&fakeAssistant{}, "", 0, logger.NewNopLogger()).RegisterRoutes)

	req := httptest.NewRequest("POST", "/api/assistant/v1/invoke", strings.NewReader(`{"session_id":"s-1","message":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "echo: ", decode(t, resp.Body)["data"].(map[string]interface{})["output"])
}

func TestAssistantController_UnknownSessionIs404(t *testing.T) {
	app := newTestApp(NewAssistantController(&fakeAssistant{}, "", 0, logger.NewNopLogger()).RegisterRoutes)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/assistant/v1/sessions/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestRecordController_TicketRoutes(t *testing.T) {
	app := newTestApp(NewRecordController(fakeRecords{}, nil, "").RegisterRoutes)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/tickets/v1/TICKET-1001", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/tickets/v1/TICKET-1", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	req := httptest.NewRequest("PATCH", "/api/tickets/v1/TICKET-1001/status", strings.NewReader(`{"status":"DONE"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode, "status outside the allowed set")

	req = httptest.NewRequest("PATCH", "/api/tickets/v1/TICKET-1001/status", strings.NewReader(`{"status":"RESOLVED"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestHealthController_ReportsDegradedDependency(t *testing.T) {
	app := newTestApp(NewHealthController(map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("dial tcp: refused") },
	}).RegisterRoutes)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)

	data := decode(t, resp.Body)["data"].(map[string]interface{})
	checks := data["checks"].(map[string]interface{})
	assert.Equal(t, "ok", checks["database"])
	assert.Equal(t, "degraded", data["status"])
}
