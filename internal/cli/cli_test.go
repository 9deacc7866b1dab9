package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"enterprise-assistant-be/internal/dto"
	"enterprise-assistant-be/internal/pkg/serverutils"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPages(t *testing.T) {
	pages := SplitPages("Intro\f\f  \fLeave policy\fVPN guide  ")

	require.Len(t, pages, 3)
	assert.Equal(t, 1, *pages[0].Page)
	assert.Equal(t, 4, *pages[1].Page)
	assert.Equal(t, "VPN guide", pages[2].Text)
}

func newServer(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv.URL
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestChatOneShotSendsMessage(t *testing.T) {
	var got dto.InvokeRequest
	url := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/assistant/v1/invoke", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(serverutils.SuccessResponse("Success", dto.InvokeResponse{
			SessionId: "s-9",
			Output:    "I detected this as an issue. Do you want me to create an IT ticket?",
			Kind:      "confirm_prompt",
		}))
	})

	out, err := run(t, "--server", url, "--token", "secret", "chat", "--session", "s-9", "my", "laptop", "broke")
	require.NoError(t, err)

	assert.Equal(t, "s-9", got.SessionId)
	require.NotNil(t, got.Message)
	assert.Equal(t, "my laptop broke", *got.Message)
	assert.Contains(t, out, "assistant> I detected this as an issue.")
}

func TestTicketsListsRowsAndSurfacesErrors(t *testing.T) {
	url := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("status") == "BAD" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(serverutils.ErrorResponse(400, "status must be at most 16"))
			return
		}
		json.NewEncoder(w).Encode(serverutils.SuccessResponse("ok", []dto.TicketResponse{
			{Id: "TICKET-1002", Status: "OPEN", Priority: "MEDIUM", RequesterName: "User", Issue: "VPN down"},
		}))
	})

	out, err := run(t, "--server", url, "tickets")
	require.NoError(t, err)
	assert.Contains(t, out, "TICKET-1002")
	assert.True(t, strings.HasPrefix(out, "ID"))

	_, err = run(t, "--server", url, "tickets", "--status", "BAD")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Code)
}
