package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentflow/agentflow-api/internal/apperror"
	"github.com/agentflow/agentflow-api/internal/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := logger.New("test", "warn", false)
	return NewClient("test-token", "12345", log).WithBaseURL(srv.URL)
}

func TestSendTextStripsPlusAndReturnsProviderID(t *testing.T) {
	var got textPayload
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(SendMessageResponse{
			Messages: []struct {
				ID string `json:"id"`
			}{{ID: "wamid.abc"}},
		})
	})

	id, err := client.SendText(context.Background(), "+972501234567", "hello")

	assert.NoError(t, err)
	assert.Equal(t, "wamid.abc", id)
	assert.Equal(t, "972501234567", got.To, "leading + is stripped")
	assert.Equal(t, "hello", got.Text.Body)
}

func TestSendSurfacesProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "invalid recipient", "type": "OAuthException", "code": 131026},
		})
	})

	_, err := client.SendText(context.Background(), "972501234567", "hello")

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeThirdPartyAPI, appErr.Code)
	assert.Equal(t, "invalid recipient", appErr.Message)
	assert.Equal(t, 131026, appErr.Details["provider_code"])
}

func TestSendFailsFastWhenUnconfigured(t *testing.T) {
	log := logger.New("test", "warn", false)
	client := NewClient("", "", log)

	_, err := client.SendText(context.Background(), "972501234567", "hello")
	assert.True(t, apperror.Is(err, apperror.CodeServiceUnavailable))
}

func TestSendTemplateBuildsComponents(t *testing.T) {
	var got textPayload
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(SendMessageResponse{})
	})

	_, err := client.SendTemplate(context.Background(), "972501234567", "welcome", "he", []string{"Dana"})

	assert.NoError(t, err)
	assert.Equal(t, "template", got.Type)
	assert.Equal(t, "welcome", got.Template.Name)
	assert.Equal(t, "he", got.Template.Language.Code)
	assert.Equal(t, "Dana", got.Template.Components[0].Parameters[0].Text)
}
