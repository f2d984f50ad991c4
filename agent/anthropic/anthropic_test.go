package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduforge/agentkit/agent"
	"github.com/eduforge/agentkit/config"
)

// capturedRequest mirrors the subset of the messages wire format the tests
// assert on.
type capturedRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	System    []struct {
		Text string `json:"text"`
	} `json:"system"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"messages"`
}

const messageJSON = `{
	"id": "msg_1",
	"type": "message",
	"role": "assistant",
	"model": "claude-3-5-sonnet-20241022",
	"content": [{"type": "text", "text": "Hello!"}],
	"stop_reason": "end_turn"
}`

func anthropicProfile(baseURL string) config.AgentProfile {
	return config.AgentProfile{
		Name: "tutor",
		Endpoint: config.EndpointConfig{
			Provider: config.ProviderAnthropic,
			Model:    "claude-3-5-sonnet-20241022",
			APIKey:   "test-key",
			BaseURL:  baseURL,
		},
		Fragments: []config.ContextFragment{
			{ID: "f1", Role: "system", Content: "You are a helpful assistant", Priority: 1, Active: true},
			{ID: "f2", Role: "system", Content: "disabled hint", Priority: 2, Active: false},
		},
		MaxRetries: 1,
	}
}

func TestNewRequiresCredential(t *testing.T) {
	profile := anthropicProfile("")
	profile.Endpoint.APIKey = ""

	_, err := New(profile)

	var ce *agent.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "anthropic", ce.Provider)
}

func TestProcessHappyPath(t *testing.T) {
	var got capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messageJSON))
	}))
	defer srv.Close()

	a, err := New(anthropicProfile(srv.URL))
	require.NoError(t, err)

	res := a.Process(context.Background(), agent.Request{Prompt: "Say hi"})

	assert.True(t, res.Success)
	assert.Equal(t, "Hello!", res.Response)
	assert.Empty(t, res.Error)

	assert.Equal(t, "claude-3-5-sonnet-20241022", got.Model)
	require.Len(t, got.System, 1)
	assert.Equal(t, "You are a helpful assistant", got.System[0].Text)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	require.NotEmpty(t, got.Messages[0].Content)
	assert.Equal(t, "Say hi", got.Messages[0].Content[0].Text)
}

func TestProcessAdHocContextAsExtraSystemBlock(t *testing.T) {
	var got capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messageJSON))
	}))
	defer srv.Close()

	a, err := New(anthropicProfile(srv.URL))
	require.NoError(t, err)

	res := a.Process(context.Background(), agent.Request{Prompt: "Say hi", Context: "today is Monday"})

	require.True(t, res.Success)
	require.Len(t, got.System, 2)
	assert.Equal(t, "today is Monday", got.System[1].Text)
}

func TestProcessServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "api_error", "message": "upstream exploded"}}`))
	}))
	defer srv.Close()

	a, err := New(anthropicProfile(srv.URL))
	require.NoError(t, err)

	res := a.Process(context.Background(), agent.Request{Prompt: "Say hi"})

	assert.False(t, res.Success)
	assert.Empty(t, res.Response)
	assert.NotEmpty(t, res.Error)
	assert.Equal(t, agent.StatusError, a.State().Status)
}
