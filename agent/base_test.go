package agent

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduforge/agentkit/config"
)

type recordingStateStore struct {
	mu    sync.Mutex
	saves []RuntimeState
}

func (r *recordingStateStore) Save(_ context.Context, _ string, st RuntimeState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, st)
	return nil
}

func (r *recordingStateStore) statuses() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Status, len(r.saves))
	for i, st := range r.saves {
		out[i] = st.Status
	}
	return out
}

func testProfile() config.AgentProfile {
	return config.AgentProfile{
		Name: "tester",
		Endpoint: config.EndpointConfig{
			Provider: config.ProviderOllama,
			Model:    "llama3",
		},
		Fragments: []config.ContextFragment{
			config.NewFragment("system", "You are a helpful assistant", 1),
		},
		MaxRetries: 1,
	}
}

func newTestBase(profile config.AgentProfile, states StateStore) *BaseAgent {
	base := NewBaseAgent(profile, func(o *BaseOptions) {
		o.States = states
		o.Sleep = func(context.Context, time.Duration) error { return nil }
	})
	return &base
}

func TestBaseAgentStartsIdle(t *testing.T) {
	base := newTestBase(testProfile(), nil)

	assert.Equal(t, StatusIdle, base.State().Status)
}

func TestExecuteSuccess(t *testing.T) {
	base := newTestBase(testProfile(), nil)

	res := base.Execute(context.Background(), Request{Prompt: "Say hi"},
		func(context.Context, Request) (string, error) { return "Hello!", nil })

	assert.True(t, res.Success)
	assert.Equal(t, "Hello!", res.Response)
	assert.Empty(t, res.Error)
	assert.GreaterOrEqual(t, res.ElapsedMS, int64(0))

	st := base.State()
	assert.Equal(t, StatusCompleted, st.Status)
	assert.Equal(t, "Hello!", st.LastResponse)
	assert.Empty(t, st.LastError)
}

func TestExecuteRejectsEmptyPrompt(t *testing.T) {
	base := newTestBase(testProfile(), nil)

	called := false
	res := base.Execute(context.Background(), Request{Prompt: "   "},
		func(context.Context, Request) (string, error) { called = true; return "", nil })

	assert.False(t, called, "validation must run before any network attempt")
	assert.False(t, res.Success)
	assert.Empty(t, res.Response)
	assert.Contains(t, res.Error, "prompt")
	assert.Equal(t, StatusError, base.State().Status)
}

func TestValidateReturnsTypedError(t *testing.T) {
	base := newTestBase(testProfile(), nil)

	err := base.Validate(Request{})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "prompt", ve.Field)
}

func TestValidateRejectsMissingCredential(t *testing.T) {
	profile := testProfile()
	profile.Endpoint.Provider = config.ProviderOpenAI
	profile.Endpoint.Model = "gpt-4"
	base := newTestBase(profile, nil)

	err := base.Validate(Request{Prompt: "Say hi"})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Reason, "api key")
}

func TestExecuteRecoversFromPanic(t *testing.T) {
	base := newTestBase(testProfile(), nil)

	res := base.Execute(context.Background(), Request{Prompt: "Say hi"},
		func(context.Context, Request) (string, error) { panic("payload construction blew up") })

	assert.False(t, res.Success)
	assert.Empty(t, res.Response)
	assert.Contains(t, res.Error, "unexpected error")
	assert.Equal(t, StatusError, base.State().Status)
}

func TestExecuteRetriesNetworkErrors(t *testing.T) {
	profile := testProfile()
	profile.MaxRetries = 3
	base := newTestBase(profile, nil)

	calls := 0
	res := base.Execute(context.Background(), Request{Prompt: "Say hi"},
		func(context.Context, Request) (string, error) {
			calls++
			if calls < 3 {
				return "", &NetworkError{Provider: "ollama", Status: 503, Err: fmt.Errorf("unavailable")}
			}
			return "recovered", nil
		})

	assert.True(t, res.Success)
	assert.Equal(t, "recovered", res.Response)
	assert.Equal(t, 3, calls)
}

func TestExecuteDoesNotRetryNonNetworkErrors(t *testing.T) {
	profile := testProfile()
	profile.MaxRetries = 3
	base := newTestBase(profile, nil)

	calls := 0
	res := base.Execute(context.Background(), Request{Prompt: "Say hi"},
		func(context.Context, Request) (string, error) {
			calls++
			return "", fmt.Errorf("malformed response body")
		})

	assert.False(t, res.Success)
	assert.Equal(t, 1, calls)
	assert.Contains(t, res.Error, "malformed response body")
}

func TestExecuteAppliesProfileTimeout(t *testing.T) {
	profile := testProfile()
	profile.Timeout = 50 * time.Millisecond
	base := newTestBase(profile, nil)

	var hadDeadline bool
	res := base.Execute(context.Background(), Request{Prompt: "Say hi"},
		func(ctx context.Context, _ Request) (string, error) {
			_, hadDeadline = ctx.Deadline()
			return "ok", nil
		})

	assert.True(t, res.Success)
	assert.True(t, hadDeadline, "profile timeout must bound the transport call")
}

func TestExecuteMirrorsStateTransitions(t *testing.T) {
	states := &recordingStateStore{}
	base := newTestBase(testProfile(), states)

	res := base.Execute(context.Background(), Request{Prompt: "Say hi"},
		func(context.Context, Request) (string, error) { return "Hello!", nil })

	require.True(t, res.Success)
	assert.Equal(t, []Status{StatusRunning, StatusCompleted}, states.statuses())
}

func TestConfigReturnsDefensiveCopy(t *testing.T) {
	base := newTestBase(testProfile(), nil)

	cfg := base.Config()
	require.NotEmpty(t, cfg.Fragments)
	cfg.Fragments[0].Content = "tampered"

	assert.Equal(t, "You are a helpful assistant", base.Config().Fragments[0].Content)
}

func TestResolveParamsOverrides(t *testing.T) {
	cfg := config.EndpointConfig{MaxTokens: 2000, Temperature: 0.7, TopP: 1.0}

	temp := 0.2
	tokens := 100
	resolved := ResolveParams(cfg, &Overrides{Temperature: &temp, MaxTokens: &tokens})

	assert.Equal(t, 0.2, resolved.Temperature)
	assert.Equal(t, 100, resolved.MaxTokens)
	assert.Equal(t, 1.0, resolved.TopP, "unset overrides fall back to the profile")
	assert.Equal(t, 2000, cfg.MaxTokens, "original config untouched")
}
