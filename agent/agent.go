package agent

import (
	"context"
	"time"

	"github.com/eduforge/agentkit/config"
)

// Agent is the uniform capability every provider implementation satisfies.
// Implementations own the wire-format translation for one backend; callers
// never branch on provider identity.
type Agent interface {
	// Validate rejects a request whose prompt is empty or whose resolved
	// configuration is missing a required credential or address. It runs
	// before any network attempt.
	Validate(req Request) error

	// Process is the sole invocation entry point. All failure modes,
	// including exhausted retries, are reported through the returned
	// Result; Process never panics across its boundary.
	Process(ctx context.Context, req Request) Result

	// Config returns a copy of the profile the agent was built from.
	Config() config.AgentProfile

	// State returns a snapshot of the agent's runtime state.
	State() RuntimeState
}

// Overrides carries optional per-request generation parameters. Nil fields
// fall back to the profile's endpoint configuration.
type Overrides struct {
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
}

// Request is the uniform input for one invocation. Context is an optional
// ad-hoc background block appended after the profile's fragments and before
// the prompt.
type Request struct {
	Prompt    string     `json:"prompt"`
	Context   string     `json:"context,omitempty"`
	Overrides *Overrides `json:"overrides,omitempty"`
}

// Result is the uniform output of one invocation. It is never partially
// populated: either Success with a response and empty Error, or failure with
// an empty response and a non-empty Error.
type Result struct {
	Success   bool   `json:"success"`
	Response  string `json:"response"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Error     string `json:"error,omitempty"`
}

// Status enumerates the per-invocation state machine.
type Status string

const (
	// StatusIdle means no invocation has started yet.
	StatusIdle Status = "idle"
	// StatusRunning means an invocation is in flight.
	StatusRunning Status = "running"
	// StatusCompleted means the most recent invocation succeeded.
	StatusCompleted Status = "completed"
	// StatusError means the most recent invocation failed.
	StatusError Status = "error"
)

// RuntimeState is the snapshot of an agent instance's most recent activity.
// Owned exclusively by the instance; accessors return copies.
type RuntimeState struct {
	Status       Status    `json:"status"`
	LastError    string    `json:"last_error,omitempty"`
	LastResponse string    `json:"last_response,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StateStore receives runtime-state snapshots at each transition so external
// dashboards can observe agent health without a reference to the instance.
// Implementations live in the state package.
type StateStore interface {
	Save(ctx context.Context, agentName string, st RuntimeState) error
}

// ResolveParams returns a copy of the endpoint config with any request
// overrides applied. Providers call it once per invocation so the profile
// itself stays immutable.
func ResolveParams(cfg config.EndpointConfig, ov *Overrides) config.EndpointConfig {
	if ov == nil {
		return cfg
	}
	if ov.MaxTokens != nil && *ov.MaxTokens > 0 {
		cfg.MaxTokens = *ov.MaxTokens
	}
	if ov.Temperature != nil {
		cfg.Temperature = *ov.Temperature
	}
	if ov.TopP != nil {
		cfg.TopP = *ov.TopP
	}
	return cfg
}
