package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eduforge/agentkit/config"
	"github.com/eduforge/agentkit/logging"
)

// CallFunc performs one provider-native attempt: build the payload, issue the
// network call and return the extracted response text. Transport failures are
// returned as *NetworkError so the retry policy can recognize them.
type CallFunc func(ctx context.Context, req Request) (string, error)

// BaseOptions configure the shared machinery of a provider agent.
type BaseOptions struct {
	// Logger receives invocation outcomes; defaults to a no-op.
	Logger logging.Logger
	// States optionally mirrors runtime-state snapshots at each transition.
	States StateStore
	// BaseDelay overrides the backoff base, mainly for tests.
	BaseDelay time.Duration
	// Sleep overrides the backoff wait, mainly for tests.
	Sleep SleepFunc
}

// WithBase copies the set fields of from into the target options. Provider
// packages use it to forward their embedded BaseOptions without clobbering
// defaults with zero values.
func WithBase(from BaseOptions) func(o *BaseOptions) {
	return func(o *BaseOptions) {
		if from.Logger != nil {
			o.Logger = from.Logger
		}
		if from.States != nil {
			o.States = from.States
		}
		if from.BaseDelay > 0 {
			o.BaseDelay = from.BaseDelay
		}
		if from.Sleep != nil {
			o.Sleep = from.Sleep
		}
	}
}

// BaseAgent bundles the provider-agnostic half of every agent: profile
// ownership, the idle/running/completed/error state machine, validation, the
// retry policy and the process error boundary. Embed it in a provider
// implementation and supply a CallFunc via Execute.
//
// BaseAgent contains a mutex and must not be copied after construction.
type BaseAgent struct {
	mu      sync.Mutex
	profile config.AgentProfile
	state   RuntimeState
	retry   RetryPolicy
	logger  logging.Logger
	states  StateStore
}

// NewBaseAgent normalizes the profile and constructs the shared machinery.
// The profile is deep-copied; the agent never writes back into the caller's
// value.
func NewBaseAgent(profile config.AgentProfile, optFns ...func(o *BaseOptions)) BaseAgent {
	opts := BaseOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	profile = profile.Clone()
	profile.Normalize()

	return BaseAgent{
		profile: profile,
		state:   RuntimeState{Status: StatusIdle, UpdatedAt: time.Now()},
		retry: RetryPolicy{
			MaxRetries:  profile.MaxRetries,
			BaseDelay:   opts.BaseDelay,
			ShouldRetry: Retryable,
			Sleep:       opts.Sleep,
		},
		logger: opts.Logger,
		states: opts.States,
	}
}

// Config returns a deep copy of the agent's profile.
func (b *BaseAgent) Config() config.AgentProfile { return b.profile.Clone() }

// State returns a snapshot of the runtime state.
func (b *BaseAgent) State() RuntimeState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Validate rejects empty prompts and profiles missing a required credential
// or address. Runs before any network attempt.
func (b *BaseAgent) Validate(req Request) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return &ValidationError{Field: "prompt", Reason: "must not be empty"}
	}
	if err := b.profile.Endpoint.Validate(); err != nil {
		return &ValidationError{Field: "endpoint", Reason: err.Error()}
	}
	return nil
}

// Execute runs one invocation through the shared pipeline: validate, enter
// running state, issue the call under the retry policy with the profile
// timeout as a per-attempt deadline, and translate every outcome into a
// Result. Execute is the error boundary; it never panics across its return.
func (b *BaseAgent) Execute(ctx context.Context, req Request, call CallFunc) (res Result) {
	start := time.Now()
	invocationID := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			res = b.fail(ctx, start, invocationID, fmt.Errorf("unexpected error: %v", r))
		}
	}()

	if err := b.Validate(req); err != nil {
		return b.fail(ctx, start, invocationID, err)
	}

	b.transition(ctx, func(st *RuntimeState) {
		st.Status = StatusRunning
		st.LastError = ""
	})
	b.logger.Debug("invocation started",
		"agent", b.profile.Name,
		"provider", b.profile.Endpoint.Provider,
		"invocation_id", invocationID,
	)

	var text string
	err := b.retry.Do(ctx, func(ctx context.Context) error {
		callCtx := ctx
		if b.profile.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, b.profile.Timeout)
			defer cancel()
		}
		out, callErr := call(callCtx, req)
		if callErr != nil {
			return callErr
		}
		text = out
		return nil
	})
	if err != nil {
		return b.fail(ctx, start, invocationID, err)
	}

	elapsed := time.Since(start)
	b.transition(ctx, func(st *RuntimeState) {
		st.Status = StatusCompleted
		st.LastResponse = text
		st.LastError = ""
	})
	logging.LogModelCall(b.logger, string(b.profile.Endpoint.Provider), b.profile.Endpoint.Model, elapsed, true, nil)

	return Result{Success: true, Response: text, ElapsedMS: elapsed.Milliseconds()}
}

func (b *BaseAgent) fail(ctx context.Context, start time.Time, invocationID string, err error) Result {
	elapsed := time.Since(start)
	b.transition(ctx, func(st *RuntimeState) {
		st.Status = StatusError
		st.LastError = err.Error()
	})
	logging.LogModelCall(b.logger, string(b.profile.Endpoint.Provider), b.profile.Endpoint.Model, elapsed, false, err)
	b.logger.Debug("invocation failed", "agent", b.profile.Name, "invocation_id", invocationID)

	return Result{Success: false, Response: "", ElapsedMS: elapsed.Milliseconds(), Error: err.Error()}
}

// transition mutates the runtime state under the lock and mirrors the snapshot
// to the state store, if one is attached. Store failures are logged and
// swallowed; state mirroring is observability, not correctness.
func (b *BaseAgent) transition(ctx context.Context, mutate func(st *RuntimeState)) {
	b.mu.Lock()
	mutate(&b.state)
	b.state.UpdatedAt = time.Now()
	snapshot := b.state
	b.mu.Unlock()

	if b.states != nil {
		if err := b.states.Save(ctx, b.profile.Name, snapshot); err != nil {
			b.logger.Warn("state snapshot save failed", "agent", b.profile.Name, "error", err)
		}
	}
}
