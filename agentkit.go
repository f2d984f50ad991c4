// Package agentkit provides a uniform abstraction for issuing text-generation
// requests to heterogeneous backend providers. Applications interact with it
// by:
//  1. Creating an AgentKit via New() (optionally overriding the default
//     in-memory profile and state stores)
//  2. Storing agent profiles through the profile store
//  3. Invoking a named profile (Invoke) or constructing an agent directly
//     (CreateAgent) and calling Process
//
// The package-level CreateAgent is the only construction entry point for
// provider implementations; callers never instantiate a provider package
// directly and never branch on provider identity.
package agentkit

import (
	"context"

	"github.com/eduforge/agentkit/agent"
	"github.com/eduforge/agentkit/agent/anthropic"
	"github.com/eduforge/agentkit/agent/ollama"
	"github.com/eduforge/agentkit/agent/openai"
	"github.com/eduforge/agentkit/config"
	"github.com/eduforge/agentkit/logging"
	"github.com/eduforge/agentkit/state"
)

// Options configure the AgentKit instance.
type Options struct {
	// Logger receives invocation outcomes (defaults to a no-op).
	Logger logging.Logger
	// Profiles is the administrative store of agent profiles (defaults to
	// an in-memory store).
	Profiles config.Store
	// States receives runtime-state snapshots from every agent this
	// instance constructs (defaults to an in-memory store).
	States agent.StateStore
}

// AgentKit wires the profile store, state store and logger into every agent
// it constructs.
type AgentKit struct {
	opts Options
}

// New creates an AgentKit with optional overrides. Any unset service is
// initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *AgentKit {
	opts := Options{
		Logger:   logging.NoOpLogger{},
		Profiles: config.NewInMemoryStore(),
		States:   state.NewInMemoryStore(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &AgentKit{opts: opts}
}

// Profiles exposes the profile store for administrative CRUD.
func (k *AgentKit) Profiles() config.Store { return k.opts.Profiles }

// CreateAgent constructs an agent for the profile's provider tag, wired to
// this instance's logger and state store.
func (k *AgentKit) CreateAgent(profile config.AgentProfile) (agent.Agent, error) {
	profile.Normalize()
	return CreateAgent(profile.Endpoint.Provider, profile, func(o *agent.BaseOptions) {
		o.Logger = k.opts.Logger
		o.States = k.opts.States
	})
}

// Invoke resolves a named profile from the store, constructs the matching
// agent and processes the request. The returned error covers only resolution
// and construction; invocation failures arrive inside the Result.
func (k *AgentKit) Invoke(ctx context.Context, profileName string, req agent.Request) (agent.Result, error) {
	profile, err := k.opts.Profiles.Get(profileName)
	if err != nil {
		return agent.Result{}, err
	}
	a, err := k.CreateAgent(profile)
	if err != nil {
		return agent.Result{}, err
	}
	return a.Process(ctx, req), nil
}

// CreateAgent maps a provider tag to a concrete implementation instance.
// Adding a provider means adding one case here plus one implementation
// package; calling code is unaffected. An unknown tag is a configuration
// error naming the unsupported tag.
func CreateAgent(tag config.Provider, profile config.AgentProfile, optFns ...func(o *agent.BaseOptions)) (agent.Agent, error) {
	switch tag {
	case config.ProviderOpenAI:
		return openai.New(profile, func(o *openai.Options) {
			for _, fn := range optFns {
				fn(&o.BaseOptions)
			}
		})
	case config.ProviderAnthropic:
		return anthropic.New(profile, func(o *anthropic.Options) {
			for _, fn := range optFns {
				fn(&o.BaseOptions)
			}
		})
	case config.ProviderOllama:
		return ollama.New(profile, func(o *ollama.Options) {
			for _, fn := range optFns {
				fn(&o.BaseOptions)
			}
		})
	default:
		return nil, &agent.ConfigurationError{
			Provider: string(tag),
			Reason:   "unsupported provider tag",
		}
	}
}
