// Package anthropic implements the agent contract against the Anthropic
// Messages API using the official client. Context fragments travel as system
// blocks; the prompt is the single user message.
package anthropic

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/eduforge/agentkit/agent"
	"github.com/eduforge/agentkit/config"
)

// Options configure the Anthropic agent beyond what the profile carries.
type Options struct {
	agent.BaseOptions
	// ClientOptions are appended to the SDK client construction, e.g.
	// option.WithBaseURL to point tests at a local stub.
	ClientOptions []option.RequestOption
}

// Agent talks to the Anthropic Messages API.
type Agent struct {
	agent.BaseAgent
	client anthropic.Client
}

// New constructs an Anthropic agent. A missing credential fails here,
// before any request is attempted.
func New(profile config.AgentProfile, optFns ...func(o *Options)) (*Agent, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	if profile.Endpoint.APIKey == "" {
		return nil, &agent.ConfigurationError{
			Provider: string(config.ProviderAnthropic),
			Reason:   "api key is required",
		}
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(profile.Endpoint.APIKey),
		option.WithMaxRetries(0),
	}
	if profile.Endpoint.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(profile.Endpoint.BaseURL))
	}
	clientOpts = append(clientOpts, opts.ClientOptions...)

	return &Agent{
		BaseAgent: agent.NewBaseAgent(profile, agent.WithBase(opts.BaseOptions)),
		client:    anthropic.NewClient(clientOpts...),
	}, nil
}

// Process implements the agent contract.
func (a *Agent) Process(ctx context.Context, req agent.Request) agent.Result {
	return a.Execute(ctx, req, a.call)
}

// call issues one messages-API attempt. Fragment text and ad-hoc context are
// sent as separate system blocks in assembly order.
func (a *Agent) call(ctx context.Context, req agent.Request) (string, error) {
	profile := a.Config()
	cfg := agent.ResolveParams(profile.Endpoint, req.Overrides)

	var system []anthropic.TextBlockParam
	if sys := agent.SystemText(profile.Fragments); sys != "" {
		system = append(system, anthropic.TextBlockParam{Text: sys})
	}
	if req.Context != "" {
		system = append(system, anthropic.TextBlockParam{Text: req.Context})
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(cfg.Model),
		MaxTokens: int64(cfg.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		Temperature: anthropic.Float(cfg.Temperature),
		TopP:        anthropic.Float(cfg.TopP),
	}
	if len(system) > 0 {
		params.System = system
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", networkError(err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.AsText().Text)
		}
	}
	return text.String(), nil
}

// networkError wraps SDK failures into the shared taxonomy, carrying the HTTP
// status when the SDK surfaced one.
func networkError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &agent.NetworkError{
			Provider: string(config.ProviderAnthropic),
			Status:   apiErr.StatusCode,
			Err:      err,
		}
	}
	return &agent.NetworkError{Provider: string(config.ProviderAnthropic), Err: err}
}
