// Package openai implements the agent contract against the OpenAI Chat
// Completions API using the official client. It builds the structured message
// list from the profile's context fragments and translates SDK errors into
// the shared taxonomy.
package openai

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/eduforge/agentkit/agent"
	"github.com/eduforge/agentkit/config"
)

// Options configure the OpenAI agent beyond what the profile carries.
type Options struct {
	agent.BaseOptions
	// ClientOptions are appended to the SDK client construction, e.g.
	// option.WithBaseURL to point tests at a local stub.
	ClientOptions []option.RequestOption
}

// Agent talks to the OpenAI Chat Completions API.
type Agent struct {
	agent.BaseAgent
	client openai.Client
}

// New constructs an OpenAI agent. A missing credential is a deployment
// mistake and fails synchronously here, before any request is attempted.
func New(profile config.AgentProfile, optFns ...func(o *Options)) (*Agent, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	if profile.Endpoint.APIKey == "" {
		return nil, &agent.ConfigurationError{
			Provider: string(config.ProviderOpenAI),
			Reason:   "api key is required",
		}
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(profile.Endpoint.APIKey),
		// Retrying is owned by the agent; the SDK must not add attempts.
		option.WithMaxRetries(0),
	}
	if profile.Endpoint.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(profile.Endpoint.BaseURL))
	}
	clientOpts = append(clientOpts, opts.ClientOptions...)

	return &Agent{
		BaseAgent: agent.NewBaseAgent(profile, agent.WithBase(opts.BaseOptions)),
		client:    openai.NewClient(clientOpts...),
	}, nil
}

// Process implements the agent contract.
func (a *Agent) Process(ctx context.Context, req agent.Request) agent.Result {
	return a.Execute(ctx, req, a.call)
}

// call issues one chat-completion attempt. The message list is one system
// message concatenating all active fragments in priority order, an optional
// system message for the ad-hoc context, then the user prompt.
func (a *Agent) call(ctx context.Context, req agent.Request) (string, error) {
	profile := a.Config()
	cfg := agent.ResolveParams(profile.Endpoint, req.Overrides)

	var messages []openai.ChatCompletionMessageParamUnion
	if sys := agent.SystemText(profile.Fragments); sys != "" {
		messages = append(messages, openai.SystemMessage(sys))
	}
	if req.Context != "" {
		messages = append(messages, openai.SystemMessage(req.Context))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               cfg.Model,
		Temperature:         openai.Float(cfg.Temperature),
		TopP:                openai.Float(cfg.TopP),
		FrequencyPenalty:    openai.Float(cfg.FrequencyPenalty),
		PresencePenalty:     openai.Float(cfg.PresencePenalty),
		MaxCompletionTokens: openai.Int(int64(cfg.MaxTokens)),
	}

	resp, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", networkError(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// networkError wraps SDK failures into the shared taxonomy, carrying the HTTP
// status when the SDK surfaced one.
func networkError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &agent.NetworkError{
			Provider: string(config.ProviderOpenAI),
			Status:   apiErr.StatusCode,
			Err:      err,
		}
	}
	return &agent.NetworkError{Provider: string(config.ProviderOpenAI), Err: err}
}
