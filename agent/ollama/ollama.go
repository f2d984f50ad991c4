// Package ollama implements the agent contract against a locally hosted
// Ollama server. The provider takes a single flattened prompt string and a
// generation-options object and requires no authentication; the base address
// defaults to the well-known local endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/eduforge/agentkit/agent"
	"github.com/eduforge/agentkit/config"
)

// Options configure the Ollama agent beyond what the profile carries.
type Options struct {
	agent.BaseOptions
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Agent talks to an Ollama server's /api/generate endpoint.
type Agent struct {
	agent.BaseAgent
	client  *http.Client
	baseURL string
}

type generateRequest struct {
	Model   string           `json:"model"`
	Prompt  string           `json:"prompt"`
	Stream  bool             `json:"stream"`
	Options *generateOptions `json:"options,omitempty"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// New constructs an Ollama agent. The profile's base address is resolved to
// the default local endpoint during normalization, so construction cannot
// fail on a missing address.
func New(profile config.AgentProfile, optFns ...func(o *Options)) (*Agent, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	a := &Agent{
		BaseAgent: agent.NewBaseAgent(profile, agent.WithBase(opts.BaseOptions)),
		client:    client,
	}
	a.baseURL = strings.TrimRight(a.Config().Endpoint.BaseURL, "/")
	return a, nil
}

// Process implements the agent contract.
func (a *Agent) Process(ctx context.Context, req agent.Request) agent.Result {
	return a.Execute(ctx, req, a.call)
}

// call issues one generate attempt with the flattened prompt: each active
// fragment followed by a blank line, then the ad-hoc context, then
// "User: " plus the prompt.
func (a *Agent) call(ctx context.Context, req agent.Request) (string, error) {
	profile := a.Config()
	cfg := agent.ResolveParams(profile.Endpoint, req.Overrides)

	body, err := json.Marshal(&generateRequest{
		Model:  cfg.Model,
		Prompt: agent.FlattenPrompt(profile.Fragments, req.Context, req.Prompt),
		Stream: false,
		Options: &generateOptions{
			Temperature: cfg.Temperature,
			TopP:        cfg.TopP,
			NumPredict:  cfg.MaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode generate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", &agent.NetworkError{Provider: string(config.ProviderOllama), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", &agent.NetworkError{
			Provider: string(config.ProviderOllama),
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("ollama returned %s", resp.Status),
		}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	return out.Response, nil
}
