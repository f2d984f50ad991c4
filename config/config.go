package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Provider identifies a backend implementation known to the selector.
type Provider string

const (
	// ProviderOpenAI targets the OpenAI chat completions API.
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic targets the Anthropic messages API.
	ProviderAnthropic Provider = "anthropic"
	// ProviderOllama targets a locally hosted Ollama server.
	ProviderOllama Provider = "ollama"
)

// DefaultOllamaBaseURL is the well-known local Ollama endpoint used when a
// profile does not carry its own base address.
const DefaultOllamaBaseURL = "http://localhost:11434"

// Default generation parameters applied by Normalize when unset.
const (
	DefaultMaxTokens   = 2000
	DefaultTemperature = 0.7
	DefaultTopP        = 1.0
	DefaultMaxRetries  = 3
	DefaultTimeout     = 60 * time.Second
)

// EndpointConfig describes one model endpoint: which provider to call, which
// model to request and the generation parameters to send.
type EndpointConfig struct {
	DisplayName      string   `json:"display_name" yaml:"display_name"`
	Provider         Provider `json:"provider" yaml:"provider"`
	Model            string   `json:"model" yaml:"model"`
	MaxTokens        int      `json:"max_tokens" yaml:"max_tokens"`
	Temperature      float64  `json:"temperature" yaml:"temperature"`
	TopP             float64  `json:"top_p" yaml:"top_p"`
	FrequencyPenalty float64  `json:"frequency_penalty" yaml:"frequency_penalty"`
	PresencePenalty  float64  `json:"presence_penalty" yaml:"presence_penalty"`
	APIKey           string   `json:"api_key,omitempty" yaml:"api_key"`
	BaseURL          string   `json:"base_url,omitempty" yaml:"base_url"`
}

// Hosted reports whether the endpoint targets a hosted API that requires a
// credential, as opposed to a locally running server.
func (c EndpointConfig) Hosted() bool {
	return c.Provider == ProviderOpenAI || c.Provider == ProviderAnthropic
}

// Normalize fills unset generation parameters with defaults and resolves the
// base address for local providers. After Normalize every config carries its
// own resolved address; no ambient fallback is consulted later.
func (c *EndpointConfig) Normalize() {
	if c.Provider == "" {
		c.Provider = InferProvider(c.Model)
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.TopP == 0 {
		c.TopP = DefaultTopP
	}
	if c.Provider == ProviderOllama && c.BaseURL == "" {
		c.BaseURL = DefaultOllamaBaseURL
	}
}

// Validate checks the per-provider requirements: hosted providers need a
// credential, the local provider needs a resolved base address, and the
// provider tag must be one the selector knows about.
func (c EndpointConfig) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderAnthropic:
		if c.APIKey == "" {
			return fmt.Errorf("provider %q requires an api key", c.Provider)
		}
	case ProviderOllama:
		if c.BaseURL == "" {
			return fmt.Errorf("provider %q requires a base url", c.Provider)
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model identifier is required")
	}
	return nil
}

// InferProvider guesses the provider tag from a model identifier. Used when a
// stored profile predates explicit provider tags.
func InferProvider(model string) Provider {
	switch {
	case strings.HasPrefix(model, "claude"):
		return ProviderAnthropic
	case strings.HasPrefix(model, "gpt"), strings.HasPrefix(model, "o1"):
		return ProviderOpenAI
	default:
		return ProviderOllama
	}
}

// ContextFragment is a prioritized, independently toggleable piece of
// background text injected ahead of the user's prompt. Lower priority values
// sort first; ties keep insertion order.
type ContextFragment struct {
	ID       string `json:"id" yaml:"id"`
	Role     string `json:"role" yaml:"role"`
	Content  string `json:"content" yaml:"content"`
	Priority int    `json:"priority" yaml:"priority"`
	Active   bool   `json:"active" yaml:"active"`
}

// NewFragment creates an active fragment with a generated id.
func NewFragment(role, content string, priority int) ContextFragment {
	return ContextFragment{
		ID:       uuid.NewString(),
		Role:     role,
		Content:  content,
		Priority: priority,
		Active:   true,
	}
}

// AgentProfile bundles everything needed to construct and invoke an agent:
// the endpoint, the ordered context fragments and the retry/timeout budget.
// Profiles are long-lived and mutated only through store operations; agents
// never write back into them.
type AgentProfile struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Endpoint    EndpointConfig    `json:"endpoint" yaml:"endpoint"`
	Fragments   []ContextFragment `json:"fragments" yaml:"fragments"`
	MaxRetries  int               `json:"max_retries" yaml:"max_retries"`
	Timeout     time.Duration     `json:"timeout" yaml:"-"`
}

// Normalize applies endpoint defaults and the retry/timeout defaults.
func (p *AgentProfile) Normalize() {
	p.Endpoint.Normalize()
	if p.MaxRetries <= 0 {
		p.MaxRetries = DefaultMaxRetries
	}
	if p.Timeout <= 0 {
		p.Timeout = DefaultTimeout
	}
}

// Validate checks the profile is complete enough to construct an agent.
func (p AgentProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if err := p.Endpoint.Validate(); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	return nil
}

// Clone returns a deep copy so callers can hand profiles across goroutines
// without sharing the fragment slice.
func (p AgentProfile) Clone() AgentProfile {
	cp := p
	if p.Fragments != nil {
		cp.Fragments = make([]ContextFragment, len(p.Fragments))
		copy(cp.Fragments, p.Fragments)
	}
	return cp
}
