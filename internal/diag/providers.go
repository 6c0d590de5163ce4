package diag

import "net/http"

// Default provider API hosts; overridable for tests.
const (
	DefaultTwitterBaseURL   = "https://api.twitter.com"
	DefaultAnthropicBaseURL = "https://api.anthropic.com"
	DefaultOpenAIBaseURL    = "https://api.openai.com"

	anthropicVersion = "2023-06-01"
)

// ProviderConfig wires a probe to its provider.
type ProviderConfig struct {
	// BaseURL of the provider API. Empty means the provider default.
	BaseURL string

	// Credential is the bearer token or API key. An unset credential makes
	// the probe report failure without issuing a request.
	Credential string

	// Client to issue requests with; nil means a 10s-timeout default.
	Client *http.Client
}

// NewTwitter probes the Twitter v2 API by fetching the authenticated user.
func NewTwitter(cfg ProviderConfig) Probe {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultTwitterBaseURL
	}
	return &restProbe{
		name: "twitter",
		url:  base + "/2/users/me",
		headers: map[string]string{
			"Authorization": "Bearer " + cfg.Credential,
		},
		client:     defaultClient(cfg.Client),
		configured: cfg.Credential != "",
	}
}

// NewAnthropic probes the Anthropic API by listing available models.
func NewAnthropic(cfg ProviderConfig) Probe {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultAnthropicBaseURL
	}
	return &restProbe{
		name: "anthropic",
		url:  base + "/v1/models",
		headers: map[string]string{
			"x-api-key":         cfg.Credential,
			"anthropic-version": anthropicVersion,
		},
		client:     defaultClient(cfg.Client),
		configured: cfg.Credential != "",
	}
}

// NewOpenAI probes the OpenAI API by listing available models.
func NewOpenAI(cfg ProviderConfig) Probe {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultOpenAIBaseURL
	}
	return &restProbe{
		name: "openai",
		url:  base + "/v1/models",
		headers: map[string]string{
			"Authorization": "Bearer " + cfg.Credential,
		},
		client:     defaultClient(cfg.Client),
		configured: cfg.Credential != "",
	}
}
