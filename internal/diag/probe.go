// Package diag implements connectivity probes against the third-party APIs
// this backend depends on. Each probe issues one trivial authenticated
// request and reports pass/fail; probe failures are results, never errors.
package diag

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxProbeBody caps how much of a provider response is read back.
const maxProbeBody = 64 << 10

// Result is the outcome of a single provider check.
type Result struct {
	Success bool   `json:"success"`
	Service string `json:"service"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Probe checks connectivity to one provider.
type Probe interface {
	Name() string
	Check(ctx context.Context) Result
}

// restProbe performs a single authenticated GET against a provider REST API.
type restProbe struct {
	name       string
	url        string
	headers    map[string]string
	client     *http.Client
	configured bool
}

func (p *restProbe) Name() string { return p.name }

func (p *restProbe) Check(ctx context.Context) Result {
	if !p.configured {
		return Result{
			Service: p.name,
			Error:   "API credential is not configured",
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Result{Service: p.name, Error: err.Error()}
	}
	for k, v := range p.headers {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{Service: p.name, Error: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxProbeBody))

	var details any
	if err := json.Unmarshal(body, &details); err != nil {
		details = string(body)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{
			Service: p.name,
			Error:   fmt.Sprintf("unexpected status %d", resp.StatusCode),
			Details: details,
		}
	}

	return Result{
		Success: true,
		Service: p.name,
		Message: fmt.Sprintf("successfully connected to %s API", p.name),
		Details: details,
	}
}

func defaultClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: 10 * time.Second}
}
