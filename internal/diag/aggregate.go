package diag

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// AllResult collects the per-provider results with a timestamp.
type AllResult struct {
	Timestamp time.Time         `json:"timestamp"`
	Results   map[string]Result `json:"results"`
}

// Aggregator re-invokes the service's own per-provider diagnostic endpoints
// over loopback HTTP and collects the responses. Going back through HTTP
// (rather than calling the probes directly) exercises the same code path a
// client would hit.
type Aggregator struct {
	// BaseURL of this service, e.g. "http://127.0.0.1:8080".
	BaseURL string

	// Services to aggregate; each maps to GET {BaseURL}/diag/{service}.
	Services []string

	// Client for loopback requests; nil means a 10s-timeout default.
	Client *http.Client
}

// CheckAll fans out to every per-provider endpoint and never fails as a
// whole: unreachable endpoints become failed entries.
func (a *Aggregator) CheckAll(ctx context.Context) AllResult {
	out := AllResult{
		Timestamp: time.Now().UTC(),
		Results:   make(map[string]Result, len(a.Services)),
	}

	client := defaultClient(a.Client)
	for _, svc := range a.Services {
		out.Results[svc] = a.checkOne(ctx, client, svc)
	}
	return out
}

func (a *Aggregator) checkOne(ctx context.Context, client *http.Client, svc string) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+"/diag/"+svc, nil)
	if err != nil {
		return Result{Service: svc, Error: err.Error()}
	}

	resp, err := client.Do(req)
	if err != nil {
		return Result{Service: svc, Error: err.Error()}
	}
	defer resp.Body.Close()

	var r Result
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxProbeBody)).Decode(&r); err != nil {
		return Result{Service: svc, Error: "malformed diagnostic response: " + err.Error()}
	}
	return r
}
