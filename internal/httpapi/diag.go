package httpapi

import (
	"net/http"

	"github.com/opsdeck/authd/internal/diag"
	"github.com/opsdeck/authd/pkg/httpx"
)

// ProbeHandler runs a single provider connectivity check. The response is
// always 200: the probe outcome lives in the body, not the status code.
//
//	GET /diag/{service}
type ProbeHandler struct {
	Probe diag.Probe
}

func (h *ProbeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.Probe.Check(r.Context()))
}

// DiagAllHandler re-invokes every per-provider diagnostic endpoint over
// loopback HTTP and returns the collected results.
//
//	GET /diag/all
type DiagAllHandler struct {
	Aggregator *diag.Aggregator
}

func (h *DiagAllHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.Aggregator.CheckAll(r.Context()))
}
