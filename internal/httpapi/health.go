package httpapi

import (
	"net/http"
	"time"

	"github.com/opsdeck/authd/internal/store"
	"github.com/opsdeck/authd/pkg/httpx"
	"github.com/opsdeck/authd/pkg/slogx"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// LivezHandler reports process liveness. It always succeeds while the
// process can serve requests.
//
//	GET /livez
func LivezHandler(startTime time.Time, version string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Version: version,
			Uptime:  time.Since(startTime).Truncate(time.Second).String(),
		})
	})
}

// ReadyzHandler reports readiness to serve traffic: the store must answer a
// ping and the token signer must be configured.
//
//	GET /readyz
func ReadyzHandler(startTime time.Time, version string, st store.Store, signerReady func() bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			slogx.FromContext(r.Context()).Error("readiness ping failed", "err", err)
			httpx.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{
				Status:  "store unavailable",
				Version: version,
				Uptime:  time.Since(startTime).Truncate(time.Second).String(),
			})
			return
		}

		if !signerReady() {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{
				Status:  "signer not configured",
				Version: version,
				Uptime:  time.Since(startTime).Truncate(time.Second).String(),
			})
			return
		}

		httpx.WriteJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Version: version,
			Uptime:  time.Since(startTime).Truncate(time.Second).String(),
		})
	})
}
