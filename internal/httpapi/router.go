// Package httpapi exposes the service over HTTP: the auth endpoints, the
// provider diagnostics, and the health probes. Handlers translate domain
// error kinds into status codes; nothing below this package knows HTTP.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/opsdeck/authd/internal/diag"
	"github.com/opsdeck/authd/internal/service"
	"github.com/opsdeck/authd/internal/store"
	"github.com/opsdeck/authd/pkg/httpx"
	"github.com/opsdeck/authd/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService *service.AuthService

	// SignerConfigured feeds the readiness probe; the app sets it once the
	// signing secret has been validated.
	SignerConfigured bool

	// Probes are the per-provider diagnostics; Aggregator fans out to them
	// over loopback HTTP.
	Probes     []diag.Probe
	Aggregator *diag.Aggregator
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerDiagnostics()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	r.Mux.Handle("POST /register", &RegisterHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /login", &LoginHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /logout", &LogoutHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /refresh", &RefreshHandler{AuthService: r.AuthService})
}

func (r *Router) registerDiagnostics() {
	for _, p := range r.Probes {
		r.Mux.Handle("GET /diag/"+p.Name(), &ProbeHandler{Probe: p})
	}
	if r.Aggregator != nil {
		r.Mux.Handle("GET /diag/all", &DiagAllHandler{Aggregator: r.Aggregator})
	}
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, func() bool {
		return r.SignerConfigured
	}))
}
