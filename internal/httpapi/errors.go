package httpapi

import (
	"errors"
	"net/http"

	"github.com/opsdeck/authd/internal/domain"
	"github.com/opsdeck/authd/pkg/httpx"
	"github.com/opsdeck/authd/pkg/slogx"
)

// errorResponse is the wire shape for every failure.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	Field            string `json:"field,omitempty"`
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation, domain.KindDuplicate:
		return http.StatusBadRequest
	case domain.KindInvalidCredentials, domain.KindUnauthenticated, domain.KindSessionInvalid:
		return http.StatusUnauthorized
	default:
		// KindConfiguration, KindStore and anything unclassified.
		return http.StatusInternalServerError
	}
}

// writeError maps a domain error onto the HTTP response. Server-side
// failures are logged with their cause and reported with a generic body so
// internals never leak to clients.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := statusFor(kind)

	resp := errorResponse{Error: string(kind)}

	var derr *domain.Error
	if errors.As(err, &derr) {
		resp.ErrorDescription = derr.Detail
		resp.Field = derr.Field
	}

	if status >= http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("request failed",
			"kind", string(kind),
			"error", err,
		)
		resp.ErrorDescription = "internal server error"
		resp.Field = ""
	}

	httpx.WriteJSON(w, status, resp)
}
