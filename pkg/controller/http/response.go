package http

import (
	"errors"
	"net/http"

	"github.com/doc-forge-buddy/docforge/pkg/usecase"
	"github.com/doc-forge-buddy/docforge/pkg/utils/errutil"
	"github.com/doc-forge-buddy/docforge/pkg/utils/logging"
	"github.com/doc-forge-buddy/docforge/pkg/utils/safe"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusOf maps use case errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrLLMNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON error body. Server errors are reported.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		_ = errutil.Handle(ctx, err, "request failed")
	} else {
		logging.From(ctx).Warn("request rejected", "status", status, "error", err.Error())
	}
	safe.WriteJSON(ctx, w, status, errorResponse{Error: err.Error()})
}
