package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/service"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
	"github.com/aussiebroadwan/opsdesk/pkg/blobx"
	"github.com/aussiebroadwan/opsdesk/pkg/httpx"
	"github.com/aussiebroadwan/opsdesk/pkg/slogx"
)

// writeServiceError maps service and store errors onto the response
// taxonomy. Everything here is terminal for the request; nothing is
// retried.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Resource not found")

	case errors.Is(err, store.ErrAlreadyExists):
		httpx.WriteError(w, http.StatusConflict, "conflict", "Resource already exists")

	case errors.Is(err, store.ErrConflict):
		httpx.WriteError(w, http.StatusConflict, "conflict", "Resource was modified concurrently, retry")

	case errors.Is(err, service.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())

	case errors.Is(err, service.ErrInvalidIndex):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_index", err.Error())

	case errors.Is(err, domain.ErrInvalidEnum):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_query_parameter", err.Error())

	case errors.Is(err, service.ErrInvalidPassword):
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Invalid credentials")

	case errors.Is(err, service.ErrUserBlocked):
		httpx.WriteError(w, http.StatusForbidden, "forbidden", "Account is blocked")

	case errors.Is(err, service.ErrBootstrapAlready):
		httpx.WriteError(w, http.StatusConflict, "conflict", "System is already bootstrapped")

	case errors.Is(err, service.ErrBootstrapUnauthorized):
		httpx.WriteError(w, http.StatusForbidden, "forbidden", "Invalid bootstrap token")

	case errors.Is(err, blobx.ErrUnavailable):
		log.Error("blob store call failed", "err", err)
		httpx.WriteError(w, http.StatusBadGateway, "upstream_unavailable", "Blob storage is unavailable")

	default:
		log.Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
	}
}
