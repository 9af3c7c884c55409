// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/countries-explorer/explorer/internal/handler/dto"
	"github.com/countries-explorer/explorer/internal/service"
)

const (
	serviceName    = "countries-explorer"
	serviceVersion = "1.0.0"
)

// Handler serves the root endpoints.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Hello describes the service.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"name":    serviceName,
		"version": serviceVersion,
		"docs":    "/api/v1/countries",
	}
	writeJSON(w, http.StatusOK, response)
}

// Page acknowledges a page route that passed the navigation guard. The
// views themselves are served by the web client.
// GET /login, /countries, /profile, /favourites, /protected
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"page": r.URL.Path})
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Default().Debug("failed to write response", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	case errors.Is(err, service.ErrCountryNotFound):
		writeError(w, http.StatusNotFound, "COUNTRY_NOT_FOUND", "Country not found")
	case errors.Is(err, service.ErrFavouriteNotFound):
		writeError(w, http.StatusNotFound, "FAVOURITE_NOT_FOUND", "Favourite not found")
	case errors.Is(err, service.ErrInvalidCountryName):
		writeError(w, http.StatusBadRequest, "INVALID_COUNTRY_NAME", "Country name is required")
	case errors.Is(err, service.ErrCatalogUnavailable):
		logger.Warn("catalog_unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "Country data is temporarily unavailable")
	case errors.Is(err, service.ErrFavouritesUnavailable):
		logger.Warn("favourites_unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "FAVOURITES_UNAVAILABLE", "Favourites are temporarily unavailable")
	case errors.Is(err, service.ErrIdentityUnavailable):
		logger.Warn("identity_unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "IDENTITY_UNAVAILABLE", "Sign-in service is temporarily unavailable")
	default:
		logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// pathParam returns a decoded route parameter. chi routes on RawPath when the
// client escaped the path differently from Go, and the value is then still
// percent-encoded.
func pathParam(r *http.Request, key string) (string, bool) {
	value := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return value, true
	}
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return "", false
	}
	return decoded, true
}
