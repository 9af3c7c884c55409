package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/countries-explorer/explorer/internal/handler/dto"
	"github.com/countries-explorer/explorer/internal/service"
	"github.com/countries-explorer/explorer/internal/session"
)

// FavouriteHandler handles HTTP requests for the signed-in user's
// favourites. Routes are expected behind RequireSession.
type FavouriteHandler struct {
	svc    *service.FavouriteService
	logger *slog.Logger
}

// NewFavouriteHandler creates a new FavouriteHandler.
func NewFavouriteHandler(svc *service.FavouriteService, logger *slog.Logger) *FavouriteHandler {
	return &FavouriteHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/v1/favourites.
func (h *FavouriteHandler) List(w http.ResponseWriter, r *http.Request) {
	favs, err := h.svc.List(r.Context(), session.UserIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToFavouriteListResponse(favs))
}

// Add handles POST /api/v1/favourites.
func (h *FavouriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req dto.AddFavouriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	fav, err := h.svc.Add(r.Context(), session.UserIDFromContext(r.Context()), req.CountryName)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToFavouriteResponse(*fav))
}

// Remove handles DELETE /api/v1/favourites/{name}.
func (h *FavouriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	name, ok := pathParam(r, "name")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_PATH", "Malformed country name in path")
		return
	}

	if err := h.svc.Remove(r.Context(), session.UserIDFromContext(r.Context()), name); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Analytics handles GET /api/v1/favourites/analytics.
func (h *FavouriteHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Analytics(r.Context(), session.UserIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
