package handler

import (
	"log/slog"
	"net/http"

	"github.com/countries-explorer/explorer/internal/catalog"
	"github.com/countries-explorer/explorer/internal/handler/dto"
	"github.com/countries-explorer/explorer/internal/service"
)

// CountryHandler handles HTTP requests for the catalog.
type CountryHandler struct {
	svc    *service.CountryService
	logger *slog.Logger
}

// NewCountryHandler creates a new CountryHandler.
func NewCountryHandler(svc *service.CountryService, logger *slog.Logger) *CountryHandler {
	return &CountryHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/v1/countries.
func (h *CountryHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	q := catalog.Query{
		Name:   query.Get("name"),
		Region: query.Get("region"),
		Sort:   catalog.SortOrder(query.Get("sort")),
	}
	if !q.Sort.Valid() {
		writeError(w, http.StatusBadRequest, "INVALID_SORT", "Sort must be one of name, population, area (prefix - for descending)")
		return
	}

	countries, err := h.svc.List(r.Context(), q)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToCountryListResponse(countries))
}

// Get handles GET /api/v1/countries/{slug}.
func (h *CountryHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug, ok := pathParam(r, "slug")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_PATH", "Malformed country in path")
		return
	}
	if slug == "" {
		writeError(w, http.StatusBadRequest, "MISSING_SLUG", "Country is required")
		return
	}

	detail, err := h.svc.Get(r.Context(), slug)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CountryDetailResponse{
		Country:      detail.Country,
		Borders:      dto.ToBorders(detail.Borders),
		Weather:      detail.Weather,
		WeatherError: detail.WeatherError,
	})
}
