package http

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "wellstats/internal/errors"
	"wellstats/internal/services"
)

// WellsHandler handles well and series browsing requests.
type WellsHandler struct {
	service      *services.WellService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewWellsHandler creates a new wells handler.
func NewWellsHandler(service *services.WellService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *WellsHandler {
	return &WellsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "wells_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the well routes.
func (h *WellsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListWells)

	r.Route("/{well}", func(r chi.Router) {
		r.Use(h.WellCtx)
		r.Get("/", h.GetWell)
		r.Get("/series/{series}", h.GetSeries)
	})

	return r
}

// WellCtx validates the well URL parameter.
func (h *WellsHandler) WellCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		well := wellParam(r)
		if well == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("well", "Well name is required"))
			return
		}
		if len(well) > 64 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("well", "Invalid well name format"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ListWells handles GET /api/wells
func (h *WellsHandler) ListWells(w http.ResponseWriter, r *http.Request) {
	names := h.service.List(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"wells": names,
		"count": len(names),
	})
}

// GetWell handles GET /api/wells/{well}
func (h *WellsHandler) GetWell(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Detail(r.Context(), wellParam(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, detail)
}

// GetSeries handles GET /api/wells/{well}/series/{series}
func (h *WellsHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	series := chi.URLParam(r, "series")
	if series == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("series", "Series name is required"))
		return
	}

	data, err := h.service.Series(r.Context(), wellParam(r), series)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, data)
}

// wellParam decodes the well URL parameter. Well names such as
// "34/2-1" arrive percent-encoded.
func wellParam(r *http.Request) string {
	well := chi.URLParam(r, "well")
	if decoded, err := url.PathUnescape(well); err == nil {
		return decoded
	}
	return well
}
