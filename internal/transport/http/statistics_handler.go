package http

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "wellstats/internal/errors"
	"wellstats/internal/middleware"
	"wellstats/internal/services"
)

// StatisticsHandler handles statistics computation requests.
type StatisticsHandler struct {
	service      *services.StatisticsService
	validation   *middleware.ValidationMiddleware
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewStatisticsHandler creates a new statistics handler.
func NewStatisticsHandler(
	service *services.StatisticsService,
	validation *middleware.ValidationMiddleware,
	logger *slog.Logger,
	errorHandler *apierrors.ErrorHandler,
) *StatisticsHandler {
	return &StatisticsHandler{
		service:      service,
		validation:   validation,
		logger:       logger.With(slog.String("component", "statistics_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the statistics routes.
func (h *StatisticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/compute", h.Compute)
	r.Post("/batch", h.ComputeBatch)
	r.Post("/resample", h.Resample)

	return r
}

// Compute handles POST /api/statistics/compute
func (h *StatisticsHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req services.StatisticsRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := h.validation.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Compute(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, result)
}

// ComputeBatch handles POST /api/statistics/batch
func (h *StatisticsHandler) ComputeBatch(w http.ResponseWriter, r *http.Request) {
	var batch services.BatchRequest
	if err := render.DecodeJSON(r.Body, &batch); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := h.validation.ValidateStruct(batch); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	items, err := h.service.ComputeBatch(r.Context(), batch)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"results": items,
		"count":   len(items),
	})
}

// ResampleRequest asks for a series regridded onto a regular step or
// onto explicit target depths.
type ResampleRequest struct {
	Well   string    `json:"well" validate:"required,wellname"`
	Series string    `json:"series" validate:"required,seriesname"`
	From   float64   `json:"from,omitempty"`
	To     float64   `json:"to,omitempty"`
	Step   float64   `json:"step,omitempty" validate:"omitempty,gt=0"`
	Depths []float64 `json:"depths,omitempty"`
}

// ResampleResponse carries the regridded series.
type ResampleResponse struct {
	Well   string                  `json:"well"`
	Series string                  `json:"series"`
	Kind   string                  `json:"kind"`
	Unit   string                  `json:"unit,omitempty"`
	Depths []float64               `json:"depths"`
	Values services.NullableFloats `json:"values"`
}

// Resample handles POST /api/statistics/resample
func (h *StatisticsHandler) Resample(w http.ResponseWriter, r *http.Request) {
	var req ResampleRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := h.validation.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	target := req.Depths
	if len(target) == 0 {
		var err error
		target, err = regularGrid(req.From, req.To, req.Step)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
	}

	series, err := h.service.Resample(r.Context(), req.Well, req.Series, target)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, ResampleResponse{
		Well:   req.Well,
		Series: series.Name,
		Kind:   series.Kind.String(),
		Unit:   series.Unit,
		Depths: series.Depths,
		Values: series.Values,
	})
}

// maxGridPoints caps the size of a generated resampling grid.
const maxGridPoints = 1_000_000

// regularGrid builds [from, to] with the given step, inclusive of the
// end point when it lands on the grid.
func regularGrid(from, to, step float64) ([]float64, error) {
	if step <= 0 {
		return nil, apierrors.ErrValidation("step", "step must be positive when depths are not given")
	}
	if to < from {
		return nil, apierrors.ErrValidation("to", "to must not be less than from")
	}

	n := int(math.Floor((to-from)/step+1e-9)) + 1
	if n > maxGridPoints {
		return nil, apierrors.ErrValidation("step", "requested grid is too fine")
	}

	grid := make([]float64, n)
	for i := range grid {
		grid[i] = from + float64(i)*step
	}
	return grid, nil
}
