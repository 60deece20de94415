package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "datalens/internal/errors"
	"datalens/internal/services"
)

// AnalyticsHandler serves summary, correlation and distribution
type AnalyticsHandler struct {
	service        AnalyticsServiceInterface
	maxUploadBytes int64
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
}

// NewAnalyticsHandler creates the analytics handler
func NewAnalyticsHandler(service AnalyticsServiceInterface, maxUploadBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "analytics_handler")),
		errorHandler:   errorHandler,
	}
}

// Routes returns the analytics routes
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/summary", h.Summary)
	r.Get("/correlation", h.Correlation)
	r.Get("/distribution/{column}", h.Distribution)

	return r
}

// Summary profiles an uploaded file without replacing the current
// dataset.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrMissingFile)
		return
	}
	defer file.Close()

	summary, err := h.service.Summarize(r.Context(), header.Filename, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapAnalyticsError(err))
		return
	}

	render.JSON(w, r, summary)
}

// Correlation returns the correlation matrix of the current dataset
func (h *AnalyticsHandler) Correlation(w http.ResponseWriter, r *http.Request) {
	matrix, err := h.service.Correlation(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, mapAnalyticsError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"correlation_matrix": matrix,
	})
}

// Distribution bins a numeric column of the current dataset. The bin
// count defaults to 10 and can be overridden with ?bins=N.
func (h *AnalyticsHandler) Distribution(w http.ResponseWriter, r *http.Request) {
	column := chi.URLParam(r, "column")
	if column == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("column", "Column name is required"))
		return
	}

	bins := 10
	if raw := r.URL.Query().Get("bins"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("bins", "bins must be an integer between 1 and 100"))
			return
		}
		bins = parsed
	}

	dist, err := h.service.Distribute(r.Context(), column, bins)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapAnalyticsError(err))
		return
	}

	render.JSON(w, r, dist)
}

// mapAnalyticsError translates analytics errors into API errors
func mapAnalyticsError(err error) error {
	switch {
	case errors.Is(err, services.ErrNoCleanedData):
		return apierrors.ErrNoDataset
	case errors.Is(err, services.ErrEmptyDataset):
		return apierrors.ErrEmptyDataset
	case errors.Is(err, services.ErrColumnNotFound):
		return apierrors.NotFoundError("column")
	case errors.Is(err, services.ErrColumnNotNumeric):
		return apierrors.NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED",
			"Column is not numeric", err.Error())
	case errors.Is(err, services.ErrNoNumericColumns):
		return apierrors.NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED",
			"At least two numeric columns are required", err.Error())
	default:
		return apierrors.ProcessingError(err)
	}
}
