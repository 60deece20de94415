package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "datalens/internal/errors"
)

// PredictRequest is the body of POST /api/ml/predict
type PredictRequest struct {
	Features []float64 `json:"features" validate:"required,min=1,dive,number"`
}

// PredictResponse carries the truncated prediction value
type PredictResponse struct {
	Prediction int `json:"prediction"`
}

// MLHandler serves prediction requests
type MLHandler struct {
	service      MLServiceInterface
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewMLHandler creates the ML handler
func NewMLHandler(service MLServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *MLHandler {
	return &MLHandler{
		service:      service,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "ml_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the ML routes
func (h *MLHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/predict", h.Predict)
	r.Get("/status", h.Status)
	r.Get("/history", h.History)

	return r
}

// Predict evaluates the model for the submitted feature vector
func (h *MLHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("features", "features must be a non-empty array of numbers"))
		return
	}

	prediction, err := h.service.Predict(r.Context(), req.Features)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest, "VALIDATION_FAILED", "Prediction failed", err.Error()))
		return
	}

	render.JSON(w, r, PredictResponse{Prediction: prediction})
}

// Status reports whether a trained model is loaded
func (h *MLHandler) Status(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Status())
}

// History lists previously served predictions
func (h *MLHandler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.History(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ProcessingError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"predictions": records,
		"count":       len(records),
	})
}
