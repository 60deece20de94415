package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"datalens/internal/dataset"
	apierrors "datalens/internal/errors"
	"datalens/internal/exporter"
	"datalens/internal/services"
)

// DataHandler serves the upload and dataset endpoints
type DataHandler struct {
	service        DataServiceInterface
	maxUploadBytes int64
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
}

// NewDataHandler creates the data handler
func NewDataHandler(service DataServiceInterface, maxUploadBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "data_handler")),
		errorHandler:   errorHandler,
	}
}

// Routes returns the data routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/upload", h.Upload)
	r.Get("/supported-formats", h.SupportedFormats)
	r.Get("/download-cleaned", h.DownloadCleaned)
	r.Get("/history", h.History)

	return r
}

// Upload accepts a multipart file, processes it and returns the
// analysis payload.
func (h *DataHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.ErrMissingFile)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrMissingFile)
		return
	}

	result, err := h.service.ProcessUpload(r.Context(), header.Filename, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapDataError(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, result)
}

// SupportedFormats lists accepted upload extensions
func (h *DataHandler) SupportedFormats(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"supported_formats": h.service.SupportedFormats(),
	})
}

// DownloadCleaned streams the current cleaned dataset as CSV
func (h *DataHandler) DownloadCleaned(w http.ResponseWriter, r *http.Request) {
	filename, frame, err := h.service.Current()
	if err != nil {
		h.errorHandler.HandleError(w, r, mapDataError(err))
		return
	}

	download := exporter.CleanedFilename(filename, "csv", time.Now())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download))

	if err := exporter.WriteCSV(w, frame, exporter.CSVOptions{BOMPrefix: true}); err != nil {
		h.logger.ErrorContext(r.Context(), "cleaned dataset download failed",
			"filename", filename,
			"error", err,
		)
	}
}

// History lists metadata of previously processed uploads
func (h *DataHandler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.History(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ProcessingError(err))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"datasets": records,
		"count":    len(records),
	})
}

// mapDataError translates service errors into API errors
func mapDataError(err error) error {
	switch {
	case errors.Is(err, services.ErrUnsupportedFormat) || errors.Is(err, dataset.ErrUnsupportedFormat):
		return apierrors.NewWithDetails(http.StatusBadRequest, "UNSUPPORTED_FORMAT",
			"Unsupported file format", err.Error())
	case errors.Is(err, services.ErrEmptyDataset) || errors.Is(err, dataset.ErrEmpty):
		return apierrors.ErrEmptyDataset
	case errors.Is(err, services.ErrMissingFile):
		return apierrors.ErrMissingFile
	case errors.Is(err, services.ErrNoCleanedData):
		return apierrors.ErrNoDataset
	default:
		return apierrors.ProcessingError(err)
	}
}
