package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "datalens/internal/errors"
	"datalens/internal/files"
	"datalens/internal/services"
)

// ExportHandler serves report and cleaned dataset downloads
type ExportHandler struct {
	service      ReportServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates the export handler
func NewExportHandler(service ReportServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/cleaned-csv", h.download(services.ReportCleanedCSV))
	r.Get("/cleaned-json", h.download(services.ReportCleanedJSON))
	r.Get("/cleaned-xlsx", h.download(services.ReportCleanedXLSX))
	r.Get("/report-xlsx", h.download(services.ReportXLSX))
	r.Get("/report-pdf", h.download(services.ReportPDF))
	r.Post("/report-all", h.GenerateAll)
	r.Get("/reports", h.ListReports)
	r.Get("/reports/{name}", h.DownloadReport)

	return r
}

// download renders one format into a buffer and streams it as an
// attachment. Buffering keeps error responses possible after render
// failures.
func (h *ExportHandler) download(format services.ReportFormat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		export, err := h.service.Render(r.Context(), format, &buf)
		if err != nil {
			h.errorHandler.HandleError(w, r, mapExportError(format, err))
			return
		}

		w.Header().Set("Content-Type", export.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
		w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))

		if _, err := buf.WriteTo(w); err != nil {
			h.logger.ErrorContext(r.Context(), "export download interrupted",
				"format", format,
				"error", err,
			)
		}
	}
}

// GenerateAll writes every report format to the reports directory
func (h *ExportHandler) GenerateAll(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.GenerateAll(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, mapExportError("all", err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"reports": results,
	})
}

// ListReports returns the archived report files, newest first
func (h *ExportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.ListGenerated(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InternalError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"reports": reports,
		"count":   len(reports),
	})
}

// DownloadReport streams one archived report file as an attachment
func (h *ExportHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	reader, export, err := h.service.OpenGenerated(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, files.ErrInvalidName), errors.Is(err, os.ErrNotExist):
			h.errorHandler.HandleError(w, r, apierrors.NotFoundError("report"))
		default:
			h.errorHandler.HandleError(w, r, apierrors.InternalError(err))
		}
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.ErrorContext(r.Context(), "report download interrupted",
			"name", name,
			"error", err,
		)
	}
}

// mapExportError translates report errors into API errors
func mapExportError(format services.ReportFormat, err error) error {
	switch {
	case errors.Is(err, services.ErrNoCleanedData):
		return apierrors.ErrNoDataset
	case errors.Is(err, services.ErrUnknownReportFormat):
		return apierrors.NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED",
			"Unknown report format", err.Error())
	default:
		return apierrors.ExportError(string(format), err)
	}
}
