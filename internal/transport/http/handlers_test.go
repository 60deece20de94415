package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalens/internal/dataset"
	apierrors "datalens/internal/errors"
	"datalens/internal/services"
	"datalens/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testErrorHandler() *apierrors.ErrorHandler {
	return apierrors.NewErrorHandler(testLogger(), false)
}

// multipartBody builds a multipart form with one file field
func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

// stubDataService implements DataServiceInterface for handler tests
type stubDataService struct {
	result     *services.UploadResult
	processErr error
	frame      *dataset.Frame
	filename   string
	currentErr error
	history    []store.DatasetRecord
}

func (s *stubDataService) ProcessUpload(ctx context.Context, filename string, r io.Reader) (*services.UploadResult, error) {
	if s.processErr != nil {
		return nil, s.processErr
	}
	return s.result, nil
}

func (s *stubDataService) Current() (string, *dataset.Frame, error) {
	if s.currentErr != nil {
		return "", nil, s.currentErr
	}
	return s.filename, s.frame, nil
}

func (s *stubDataService) SupportedFormats() map[string]string {
	return map[string]string{"csv": "Comma-separated values"}
}

func (s *stubDataService) History(ctx context.Context) ([]store.DatasetRecord, error) {
	return s.history, nil
}

func newDataHandler(svc DataServiceInterface) *DataHandler {
	return NewDataHandler(svc, 1<<20, testLogger(), testErrorHandler())
}

func TestUploadReturnsResult(t *testing.T) {
	svc := &stubDataService{
		result: &services.UploadResult{
			Analysis:             dataset.Analysis{Rows: 10, Columns: 2},
			FileFormat:           "csv",
			CleanedDataAvailable: true,
		},
	}
	handler := newDataHandler(svc)

	body, contentType := multipartBody(t, "file", "data.csv", "a,b\n1,2\n")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, float64(10), decoded["rows"])
	assert.Equal(t, "csv", decoded["file_format"])
}

func TestUploadMissingFile(t *testing.T) {
	handler := newDataHandler(&stubDataService{})

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "No file provided", problem["error"])
}

func TestUploadUnsupportedFormat(t *testing.T) {
	handler := newDataHandler(&stubDataService{processErr: services.ErrUnsupportedFormat})

	body, contentType := multipartBody(t, "file", "image.png", "binary")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unsupported file format")
}

func TestUploadEmptyDataset(t *testing.T) {
	handler := newDataHandler(&stubDataService{processErr: services.ErrEmptyDataset})

	body, contentType := multipartBody(t, "file", "empty.csv", "")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "/errors/dataset/empty", problem["type"])
}

func TestSupportedFormats(t *testing.T) {
	handler := newDataHandler(&stubDataService{})

	req := httptest.NewRequest(http.MethodGet, "/supported-formats", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "supported_formats")
	assert.Contains(t, rec.Body.String(), "csv")
}

func TestDownloadCleanedWithoutDataset(t *testing.T) {
	handler := newDataHandler(&stubDataService{currentErr: services.ErrNoCleanedData})

	req := httptest.NewRequest(http.MethodGet, "/download-cleaned", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadCleanedStreamsCSV(t *testing.T) {
	frame, err := dataset.New([]string{"a", "b"}, [][]string{{"1", "2"}})
	require.NoError(t, err)

	handler := newDataHandler(&stubDataService{filename: "data.csv", frame: frame})

	req := httptest.NewRequest(http.MethodGet, "/download-cleaned", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "data_cleaned_")
	assert.Contains(t, rec.Body.String(), "a,b")
}
