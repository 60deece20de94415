// Package uploadclient implements the upload submission flow used by
// thin front ends: pick a file, POST it to the upload endpoint, stash
// the analysis payload for the results view and navigate there.
// Every side effect goes through an injected capability so the flow
// is testable without a browser or a server.
package uploadclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// Defaults for the upload flow
const (
	// DefaultEndpoint is where the file is POSTed
	DefaultEndpoint = "/api/data/upload"
	// StorageKey is where the analysis payload is stored for the
	// results view
	StorageKey = "uploadResult"
	// ResultPath is navigated to after a successful upload
	ResultPath = "/result"

	fieldName      = "file"
	msgNoFile      = "Error: Please select a CSV file!"
	msgUnknown     = "Unknown error"
	msgErrorPrefix = "Error: "
)

// File is the user's selected file
type File struct {
	Name string
	Data []byte
}

// Poster performs the upload request. Implementations return the
// response status and body, or a transport error when the request
// never produced a response.
type Poster interface {
	Post(ctx context.Context, endpoint, contentType string, body io.Reader) (status int, respBody []byte, err error)
}

// Storage persists the analysis payload between views
type Storage interface {
	Set(key, value string)
}

// Navigator switches the visible view
type Navigator interface {
	Navigate(path string)
}

// Notifier surfaces a message to the user
type Notifier interface {
	Notify(message string)
}

// TransportError means the request never reached a response
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upload transport failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError means the server answered with a non-2xx status
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("upload rejected (%d): %s", e.Status, e.Message)
}

// ErrNoFileSelected is returned when Submit is called without a file
var ErrNoFileSelected = errors.New("no file selected")

// Client drives the upload submission flow
type Client struct {
	endpoint  string
	poster    Poster
	storage   Storage
	navigator Navigator
	notifier  Notifier
}

// Option customizes a Client
type Option func(*Client)

// WithEndpoint overrides the upload endpoint path
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// New creates an upload client with the given capabilities
func New(poster Poster, storage Storage, navigator Navigator, notifier Notifier, opts ...Option) *Client {
	c := &Client{
		endpoint:  DefaultEndpoint,
		poster:    poster,
		storage:   storage,
		navigator: navigator,
		notifier:  notifier,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit runs the submission flow for the selected file. Calling it
// again with the same inputs repeats the same effects.
//
// On success the compact response JSON is stored under StorageKey and
// the navigator moves to ResultPath. On rejection, transport failure
// or an undecodable success body the user is notified and nothing is
// stored.
func (c *Client) Submit(ctx context.Context, file *File) error {
	if file == nil || file.Name == "" {
		c.notifier.Notify(msgNoFile)
		return ErrNoFileSelected
	}

	body, contentType, err := encodeMultipart(file)
	if err != nil {
		c.notifier.Notify(msgErrorPrefix + err.Error())
		return &TransportError{Err: err}
	}

	status, resp, err := c.poster.Post(ctx, c.endpoint, contentType, body)
	if err != nil {
		c.notifier.Notify(msgErrorPrefix + err.Error())
		return &TransportError{Err: err}
	}

	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		stored, err := compactJSON(resp)
		if err != nil {
			c.notifier.Notify(msgErrorPrefix + err.Error())
			return &TransportError{Err: err}
		}
		c.storage.Set(StorageKey, stored)
		c.navigator.Navigate(ResultPath)
		return nil
	}

	message := errorMessage(resp)
	c.notifier.Notify(msgErrorPrefix + message)
	return &ServerError{Status: status, Message: message}
}

// encodeMultipart packs the file into a multipart form body
func encodeMultipart(file *File) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(fieldName, file.Name)
	if err != nil {
		return nil, "", fmt.Errorf("encoding form file: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", fmt.Errorf("writing file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finalizing form: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

// compactJSON strips insignificant whitespace, preserving key order.
// A body that is not valid JSON is a parse failure, handled like a
// transport failure.
func compactJSON(body []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return buf.String(), nil
}

// errorMessage extracts the server's error message from a rejection
// body, falling back to a generic message.
func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return msgUnknown
	}
	if strings.TrimSpace(payload.Error) == "" {
		return msgUnknown
	}
	return payload.Error
}
