// Package http contains the chi HTTP handlers for the upload,
// analytics, prediction, export and health endpoints. Errors are
// rendered as RFC 7807 problem responses with a plain "error" field
// for clients that only read a message string.
package http
