// Package services contains the business logic behind the HTTP
// handlers: upload processing, analytics, predictions, report
// generation and health reporting.
package services
