package errors

import (
	"errors"
	"fmt"
)

// Custom error types for the URL shortener frontend

// ErrNoURLs is returned when every row of a submission is empty
var ErrNoURLs = errors.New("Add at least one URL")

// ErrTooManyRows is returned when a submission carries more rows than the form holds
var ErrTooManyRows = errors.New("too many rows in submission")

// ErrBusy is returned when a form is asked to submit while a submission is in flight
var ErrBusy = errors.New("submission already in progress")

// ErrInvalidLevel is returned when a log level name is not one of debug, info, warn, error
var ErrInvalidLevel = errors.New("invalid log level")

// ValidationError is returned when a row fails local validation.
// It never reaches the network.
type ValidationError struct {
	URL     string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// APIError is returned by the fetch wrapper when the backend answers with a non-2xx status
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Body)
}

// ErrConfigLoad is returned when configuration loading fails
type ErrConfigLoad struct {
	Path   string
	Reason string
}

func (e ErrConfigLoad) Error() string {
	return fmt.Sprintf("failed to load config from %s: %s", e.Path, e.Reason)
}

// ErrHistoryDisabled is returned when the local history database is not configured
var ErrHistoryDisabled = errors.New("local history is disabled")
