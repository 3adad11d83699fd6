package backend

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNoEmotion is returned when the detect response carries no emotion label.
	ErrNoEmotion = errors.New("backend: response has no emotion")

	// ErrEmptyFrame is returned when submitting zero bytes.
	ErrEmptyFrame = errors.New("backend: empty frame")
)

// Operations reported in BackendError.Op.
const (
	OpDetect   = "detect_emotion"
	OpPlaylist = "get_playlist"
	OpHealth   = "health"
)

// BackendError reports a failed call to the emotion backend: transport
// failure, non-2xx status, or an undecodable body.
type BackendError struct {
	// Op is the endpoint that failed.
	Op string

	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	// Message is the error text from the backend body, if any.
	Message string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend [%s]: status %d: %s", e.Op, e.StatusCode, msg)
	}
	return fmt.Sprintf("backend [%s]: %s", e.Op, msg)
}

// Unwrap returns the underlying error.
func (e *BackendError) Unwrap() error {
	return e.Err
}

// IsServerError returns true if this is a server-side error (HTTP 5xx).
func (e *BackendError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsBadRequest returns true if the backend rejected the request (HTTP 400).
func (e *BackendError) IsBadRequest() bool {
	return e.StatusCode == 400
}

// IsBackendError reports whether err is (or wraps) a BackendError.
func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}
