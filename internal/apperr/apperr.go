// Package apperr defines the error kinds surfaced by the service layer.
// Services translate repository and adapter failures into one of these
// sentinels (wrapped with context via fmt.Errorf and %w); handlers map them
// onto HTTP status codes with StatusCode. Raw adapter errors never cross the
// service boundary.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation marks missing or invalid caller input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an unknown identifier.
	ErrNotFound = errors.New("not found")
	// ErrMediaUpload marks a failed upload to the media host.
	ErrMediaUpload = errors.New("media upload failed")
	// ErrMediaDelete marks a failed delete on the media host.
	ErrMediaDelete = errors.New("media delete failed")
	// ErrPaymentSession marks a failed checkout session creation.
	ErrPaymentSession = errors.New("payment session failed")
	// ErrAuthenticity marks a payment notification that failed verification.
	ErrAuthenticity = errors.New("notification verification failed")
	// ErrStore marks a repository failure.
	ErrStore = errors.New("store failure")
)

// StatusCode maps an error returned by a service onto the HTTP status the API
// layer should render. Unrecognized errors map to 500.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrAuthenticity):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
