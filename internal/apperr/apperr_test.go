package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", ErrValidation, http.StatusBadRequest},
		{"authenticity", ErrAuthenticity, http.StatusBadRequest},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"store", ErrStore, http.StatusInternalServerError},
		{"media upload", ErrMediaUpload, http.StatusInternalServerError},
		{"unknown", errors.New("something else"), http.StatusInternalServerError},
		{"nil", nil, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusCode(tc.err); got != tc.want {
				t.Fatalf("StatusCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestStatusCodeSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("course lookup: %w", fmt.Errorf("%w: course abc", ErrNotFound))
	if got := StatusCode(err); got != http.StatusNotFound {
		t.Fatalf("StatusCode(wrapped ErrNotFound) = %d, want 404", got)
	}
	joined := errors.Join(ErrStore, errors.New("connection refused"))
	if got := StatusCode(joined); got != http.StatusInternalServerError {
		t.Fatalf("StatusCode(joined ErrStore) = %d, want 500", got)
	}
}
