package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"app/internal/apperr"
	"app/internal/middleware"
	"app/internal/model"
)

// Uploaded files above this size are rejected at the handler.
const maxUploadBytes = 64 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeError renders a service error as {"message": ...} with the status the
// error kind maps to. Internal failures get the caller's fallback message so
// driver and adapter details stay out of responses.
func writeError(w http.ResponseWriter, err error, fallback string) {
	status := apperr.StatusCode(err)
	msg := fallback
	if status != http.StatusInternalServerError {
		msg = err.Error()
	}
	writeMessage(w, status, msg)
}

// principalFrom pulls the authenticated principal out of the request context.
func principalFrom(w http.ResponseWriter, r *http.Request) (middleware.Principal, bool) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok || p.UserID == "" {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return middleware.Principal{}, false
	}
	return p, true
}

// requireInstructor is the capability check gating instructor-only operations.
func requireInstructor(w http.ResponseWriter, r *http.Request) (middleware.Principal, bool) {
	p, ok := principalFrom(w, r)
	if !ok {
		return middleware.Principal{}, false
	}
	if p.Role != model.RoleInstructor {
		writeMessage(w, http.StatusForbidden, "Instructor role required")
		return middleware.Principal{}, false
	}
	return p, true
}

// readFormFile reads the named multipart file field, returning nil bytes when
// the field is absent.
func readFormFile(r *http.Request, field string) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, "", nil
		}
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return nil, "", err
	}
	return data, header.Header.Get("Content-Type"), nil
}
