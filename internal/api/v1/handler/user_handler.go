package handler

import (
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/service"

	"github.com/rs/zerolog"
)

// UserHandler handles the authenticated user's profile endpoints.
type UserHandler struct {
	userService service.UserService
	logger      zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger.With().Str("handler", "UserHandler").Logger(),
	}
}

// RegisterRoutes mounts user routes
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/users/me", authMw(http.HandlerFunc(h.handleMe)))
}

func (h *UserHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getProfile(w, r)
	case http.MethodPut:
		h.updateProfile(w, r)
	default:
		writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

func (h *UserHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	user, enrolled, err := h.userService.GetProfile(r.Context(), principal.UserID)
	if err != nil {
		writeError(w, err, "Failed to get profile")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": dto.NewUserProfileDTO(user, enrolled)})
}

// updateProfile accepts a multipart form with an optional "name" field and an
// optional "photo" file.
func (h *UserHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	edit := service.ProfileEdit{
		Name: formValue(r, "name"),
	}
	photo, contentType, err := readFormFile(r, "photo")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid photo upload")
		return
	}
	edit.NewPhoto = photo
	edit.PhotoContentType = contentType

	user, err := h.userService.UpdateProfile(r.Context(), principal.UserID, edit)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", principal.UserID).Msg("Update profile failed")
		writeError(w, err, "Failed to update profile")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":    dto.NewUserProfileDTO(user, nil),
		"message": "Profile updated successfully",
	})
}
