package handler

import (
	"net/http"

	"app/internal/media"

	"github.com/rs/zerolog"
)

// MediaHandler handles direct media uploads. Instructors upload lecture
// videos here first, then attach the returned reference to a lecture.
type MediaHandler struct {
	mediaStore media.Store
	logger     zerolog.Logger
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(mediaStore media.Store, logger zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		mediaStore: mediaStore,
		logger:     logger.With().Str("handler", "MediaHandler").Logger(),
	}
}

// RegisterRoutes mounts media routes
func (h *MediaHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/media/video", authMw(http.HandlerFunc(h.uploadVideo)))
}

func (h *MediaHandler) uploadVideo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	if _, ok := requireInstructor(w, r); !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	data, contentType, err := readFormFile(r, "file")
	if err != nil || data == nil {
		writeMessage(w, http.StatusBadRequest, "Video file is required")
		return
	}

	asset, err := h.mediaStore.Upload(r.Context(), "videos", data, contentType)
	if err != nil {
		h.logger.Error().Err(err).Msg("Video upload failed")
		writeError(w, err, "Failed to upload video")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"video": map[string]string{
			"key": asset.Key,
			"url": asset.URL,
		},
		"message": "Video uploaded successfully",
	})
}
