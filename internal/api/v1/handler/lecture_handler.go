package handler

import (
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/service"

	"github.com/rs/zerolog"
)

// LectureHandler handles the flat lecture endpoints under /lectures/{id}.
type LectureHandler struct {
	lectureService service.LectureService
	logger         zerolog.Logger
}

// NewLectureHandler creates a new LectureHandler
func NewLectureHandler(lectureService service.LectureService, logger zerolog.Logger) *LectureHandler {
	return &LectureHandler{
		lectureService: lectureService,
		logger:         logger.With().Str("handler", "LectureHandler").Logger(),
	}
}

// RegisterRoutes mounts lecture routes
func (h *LectureHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/lectures/", authMw(http.HandlerFunc(h.handleLecture)))
}

func (h *LectureHandler) handleLecture(w http.ResponseWriter, r *http.Request) {
	lectureID := strings.TrimPrefix(r.URL.Path, "/lectures/")
	if lectureID == "" || strings.Contains(lectureID, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.getLecture(w, r, lectureID)
	case http.MethodDelete:
		h.removeLecture(w, r, lectureID)
	default:
		writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
}

func (h *LectureHandler) getLecture(w http.ResponseWriter, r *http.Request, lectureID string) {
	lecture, err := h.lectureService.GetLectureByID(r.Context(), lectureID)
	if err != nil {
		writeError(w, err, "Failed to get lecture")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"lecture": dto.NewLectureDTO(lecture)})
}

func (h *LectureHandler) removeLecture(w http.ResponseWriter, r *http.Request, lectureID string) {
	if _, ok := requireInstructor(w, r); !ok {
		return
	}
	if err := h.lectureService.RemoveLecture(r.Context(), lectureID); err != nil {
		h.logger.Error().Err(err).Str("lecture_id", lectureID).Msg("Remove lecture failed")
		writeError(w, err, "Failed to remove lecture")
		return
	}
	writeMessage(w, http.StatusOK, "Lecture removed successfully")
}
