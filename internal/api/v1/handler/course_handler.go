package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// CourseHandler handles course endpoints, including the nested lecture routes
// under /courses/{id}/lectures.
type CourseHandler struct {
	courseService  service.CourseService
	lectureService service.LectureService
	validate       *validator.Validate
	logger         zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(courseService service.CourseService, lectureService service.LectureService, validate *validator.Validate, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courseService:  courseService,
		lectureService: lectureService,
		validate:       validate,
		logger:         logger.With().Str("handler", "CourseHandler").Logger(),
	}
}

// RegisterRoutes mounts course routes. The published listing is public; every
// other route requires an authenticated principal.
func (h *CourseHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/courses", authMw(http.HandlerFunc(h.createCourse)))
	mux.Handle("/courses/published", http.HandlerFunc(h.listPublished))
	mux.Handle("/courses/mine", authMw(http.HandlerFunc(h.listMine)))
	mux.Handle("/courses/", authMw(http.HandlerFunc(h.handleCourse)))
}

func (h *CourseHandler) handleCourse(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/courses/")
	segments := strings.Split(strings.Trim(path, "/"), "/")

	switch {
	case len(segments) == 1:
		courseID := segments[0]
		switch r.Method {
		case http.MethodGet:
			h.getCourse(w, r, courseID)
		case http.MethodPut:
			h.editCourse(w, r, courseID)
		default:
			writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		}
	case len(segments) == 2 && segments[1] == "publish":
		if r.Method != http.MethodPatch {
			writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
			return
		}
		h.setPublish(w, r, segments[0])
	case len(segments) == 2 && segments[1] == "lectures":
		switch r.Method {
		case http.MethodPost:
			h.createLecture(w, r, segments[0])
		case http.MethodGet:
			h.listLectures(w, r, segments[0])
		default:
			writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		}
	case len(segments) == 3 && segments[1] == "lectures":
		if r.Method != http.MethodPut {
			writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
			return
		}
		h.editLecture(w, r, segments[0], segments[2])
	default:
		http.NotFound(w, r)
	}
}

func (h *CourseHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	principal, ok := requireInstructor(w, r)
	if !ok {
		return
	}
	var req dto.CourseCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Course title and category are required")
		return
	}
	created, err := h.courseService.CreateCourse(r.Context(), req.Title, req.Category, principal.UserID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Create course failed")
		writeError(w, err, "Failed to create course")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"course":  dto.NewCourseDTO(created),
		"message": "Course created successfully",
	})
}

func (h *CourseHandler) listPublished(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	courses, err := h.courseService.ListPublished(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("List published courses failed")
		writeError(w, err, "Failed to get published courses")
		return
	}
	out := make([]dto.PublishedCourseDTO, 0, len(courses))
	for i := range courses {
		out = append(out, dto.NewPublishedCourseDTO(&courses[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"courses": out})
}

func (h *CourseHandler) listMine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	courses, err := h.courseService.ListByCreator(r.Context(), principal.UserID)
	if err != nil {
		h.logger.Error().Err(err).Msg("List creator courses failed")
		writeError(w, err, "Failed to get courses")
		return
	}
	out := make([]dto.CourseDTO, 0, len(courses))
	for i := range courses {
		out = append(out, dto.NewCourseDTO(&courses[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"courses": out})
}

func (h *CourseHandler) getCourse(w http.ResponseWriter, r *http.Request, courseID string) {
	course, err := h.courseService.GetCourseByID(r.Context(), courseID)
	if err != nil {
		writeError(w, err, "Failed to get course")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"course": dto.NewCourseDTO(course)})
}

// editCourse accepts a multipart form: text fields update independently, an
// optional "thumbnail" file replaces the course thumbnail.
func (h *CourseHandler) editCourse(w http.ResponseWriter, r *http.Request, courseID string) {
	if _, ok := requireInstructor(w, r); !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	edit := service.CourseEdit{
		Title:       formValue(r, "title"),
		Subtitle:    formValue(r, "subtitle"),
		Description: formValue(r, "description"),
		Category:    formValue(r, "category"),
		Level:       formValue(r, "level"),
	}
	if raw := formValue(r, "price_cents"); raw != nil {
		price, err := strconv.ParseInt(*raw, 10, 64)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid price")
			return
		}
		edit.PriceCents = &price
	}

	thumbnail, contentType, err := readFormFile(r, "thumbnail")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid thumbnail upload")
		return
	}
	edit.NewThumbnail = thumbnail
	edit.ThumbnailContentType = contentType

	updated, err := h.courseService.EditCourse(r.Context(), courseID, edit)
	if err != nil {
		h.logger.Error().Err(err).Str("course_id", courseID).Msg("Edit course failed")
		writeError(w, err, "Failed to update course")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"course":  dto.NewCourseDTO(updated),
		"message": "Course updated successfully",
	})
}

func (h *CourseHandler) setPublish(w http.ResponseWriter, r *http.Request, courseID string) {
	if _, ok := requireInstructor(w, r); !ok {
		return
	}
	publish := r.URL.Query().Get("publish") == "true"
	course, err := h.courseService.SetPublished(r.Context(), courseID, publish)
	if err != nil {
		writeError(w, err, "Failed to update publish status")
		return
	}
	statusMessage := "Unpublished"
	if course.IsPublished {
		statusMessage = "Published"
	}
	writeMessage(w, http.StatusOK, "Course is "+statusMessage+" successfully")
}

func (h *CourseHandler) createLecture(w http.ResponseWriter, r *http.Request, courseID string) {
	if _, ok := requireInstructor(w, r); !ok {
		return
	}
	var req dto.LectureCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Lecture title is required")
		return
	}
	lecture, err := h.lectureService.CreateLecture(r.Context(), courseID, req.Title)
	if err != nil {
		h.logger.Error().Err(err).Str("course_id", courseID).Msg("Create lecture failed")
		writeError(w, err, "Failed to create lecture")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"lecture": dto.NewLectureDTO(lecture),
		"message": "Lecture created successfully",
	})
}

func (h *CourseHandler) listLectures(w http.ResponseWriter, r *http.Request, courseID string) {
	lectures, err := h.lectureService.GetLecturesByCourseID(r.Context(), courseID)
	if err != nil {
		writeError(w, err, "Failed to get lectures")
		return
	}
	out := make([]dto.LectureDTO, 0, len(lectures))
	for i := range lectures {
		out = append(out, dto.NewLectureDTO(&lectures[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"lectures": out})
}

func (h *CourseHandler) editLecture(w http.ResponseWriter, r *http.Request, courseID, lectureID string) {
	if _, ok := requireInstructor(w, r); !ok {
		return
	}
	var req dto.LectureUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}
	edit := service.LectureEdit{
		Title:         req.Title,
		IsPreviewFree: req.IsPreviewFree,
	}
	if req.Video != nil {
		edit.Video = &model.MediaRef{Key: req.Video.Key, URL: req.Video.URL}
	}
	lecture, err := h.lectureService.EditLecture(r.Context(), courseID, lectureID, edit)
	if err != nil {
		h.logger.Error().Err(err).Str("lecture_id", lectureID).Msg("Edit lecture failed")
		writeError(w, err, "Failed to edit lecture")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"lecture": dto.NewLectureDTO(lecture),
		"message": "Lecture updated successfully",
	})
}

// formValue returns a pointer to the form field's value, or nil when the
// field was not supplied at all.
func formValue(r *http.Request, name string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
