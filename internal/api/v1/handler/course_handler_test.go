package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"app/internal/apperr"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type stubCourseService struct {
	course       *model.Course
	err          error
	createCalled bool
}

func (s *stubCourseService) CreateCourse(_ context.Context, title, category, creatorID string) (*model.Course, error) {
	s.createCalled = true
	if s.err != nil {
		return nil, s.err
	}
	return &model.Course{CourseID: "course-1", Title: title, Category: category, CreatorID: creatorID, LectureIDs: []string{}}, nil
}

func (s *stubCourseService) GetCourseByID(_ context.Context, courseID string) (*model.Course, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.course, nil
}

func (s *stubCourseService) EditCourse(_ context.Context, courseID string, _ service.CourseEdit) (*model.Course, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.course, nil
}

func (s *stubCourseService) ListPublished(context.Context) ([]model.CourseWithCreator, error) {
	return nil, s.err
}

func (s *stubCourseService) ListByCreator(context.Context, string) ([]model.Course, error) {
	return nil, s.err
}

func (s *stubCourseService) SetPublished(_ context.Context, _ string, published bool) (*model.Course, error) {
	if s.err != nil {
		return nil, s.err
	}
	c := *s.course
	c.IsPublished = published
	return &c, nil
}

type stubLectureService struct {
	lecture *model.Lecture
	err     error
}

func (s *stubLectureService) CreateLecture(_ context.Context, courseID, title string) (*model.Lecture, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Lecture{ID: "lecture-1", Title: title}, nil
}

func (s *stubLectureService) GetLectureByID(context.Context, string) (*model.Lecture, error) {
	return s.lecture, s.err
}

func (s *stubLectureService) GetLecturesByCourseID(context.Context, string) ([]model.Lecture, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.lecture == nil {
		return []model.Lecture{}, nil
	}
	return []model.Lecture{*s.lecture}, nil
}

func (s *stubLectureService) EditLecture(_ context.Context, _, _ string, _ service.LectureEdit) (*model.Lecture, error) {
	return s.lecture, s.err
}

func (s *stubLectureService) RemoveLecture(context.Context, string) error {
	return s.err
}

func newCourseTestHandler(cs *stubCourseService, ls *stubLectureService) *CourseHandler {
	return NewCourseHandler(cs, ls, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
}

func TestCreateCourseAsInstructor(t *testing.T) {
	cs := &stubCourseService{}
	h := newCourseTestHandler(cs, &stubLectureService{})

	req := httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader(`{"title":"Go","category":"programming"}`))
	req = withPrincipal(req, middleware.Principal{UserID: "instructor-1", Role: model.RoleInstructor})
	rec := httptest.NewRecorder()
	h.createCourse(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !cs.createCalled {
		t.Fatal("service not called")
	}
}

func TestCreateCourseAsLearnerReturns403(t *testing.T) {
	cs := &stubCourseService{}
	h := newCourseTestHandler(cs, &stubLectureService{})

	req := httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader(`{"title":"Go","category":"programming"}`))
	req = withPrincipal(req, middleware.Principal{UserID: "learner-1", Role: model.RoleLearner})
	rec := httptest.NewRecorder()
	h.createCourse(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
	if cs.createCalled {
		t.Fatal("service called despite missing instructor role")
	}
}

func TestCreateCourseMissingFieldsReturns400(t *testing.T) {
	h := newCourseTestHandler(&stubCourseService{}, &stubLectureService{})

	req := httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader(`{"title":"Go"}`))
	req = withPrincipal(req, middleware.Principal{UserID: "instructor-1", Role: model.RoleInstructor})
	rec := httptest.NewRecorder()
	h.createCourse(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetCourseUnknownReturns404(t *testing.T) {
	cs := &stubCourseService{err: fmt.Errorf("%w: course missing", apperr.ErrNotFound)}
	h := newCourseTestHandler(cs, &stubLectureService{})

	req := httptest.NewRequest(http.MethodGet, "/courses/missing", nil)
	req = withPrincipal(req, middleware.Principal{UserID: "u1", Role: model.RoleLearner})
	rec := httptest.NewRecorder()
	h.handleCourse(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestInternalErrorsHideDetails(t *testing.T) {
	cs := &stubCourseService{err: fmt.Errorf("query: %w", apperr.ErrStore)}
	h := newCourseTestHandler(cs, &stubLectureService{})

	req := httptest.NewRequest(http.MethodGet, "/courses/course-1", nil)
	req = withPrincipal(req, middleware.Principal{UserID: "u1", Role: model.RoleLearner})
	rec := httptest.NewRecorder()
	h.handleCourse(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "query") {
		t.Errorf("driver detail leaked into response: %s", rec.Body.String())
	}
}

func TestSetPublishRoute(t *testing.T) {
	cs := &stubCourseService{course: &model.Course{CourseID: "course-1"}}
	h := newCourseTestHandler(cs, &stubLectureService{})

	req := httptest.NewRequest(http.MethodPatch, "/courses/course-1/publish?publish=true", nil)
	req = withPrincipal(req, middleware.Principal{UserID: "instructor-1", Role: model.RoleInstructor})
	rec := httptest.NewRecorder()
	h.handleCourse(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Published") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestCreateLectureRoute(t *testing.T) {
	h := newCourseTestHandler(&stubCourseService{}, &stubLectureService{})

	req := httptest.NewRequest(http.MethodPost, "/courses/course-1/lectures", strings.NewReader(`{"title":"Intro"}`))
	req = withPrincipal(req, middleware.Principal{UserID: "instructor-1", Role: model.RoleInstructor})
	rec := httptest.NewRecorder()
	h.handleCourse(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}
