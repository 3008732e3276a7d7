package service

import (
	"context"
	"fmt"
	"strings"

	"app/internal/apperr"
	"app/internal/media"
	"app/internal/model"
	"app/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CourseEdit carries a partial course update. Nil fields are left unchanged.
// NewThumbnail, when non-nil, replaces the course thumbnail: the new asset is
// uploaded before the old one is touched, and the whole edit fails if the
// upload does.
type CourseEdit struct {
	Title       *string
	Subtitle    *string
	Description *string
	Category    *string
	Level       *string
	PriceCents  *int64

	NewThumbnail         []byte
	ThumbnailContentType string
}

// CourseService defines the interface for course operations
type CourseService interface {
	CreateCourse(ctx context.Context, title, category, creatorID string) (*model.Course, error)
	GetCourseByID(ctx context.Context, courseID string) (*model.Course, error)
	EditCourse(ctx context.Context, courseID string, edit CourseEdit) (*model.Course, error)
	ListPublished(ctx context.Context) ([]model.CourseWithCreator, error)
	ListByCreator(ctx context.Context, creatorID string) ([]model.Course, error)
	// SetPublished sets the publish flag to the desired state. Setting a flag
	// to its current value is a no-op, not an error.
	SetPublished(ctx context.Context, courseID string, published bool) (*model.Course, error)
}

// courseService is the implementation of CourseService
type courseService struct {
	repo         repository.CourseRepository
	userRepo     repository.UserRepository
	mediaStore   media.Store
	courseLogger zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(repo repository.CourseRepository, userRepo repository.UserRepository, mediaStore media.Store, logger zerolog.Logger) CourseService {
	return &courseService{
		repo:         repo,
		userRepo:     userRepo,
		mediaStore:   mediaStore,
		courseLogger: logger.With().Str("service", "CourseService").Logger(),
	}
}

// CreateCourse creates a new draft course with an empty lecture list and no
// thumbnail. Only instructors can create courses.
func (s *courseService) CreateCourse(ctx context.Context, title, category, creatorID string) (*model.Course, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(category) == "" {
		return nil, fmt.Errorf("%w: course title and category are required", apperr.ErrValidation)
	}

	creator, err := s.userRepo.GetUserByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, fmt.Errorf("%w: creator %s", apperr.ErrNotFound, creatorID)
	}
	if creator.Role != model.RoleInstructor {
		return nil, fmt.Errorf("%w: only instructors can create courses", apperr.ErrValidation)
	}

	course := &model.Course{
		CourseID:    uuid.NewString(),
		Title:       title,
		Category:    category,
		IsPublished: false,
		CreatorID:   creatorID,
		LectureIDs:  []string{},
	}
	if err := s.repo.CreateCourse(ctx, course); err != nil {
		s.courseLogger.Error().Err(err).Msg("Failed to create course")
		return nil, err
	}
	return course, nil
}

// GetCourseByID retrieves a course by its ID
func (s *courseService) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("%w: course %s", apperr.ErrNotFound, courseID)
	}
	return course, nil
}

// EditCourse applies a partial update. When a new thumbnail is supplied it is
// uploaded first; the previous asset is only deleted once the new reference
// has been persisted, so a failed upload leaves the old thumbnail intact.
func (s *courseService) EditCourse(ctx context.Context, courseID string, edit CourseEdit) (*model.Course, error) {
	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("%w: course %s", apperr.ErrNotFound, courseID)
	}

	oldThumbnail := course.Thumbnail
	if edit.NewThumbnail != nil {
		asset, err := s.mediaStore.Upload(ctx, "thumbnails", edit.NewThumbnail, edit.ThumbnailContentType)
		if err != nil {
			// The edit fails entirely; the stored course is untouched.
			return nil, err
		}
		course.Thumbnail = model.MediaRef{Key: asset.Key, URL: asset.URL}
	}

	if edit.Title != nil {
		course.Title = *edit.Title
	}
	if edit.Subtitle != nil {
		course.Subtitle = *edit.Subtitle
	}
	if edit.Description != nil {
		course.Description = *edit.Description
	}
	if edit.Category != nil {
		course.Category = *edit.Category
	}
	if edit.Level != nil {
		course.Level = *edit.Level
	}
	if edit.PriceCents != nil {
		course.PriceCents = *edit.PriceCents
	}

	if err := s.repo.UpdateCourse(ctx, course); err != nil {
		s.courseLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to update course")
		return nil, err
	}

	// The old asset is deleted only after the new reference is durable. A
	// failed delete orphans the old asset; that is logged, not surfaced.
	if edit.NewThumbnail != nil && !oldThumbnail.IsZero() {
		if err := s.mediaStore.Delete(ctx, oldThumbnail.Key); err != nil {
			s.courseLogger.Warn().Err(err).Str("key", oldThumbnail.Key).Msg("Failed to delete replaced thumbnail asset")
		}
	}
	return course, nil
}

// ListPublished retrieves all published courses annotated with the creator's
// public name and photo
func (s *courseService) ListPublished(ctx context.Context) ([]model.CourseWithCreator, error) {
	return s.repo.GetPublishedCourses(ctx)
}

// ListByCreator retrieves all courses owned by the creator. No courses is an
// empty slice, not an error.
func (s *courseService) ListByCreator(ctx context.Context, creatorID string) ([]model.Course, error) {
	return s.repo.GetCoursesByCreator(ctx, creatorID)
}

// SetPublished sets the publish flag directly to the desired state.
func (s *courseService) SetPublished(ctx context.Context, courseID string, published bool) (*model.Course, error) {
	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("%w: course %s", apperr.ErrNotFound, courseID)
	}

	course.IsPublished = published
	if err := s.repo.UpdateCourse(ctx, course); err != nil {
		s.courseLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to update publish state")
		return nil, err
	}
	return course, nil
}
