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

// LectureEdit carries a partial lecture update. Nil fields are left unchanged,
// not cleared.
type LectureEdit struct {
	Title         *string
	Video         *model.MediaRef
	IsPreviewFree *bool
}

// LectureService defines lecture operations within the course aggregate.
type LectureService interface {
	CreateLecture(ctx context.Context, courseID, title string) (*model.Lecture, error)
	GetLectureByID(ctx context.Context, lectureID string) (*model.Lecture, error)
	GetLecturesByCourseID(ctx context.Context, courseID string) ([]model.Lecture, error)
	EditLecture(ctx context.Context, courseID, lectureID string, edit LectureEdit) (*model.Lecture, error)
	RemoveLecture(ctx context.Context, lectureID string) error
}

// lectureService is the implementation of LectureService
type lectureService struct {
	repo          repository.LectureRepository
	courseRepo    repository.CourseRepository
	mediaStore    media.Store
	lectureLogger zerolog.Logger
}

// NewLectureService creates a new LectureService
func NewLectureService(repo repository.LectureRepository, courseRepo repository.CourseRepository, mediaStore media.Store, logger zerolog.Logger) LectureService {
	return &lectureService{
		repo:          repo,
		courseRepo:    courseRepo,
		mediaStore:    mediaStore,
		lectureLogger: logger.With().Str("service", "LectureService").Logger(),
	}
}

// CreateLecture creates a lecture and appends its id to the course's lecture
// list. The course must exist before the lecture record is written, so a bad
// course id never leaves an unattached lecture behind.
func (s *lectureService) CreateLecture(ctx context.Context, courseID, title string) (*model.Lecture, error) {
	if strings.TrimSpace(title) == "" || courseID == "" {
		return nil, fmt.Errorf("%w: lecture title and course id are required", apperr.ErrValidation)
	}

	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("%w: course %s", apperr.ErrNotFound, courseID)
	}

	lecture := &model.Lecture{
		ID:    uuid.NewString(),
		Title: title,
	}
	if err := s.repo.CreateLecture(ctx, lecture); err != nil {
		s.lectureLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to create lecture")
		return nil, err
	}
	if err := s.courseRepo.AppendLecture(ctx, courseID, lecture.ID); err != nil {
		// The lecture document exists but is not listed by the course yet.
		// EditLecture repairs this on the next write.
		s.lectureLogger.Error().Err(err).Str("lecture_id", lecture.ID).Str("course_id", courseID).Msg("Failed to attach lecture to course")
		return nil, err
	}
	return lecture, nil
}

// GetLectureByID retrieves a lecture by ID
func (s *lectureService) GetLectureByID(ctx context.Context, lectureID string) (*model.Lecture, error) {
	lecture, err := s.repo.GetLectureByID(ctx, lectureID)
	if err != nil {
		return nil, err
	}
	if lecture == nil {
		return nil, fmt.Errorf("%w: lecture %s", apperr.ErrNotFound, lectureID)
	}
	return lecture, nil
}

// GetLecturesByCourseID returns the course's lectures in stored order.
func (s *lectureService) GetLecturesByCourseID(ctx context.Context, courseID string) ([]model.Lecture, error) {
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("%w: course %s", apperr.ErrNotFound, courseID)
	}
	return s.repo.GetLecturesByCourseID(ctx, courseID)
}

// EditLecture updates only the fields supplied. If the owning course exists
// but does not yet list the lecture, the id is appended, repairing a
// previously unattached lecture.
func (s *lectureService) EditLecture(ctx context.Context, courseID, lectureID string, edit LectureEdit) (*model.Lecture, error) {
	lecture, err := s.repo.GetLectureByID(ctx, lectureID)
	if err != nil {
		return nil, err
	}
	if lecture == nil {
		return nil, fmt.Errorf("%w: lecture %s", apperr.ErrNotFound, lectureID)
	}

	oldVideo := lecture.Video
	if edit.Title != nil {
		lecture.Title = *edit.Title
	}
	if edit.Video != nil {
		lecture.Video = *edit.Video
	}
	if edit.IsPreviewFree != nil {
		lecture.IsPreviewFree = *edit.IsPreviewFree
	}

	if err := s.repo.UpdateLecture(ctx, lecture); err != nil {
		s.lectureLogger.Error().Err(err).Str("lecture_id", lectureID).Msg("Failed to update lecture")
		return nil, err
	}

	// A replaced video reference leaves its old remote asset dangling; clean
	// it up once the new reference is durable. Failure is logged, not surfaced.
	if edit.Video != nil && !oldVideo.IsZero() && oldVideo.Key != lecture.Video.Key {
		if err := s.mediaStore.Delete(ctx, oldVideo.Key); err != nil {
			s.lectureLogger.Warn().Err(err).Str("key", oldVideo.Key).Msg("Failed to delete replaced video asset")
		}
	}

	if courseID != "" {
		s.repairAttachment(ctx, courseID, lectureID)
	}
	return lecture, nil
}

// repairAttachment appends the lecture to the course if the course exists and
// does not list it yet. Best-effort: failures are logged only.
func (s *lectureService) repairAttachment(ctx context.Context, courseID, lectureID string) {
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil || course == nil {
		return
	}
	attached, err := s.courseRepo.ContainsLecture(ctx, courseID, lectureID)
	if err != nil {
		s.lectureLogger.Warn().Err(err).Str("lecture_id", lectureID).Msg("Failed to check lecture attachment")
		return
	}
	if !attached {
		if err := s.courseRepo.AppendLecture(ctx, courseID, lectureID); err != nil {
			s.lectureLogger.Warn().Err(err).Str("lecture_id", lectureID).Str("course_id", courseID).Msg("Failed to repair lecture attachment")
		}
	}
}

// RemoveLecture deletes the lecture document, then its remote video asset,
// then the id from whichever courses reference it. The asset delete runs
// after the document delete; if it fails the document is already gone and the
// orphaned asset is logged, not surfaced.
func (s *lectureService) RemoveLecture(ctx context.Context, lectureID string) error {
	lecture, err := s.repo.GetLectureByID(ctx, lectureID)
	if err != nil {
		return err
	}
	if lecture == nil {
		return fmt.Errorf("%w: lecture %s", apperr.ErrNotFound, lectureID)
	}

	if err := s.repo.DeleteLecture(ctx, lectureID); err != nil {
		s.lectureLogger.Error().Err(err).Str("lecture_id", lectureID).Msg("Failed to delete lecture")
		return err
	}

	if !lecture.Video.IsZero() {
		if err := s.mediaStore.Delete(ctx, lecture.Video.Key); err != nil {
			s.lectureLogger.Warn().Err(err).Str("key", lecture.Video.Key).Msg("Failed to delete lecture video asset")
		}
	}

	if err := s.courseRepo.RemoveLectureRefs(ctx, lectureID); err != nil {
		s.lectureLogger.Error().Err(err).Str("lecture_id", lectureID).Msg("Failed to remove lecture refs from courses")
		return err
	}
	return nil
}
