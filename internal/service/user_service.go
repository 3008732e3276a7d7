package service

import (
	"context"
	"fmt"

	"app/internal/apperr"
	"app/internal/media"
	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// ProfileEdit carries a partial profile update.
type ProfileEdit struct {
	Name *string

	NewPhoto         []byte
	PhotoContentType string
}

type UserService interface {
	// GetProfile returns the user together with the courses they are enrolled in.
	GetProfile(ctx context.Context, userID string) (*model.User, []model.Course, error)
	// UpdateProfile updates name and/or profile photo. Photo replacement uses
	// the same upload-before-delete ordering as course thumbnails.
	UpdateProfile(ctx context.Context, userID string, edit ProfileEdit) (*model.User, error)
}

type userService struct {
	userRepo   repository.UserRepository
	courseRepo repository.CourseRepository
	mediaStore media.Store
	userLogger zerolog.Logger
}

func NewUserService(userRepo repository.UserRepository, courseRepo repository.CourseRepository, mediaStore media.Store, logger zerolog.Logger) UserService {
	return &userService{
		userRepo:   userRepo,
		courseRepo: courseRepo,
		mediaStore: mediaStore,
		userLogger: logger.With().Str("service", "UserService").Logger(),
	}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*model.User, []model.Course, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, fmt.Errorf("%w: user %s", apperr.ErrNotFound, userID)
	}

	enrolled := []model.Course{}
	for _, courseID := range user.EnrolledCourseIDs {
		course, err := s.courseRepo.GetCourseByID(ctx, courseID)
		if err != nil {
			return nil, nil, err
		}
		if course == nil {
			// Enrollment pointing at a removed course; skip it.
			s.userLogger.Warn().Str("course_id", courseID).Str("user_id", userID).Msg("Enrollment references missing course")
			continue
		}
		enrolled = append(enrolled, *course)
	}
	return user, enrolled, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, edit ProfileEdit) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", apperr.ErrNotFound, userID)
	}

	oldPhoto := user.Photo
	if edit.NewPhoto != nil {
		asset, err := s.mediaStore.Upload(ctx, "photos", edit.NewPhoto, edit.PhotoContentType)
		if err != nil {
			return nil, err
		}
		user.Photo = model.MediaRef{Key: asset.Key, URL: asset.URL}
	}
	if edit.Name != nil {
		user.Name = *edit.Name
	}

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		s.userLogger.Error().Err(err).Str("user_id", userID).Msg("Failed to update profile")
		return nil, err
	}

	if edit.NewPhoto != nil && !oldPhoto.IsZero() {
		if err := s.mediaStore.Delete(ctx, oldPhoto.Key); err != nil {
			s.userLogger.Warn().Err(err).Str("key", oldPhoto.Key).Msg("Failed to delete replaced profile photo")
		}
	}
	return user, nil
}
