package dto

import (
	"time"

	"app/internal/model"
)

// UserProfileDTO is returned for the authenticated user's profile
type UserProfileDTO struct {
	UserID          string      `json:"user_id"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Role            string      `json:"role"`
	PhotoURL        string      `json:"photo_url,omitempty"`
	EnrolledCourses []CourseDTO `json:"enrolled_courses"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// NewUserProfileDTO maps a user and their enrolled courses onto the profile shape.
func NewUserProfileDTO(u *model.User, enrolled []model.Course) UserProfileDTO {
	courses := make([]CourseDTO, 0, len(enrolled))
	for i := range enrolled {
		courses = append(courses, NewCourseDTO(&enrolled[i]))
	}
	return UserProfileDTO{
		UserID:          u.UserID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            string(u.Role),
		PhotoURL:        u.Photo.URL,
		EnrolledCourses: courses,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
