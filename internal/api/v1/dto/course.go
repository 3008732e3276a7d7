package dto

import (
	"time"

	"app/internal/model"
)

// CourseCreateDTO is used for incoming course creation requests
type CourseCreateDTO struct {
	Title    string `json:"title" validate:"required"`
	Category string `json:"category" validate:"required"`
}

// CourseDTO is returned in API responses for courses
type CourseDTO struct {
	CourseID     string    `json:"course_id"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Level        string    `json:"level"`
	PriceCents   int64     `json:"price_cents"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	IsPublished  bool      `json:"is_published"`
	CreatorID    string    `json:"creator_id"`
	LectureIDs   []string  `json:"lecture_ids"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublishedCourseDTO is a course listing entry annotated with the creator's
// public name and photo.
type PublishedCourseDTO struct {
	CourseDTO
	CreatorName  string `json:"creator_name"`
	CreatorPhoto string `json:"creator_photo,omitempty"`
}

// NewCourseDTO maps a course model onto its response shape.
func NewCourseDTO(c *model.Course) CourseDTO {
	lectureIDs := c.LectureIDs
	if lectureIDs == nil {
		lectureIDs = []string{}
	}
	return CourseDTO{
		CourseID:     c.CourseID,
		Title:        c.Title,
		Subtitle:     c.Subtitle,
		Description:  c.Description,
		Category:     c.Category,
		Level:        c.Level,
		PriceCents:   c.PriceCents,
		ThumbnailURL: c.Thumbnail.URL,
		IsPublished:  c.IsPublished,
		CreatorID:    c.CreatorID,
		LectureIDs:   lectureIDs,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// NewPublishedCourseDTO maps an annotated course onto its listing shape.
func NewPublishedCourseDTO(c *model.CourseWithCreator) PublishedCourseDTO {
	return PublishedCourseDTO{
		CourseDTO:    NewCourseDTO(&c.Course),
		CreatorName:  c.CreatorName,
		CreatorPhoto: c.CreatorPhoto,
	}
}
