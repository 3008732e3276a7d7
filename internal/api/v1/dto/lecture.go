package dto

import (
	"time"

	"app/internal/model"
)

// LectureCreateDTO is used for incoming lecture creation requests
type LectureCreateDTO struct {
	Title string `json:"title" validate:"required"`
}

// VideoInfoDTO is a video reference supplied by the client after a media
// upload: the asset key plus its retrieval URL.
type VideoInfoDTO struct {
	Key string `json:"key" validate:"required"`
	URL string `json:"url" validate:"required,url"`
}

// LectureUpdateDTO is used for incoming lecture update requests. Absent
// fields are left unchanged.
type LectureUpdateDTO struct {
	Title         *string       `json:"title,omitempty"`
	Video         *VideoInfoDTO `json:"video,omitempty"`
	IsPreviewFree *bool         `json:"is_preview_free,omitempty"`
}

// LectureDTO is returned for a single lecture
type LectureDTO struct {
	LectureID     string    `json:"lecture_id"`
	Title         string    `json:"title"`
	VideoURL      string    `json:"video_url,omitempty"`
	IsPreviewFree bool      `json:"is_preview_free"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewLectureDTO maps a lecture model onto its response shape.
func NewLectureDTO(l *model.Lecture) LectureDTO {
	return LectureDTO{
		LectureID:     l.ID,
		Title:         l.Title,
		VideoURL:      l.Video.URL,
		IsPreviewFree: l.IsPreviewFree,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}
