package model

import "time"

// Course represents a course in the system. LectureIDs is the ordered list of
// lecture identifiers owned by this course; the lecture documents themselves
// are stored top-level and addressed independently.
type Course struct {
	CourseID    string    `db:"id" json:"course_id"`
	Title       string    `db:"title" json:"title"`
	Subtitle    string    `db:"subtitle" json:"subtitle"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	Level       string    `db:"level" json:"level"`
	PriceCents  int64     `db:"price_cents" json:"price_cents"`
	Thumbnail   MediaRef  `json:"thumbnail"`
	IsPublished bool      `db:"is_published" json:"is_published"`
	CreatorID   string    `db:"creator_id" json:"creator_id"`
	LectureIDs  []string  `json:"lecture_ids"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CourseWithCreator annotates a published course with the creator's public
// name and photo for listing pages.
type CourseWithCreator struct {
	Course
	CreatorName  string `json:"creator_name"`
	CreatorPhoto string `json:"creator_photo"`
}
