package model

import "time"

// Lecture represents a single lecture. Lectures live as top-level records; the
// owning course references them by id through its ordered lecture list.
type Lecture struct {
	ID            string    `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	Video         MediaRef  `json:"video"`
	IsPreviewFree bool      `db:"is_preview_free" json:"is_preview_free"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
