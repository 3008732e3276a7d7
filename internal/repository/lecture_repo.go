package repository

import (
	"context"
	"database/sql"

	"app/internal/model"
)

type LectureRepository interface {
	CreateLecture(ctx context.Context, l *model.Lecture) error
	GetLectureByID(ctx context.Context, lectureID string) (*model.Lecture, error)
	// GetLecturesByCourseID returns the course's lectures in stored list order
	GetLecturesByCourseID(ctx context.Context, courseID string) ([]model.Lecture, error)
	UpdateLecture(ctx context.Context, l *model.Lecture) error
	DeleteLecture(ctx context.Context, lectureID string) error
}

type lectureRepository struct {
	db *sql.DB
}

func NewLectureRepository(db *sql.DB) LectureRepository {
	return &lectureRepository{db: db}
}

func (r *lectureRepository) CreateLecture(ctx context.Context, l *model.Lecture) error {
	query := `
		INSERT INTO lectures (id, title, video_key, video_url, is_preview_free)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		l.ID, l.Title, l.Video.Key, l.Video.URL, l.IsPreviewFree,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return wrapStore("failed to insert lecture", err)
	}
	return nil
}

func (r *lectureRepository) GetLectureByID(ctx context.Context, lectureID string) (*model.Lecture, error) {
	query := `
		SELECT id, title, video_key, video_url, is_preview_free, created_at, updated_at
		FROM lectures
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, lectureID)
	var l model.Lecture
	if err := row.Scan(
		&l.ID,
		&l.Title,
		&l.Video.Key,
		&l.Video.URL,
		&l.IsPreviewFree,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, wrapStore("failed to scan lecture row", err)
	}
	return &l, nil
}

func (r *lectureRepository) GetLecturesByCourseID(ctx context.Context, courseID string) ([]model.Lecture, error) {
	query := `
		SELECT l.id, l.title, l.video_key, l.video_url, l.is_preview_free, l.created_at, l.updated_at
		FROM lectures l
		JOIN course_lectures cl ON cl.lecture_id = l.id
		WHERE cl.course_id = $1
		ORDER BY cl.position ASC
	`
	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, wrapStore("failed to query lectures by course", err)
	}
	defer rows.Close()

	var lectures []model.Lecture
	for rows.Next() {
		var l model.Lecture
		if err := rows.Scan(
			&l.ID,
			&l.Title,
			&l.Video.Key,
			&l.Video.URL,
			&l.IsPreviewFree,
			&l.CreatedAt,
			&l.UpdatedAt,
		); err != nil {
			return nil, wrapStore("failed to scan lecture row", err)
		}
		lectures = append(lectures, l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStore("row iteration error", err)
	}

	if len(lectures) == 0 {
		return []model.Lecture{}, nil
	}
	return lectures, nil
}

func (r *lectureRepository) UpdateLecture(ctx context.Context, l *model.Lecture) error {
	query := `
		UPDATE lectures
		SET title = $1, video_key = $2, video_url = $3, is_preview_free = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		l.Title, l.Video.Key, l.Video.URL, l.IsPreviewFree, l.ID,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return wrapStore("failed to update lecture", err)
	}
	return nil
}

func (r *lectureRepository) DeleteLecture(ctx context.Context, lectureID string) error {
	query := `DELETE FROM lectures WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, lectureID); err != nil {
		return wrapStore("failed to delete lecture", err)
	}
	return nil
}
