package repository

import (
	"context"
	"database/sql"

	"app/internal/model"
)

// CourseRepository defines the interface for interacting with course data.
// The ordered lecture-id list is part of the course aggregate and is only
// written through this repository.
type CourseRepository interface {
	CreateCourse(ctx context.Context, c *model.Course) error
	// GetCourseByID retrieves a course with its ordered lecture ids
	GetCourseByID(ctx context.Context, courseID string) (*model.Course, error)
	// UpdateCourse updates an existing course
	UpdateCourse(ctx context.Context, c *model.Course) error
	GetCoursesByCreator(ctx context.Context, creatorID string) ([]model.Course, error)
	GetPublishedCourses(ctx context.Context) ([]model.CourseWithCreator, error)

	AppendLecture(ctx context.Context, courseID, lectureID string) error
	ContainsLecture(ctx context.Context, courseID, lectureID string) (bool, error)
	// RemoveLectureRefs removes the lecture id from every course that lists it
	RemoveLectureRefs(ctx context.Context, lectureID string) error
}

type courseRepo struct {
	db *sql.DB
}

// NewCourseRepo creates a new CourseRepository
func NewCourseRepo(db *sql.DB) CourseRepository {
	return &courseRepo{db: db}
}

// CreateCourse inserts a new course and returns the created record
func (r *courseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	query := `
		INSERT INTO courses (id, title, subtitle, description, category, level, price_cents, thumbnail_key, thumbnail_url, is_published, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		c.CourseID, c.Title, c.Subtitle, c.Description, c.Category, c.Level,
		c.PriceCents, c.Thumbnail.Key, c.Thumbnail.URL, c.IsPublished, c.CreatorID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return wrapStore("failed to insert course", err)
	}
	return nil
}

// GetCourseByID retrieves a course by its ID, including its ordered lecture ids
func (r *courseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	query := `
		SELECT id, title, subtitle, description, category, level, price_cents, thumbnail_key, thumbnail_url, is_published, creator_id, created_at, updated_at
		FROM courses
		WHERE id = $1
	`
	var c model.Course
	err := r.db.QueryRowContext(ctx, query, courseID).Scan(
		&c.CourseID,
		&c.Title,
		&c.Subtitle,
		&c.Description,
		&c.Category,
		&c.Level,
		&c.PriceCents,
		&c.Thumbnail.Key,
		&c.Thumbnail.URL,
		&c.IsPublished,
		&c.CreatorID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, wrapStore("failed to scan course row", err)
	}

	lectureIDs, err := r.getLectureIDs(ctx, courseID)
	if err != nil {
		return nil, err
	}
	c.LectureIDs = lectureIDs
	return &c, nil
}

// UpdateCourse updates an existing course record and returns updated timestamps
func (r *courseRepo) UpdateCourse(ctx context.Context, c *model.Course) error {
	query := `
		UPDATE courses
		SET title = $1, subtitle = $2, description = $3, category = $4, level = $5,
		    price_cents = $6, thumbnail_key = $7, thumbnail_url = $8, is_published = $9,
		    updated_at = NOW()
		WHERE id = $10
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		c.Title, c.Subtitle, c.Description, c.Category, c.Level,
		c.PriceCents, c.Thumbnail.Key, c.Thumbnail.URL, c.IsPublished, c.CourseID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return wrapStore("failed to update course", err)
	}
	return nil
}

// GetCoursesByCreator retrieves all courses owned by the given creator
func (r *courseRepo) GetCoursesByCreator(ctx context.Context, creatorID string) ([]model.Course, error) {
	query := `
		SELECT id, title, subtitle, description, category, level, price_cents, thumbnail_key, thumbnail_url, is_published, creator_id, created_at, updated_at
		FROM courses
		WHERE creator_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, creatorID)
	if err != nil {
		return nil, wrapStore("failed to query courses by creator", err)
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(
			&c.CourseID, &c.Title, &c.Subtitle, &c.Description, &c.Category, &c.Level,
			&c.PriceCents, &c.Thumbnail.Key, &c.Thumbnail.URL, &c.IsPublished, &c.CreatorID,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, wrapStore("failed to scan course row", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStore("row iteration error", err)
	}

	// If no courses found, return an empty slice, not nil
	if len(courses) == 0 {
		return []model.Course{}, nil
	}
	return courses, nil
}

// GetPublishedCourses retrieves all published courses annotated with the
// creator's public name and photo
func (r *courseRepo) GetPublishedCourses(ctx context.Context) ([]model.CourseWithCreator, error) {
	query := `
		SELECT c.id, c.title, c.subtitle, c.description, c.category, c.level, c.price_cents,
		       c.thumbnail_key, c.thumbnail_url, c.is_published, c.creator_id, c.created_at, c.updated_at,
		       u.name, u.photo_url
		FROM courses c
		JOIN user_profiles u ON u.user_id = c.creator_id
		WHERE c.is_published = TRUE
		ORDER BY c.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapStore("failed to query published courses", err)
	}
	defer rows.Close()

	var courses []model.CourseWithCreator
	for rows.Next() {
		var c model.CourseWithCreator
		if err := rows.Scan(
			&c.CourseID, &c.Title, &c.Subtitle, &c.Description, &c.Category, &c.Level,
			&c.PriceCents, &c.Thumbnail.Key, &c.Thumbnail.URL, &c.IsPublished, &c.CreatorID,
			&c.CreatedAt, &c.UpdatedAt,
			&c.CreatorName, &c.CreatorPhoto,
		); err != nil {
			return nil, wrapStore("failed to scan published course row", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStore("row iteration error", err)
	}

	if len(courses) == 0 {
		return []model.CourseWithCreator{}, nil
	}
	return courses, nil
}

// AppendLecture adds the lecture id to the end of the course's lecture list.
// Appending an id the course already lists is a no-op.
func (r *courseRepo) AppendLecture(ctx context.Context, courseID, lectureID string) error {
	query := `
		INSERT INTO course_lectures (course_id, lecture_id, position)
		SELECT $1, $2, COALESCE(MAX(position) + 1, 0)
		FROM course_lectures
		WHERE course_id = $1
		ON CONFLICT (course_id, lecture_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, courseID, lectureID); err != nil {
		return wrapStore("failed to append lecture to course", err)
	}
	return nil
}

// ContainsLecture reports whether the course's lecture list includes lectureID
func (r *courseRepo) ContainsLecture(ctx context.Context, courseID, lectureID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM course_lectures WHERE course_id = $1 AND lecture_id = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, courseID, lectureID).Scan(&exists); err != nil {
		return false, wrapStore("failed to check lecture membership", err)
	}
	return exists, nil
}

// RemoveLectureRefs removes the lecture id from whichever courses reference it
func (r *courseRepo) RemoveLectureRefs(ctx context.Context, lectureID string) error {
	query := `DELETE FROM course_lectures WHERE lecture_id = $1`
	if _, err := r.db.ExecContext(ctx, query, lectureID); err != nil {
		return wrapStore("failed to remove lecture refs", err)
	}
	return nil
}

func (r *courseRepo) getLectureIDs(ctx context.Context, courseID string) ([]string, error) {
	query := `
		SELECT lecture_id
		FROM course_lectures
		WHERE course_id = $1
		ORDER BY position ASC
	`
	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, wrapStore("failed to query course lecture ids", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, wrapStore("failed to scan lecture id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStore("row iteration error", err)
	}
	if len(ids) == 0 {
		return []string{}, nil
	}
	return ids, nil
}
