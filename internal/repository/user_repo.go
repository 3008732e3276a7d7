package repository

import (
	"context"
	"database/sql"
	"errors"

	"app/internal/model"
)

type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateUser(ctx context.Context, u *model.User) error
	// AddEnrollment records that the user has access to the course. Repeating
	// an enrollment is a no-op.
	AddEnrollment(ctx context.Context, userID, courseID string) error
	GetEnrolledCourseIDs(ctx context.Context, userID string) ([]string, error)
}

type userRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	query := `SELECT user_id, name, email, role, photo_key, photo_url, created_at, updated_at FROM user_profiles WHERE user_id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&u.UserID, &u.Name, &u.Email, &u.Role, &u.Photo.Key, &u.Photo.URL, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapStore("failed to scan user row", err)
	}

	enrolled, err := r.GetEnrolledCourseIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	u.EnrolledCourseIDs = enrolled
	return &u, nil
}

func (r *userRepo) UpdateUser(ctx context.Context, u *model.User) error {
	query := `
		UPDATE user_profiles
		SET name = $1, photo_key = $2, photo_url = $3, updated_at = NOW()
		WHERE user_id = $4
		RETURNING email, role, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, u.Name, u.Photo.Key, u.Photo.URL, u.UserID).
		Scan(&u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return wrapStore("failed to update user", err)
	}
	return nil
}

func (r *userRepo) AddEnrollment(ctx context.Context, userID, courseID string) error {
	query := `
		INSERT INTO enrollments (user_id, course_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, course_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, userID, courseID); err != nil {
		return wrapStore("failed to add enrollment", err)
	}
	return nil
}

func (r *userRepo) GetEnrolledCourseIDs(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT course_id FROM enrollments WHERE user_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, wrapStore("failed to query enrollments", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, wrapStore("failed to scan enrollment row", err)
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
