package model

import "time"

// Role is the closed set of user roles in the marketplace.
type Role string

const (
	RoleLearner    Role = "learner"
	RoleInstructor Role = "instructor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleLearner || r == RoleInstructor
}

// User represents a user profile in the system
type User struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Role      Role      `db:"role" json:"role"`
	Photo     MediaRef  `json:"photo"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// EnrolledCourseIDs is derived membership, written only by the purchase
	// workflow and populated on read.
	EnrolledCourseIDs []string `json:"enrolled_course_ids"`
}
