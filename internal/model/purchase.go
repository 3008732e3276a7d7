package model

import "time"

// Purchase status values. A purchase is created as pending when a checkout
// session is opened and moves to completed or failed from the payment
// gateway's confirmation callback.
const (
	PurchasePending   = "pending"
	PurchaseCompleted = "completed"
	PurchaseFailed    = "failed"
)

// Purchase records one checkout attempt for a course.
type Purchase struct {
	ID          string    `db:"id" json:"id"`
	CourseID    string    `db:"course_id" json:"course_id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Status      string    `db:"status" json:"status"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	SessionID   string    `db:"session_id" json:"session_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
