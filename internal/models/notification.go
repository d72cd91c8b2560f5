package models

import "time"

// ExamType distinguishes regular exams from supplementary attempts.
type ExamType string

const (
	ExamRegular       ExamType = "regular"
	ExamSupplementary ExamType = "supplementary"
)

// ExamNotification announces an exam window and its fee to a target year.
type ExamNotification struct {
	ID                  string     `db:"id" json:"id"`
	Title               string     `db:"title" json:"title"`
	Year                int        `db:"year" json:"year"`
	Semester            *int       `db:"semester" json:"semester,omitempty"`
	ExamFeeAmount       int64      `db:"exam_fee_amount" json:"exam_fee_amount"`
	StartDate           time.Time  `db:"start_date" json:"start_date"`
	EndDate             time.Time  `db:"end_date" json:"end_date"`
	LastDateWithoutFine *time.Time `db:"last_date_without_fine" json:"last_date_without_fine,omitempty"`
	LateFee             int64      `db:"late_fee" json:"late_fee"`
	Description         *string    `db:"description" json:"description,omitempty"`
	ExamType            ExamType   `db:"exam_type" json:"exam_type"`
	IsActive            bool       `db:"is_active" json:"is_active"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// NotificationFilter narrows notification listings.
type NotificationFilter struct {
	IsActive *bool
	// ViewerYear scopes visibility for students: regular notifications
	// for the exact year, supplementary for any year up to it.
	ViewerYear int
}
