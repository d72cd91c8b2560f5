package models

import "time"

// LoanStatus tracks the lifecycle of a borrowed book.
type LoanStatus string

const (
	LoanBorrowed LoanStatus = "borrowed"
	LoanReturned LoanStatus = "returned"
	LoanOverdue  LoanStatus = "overdue"
	LoanLost     LoanStatus = "lost"
)

// LibraryRecord is one book loan. Anything not returned counts as an
// outstanding loan against promotion eligibility.
type LibraryRecord struct {
	ID           string     `db:"id" json:"id"`
	StudentID    string     `db:"student_id" json:"student_id"`
	USN          string     `db:"usn" json:"usn"`
	BookTitle    string     `db:"book_title" json:"book_title"`
	BookID       string     `db:"book_id" json:"book_id"`
	BorrowedDate time.Time  `db:"borrowed_date" json:"borrowed_date"`
	DueDate      time.Time  `db:"due_date" json:"due_date"`
	ReturnDate   *time.Time `db:"return_date" json:"return_date,omitempty"`
	Status       LoanStatus `db:"status" json:"status"`
	Fine         int64      `db:"fine" json:"fine"`
	Remarks      *string    `db:"remarks" json:"remarks,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
