package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campora/college-admin-api/internal/models"
)

// LibraryRepository persists book loan records.
type LibraryRepository struct {
	db *sqlx.DB
}

// NewLibraryRepository constructs a LibraryRepository.
func NewLibraryRepository(db *sqlx.DB) *LibraryRepository {
	return &LibraryRepository{db: db}
}

const libraryColumns = `id, student_id, usn, book_title, book_id, borrowed_date, due_date, return_date, status, fine, remarks, created_at, updated_at`

// CountOutstanding counts loans not yet returned for a student. This is
// the collaborator the promotion gate consults.
func (r *LibraryRepository) CountOutstanding(ctx context.Context, studentID string) (int, error) {
	const query = `SELECT COUNT(*) FROM library_records WHERE student_id = $1 AND status <> $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, studentID, models.LoanReturned); err != nil {
		return 0, fmt.Errorf("count outstanding loans: %w", err)
	}
	return count, nil
}

// FindByID fetches a loan record.
func (r *LibraryRepository) FindByID(ctx context.Context, id string) (*models.LibraryRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM library_records WHERE id = $1 LIMIT 1`, libraryColumns)
	var record models.LibraryRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find library record: %w", err)
	}
	return &record, nil
}

// ListByStudent returns the loan history for a student, newest first.
func (r *LibraryRepository) ListByStudent(ctx context.Context, studentID string) ([]models.LibraryRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM library_records WHERE student_id = $1 ORDER BY borrowed_date DESC`, libraryColumns)
	var records []models.LibraryRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list library records: %w", err)
	}
	return records, nil
}

// ListUnreturned returns all loans still out, oldest due first.
func (r *LibraryRepository) ListUnreturned(ctx context.Context) ([]models.LibraryRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM library_records WHERE status <> $1 ORDER BY due_date ASC`, libraryColumns)
	var records []models.LibraryRecord
	if err := r.db.SelectContext(ctx, &records, query, models.LoanReturned); err != nil {
		return nil, fmt.Errorf("list unreturned loans: %w", err)
	}
	return records, nil
}

// Create inserts a new loan record.
func (r *LibraryRepository) Create(ctx context.Context, record *models.LibraryRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	const query = `INSERT INTO library_records (id, student_id, usn, book_title, book_id, borrowed_date, due_date, return_date, status, fine, remarks, created_at, updated_at)
        VALUES (:id, :student_id, :usn, :book_title, :book_id, :borrowed_date, :due_date, :return_date, :status, :fine, :remarks, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create library record: %w", err)
	}
	return nil
}

// Update modifies a loan record, typically on return.
func (r *LibraryRepository) Update(ctx context.Context, record *models.LibraryRecord) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE library_records SET return_date = :return_date, status = :status, fine = :fine, remarks = :remarks, due_date = :due_date, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update library record: %w", err)
	}
	return nil
}
