package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campora/college-admin-api/internal/models"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
)

// StudentRepository manages persistence for the student aggregate: the
// student row plus its fee ledger (records and transactions).
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, user_id, usn, full_name, department, current_year, quota, entry, status,
        transport_opted, hostel_opted, placement_opted,
        annual_college_fee, annual_transport_fee, annual_hostel_fee, annual_placement_fee,
        college_fee_due, transport_fee_due, hostel_fee_due, placement_fee_due, last_sem_dues,
        eligibility_override, version, created_at, updated_at`

// List returns students matching the provided filters. The fee ledger is
// not loaded for listings.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base := "FROM students WHERE 1=1"
	var args []interface{}

	if filter.Search != "" {
		base += fmt.Sprintf(" AND (LOWER(usn) LIKE $%d OR LOWER(full_name) LIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Department != "" {
		base += fmt.Sprintf(" AND department = $%d", len(args)+1)
		args = append(args, filter.Department)
	}
	if filter.Year > 0 {
		base += fmt.Sprintf(" AND current_year = $%d", len(args)+1)
		args = append(args, filter.Year)
	}
	if filter.Status != "" {
		base += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, filter.Status)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY usn ASC LIMIT %d OFFSET %d", studentColumns, base, size, offset)

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := "SELECT COUNT(*) " + base
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student aggregate, ledger included.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return r.findOne(ctx, "id = $1", id)
}

// FindByUSN fetches a student aggregate by university seat number.
func (r *StudentRepository) FindByUSN(ctx context.Context, usn string) (*models.Student, error) {
	return r.findOne(ctx, "UPPER(usn) = UPPER($1)", usn)
}

// FindByUserID fetches the student aggregate linked to a user account.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	return r.findOne(ctx, "user_id = $1", userID)
}

func (r *StudentRepository) findOne(ctx context.Context, where string, arg interface{}) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE %s LIMIT 1", studentColumns, where)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, arg); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	if err := r.loadLedger(ctx, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// ListIDsByYear returns identifiers of active students in the given year.
// Batch operations iterate IDs and load each aggregate separately so the
// compare-and-swap in Save stays per student.
func (r *StudentRepository) ListIDsByYear(ctx context.Context, year int) ([]string, error) {
	const query = `SELECT id FROM students WHERE current_year = $1 AND status = $2 ORDER BY usn ASC`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, year, models.StudentActive); err != nil {
		return nil, fmt.Errorf("list student ids by year: %w", err)
	}
	return ids, nil
}

// ListActiveIDs returns identifiers of all active students.
func (r *StudentRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	const query = `SELECT id FROM students WHERE status = $1 ORDER BY usn ASC`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, models.StudentActive); err != nil {
		return nil, fmt.Errorf("list active student ids: %w", err)
	}
	return ids, nil
}

// ExistsByUSN checks whether a student with the given USN already exists.
func (r *StudentRepository) ExistsByUSN(ctx context.Context, usn string) (bool, error) {
	const query = `SELECT 1 FROM students WHERE UPPER(usn) = UPPER($1) LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, usn); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check usn: %w", err)
	}
	return true, nil
}

// Create inserts a new student aggregate.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	student.Version = 1

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create student tx: %w", err)
	}

	const query = `INSERT INTO students (id, user_id, usn, full_name, department, current_year, quota, entry, status,
        transport_opted, hostel_opted, placement_opted,
        annual_college_fee, annual_transport_fee, annual_hostel_fee, annual_placement_fee,
        college_fee_due, transport_fee_due, hostel_fee_due, placement_fee_due, last_sem_dues,
        eligibility_override, version, created_at, updated_at)
        VALUES (:id, :user_id, :usn, :full_name, :department, :current_year, :quota, :entry, :status,
        :transport_opted, :hostel_opted, :placement_opted,
        :annual_college_fee, :annual_transport_fee, :annual_hostel_fee, :annual_placement_fee,
        :college_fee_due, :transport_fee_due, :hostel_fee_due, :placement_fee_due, :last_sem_dues,
        :eligibility_override, :version, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, student); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("create student: %w", err)
	}

	if err := r.saveLedger(ctx, tx, student, now); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create student tx: %w", err)
	}
	return nil
}

// Save persists the whole aggregate with optimistic locking on the student
// row. A version mismatch returns ErrConflict; the caller reloads and
// retries.
func (r *StudentRepository) Save(ctx context.Context, student *models.Student) error {
	now := time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save student tx: %w", err)
	}

	const query = `UPDATE students SET full_name = $1, department = $2, current_year = $3, quota = $4, entry = $5, status = $6,
        transport_opted = $7, hostel_opted = $8, placement_opted = $9,
        annual_college_fee = $10, annual_transport_fee = $11, annual_hostel_fee = $12, annual_placement_fee = $13,
        college_fee_due = $14, transport_fee_due = $15, hostel_fee_due = $16, placement_fee_due = $17, last_sem_dues = $18,
        eligibility_override = $19, version = version + 1, updated_at = $20
        WHERE id = $21 AND version = $22`
	result, err := tx.ExecContext(ctx, query,
		student.FullName, student.Department, student.CurrentYear, student.Quota, student.Entry, student.Status,
		student.TransportOpted, student.HostelOpted, student.PlacementOpted,
		student.AnnualCollegeFee, student.AnnualTransportFee, student.AnnualHostelFee, student.AnnualPlacementFee,
		student.CollegeFeeDue, student.TransportFeeDue, student.HostelFeeDue, student.PlacementFeeDue, student.LastSemDues,
		student.EligibilityOverride, now,
		student.ID, student.Version)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("save student: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("save student rows affected: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return appErrors.Clone(appErrors.ErrConflict, "student was modified concurrently")
	}

	if err := r.saveLedger(ctx, tx, student, now); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save student tx: %w", err)
	}

	student.Version++
	student.UpdatedAt = now
	return nil
}

// saveLedger upserts fee records and transactions and prunes records the
// aggregate no longer holds (reconciliation merges drop duplicates).
// Positions are rewritten from slice order on every save.
func (r *StudentRepository) saveLedger(ctx context.Context, tx *sqlx.Tx, student *models.Student, now time.Time) error {
	const recordQuery = `INSERT INTO fee_records (id, student_id, year, semester, fee_type, amount_due, amount_paid, status, position, created_at, updated_at)
        VALUES (:id, :student_id, :year, :semester, :fee_type, :amount_due, :amount_paid, :status, :position, :created_at, :updated_at)
        ON CONFLICT (id) DO UPDATE SET amount_due = EXCLUDED.amount_due, amount_paid = EXCLUDED.amount_paid,
        status = EXCLUDED.status, position = EXCLUDED.position, updated_at = EXCLUDED.updated_at`
	const txQuery = `INSERT INTO fee_transactions (id, fee_record_id, amount, mode, reference, position, paid_at)
        VALUES (:id, :fee_record_id, :amount, :mode, :reference, :position, :paid_at)
        ON CONFLICT (id) DO UPDATE SET fee_record_id = EXCLUDED.fee_record_id, position = EXCLUDED.position`

	keepIDs := make([]string, 0, len(student.Records))
	for i := range student.Records {
		record := &student.Records[i]
		if record.ID == "" {
			record.ID = uuid.NewString()
		}
		record.StudentID = student.ID
		record.Position = i
		if record.CreatedAt.IsZero() {
			record.CreatedAt = now
		}
		record.UpdatedAt = now
		keepIDs = append(keepIDs, record.ID)

		if _, err := tx.NamedExecContext(ctx, recordQuery, record); err != nil {
			return fmt.Errorf("save fee record: %w", err)
		}

		for j := range record.Transactions {
			entry := &record.Transactions[j]
			if entry.ID == "" {
				entry.ID = uuid.NewString()
			}
			entry.FeeRecordID = record.ID
			entry.Position = j
			if entry.PaidAt.IsZero() {
				entry.PaidAt = now
			}
			if _, err := tx.NamedExecContext(ctx, txQuery, entry); err != nil {
				return fmt.Errorf("save fee transaction: %w", err)
			}
		}
	}

	// fee_transactions rows cascade with their record.
	const pruneQuery = `DELETE FROM fee_records WHERE student_id = $1 AND id <> ALL($2)`
	if _, err := tx.ExecContext(ctx, pruneQuery, student.ID, pq.Array(keepIDs)); err != nil {
		return fmt.Errorf("prune fee records: %w", err)
	}
	return nil
}

func (r *StudentRepository) loadLedger(ctx context.Context, student *models.Student) error {
	const recordQuery = `SELECT id, student_id, year, semester, fee_type, amount_due, amount_paid, status, position, created_at, updated_at
        FROM fee_records WHERE student_id = $1 ORDER BY position ASC`
	var records []models.FeeRecord
	if err := r.db.SelectContext(ctx, &records, recordQuery, student.ID); err != nil {
		return fmt.Errorf("load fee records: %w", err)
	}

	const txQuery = `SELECT t.id, t.fee_record_id, t.amount, t.mode, t.reference, t.position, t.paid_at
        FROM fee_transactions t
        JOIN fee_records r ON r.id = t.fee_record_id
        WHERE r.student_id = $1 ORDER BY t.position ASC`
	var transactions []models.FeeTransaction
	if err := r.db.SelectContext(ctx, &transactions, txQuery, student.ID); err != nil {
		return fmt.Errorf("load fee transactions: %w", err)
	}

	byRecord := make(map[string][]models.FeeTransaction, len(records))
	for _, entry := range transactions {
		byRecord[entry.FeeRecordID] = append(byRecord[entry.FeeRecordID], entry)
	}
	for i := range records {
		records[i].Transactions = byRecord[records[i].ID]
	}
	student.Records = records
	return nil
}
