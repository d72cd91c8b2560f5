package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campora/college-admin-api/internal/models"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
)

type libraryRepository interface {
	CountOutstanding(ctx context.Context, studentID string) (int, error)
	FindByID(ctx context.Context, id string) (*models.LibraryRecord, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.LibraryRecord, error)
	ListUnreturned(ctx context.Context) ([]models.LibraryRecord, error)
	Create(ctx context.Context, record *models.LibraryRecord) error
	Update(ctx context.Context, record *models.LibraryRecord) error
}

// IssueBookRequest lends a book to a student.
type IssueBookRequest struct {
	USN       string `json:"usn" validate:"required"`
	BookTitle string `json:"book_title" validate:"required"`
	BookID    string `json:"book_id" validate:"required"`
	// LoanDays overrides the configured default loan period when > 0.
	LoanDays int `json:"loan_days" validate:"gte=0,lte=365"`
}

// ReturnBookRequest closes a loan.
type ReturnBookRequest struct {
	Fine    int64   `json:"fine" validate:"gte=0"`
	Remarks *string `json:"remarks"`
	Lost    bool    `json:"lost"`
}

// LibraryService owns book loan workflows and feeds the promotion gate
// its outstanding-loan counts.
type LibraryService struct {
	loans           libraryRepository
	students        studentStore
	audit           auditRecorder
	validator       *validator.Validate
	logger          *zap.Logger
	defaultLoanDays int
}

// NewLibraryService constructs a LibraryService.
func NewLibraryService(loans libraryRepository, students studentStore, audit auditRecorder, validate *validator.Validate, logger *zap.Logger, defaultLoanDays int) *LibraryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if defaultLoanDays <= 0 {
		defaultLoanDays = 15
	}
	return &LibraryService{loans: loans, students: students, audit: audit, validator: validate, logger: logger, defaultLoanDays: defaultLoanDays}
}

// Issue lends a book to a student.
func (s *LibraryService) Issue(ctx context.Context, actor *models.JWTClaims, req IssueBookRequest) (*models.LibraryRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid issue payload")
	}

	student, err := s.students.FindByUSN(ctx, req.USN)
	if err != nil {
		return nil, notFoundOrInternal(err, "student not found")
	}

	loanDays := req.LoanDays
	if loanDays <= 0 {
		loanDays = s.defaultLoanDays
	}
	now := time.Now().UTC()
	record := &models.LibraryRecord{
		StudentID:    student.ID,
		USN:          student.USN,
		BookTitle:    req.BookTitle,
		BookID:       req.BookID,
		BorrowedDate: now,
		DueDate:      now.AddDate(0, 0, loanDays),
		Status:       models.LoanBorrowed,
	}
	if err := s.loans.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create loan")
	}

	details, _ := json.Marshal(map[string]interface{}{"usn": student.USN, "book_id": req.BookID})
	emitAudit(ctx, s.logger, s.audit, &models.AuditLog{
		UserID:     actorUserID(actor),
		Role:       actorRole(actor),
		Action:     models.AuditActionBookIssue,
		Resource:   "library_record",
		ResourceID: &record.ID,
		Details:    details,
	})
	return record, nil
}

// Return closes a loan, optionally with a fine, remarks or a lost flag.
func (s *LibraryService) Return(ctx context.Context, actor *models.JWTClaims, recordID string, req ReturnBookRequest) (*models.LibraryRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid return payload")
	}

	record, err := s.loans.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "loan record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load loan")
	}
	if record.Status == models.LoanReturned {
		return nil, appErrors.Clone(appErrors.ErrConflict, "book already returned")
	}

	now := time.Now().UTC()
	record.ReturnDate = &now
	record.Fine = req.Fine
	record.Remarks = req.Remarks
	if req.Lost {
		record.Status = models.LoanLost
	} else {
		record.Status = models.LoanReturned
	}
	if err := s.loans.Update(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update loan")
	}

	emitAudit(ctx, s.logger, s.audit, &models.AuditLog{
		UserID:     actorUserID(actor),
		Role:       actorRole(actor),
		Action:     models.AuditActionBookReturn,
		Resource:   "library_record",
		ResourceID: &record.ID,
	})
	return record, nil
}

// History returns a student's loan history by USN.
func (s *LibraryService) History(ctx context.Context, usn string) ([]models.LibraryRecord, error) {
	student, err := s.students.FindByUSN(ctx, usn)
	if err != nil {
		return nil, notFoundOrInternal(err, "student not found")
	}
	return s.listByStudent(ctx, student.ID)
}

// MyBooks returns the loan history for the authenticated student user.
func (s *LibraryService) MyBooks(ctx context.Context, userID string) ([]models.LibraryRecord, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOrInternal(err, "no student record linked to this account")
	}
	return s.listByStudent(ctx, student.ID)
}

// Unreturned lists all loans still out.
func (s *LibraryService) Unreturned(ctx context.Context) ([]models.LibraryRecord, error) {
	records, err := s.loans.ListUnreturned(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list loans")
	}
	return records, nil
}

// CountOutstanding reports open loans for a student ID.
func (s *LibraryService) CountOutstanding(ctx context.Context, studentID string) (int, error) {
	return s.loans.CountOutstanding(ctx, studentID)
}

func (s *LibraryService) listByStudent(ctx context.Context, studentID string) ([]models.LibraryRecord, error) {
	records, err := s.loans.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list loans")
	}
	return records, nil
}
