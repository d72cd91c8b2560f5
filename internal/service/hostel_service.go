package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campora/college-admin-api/internal/ledger"
	"github.com/campora/college-admin-api/internal/models"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
)

// AssignHostelFeeRequest opts a student into the hostel and rates the
// current year.
type AssignHostelFeeRequest struct {
	USN    string `json:"usn" validate:"required"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

// HostelPaymentRequest records a hostel fee payment.
type HostelPaymentRequest struct {
	USN       string `json:"usn" validate:"required"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
	Mode      string `json:"mode" validate:"required"`
	Reference string `json:"reference"`
}

// HostelStatus is the warden-facing view of one student.
type HostelStatus struct {
	USN           string             `json:"usn"`
	FullName      string             `json:"full_name"`
	HostelOpted   bool               `json:"hostel_opted"`
	AnnualFee     int64              `json:"annual_fee"`
	HostelFeeDue  int64              `json:"hostel_fee_due"`
	HostelRecords []models.FeeRecord `json:"hostel_records"`
}

// HostelService owns the hostel fee workflows.
type HostelService struct {
	students  studentStore
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHostelService constructs a HostelService.
func NewHostelService(students studentStore, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *HostelService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &HostelService{students: students, audit: audit, validator: validate, logger: logger}
}

// AssignFee opts the student in, persists the annual rate, generates the
// current year's hostel records and primes the counter.
func (s *HostelService) AssignFee(ctx context.Context, actor *models.JWTClaims, req AssignHostelFeeRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid hostel fee payload")
	}

	target, err := s.students.FindByUSN(ctx, req.USN)
	if err != nil {
		return nil, notFoundOrInternal(err, "student not found")
	}

	now := time.Now().UTC()
	updated, err := mutateStudent(ctx, s.students, target.ID, func(student *models.Student) error {
		student.HostelOpted = true
		student.AnnualHostelFee = req.Amount
		ledger.GenerateYearRecords(student, student.CurrentYear, models.FeeTypeHostel, req.Amount, now)
		ledger.ResyncDue(student, models.FeeTypeHostel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	details, _ := json.Marshal(map[string]interface{}{"usn": updated.USN, "amount": req.Amount})
	emitAudit(ctx, s.logger, s.audit, &models.AuditLog{
		UserID:     actorUserID(actor),
		Role:       actorRole(actor),
		Action:     models.AuditActionFeeAssign,
		Resource:   "student",
		ResourceID: &updated.ID,
		Details:    details,
	})
	return updated, nil
}

// RecordPayment applies a payment to the first non-paid hostel record.
func (s *HostelService) RecordPayment(ctx context.Context, actor *models.JWTClaims, req HostelPaymentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid hostel payment payload")
	}

	target, err := s.students.FindByUSN(ctx, req.USN)
	if err != nil {
		return nil, notFoundOrInternal(err, "student not found")
	}

	now := time.Now().UTC()
	updated, err := mutateStudent(ctx, s.students, target.ID, func(student *models.Student) error {
		_, err := ledger.ApplyPayment(student, ledger.RecordSelector{FeeType: models.FeeTypeHostel}, req.Amount, req.Mode, req.Reference, now)
		return mapLedgerError(err)
	})
	if err != nil {
		return nil, err
	}

	emitAudit(ctx, s.logger, s.audit, &models.AuditLog{
		UserID:     actorUserID(actor),
		Role:       actorRole(actor),
		Action:     models.AuditActionFeePayment,
		Resource:   "student",
		ResourceID: &updated.ID,
		Details:    []byte(`{"fee_type":"hostel"}`),
	})
	return updated, nil
}

// Disable opts the student out and zeroes the counter. Ledger history is
// kept.
func (s *HostelService) Disable(ctx context.Context, actor *models.JWTClaims, usn string) (*models.Student, error) {
	target, err := s.students.FindByUSN(ctx, usn)
	if err != nil {
		return nil, notFoundOrInternal(err, "student not found")
	}

	updated, err := mutateStudent(ctx, s.students, target.ID, func(student *models.Student) error {
		student.HostelOpted = false
		student.HostelFeeDue = 0
		return nil
	})
	if err != nil {
		return nil, err
	}

	emitAudit(ctx, s.logger, s.audit, &models.AuditLog{
		UserID:     actorUserID(actor),
		Role:       actorRole(actor),
		Action:     models.AuditActionFeeAssign,
		Resource:   "student",
		ResourceID: &updated.ID,
		Details:    []byte(`{"hostel":"disabled"}`),
	})
	return updated, nil
}

// Status returns the hostel view of a student.
func (s *HostelService) Status(ctx context.Context, usn string) (*HostelStatus, error) {
	student, err := s.students.FindByUSN(ctx, usn)
	if err != nil {
		return nil, notFoundOrInternal(err, "student not found")
	}

	status := &HostelStatus{
		USN:          student.USN,
		FullName:     student.FullName,
		HostelOpted:  student.HostelOpted,
		AnnualFee:    student.AnnualHostelFee,
		HostelFeeDue: student.HostelFeeDue,
	}
	for _, r := range student.Records {
		if r.FeeType == models.FeeTypeHostel {
			status.HostelRecords = append(status.HostelRecords, r)
		}
	}
	return status, nil
}
