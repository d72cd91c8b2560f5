package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campora/college-admin-api/internal/ledger"
	"github.com/campora/college-admin-api/internal/models"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
)

// RecordPaymentRequest applies a manual payment to a student's ledger.
// Either RecordID or FeeType selects the target record.
type RecordPaymentRequest struct {
	USN       string         `json:"usn" validate:"required"`
	RecordID  string         `json:"record_id"`
	FeeType   models.FeeType `json:"fee_type" validate:"required_without=RecordID,omitempty,oneof=college transport hostel placement other"`
	Year      int            `json:"year" validate:"gte=0,lte=4"`
	Amount    int64          `json:"amount" validate:"required,gt=0"`
	Mode      string         `json:"mode" validate:"required"`
	Reference string         `json:"reference"`
}

// PaymentResult is returned after a successful payment.
type PaymentResult struct {
	Student     *models.Student        `json:"student"`
	Record      *models.FeeRecord      `json:"record"`
	Transaction *models.FeeTransaction `json:"transaction"`
}

// SetGovernmentFeeRequest updates the default government quota fee and
// re-rates the affected students.
type SetGovernmentFeeRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// MarkPaidRequest force-closes one fee category for a student.
type MarkPaidRequest struct {
	USN       string         `json:"usn" validate:"required"`
	FeeType   models.FeeType `json:"fee_type" validate:"required,oneof=college transport hostel placement"`
	Reference string         `json:"reference"`
}

// BatchOutcome reports a skip-and-count batch run.
type BatchOutcome struct {
	Processed int      `json:"processed"`
	Updated   int      `json:"updated"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors,omitempty"`
}

// analyticsInvalidator drops cached analytics responses after mutations
// that move the aggregate numbers. A nil invalidator disables it.
type analyticsInvalidator interface {
	Invalidate(ctx context.Context)
}

// FeeService owns payment application and fee rate management.
type FeeService struct {
	students  studentStore
	configs   configurationStore
	audit     auditRecorder
	analytics analyticsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeeService constructs a FeeService.
func NewFeeService(students studentStore, configs configurationStore, audit auditRecorder, analytics analyticsInvalidator, validate *validator.Validate, logger *zap.Logger) *FeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &FeeService{students: students, configs: configs, audit: audit, analytics: analytics, validator: validate, logger: logger}
}

// RecordPayment applies a payment through the ledger engine and persists
// the aggregate under the optimistic lock.
func (s *FeeService) RecordPayment(ctx context.Context, actor *models.JWTClaims, req RecordPaymentRequest) (*PaymentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	target, err := s.findByUSN(ctx, req.USN)
	if err != nil {
		return nil, err
	}

	var paidRecordID string
	now := time.Now().UTC()
	updated, err := mutateStudent(ctx, s.students, target.ID, func(student *models.Student) error {
		record, err := ledger.ApplyPayment(student, ledger.RecordSelector{
			RecordID: req.RecordID,
			FeeType:  req.FeeType,
			Year:     req.Year,
		}, req.Amount, req.Mode, req.Reference, now)
		if err != nil {
			return mapLedgerError(err)
		}
		paidRecordID = record.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &PaymentResult{Student: updated}
	for i := range updated.Records {
		if updated.Records[i].ID == paidRecordID {
			result.Record = &updated.Records[i]
			if n := len(result.Record.Transactions); n > 0 {
				result.Transaction = &result.Record.Transactions[n-1]
			}
			break
		}
	}

	details, _ := json.Marshal(map[string]interface{}{
		"usn": updated.USN, "amount": req.Amount, "mode": req.Mode, "reference": req.Reference,
	})
	emitAudit(ctx, s.logger, s.audit, &models.AuditLog{
		UserID:     actorUserID(actor),
		Role:       actorRole(actor),
		Action:     models.AuditActionFeePayment,
		Resource:   "fee_record",
		ResourceID: &paidRecordID,
		Details:    details,
	})

	return result, nil
}

// MarkPaid force-closes a fee category for a student.
func (s *FeeService) MarkPaid(ctx context.Context, actor *models.JWTClaims, req MarkPaidRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mark paid payload")
	}

	target, err := s.findByUSN(ctx, req.USN)
	if err != nil {
		return nil, err
	}

	reference := req.Reference
	if reference == "" {
		reference = "Admin Marked Paid"
	}
	now := time.Now().UTC()
	updated, err := mutateStudent(ctx, s.students, target.ID, func(student *models.Student) error {
		return mapLedgerError(ledger.MarkDueAsPaid(student, req.FeeType, reference, now))
	})
	if err != nil {
		return nil, err
	}

	emitAudit(ctx, s.logger, s.audit, &models.AuditLog{
		UserID:     actorUserID(actor),
		Role:       actorRole(actor),
		Action:     models.AuditActionFeeMarkPaid,
		Resource:   "student",
		ResourceID: &updated.ID,
		Details:    []byte(`{"fee_type":"` + string(req.FeeType) + `"}`),
	})
	return updated, nil
}

// SetGovernmentFee persists the new default government quota rate and
// re-rates every active government quota student: annual rate, current-year
// records and a resynced counter. Per-student failures are counted, logged
// and skipped.
func (s *FeeService) SetGovernmentFee(ctx context.Context, actor *models.JWTClaims, req SetGovernmentFeeRequest) (*BatchOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid government fee payload")
	}

	cfg := &models.Configuration{
		Key:       models.ConfigKeyDefaultGovFee,
		Value:     strconv.FormatInt(req.Amount, 10),
		UpdatedBy: actorUserID(actor),
	}
	if err := s.configs.Upsert(ctx, cfg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store government fee")
	}

	ids, err := s.students.ListActiveIDs(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	outcome := &BatchOutcome{}
	now := time.Now().UTC()
	for _, id := range ids {
		outcome.Processed++
		_, err := mutateStudent(ctx, s.students, id, func(student *models.Student) error {
			if student.Quota != models.QuotaGovernment {
				return errSkip
			}
			student.AnnualCollegeFee = req.Amount
			ledger.GenerateYearRecords(student, student.CurrentYear, models.FeeTypeCollege, req.Amount, now)
			ledger.ResyncDue(student, models.FeeTypeCollege)
			return nil
		})
		switch {
		case err == nil:
			outcome.Updated++
		case errors.Is(err, errSkip):
			outcome.Skipped++
		default:
			outcome.Skipped++
			outcome.Errors = append(outcome.Errors, id+": "+err.Error())
			s.logger.Warn("government fee re-rate failed", zap.String("student_id", id), zap.Error(err))
		}
	}

	if s.analytics != nil && outcome.Updated > 0 {
		s.analytics.Invalidate(ctx)
	}

	details, _ := json.Marshal(map[string]interface{}{"amount": req.Amount, "updated": outcome.Updated})
	emitAudit(ctx, s.logger, s.audit, &models.AuditLog{
		UserID:   actorUserID(actor),
		Role:     actorRole(actor),
		Action:   models.AuditActionGovFeeUpdate,
		Resource: "configuration",
		Details:  details,
	})

	return outcome, nil
}

func (s *FeeService) findByUSN(ctx context.Context, usn string) (*models.Student, error) {
	student, err := s.students.FindByUSN(ctx, usn)
	if err != nil {
		return nil, notFoundOrInternal(err, "student not found")
	}
	return student, nil
}
