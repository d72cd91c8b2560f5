package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campora/college-admin-api/internal/ledger"
	"github.com/campora/college-admin-api/internal/models"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
)

type placementStatsRepository interface {
	PlacementStats(ctx context.Context, year int) (*models.PlacementStats, error)
}

// BulkAssignPlacementRequest rates all active students of a year for the
// placement fee.
type BulkAssignPlacementRequest struct {
	Year   int   `json:"year" validate:"required,gte=1,lte=4"`
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// PlacementPaymentRequest records a placement fee payment.
type PlacementPaymentRequest struct {
	USN       string `json:"usn" validate:"required"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
	Mode      string `json:"mode" validate:"required"`
	Reference string `json:"reference"`
}

// PlacementService owns the placement cell's fee workflows.
type PlacementService struct {
	students  studentStore
	stats     placementStatsRepository
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPlacementService constructs a PlacementService.
func NewPlacementService(students studentStore, stats placementStatsRepository, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *PlacementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PlacementService{students: students, stats: stats, audit: audit, validator: validate, logger: logger}
}

// BulkAssign rates every active student of the year, skipping students
// already carrying a placement record for it.
func (s *PlacementService) BulkAssign(ctx context.Context, actor *models.JWTClaims, req BulkAssignPlacementRequest) (*BatchOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid placement fee payload")
	}

	ids, err := s.students.ListIDsByYear(ctx, req.Year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	outcome := &BatchOutcome{}
	now := time.Now().UTC()
	for _, id := range ids {
		outcome.Processed++
		_, err := mutateStudent(ctx, s.students, id, func(student *models.Student) error {
			for i := range student.Records {
				if student.Records[i].FeeType == models.FeeTypePlacement && student.Records[i].Year == student.CurrentYear {
					return errSkip
				}
			}
			student.PlacementOpted = true
			student.AnnualPlacementFee = req.Amount
			ledger.GenerateYearRecords(student, student.CurrentYear, models.FeeTypePlacement, req.Amount, now)
			ledger.ResyncDue(student, models.FeeTypePlacement)
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
			s.logger.Warn("placement fee assignment failed", zap.String("student_id", id), zap.Error(err))
		}
	}

	details, _ := json.Marshal(map[string]interface{}{"year": req.Year, "amount": req.Amount, "updated": outcome.Updated})
	emitAudit(ctx, s.logger, s.audit, &models.AuditLog{
		UserID:   actorUserID(actor),
		Role:     actorRole(actor),
		Action:   models.AuditActionFeeAssign,
		Resource: "students",
		Details:  details,
	})
	return outcome, nil
}

// RecordPayment applies a payment to the current year's placement record.
func (s *PlacementService) RecordPayment(ctx context.Context, actor *models.JWTClaims, req PlacementPaymentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid placement payment payload")
	}

	target, err := s.students.FindByUSN(ctx, req.USN)
	if err != nil {
		return nil, notFoundOrInternal(err, "student not found")
	}

	now := time.Now().UTC()
	updated, err := mutateStudent(ctx, s.students, target.ID, func(student *models.Student) error {
		_, err := ledger.ApplyPayment(student, ledger.RecordSelector{
			FeeType: models.FeeTypePlacement,
			Year:    student.CurrentYear,
		}, req.Amount, req.Mode, req.Reference, now)
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
		Details:    []byte(`{"fee_type":"placement"}`),
	})
	return updated, nil
}

// Stats summarises placement fee coverage for a year (0 for all years).
func (s *PlacementService) Stats(ctx context.Context, year int) (*models.PlacementStats, error) {
	stats, err := s.stats.PlacementStats(ctx, year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute placement stats")
	}
	return stats, nil
}
