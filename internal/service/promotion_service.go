package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/campora/college-admin-api/internal/ledger"
	"github.com/campora/college-admin-api/internal/models"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
)

type loanCounter interface {
	CountOutstanding(ctx context.Context, studentID string) (int, error)
}

// PromotionReport summarises a batch promotion run.
type PromotionReport struct {
	Year      int               `json:"year"`
	Processed int               `json:"processed"`
	Promoted  int               `json:"promoted"`
	Graduated int               `json:"graduated"`
	Held      int               `json:"held"`
	Failures  []PromotionResult `json:"failures,omitempty"`
}

// PromotionResult is one student's outcome within a batch run.
type PromotionResult struct {
	USN     string   `json:"usn"`
	Reasons []string `json:"reasons,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// PromotionService evaluates and applies year advancement.
type PromotionService struct {
	students  studentStore
	loans     loanCounter
	audit     auditRecorder
	analytics analyticsInvalidator
	logger    *zap.Logger
}

// NewPromotionService constructs a PromotionService.
func NewPromotionService(students studentStore, loans loanCounter, audit auditRecorder, analytics analyticsInvalidator, logger *zap.Logger) *PromotionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PromotionService{students: students, loans: loans, audit: audit, analytics: analytics, logger: logger}
}

// Evaluate runs the eligibility gate without mutating anything.
func (s *PromotionService) Evaluate(ctx context.Context, usn string) (*ledger.Decision, error) {
	student, err := s.students.FindByUSN(ctx, usn)
	if err != nil {
		return nil, notFoundOrInternal(err, "student not found")
	}

	loans, err := s.loans.CountOutstanding(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrExternalDependency.Code, appErrors.ErrExternalDependency.Status, "library lookup failed")
	}

	decision := ledger.EvaluatePromotion(student, loans)
	return &decision, nil
}

// PromoteStudent advances a single student when eligible. Ineligible
// students return a validation error carrying the reasons.
func (s *PromotionService) PromoteStudent(ctx context.Context, actor *models.JWTClaims, usn string) (*models.Student, error) {
	student, err := s.students.FindByUSN(ctx, usn)
	if err != nil {
		return nil, notFoundOrInternal(err, "student not found")
	}
	updated, _, err := s.promote(ctx, actor, student.ID)
	if err != nil {
		return nil, err
	}
	if s.analytics != nil {
		s.analytics.Invalidate(ctx)
	}
	return updated, nil
}

// PromoteYear advances every active student of a year, skipping and
// counting the ineligible and the failed.
func (s *PromotionService) PromoteYear(ctx context.Context, actor *models.JWTClaims, year int) (*PromotionReport, error) {
	if year < 1 || year > ledger.FinalYear {
		return nil, appErrors.Clone(appErrors.ErrValidation, "year must be between 1 and 4")
	}

	ids, err := s.students.ListIDsByYear(ctx, year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	report := &PromotionReport{Year: year}
	for _, id := range ids {
		report.Processed++
		updated, decision, err := s.promote(ctx, actor, id)
		if err != nil {
			report.Held++
			result := PromotionResult{}
			if decision != nil {
				result.Reasons = decision.Reasons
			}
			var appErr *appErrors.Error
			if !errors.As(err, &appErr) || appErr.Code != appErrors.ErrValidation.Code {
				result.Error = err.Error()
				s.logger.Warn("promotion failed", zap.String("student_id", id), zap.Error(err))
			}
			if student, findErr := s.students.FindByID(ctx, id); findErr == nil {
				result.USN = student.USN
			}
			report.Failures = append(report.Failures, result)
			continue
		}
		if updated.Status == models.StudentGraduated {
			report.Graduated++
		} else {
			report.Promoted++
		}
	}

	if s.analytics != nil && report.Promoted+report.Graduated > 0 {
		s.analytics.Invalidate(ctx)
	}

	details, _ := json.Marshal(report)
	emitAudit(ctx, s.logger, s.audit, &models.AuditLog{
		UserID:   actorUserID(actor),
		Role:     actorRole(actor),
		Action:   models.AuditActionPromotion,
		Resource: "students",
		Details:  details,
	})

	return report, nil
}

func (s *PromotionService) promote(ctx context.Context, actor *models.JWTClaims, id string) (*models.Student, *ledger.Decision, error) {
	var decision ledger.Decision
	now := time.Now().UTC()

	updated, err := mutateStudent(ctx, s.students, id, func(student *models.Student) error {
		loans, err := s.loans.CountOutstanding(ctx, student.ID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrExternalDependency.Code, appErrors.ErrExternalDependency.Status, "library lookup failed")
		}
		decision = ledger.EvaluatePromotion(student, loans)
		if !decision.Eligible {
			return appErrors.Clone(appErrors.ErrValidation, "student is not eligible for promotion")
		}
		ledger.AdvanceYear(student, now)
		return nil
	})
	if err != nil {
		return nil, &decision, err
	}

	emitAudit(ctx, s.logger, s.audit, &models.AuditLog{
		UserID:     actorUserID(actor),
		Role:       actorRole(actor),
		Action:     models.AuditActionPromotion,
		Resource:   "student",
		ResourceID: &updated.ID,
	})
	return updated, &decision, nil
}
