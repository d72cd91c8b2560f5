package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campora/college-admin-api/internal/ledger"
	"github.com/campora/college-admin-api/internal/models"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
	"github.com/campora/college-admin-api/pkg/jobs"
)

type reconcileEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// JobTypeReconcileStudent is the queue job type for one student's repair.
const JobTypeReconcileStudent = "reconcile_student"

// ReconciliationService runs the corrective ledger pipeline, directly for
// one student or via the background queue for the whole population.
type ReconciliationService struct {
	students            studentStore
	audit               auditRecorder
	queue               reconcileEnqueuer
	analytics           analyticsInvalidator
	fallbackSemesterFee int64
	logger              *zap.Logger
}

// NewReconciliationService constructs a ReconciliationService. The queue
// may be nil; batch runs then execute inline.
func NewReconciliationService(students studentStore, audit auditRecorder, queue reconcileEnqueuer, analytics analyticsInvalidator, fallbackSemesterFee int64, logger *zap.Logger) *ReconciliationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fallbackSemesterFee <= 0 {
		fallbackSemesterFee = 35000
	}
	return &ReconciliationService{
		students:            students,
		audit:               audit,
		queue:               queue,
		analytics:           analytics,
		fallbackSemesterFee: fallbackSemesterFee,
		logger:              logger,
	}
}

// ReconcileByUSN repairs one student's ledger and reports whether anything
// changed.
func (s *ReconciliationService) ReconcileByUSN(ctx context.Context, actor *models.JWTClaims, usn string) (*models.Student, bool, error) {
	student, err := s.students.FindByUSN(ctx, usn)
	if err != nil {
		return nil, false, notFoundOrInternal(err, "student not found")
	}
	return s.reconcile(ctx, actor, student.ID)
}

// ReconcileStudentID is the queue job handler entry point.
func (s *ReconciliationService) ReconcileStudentID(ctx context.Context, id string) error {
	_, _, err := s.reconcile(ctx, nil, id)
	return err
}

// EnqueueAll schedules a reconciliation job for every active student and
// returns the number enqueued.
func (s *ReconciliationService) EnqueueAll(ctx context.Context, actor *models.JWTClaims) (int, error) {
	ids, err := s.students.ListActiveIDs(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	enqueued := 0
	for _, id := range ids {
		if s.queue == nil {
			if _, _, err := s.reconcile(ctx, actor, id); err != nil {
				s.logger.Warn("inline reconciliation failed", zap.String("student_id", id), zap.Error(err))
				continue
			}
			enqueued++
			continue
		}
		job := jobs.Job{ID: uuid.NewString(), Type: JobTypeReconcileStudent, Payload: id}
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Warn("failed to enqueue reconciliation", zap.String("student_id", id), zap.Error(err))
			continue
		}
		enqueued++
	}

	details, _ := json.Marshal(map[string]interface{}{"enqueued": enqueued, "total": len(ids)})
	emitAudit(ctx, s.logger, s.audit, &models.AuditLog{
		UserID:   actorUserID(actor),
		Role:     actorRole(actor),
		Action:   models.AuditActionReconciliation,
		Resource: "students",
		Details:  details,
	})
	return enqueued, nil
}

// HandleJob adapts the service to the queue's handler contract.
func (s *ReconciliationService) HandleJob(ctx context.Context, job jobs.Job) error {
	id, ok := job.Payload.(string)
	if !ok {
		s.logger.Error("reconcile job carries unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.ReconcileStudentID(ctx, id)
}

func (s *ReconciliationService) reconcile(ctx context.Context, actor *models.JWTClaims, id string) (*models.Student, bool, error) {
	changed := false
	now := time.Now().UTC()

	updated, err := mutateStudent(ctx, s.students, id, func(student *models.Student) error {
		var err error
		changed, err = ledger.Reconcile(student, s.fallbackSemesterFee, now)
		if err != nil {
			return mapLedgerError(err)
		}
		if !changed {
			return errSkip
		}
		return nil
	})
	if err != nil {
		if isSkip(err) {
			student, findErr := s.students.FindByID(ctx, id)
			if findErr != nil {
				return nil, false, notFoundOrInternal(findErr, "student not found")
			}
			return student, false, nil
		}
		return nil, false, err
	}

	if s.analytics != nil {
		s.analytics.Invalidate(ctx)
	}

	emitAudit(ctx, s.logger, s.audit, &models.AuditLog{
		UserID:     actorUserID(actor),
		Role:       actorRole(actor),
		Action:     models.AuditActionReconciliation,
		Resource:   "student",
		ResourceID: &updated.ID,
	})
	return updated, true, nil
}
