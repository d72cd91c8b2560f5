package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campora/college-admin-api/internal/models"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
)

type notificationRepository interface {
	List(ctx context.Context, filter models.NotificationFilter) ([]models.ExamNotification, error)
	FindByID(ctx context.Context, id string) (*models.ExamNotification, error)
	Create(ctx context.Context, notification *models.ExamNotification) error
	Update(ctx context.Context, notification *models.ExamNotification) error
	Delete(ctx context.Context, id string) error
}

// ExamNotificationRequest is the admin payload for creating or updating a
// notification.
type ExamNotificationRequest struct {
	Title               string          `json:"title" validate:"required"`
	Year                int             `json:"year" validate:"required,gte=1,lte=4"`
	Semester            *int            `json:"semester" validate:"omitempty,gte=1,lte=8"`
	ExamFeeAmount       int64           `json:"exam_fee_amount" validate:"gte=0"`
	StartDate           time.Time       `json:"start_date" validate:"required"`
	EndDate             time.Time       `json:"end_date" validate:"required"`
	LastDateWithoutFine *time.Time      `json:"last_date_without_fine"`
	LateFee             int64           `json:"late_fee" validate:"gte=0"`
	Description         *string         `json:"description"`
	ExamType            models.ExamType `json:"exam_type" validate:"required,oneof=regular supplementary"`
	IsActive            *bool           `json:"is_active"`
}

// NotificationService owns exam notification management and visibility.
type NotificationService struct {
	notifications notificationRepository
	students      studentStore
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(notifications notificationRepository, students studentStore, validate *validator.Validate, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &NotificationService{notifications: notifications, students: students, validator: validate, logger: logger}
}

// Create publishes a new exam notification.
func (s *NotificationService) Create(ctx context.Context, req ExamNotificationRequest) (*models.ExamNotification, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	notification := s.apply(&models.ExamNotification{}, req)
	if err := s.notifications.Create(ctx, notification); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notification")
	}
	return notification, nil
}

// Update modifies an existing exam notification.
func (s *NotificationService) Update(ctx context.Context, id string, req ExamNotificationRequest) (*models.ExamNotification, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	notification, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notification not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notification")
	}

	notification = s.apply(notification, req)
	if err := s.notifications.Update(ctx, notification); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notification")
	}
	return notification, nil
}

// Delete removes an exam notification.
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	if err := s.notifications.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete notification")
	}
	return nil
}

// ListAll returns every notification for staff, optionally filtered by
// active state.
func (s *NotificationService) ListAll(ctx context.Context, isActive *bool) ([]models.ExamNotification, error) {
	notifications, err := s.notifications.List(ctx, models.NotificationFilter{IsActive: isActive})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return notifications, nil
}

// ListVisible returns the active notifications a student may see: regular
// exams for their exact year, supplementary exams for any year up to it.
func (s *NotificationService) ListVisible(ctx context.Context, userID string) ([]models.ExamNotification, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOrInternal(err, "no student record linked to this account")
	}

	active := true
	notifications, err := s.notifications.List(ctx, models.NotificationFilter{
		IsActive:   &active,
		ViewerYear: student.CurrentYear,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return notifications, nil
}

func (s *NotificationService) validateRequest(req ExamNotificationRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notification payload")
	}
	if req.EndDate.Before(req.StartDate) {
		return appErrors.Clone(appErrors.ErrValidation, "end date must not precede start date")
	}
	return nil
}

func (s *NotificationService) apply(notification *models.ExamNotification, req ExamNotificationRequest) *models.ExamNotification {
	notification.Title = req.Title
	notification.Year = req.Year
	notification.Semester = req.Semester
	notification.ExamFeeAmount = req.ExamFeeAmount
	notification.StartDate = req.StartDate
	notification.EndDate = req.EndDate
	notification.LastDateWithoutFine = req.LastDateWithoutFine
	notification.LateFee = req.LateFee
	notification.Description = req.Description
	notification.ExamType = req.ExamType
	notification.IsActive = true
	if req.IsActive != nil {
		notification.IsActive = *req.IsActive
	}
	return notification
}
