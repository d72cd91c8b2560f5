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

// NotificationRepository persists exam notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs a NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `id, title, year, semester, exam_fee_amount, start_date, end_date, last_date_without_fine, late_fee, description, exam_type, is_active, created_at, updated_at`

// List returns notifications matching the filter, newest first. Student
// visibility scoping happens in the service layer.
func (r *NotificationRepository) List(ctx context.Context, filter models.NotificationFilter) ([]models.ExamNotification, error) {
	base := fmt.Sprintf("SELECT %s FROM exam_notifications WHERE 1=1", notificationColumns)
	var args []interface{}

	if filter.IsActive != nil {
		base += fmt.Sprintf(" AND is_active = $%d", len(args)+1)
		args = append(args, *filter.IsActive)
	}
	if filter.ViewerYear > 0 {
		// Regular notifications target the exact year; supplementary
		// ones reach every year up to the viewer's.
		base += fmt.Sprintf(" AND ((exam_type = $%d AND year = $%d) OR (exam_type = $%d AND year <= $%d))",
			len(args)+1, len(args)+2, len(args)+3, len(args)+4)
		args = append(args, models.ExamRegular, filter.ViewerYear, models.ExamSupplementary, filter.ViewerYear)
	}

	base += " ORDER BY start_date DESC"

	var notifications []models.ExamNotification
	if err := r.db.SelectContext(ctx, &notifications, base, args...); err != nil {
		return nil, fmt.Errorf("list exam notifications: %w", err)
	}
	return notifications, nil
}

// FindByID fetches a notification.
func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*models.ExamNotification, error) {
	query := fmt.Sprintf(`SELECT %s FROM exam_notifications WHERE id = $1 LIMIT 1`, notificationColumns)
	var notification models.ExamNotification
	if err := r.db.GetContext(ctx, &notification, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find exam notification: %w", err)
	}
	return &notification, nil
}

// Create inserts a new notification.
func (r *NotificationRepository) Create(ctx context.Context, notification *models.ExamNotification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = now
	}
	notification.UpdatedAt = now

	const query = `INSERT INTO exam_notifications (id, title, year, semester, exam_fee_amount, start_date, end_date, last_date_without_fine, late_fee, description, exam_type, is_active, created_at, updated_at)
        VALUES (:id, :title, :year, :semester, :exam_fee_amount, :start_date, :end_date, :last_date_without_fine, :late_fee, :description, :exam_type, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, notification); err != nil {
		return fmt.Errorf("create exam notification: %w", err)
	}
	return nil
}

// Update modifies an existing notification.
func (r *NotificationRepository) Update(ctx context.Context, notification *models.ExamNotification) error {
	notification.UpdatedAt = time.Now().UTC()
	const query = `UPDATE exam_notifications SET title = :title, year = :year, semester = :semester, exam_fee_amount = :exam_fee_amount,
        start_date = :start_date, end_date = :end_date, last_date_without_fine = :last_date_without_fine, late_fee = :late_fee,
        description = :description, exam_type = :exam_type, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, notification); err != nil {
		return fmt.Errorf("update exam notification: %w", err)
	}
	return nil
}

// Delete removes a notification.
func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM exam_notifications WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete exam notification: %w", err)
	}
	return nil
}
