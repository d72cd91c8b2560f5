package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/campora/college-admin-api/internal/models"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
)

// studentStore is the persistence surface shared by the services that
// operate on the student aggregate.
type studentStore interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByUSN(ctx context.Context, usn string) (*models.Student, error)
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	ListIDsByYear(ctx context.Context, year int) ([]string, error)
	ListActiveIDs(ctx context.Context) ([]string, error)
	ExistsByUSN(ctx context.Context, usn string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Save(ctx context.Context, student *models.Student) error
}

const saveAttempts = 3

// errSkip signals a batch mutation that intentionally leaves the student
// untouched.
var errSkip = errors.New("student skipped")

func isSkip(err error) bool {
	return errors.Is(err, errSkip)
}

func notFoundOrInternal(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
}

// mutateStudent runs a load-mutate-save cycle against the optimistic lock,
// reloading and retrying when another writer got there first.
func mutateStudent(ctx context.Context, store studentStore, id string, mutate func(*models.Student) error) (*models.Student, error) {
	var lastErr error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		student, err := store.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := mutate(student); err != nil {
			return nil, err
		}
		if err := store.Save(ctx, student); err != nil {
			if isConflict(err) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return student, nil
	}
	return nil, lastErr
}

func isConflict(err error) bool {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr.Code == appErrors.ErrConflict.Code
	}
	return false
}
