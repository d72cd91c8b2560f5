package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campora/college-admin-api/internal/models"
)

func TestLibraryRepositoryCountOutstanding(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLibraryRepository(db)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("s1", models.LoanReturned).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountOutstanding(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestLibraryRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLibraryRepository(db)

	mock.ExpectExec("INSERT INTO library_records").
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.LibraryRecord{
		StudentID:    "s1",
		USN:          "1CR21CS001",
		BookTitle:    "Operating System Concepts",
		BookID:       "B-100",
		BorrowedDate: time.Now().UTC(),
		DueDate:      time.Now().UTC().AddDate(0, 0, 15),
		Status:       models.LoanBorrowed,
	}
	require.NoError(t, repo.Create(context.Background(), record))
	assert.NotEmpty(t, record.ID)
}
