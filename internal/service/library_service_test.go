package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campora/college-admin-api/internal/models"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
)

func TestLibraryServiceIssue(t *testing.T) {
	store := newFakeStudentStore(ledgerStudent())
	loans := newFakeLibraryRepository()
	audit := &fakeAuditRecorder{}
	svc := NewLibraryService(loans, store, audit, nil, nil, 15)

	record, err := svc.Issue(context.Background(), registrarClaims(), IssueBookRequest{
		USN:       "1CA21CS001",
		BookTitle: "Introduction to Algorithms",
		BookID:    "BK-1001",
	})
	require.NoError(t, err)

	assert.Equal(t, "stu-1", record.StudentID)
	assert.Equal(t, models.LoanBorrowed, record.Status)
	assert.Equal(t, 15, int(record.DueDate.Sub(record.BorrowedDate).Hours()/24))
	assert.Equal(t, models.AuditActionBookIssue, audit.lastAction())

	count, err := svc.CountOutstanding(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLibraryServiceIssueCustomLoanPeriod(t *testing.T) {
	store := newFakeStudentStore(ledgerStudent())
	svc := NewLibraryService(newFakeLibraryRepository(), store, nil, nil, nil, 15)

	record, err := svc.Issue(context.Background(), registrarClaims(), IssueBookRequest{
		USN:       "1CA21CS001",
		BookTitle: "Operating System Concepts",
		BookID:    "BK-1002",
		LoanDays:  30,
	})
	require.NoError(t, err)
	assert.Equal(t, 30, int(record.DueDate.Sub(record.BorrowedDate).Hours()/24))
}

func TestLibraryServiceIssueUnknownStudent(t *testing.T) {
	svc := NewLibraryService(newFakeLibraryRepository(), newFakeStudentStore(), nil, nil, nil, 15)

	_, err := svc.Issue(context.Background(), registrarClaims(), IssueBookRequest{
		USN:       "1CA21CS099",
		BookTitle: "Ghost Book",
		BookID:    "BK-0000",
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestLibraryServiceReturn(t *testing.T) {
	loan := &models.LibraryRecord{
		ID:        "loan-1",
		StudentID: "stu-1",
		USN:       "1CA21CS001",
		BookTitle: "Introduction to Algorithms",
		BookID:    "BK-1001",
		Status:    models.LoanBorrowed,
	}
	loans := newFakeLibraryRepository(loan)
	svc := NewLibraryService(loans, newFakeStudentStore(), &fakeAuditRecorder{}, nil, nil, 15)

	remarks := "returned late"
	record, err := svc.Return(context.Background(), registrarClaims(), "loan-1", ReturnBookRequest{
		Fine:    50,
		Remarks: &remarks,
	})
	require.NoError(t, err)

	assert.Equal(t, models.LoanReturned, record.Status)
	assert.Equal(t, int64(50), record.Fine)
	require.NotNil(t, record.ReturnDate)
	assert.WithinDuration(t, time.Now().UTC(), *record.ReturnDate, time.Minute)

	count, err := svc.CountOutstanding(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLibraryServiceReturnLost(t *testing.T) {
	loan := &models.LibraryRecord{ID: "loan-1", StudentID: "stu-1", Status: models.LoanBorrowed}
	svc := NewLibraryService(newFakeLibraryRepository(loan), newFakeStudentStore(), nil, nil, nil, 15)

	record, err := svc.Return(context.Background(), registrarClaims(), "loan-1", ReturnBookRequest{Fine: 500, Lost: true})
	require.NoError(t, err)
	assert.Equal(t, models.LoanLost, record.Status)

	// lost books still count against promotion
	count, err := svc.CountOutstanding(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLibraryServiceReturnAlreadyReturned(t *testing.T) {
	loan := &models.LibraryRecord{ID: "loan-1", StudentID: "stu-1", Status: models.LoanReturned}
	svc := NewLibraryService(newFakeLibraryRepository(loan), newFakeStudentStore(), nil, nil, nil, 15)

	_, err := svc.Return(context.Background(), registrarClaims(), "loan-1", ReturnBookRequest{})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestLibraryServiceMyBooks(t *testing.T) {
	store := newFakeStudentStore(ledgerStudent())
	loan := &models.LibraryRecord{ID: "loan-1", StudentID: "stu-1", Status: models.LoanBorrowed}
	svc := NewLibraryService(newFakeLibraryRepository(loan), store, nil, nil, nil, 15)

	records, err := svc.MyBooks(context.Background(), "user-stu-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "loan-1", records[0].ID)

	_, err = svc.MyBooks(context.Background(), "user-unknown")
	require.Error(t, err)
}
