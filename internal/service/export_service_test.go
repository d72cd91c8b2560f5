package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campora/college-admin-api/internal/models"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
)

type fakeDueListRepository struct {
	students []models.Student
	filter   models.AnalyticsFilter
}

func (f *fakeDueListRepository) DueList(_ context.Context, filter models.AnalyticsFilter) ([]models.Student, error) {
	f.filter = filter
	return f.students, nil
}

func TestExportServiceDueListCSV(t *testing.T) {
	dues := &fakeDueListRepository{students: []models.Student{
		{USN: "1CA21CS001", FullName: "Asha Rao", Department: "CSE", CurrentYear: 2, CollegeFeeDue: 17500, TransportFeeDue: 6000},
		{USN: "1CA21CS002", FullName: "Kiran Shetty", Department: "ECE", CurrentYear: 2, HostelFeeDue: 12000},
	}}
	svc := NewExportService(dues, newFakeStudentStore(), nil)

	payload, filename, err := svc.DueListCSV(context.Background(), models.AnalyticsFilter{Year: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, dues.filter.Year)
	assert.True(t, strings.HasPrefix(filename, "due-list-"))
	assert.True(t, strings.HasSuffix(filename, ".csv"))

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "College Due")
	assert.Contains(t, lines[1], "1CA21CS001")
	assert.Contains(t, lines[1], "23500") // total due column
	assert.Contains(t, lines[2], "12000")
}

func TestExportServiceReceiptPDF(t *testing.T) {
	student := ledgerStudent()
	student.Records[0].AmountPaid = 17500
	student.Records[0].Status = models.FeePaid
	student.Records[0].Transactions = []models.FeeTransaction{
		{ID: "tx-1", FeeRecordID: "rec-1", Amount: 17500, Mode: "CASH", Reference: "RCPT-1"},
	}
	store := newFakeStudentStore(student)
	svc := NewExportService(&fakeDueListRepository{}, store, nil)

	payload, filename, err := svc.ReceiptPDF(context.Background(), "1CA21CS001", "rec-1")
	require.NoError(t, err)

	assert.Equal(t, "receipt-1CA21CS001-rec-1.pdf", filename)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestExportServiceReceiptPDFUnknownRecord(t *testing.T) {
	store := newFakeStudentStore(ledgerStudent())
	svc := NewExportService(&fakeDueListRepository{}, store, nil)

	_, _, err := svc.ReceiptPDF(context.Background(), "1CA21CS001", "rec-missing")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
