package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campora/college-admin-api/internal/ledger"
	"github.com/campora/college-admin-api/internal/models"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
)

func settledStudent(id, usn string, year int) *models.Student {
	semA, semB := ledger.SemestersForYear(year)
	return &models.Student{
		ID:               id,
		UserID:           "user-" + id,
		USN:              usn,
		FullName:         "Settled Student",
		CurrentYear:      year,
		Quota:            models.QuotaGovernment,
		Status:           models.StudentActive,
		AnnualCollegeFee: 35000,
		Version:          1,
		Records: []models.FeeRecord{
			{ID: id + "-a", StudentID: id, Year: year, Semester: semA, FeeType: models.FeeTypeCollege, AmountDue: 17500, AmountPaid: 17500, Status: models.FeePaid},
			{ID: id + "-b", StudentID: id, Year: year, Semester: semB, FeeType: models.FeeTypeCollege, AmountDue: 17500, AmountPaid: 17500, Status: models.FeePaid},
		},
	}
}

func TestPromotionServiceEvaluate(t *testing.T) {
	student := settledStudent("stu-1", "1CA21CS001", 2)
	student.CollegeFeeDue = 4000
	store := newFakeStudentStore(student)
	loans := &fakeLoanCounter{counts: map[string]int{"stu-1": 1}}
	svc := NewPromotionService(store, loans, nil, nil, nil)

	decision, err := svc.Evaluate(context.Background(), "1CA21CS001")
	require.NoError(t, err)

	assert.False(t, decision.Eligible)
	assert.Contains(t, decision.Reasons, ledger.ReasonOutstandingDues)
	assert.Contains(t, decision.Reasons, ledger.ReasonLibraryLoansPending)
}

func TestPromotionServicePromoteStudent(t *testing.T) {
	store := newFakeStudentStore(settledStudent("stu-1", "1CA21CS001", 1))
	loans := &fakeLoanCounter{counts: map[string]int{}}
	audit := &fakeAuditRecorder{}
	svc := NewPromotionService(store, loans, audit, nil, nil)

	updated, err := svc.PromoteStudent(context.Background(), registrarClaims(), "1CA21CS001")
	require.NoError(t, err)

	assert.Equal(t, 2, updated.CurrentYear)
	assert.Equal(t, models.StudentActive, updated.Status)
	// year advancement generates the new year's records and resets the counter
	assert.Equal(t, int64(35000), updated.CollegeFeeDue)
	require.Len(t, updated.Records, 4)
	assert.Equal(t, 3, updated.Records[2].Semester)
	assert.Equal(t, models.AuditActionPromotion, audit.lastAction())
}

func TestPromotionServicePromoteStudentIneligible(t *testing.T) {
	student := settledStudent("stu-1", "1CA21CS001", 1)
	student.Records[1].AmountPaid = 0
	student.Records[1].Status = models.FeePending
	student.CollegeFeeDue = 17500
	store := newFakeStudentStore(student)
	svc := NewPromotionService(store, &fakeLoanCounter{}, nil, nil, nil)

	_, err := svc.PromoteStudent(context.Background(), registrarClaims(), "1CA21CS001")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	unchanged, findErr := store.FindByID(context.Background(), "stu-1")
	require.NoError(t, findErr)
	assert.Equal(t, 1, unchanged.CurrentYear)
}

func TestPromotionServiceFinalYearGraduates(t *testing.T) {
	store := newFakeStudentStore(settledStudent("stu-1", "1CA21CS001", 4))
	svc := NewPromotionService(store, &fakeLoanCounter{}, nil, nil, nil)

	updated, err := svc.PromoteStudent(context.Background(), registrarClaims(), "1CA21CS001")
	require.NoError(t, err)

	assert.Equal(t, models.StudentGraduated, updated.Status)
	assert.Equal(t, 4, updated.CurrentYear)
	assert.Len(t, updated.Records, 2)
}

func TestPromotionServicePromoteYear(t *testing.T) {
	eligible := settledStudent("stu-1", "1CA21CS001", 2)
	held := settledStudent("stu-2", "1CA21CS002", 2)
	held.CollegeFeeDue = 9000
	store := newFakeStudentStore(eligible, held)
	svc := NewPromotionService(store, &fakeLoanCounter{}, &fakeAuditRecorder{}, nil, nil)

	report, err := svc.PromoteYear(context.Background(), registrarClaims(), 2)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Promoted)
	assert.Equal(t, 0, report.Graduated)
	assert.Equal(t, 1, report.Held)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "1CA21CS002", report.Failures[0].USN)
	assert.Contains(t, report.Failures[0].Reasons, ledger.ReasonOutstandingDues)
	assert.Empty(t, report.Failures[0].Error)
}

func TestPromotionServicePromoteYearInvalidatesAnalytics(t *testing.T) {
	held := settledStudent("stu-2", "1CA21CS002", 2)
	held.CollegeFeeDue = 9000
	store := newFakeStudentStore(settledStudent("stu-1", "1CA21CS001", 2), held)
	analytics := &fakeAnalyticsInvalidator{}
	svc := NewPromotionService(store, &fakeLoanCounter{}, nil, analytics, nil)

	report, err := svc.PromoteYear(context.Background(), registrarClaims(), 2)
	require.NoError(t, err)

	// one invalidation for the whole batch, not one per student
	assert.Equal(t, 1, report.Promoted)
	assert.Equal(t, 1, analytics.calls)
}

func TestPromotionServicePromoteYearSkipsAnalyticsWhenNobodyMoves(t *testing.T) {
	held := settledStudent("stu-1", "1CA21CS001", 2)
	held.CollegeFeeDue = 9000
	store := newFakeStudentStore(held)
	analytics := &fakeAnalyticsInvalidator{}
	svc := NewPromotionService(store, &fakeLoanCounter{}, nil, analytics, nil)

	report, err := svc.PromoteYear(context.Background(), registrarClaims(), 2)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Held)
	assert.Zero(t, analytics.calls)
}

func TestPromotionServicePromoteYearRejectsBadYear(t *testing.T) {
	svc := NewPromotionService(newFakeStudentStore(), &fakeLoanCounter{}, nil, nil, nil)

	_, err := svc.PromoteYear(context.Background(), registrarClaims(), 5)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
