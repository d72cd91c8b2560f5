package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campora/college-admin-api/internal/models"
)

type fakePlacementStats struct {
	stats *models.PlacementStats
	year  int
}

func (f *fakePlacementStats) PlacementStats(_ context.Context, year int) (*models.PlacementStats, error) {
	f.year = year
	return f.stats, nil
}

func TestPlacementServiceBulkAssign(t *testing.T) {
	fresh := ledgerStudent()
	alreadyRated := settledStudent("stu-2", "1CA21CS002", 1)
	alreadyRated.Records = append(alreadyRated.Records, models.FeeRecord{
		ID: "stu-2-p", StudentID: "stu-2", Year: 1, Semester: 1,
		FeeType: models.FeeTypePlacement, AmountDue: 2500, Status: models.FeePending,
	})
	store := newFakeStudentStore(fresh, alreadyRated)
	audit := &fakeAuditRecorder{}
	svc := NewPlacementService(store, &fakePlacementStats{}, audit, nil, nil)

	outcome, err := svc.BulkAssign(context.Background(), registrarClaims(), BulkAssignPlacementRequest{
		Year:   1,
		Amount: 5000,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.Processed)
	assert.Equal(t, 1, outcome.Updated)
	assert.Equal(t, 1, outcome.Skipped)

	rated, err := store.FindByID(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.True(t, rated.PlacementOpted)
	assert.Equal(t, int64(5000), rated.AnnualPlacementFee)
	assert.Equal(t, int64(5000), rated.PlacementFeeDue)

	skipped, err := store.FindByID(context.Background(), "stu-2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), skipped.AnnualPlacementFee)
	assert.Equal(t, models.AuditActionFeeAssign, audit.lastAction())
}

func TestPlacementServiceRecordPayment(t *testing.T) {
	store := newFakeStudentStore(ledgerStudent())
	svc := NewPlacementService(store, &fakePlacementStats{}, nil, nil, nil)

	_, err := svc.BulkAssign(context.Background(), registrarClaims(), BulkAssignPlacementRequest{Year: 1, Amount: 5000})
	require.NoError(t, err)

	updated, err := svc.RecordPayment(context.Background(), registrarClaims(), PlacementPaymentRequest{
		USN:    "1CA21CS001",
		Amount: 2500,
		Mode:   "Online",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2500), updated.PlacementFeeDue)
}

func TestPlacementServiceStats(t *testing.T) {
	stats := &fakePlacementStats{stats: &models.PlacementStats{
		TotalStudents:   40,
		StudentsWithFee: 30,
		TotalDue:        150000,
		TotalPaid:       90000,
		Pending:         60000,
	}}
	svc := NewPlacementService(newFakeStudentStore(), stats, nil, nil, nil)

	result, err := svc.Stats(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.year)
	assert.Equal(t, 30, result.StudentsWithFee)
}
