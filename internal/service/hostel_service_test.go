package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campora/college-admin-api/internal/models"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
)

func TestHostelServiceAssignFee(t *testing.T) {
	store := newFakeStudentStore(ledgerStudent())
	audit := &fakeAuditRecorder{}
	svc := NewHostelService(store, audit, nil, nil)

	updated, err := svc.AssignFee(context.Background(), registrarClaims(), AssignHostelFeeRequest{
		USN:    "1CA21CS001",
		Amount: 24000,
	})
	require.NoError(t, err)

	assert.True(t, updated.HostelOpted)
	assert.Equal(t, int64(24000), updated.AnnualHostelFee)
	assert.Equal(t, int64(24000), updated.HostelFeeDue)

	var hostelRecords []models.FeeRecord
	for _, r := range updated.Records {
		if r.FeeType == models.FeeTypeHostel {
			hostelRecords = append(hostelRecords, r)
		}
	}
	require.Len(t, hostelRecords, 2)
	assert.Equal(t, int64(12000), hostelRecords[0].AmountDue)
	assert.Equal(t, int64(12000), hostelRecords[1].AmountDue)
	assert.Equal(t, models.AuditActionFeeAssign, audit.lastAction())
}

func TestHostelServiceRecordPayment(t *testing.T) {
	store := newFakeStudentStore(ledgerStudent())
	svc := NewHostelService(store, nil, nil, nil)

	_, err := svc.AssignFee(context.Background(), registrarClaims(), AssignHostelFeeRequest{USN: "1CA21CS001", Amount: 24000})
	require.NoError(t, err)

	updated, err := svc.RecordPayment(context.Background(), registrarClaims(), HostelPaymentRequest{
		USN:    "1CA21CS001",
		Amount: 12000,
		Mode:   "CASH",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12000), updated.HostelFeeDue)
}

func TestHostelServiceRecordPaymentWithoutHostel(t *testing.T) {
	store := newFakeStudentStore(ledgerStudent())
	svc := NewHostelService(store, nil, nil, nil)

	_, err := svc.RecordPayment(context.Background(), registrarClaims(), HostelPaymentRequest{
		USN:    "1CA21CS001",
		Amount: 1000,
		Mode:   "CASH",
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestHostelServiceDisableKeepsHistory(t *testing.T) {
	store := newFakeStudentStore(ledgerStudent())
	svc := NewHostelService(store, nil, nil, nil)

	_, err := svc.AssignFee(context.Background(), registrarClaims(), AssignHostelFeeRequest{USN: "1CA21CS001", Amount: 24000})
	require.NoError(t, err)

	updated, err := svc.Disable(context.Background(), registrarClaims(), "1CA21CS001")
	require.NoError(t, err)

	assert.False(t, updated.HostelOpted)
	assert.Zero(t, updated.HostelFeeDue)
	// ledger history survives the opt-out
	assert.Len(t, updated.Records, 4)
}

func TestHostelServiceStatus(t *testing.T) {
	store := newFakeStudentStore(ledgerStudent())
	svc := NewHostelService(store, nil, nil, nil)

	_, err := svc.AssignFee(context.Background(), registrarClaims(), AssignHostelFeeRequest{USN: "1CA21CS001", Amount: 24000})
	require.NoError(t, err)

	status, err := svc.Status(context.Background(), "1CA21CS001")
	require.NoError(t, err)

	assert.True(t, status.HostelOpted)
	assert.Equal(t, int64(24000), status.AnnualFee)
	assert.Len(t, status.HostelRecords, 2)
}
