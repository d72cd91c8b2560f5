package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campora/college-admin-api/internal/models"
)

func TestSplitAnnual(t *testing.T) {
	for _, annual := range []int64{0, 1, 2, 45000, 45001, 10001, 99999} {
		semA, semB := SplitAnnual(annual)
		assert.Equal(t, annual, semA+semB, "annual=%d", annual)
		assert.Equal(t, (annual+1)/2, semA, "annual=%d", annual)
		assert.LessOrEqual(t, semB, semA, "annual=%d", annual)
	}
}

func TestSemestersForYear(t *testing.T) {
	semA, semB := SemestersForYear(1)
	assert.Equal(t, 1, semA)
	assert.Equal(t, 2, semB)

	semA, semB = SemestersForYear(4)
	assert.Equal(t, 7, semA)
	assert.Equal(t, 8, semB)
}

func TestGenerateYearRecordsCreates(t *testing.T) {
	s := &models.Student{ID: "s1", CurrentYear: 2}
	now := time.Now().UTC()

	records := GenerateYearRecords(s, 2, models.FeeTypeCollege, 45001, now)
	require.Len(t, records, 2)

	assert.Equal(t, 3, records[0].Semester)
	assert.Equal(t, int64(22501), records[0].AmountDue)
	assert.Equal(t, 4, records[1].Semester)
	assert.Equal(t, int64(22500), records[1].AmountDue)
	for _, r := range records {
		assert.Equal(t, models.FeePending, r.Status)
		assert.Zero(t, r.AmountPaid)
	}
	assert.Len(t, s.Records, 2)
}

func TestGenerateYearRecordsUpdatesInPlace(t *testing.T) {
	now := time.Now().UTC()
	s := &models.Student{ID: "s1", CurrentYear: 1, Records: []models.FeeRecord{
		{Year: 1, Semester: 1, FeeType: models.FeeTypeCollege, AmountDue: 20000, AmountPaid: 20000, Status: models.FeePaid},
		{Year: 1, Semester: 2, FeeType: models.FeeTypeCollege, AmountDue: 20000, AmountPaid: 5000, Status: models.FeePartial},
	}}

	records := GenerateYearRecords(s, 1, models.FeeTypeCollege, 50000, now)
	require.Len(t, records, 2)
	require.Len(t, s.Records, 2, "existing records must be updated, not duplicated")

	// Paid amounts survive a rate change; statuses are re-derived.
	assert.Equal(t, int64(25000), records[0].AmountDue)
	assert.Equal(t, int64(20000), records[0].AmountPaid)
	assert.Equal(t, models.FeePartial, records[0].Status)
	assert.Equal(t, int64(5000), records[1].AmountPaid)
	assert.Equal(t, models.FeePartial, records[1].Status)
}

func TestGenerateYearRecordsInactiveCategory(t *testing.T) {
	s := &models.Student{ID: "s1", CurrentYear: 1}
	assert.Nil(t, GenerateYearRecords(s, 1, models.FeeTypeTransport, 0, time.Now()))
	assert.Nil(t, GenerateYearRecords(s, 1, models.FeeTypeTransport, -100, time.Now()))
	assert.Empty(t, s.Records)
}
