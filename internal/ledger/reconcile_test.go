package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campora/college-admin-api/internal/models"
)

const fallbackSemesterFee = 35000

func TestMergeDuplicates(t *testing.T) {
	// Scenario: two records for (year 1, sem 1, college).
	s := &models.Student{ID: "s1", CurrentYear: 1, Records: []models.FeeRecord{
		{ID: "a", Year: 1, Semester: 1, FeeType: models.FeeTypeCollege, AmountDue: 20000, AmountPaid: 20000, Status: models.FeePaid,
			Transactions: []models.FeeTransaction{{Amount: 20000, Mode: "CASH", Reference: "T1"}}},
		{ID: "b", Year: 1, Semester: 1, FeeType: models.FeeTypeCollege, AmountDue: 20000, AmountPaid: 5000, Status: models.FeePartial,
			Transactions: []models.FeeTransaction{{Amount: 5000, Mode: "Online", Reference: "T2"}}},
		{ID: "c", Year: 1, Semester: 2, FeeType: models.FeeTypeCollege, AmountDue: 20000, Status: models.FeePending},
	}}

	changed := MergeDuplicates(s)
	require.True(t, changed)
	require.Len(t, s.Records, 2)

	merged := s.Records[0]
	assert.Equal(t, "a", merged.ID, "ties broken by original order")
	assert.Equal(t, int64(20000), merged.AmountDue)
	assert.Equal(t, int64(25000), merged.AmountPaid)
	require.Len(t, merged.Transactions, 2)
	assert.Equal(t, "T1", merged.Transactions[0].Reference, "primary transactions first")
	assert.Equal(t, "T2", merged.Transactions[1].Reference)
	assert.Equal(t, models.FeePaid, merged.Status)
}

func TestMergeDuplicatesPrefersLargestDue(t *testing.T) {
	s := &models.Student{ID: "s1", CurrentYear: 1, Records: []models.FeeRecord{
		{ID: "small", Year: 1, Semester: 1, FeeType: models.FeeTypeCollege, AmountDue: 10000, AmountPaid: 2000},
		{ID: "big", Year: 1, Semester: 1, FeeType: models.FeeTypeCollege, AmountDue: 25000, AmountPaid: 3000},
	}}

	require.True(t, MergeDuplicates(s))
	require.Len(t, s.Records, 1)
	assert.Equal(t, "big", s.Records[0].ID)
	assert.Equal(t, int64(25000), s.Records[0].AmountDue)
	assert.Equal(t, int64(5000), s.Records[0].AmountPaid)
}

func TestMergeDuplicatesNoopWithoutDuplicates(t *testing.T) {
	s := &models.Student{ID: "s1", Records: []models.FeeRecord{
		{Year: 1, Semester: 1, FeeType: models.FeeTypeCollege, AmountDue: 100},
		{Year: 1, Semester: 1, FeeType: models.FeeTypeHostel, AmountDue: 100},
	}}
	assert.False(t, MergeDuplicates(s))
	assert.Len(t, s.Records, 2)
}

func TestRecomputePaid(t *testing.T) {
	s := &models.Student{ID: "s1", Records: []models.FeeRecord{
		{Year: 1, Semester: 1, FeeType: models.FeeTypeCollege, AmountDue: 20000, AmountPaid: 999, Status: models.FeePartial,
			Transactions: []models.FeeTransaction{{Amount: 25000}, {Amount: -5000}}},
		{Year: 1, Semester: 2, FeeType: models.FeeTypeCollege, AmountDue: 20000, AmountPaid: 7000},
	}}

	require.True(t, RecomputePaid(s))
	assert.Equal(t, int64(20000), s.Records[0].AmountPaid)
	assert.Equal(t, models.FeePaid, s.Records[0].Status)
	// No transaction history: the paid amount is left alone.
	assert.Equal(t, int64(7000), s.Records[1].AmountPaid)

	assert.False(t, RecomputePaid(s), "second run is a no-op")
}

func TestRedistributeExcess(t *testing.T) {
	// Scenario: source over-paid by 5000, an unpaid sem-3 record absorbs it.
	now := time.Now().UTC()
	s := &models.Student{ID: "s1", CurrentYear: 2, AnnualCollegeFee: 44000, Records: []models.FeeRecord{
		{ID: "src", Year: 1, Semester: 1, FeeType: models.FeeTypeCollege, AmountDue: 20000, AmountPaid: 25000, Status: models.FeePaid},
		{ID: "y1s2", Year: 1, Semester: 2, FeeType: models.FeeTypeCollege, AmountDue: 20000, AmountPaid: 20000, Status: models.FeePaid},
		{ID: "tgt", Year: 2, Semester: 3, FeeType: models.FeeTypeCollege, AmountDue: 22000, AmountPaid: 0, Status: models.FeePending},
		{ID: "y2s4", Year: 2, Semester: 4, FeeType: models.FeeTypeCollege, AmountDue: 22000, AmountPaid: 22000, Status: models.FeePaid},
	}}

	require.True(t, RedistributeExcess(s, fallbackSemesterFee, now))

	src := s.Records[0]
	assert.Equal(t, int64(20000), src.AmountPaid)
	assert.Equal(t, models.FeePaid, src.Status)
	require.Len(t, src.Transactions, 1)
	assert.Equal(t, int64(-5000), src.Transactions[0].Amount)
	assert.Equal(t, models.ModeAutoTransferOut, src.Transactions[0].Mode)

	tgt := s.Records[2]
	assert.Equal(t, int64(5000), tgt.AmountPaid)
	assert.Equal(t, models.FeePartial, tgt.Status)
	require.Len(t, tgt.Transactions, 1)
	assert.Equal(t, int64(5000), tgt.Transactions[0].Amount)
	assert.Equal(t, models.ModeAutoTransfer, tgt.Transactions[0].Mode)
}

func TestRedistributeExcessCreatesMissingSlots(t *testing.T) {
	now := time.Now().UTC()
	s := &models.Student{ID: "s1", CurrentYear: 1, AnnualCollegeFee: 40000, Records: []models.FeeRecord{
		{ID: "src", Year: 1, Semester: 1, FeeType: models.FeeTypeCollege, AmountDue: 20000, AmountPaid: 35000, Status: models.FeePaid},
	}}

	require.True(t, RedistributeExcess(s, fallbackSemesterFee, now))
	require.Len(t, s.Records, 2)

	created := s.Records[1]
	assert.Equal(t, 1, created.Year)
	assert.Equal(t, 2, created.Semester)
	assert.Equal(t, int64(20000), created.AmountDue, "half the persisted annual rate")
	assert.Equal(t, int64(15000), created.AmountPaid)
	assert.Equal(t, models.FeePartial, created.Status)
}

func TestRedistributeExcessFallbackRate(t *testing.T) {
	now := time.Now().UTC()
	s := &models.Student{ID: "s1", CurrentYear: 1, Records: []models.FeeRecord{
		{ID: "src", Year: 1, Semester: 1, FeeType: models.FeeTypeCollege, AmountDue: 10000, AmountPaid: 12000, Status: models.FeePaid},
	}}

	require.True(t, RedistributeExcess(s, fallbackSemesterFee, now))
	require.Len(t, s.Records, 2)
	assert.Equal(t, int64(fallbackSemesterFee), s.Records[1].AmountDue)
}

func TestReconcileTransactionSumInvariant(t *testing.T) {
	now := time.Now().UTC()
	s := &models.Student{ID: "s1", CurrentYear: 2, AnnualCollegeFee: 44000, Records: []models.FeeRecord{
		{ID: "a", Year: 1, Semester: 1, FeeType: models.FeeTypeCollege, AmountDue: 20000, AmountPaid: 20000, Status: models.FeePaid,
			Transactions: []models.FeeTransaction{{Amount: 20000, Mode: "CASH"}}},
		{ID: "a2", Year: 1, Semester: 1, FeeType: models.FeeTypeCollege, AmountDue: 20000, AmountPaid: 5000, Status: models.FeePartial,
			Transactions: []models.FeeTransaction{{Amount: 5000, Mode: "CASH"}}},
		{ID: "b", Year: 1, Semester: 2, FeeType: models.FeeTypeCollege, AmountDue: 20000, AmountPaid: 0, Status: models.FeePending,
			Transactions: []models.FeeTransaction{}},
	}}

	changed, err := Reconcile(s, fallbackSemesterFee, now)
	require.NoError(t, err)
	require.True(t, changed)

	for _, r := range s.Records {
		if len(r.Transactions) == 0 {
			continue
		}
		var sum int64
		for _, tx := range r.Transactions {
			sum += tx.Amount
		}
		assert.Equal(t, r.AmountPaid, sum, "Y%dS%d", r.Year, r.Semester)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	now := time.Now().UTC()
	s := &models.Student{ID: "s1", CurrentYear: 2, AnnualCollegeFee: 44000, Records: []models.FeeRecord{
		{ID: "a", Year: 1, Semester: 1, FeeType: models.FeeTypeCollege, AmountDue: 20000, AmountPaid: 31000, Status: models.FeePaid,
			Transactions: []models.FeeTransaction{{Amount: 31000, Mode: "CASH"}}},
		{ID: "dup", Year: 1, Semester: 1, FeeType: models.FeeTypeCollege, AmountDue: 18000, AmountPaid: 2000, Status: models.FeePartial,
			Transactions: []models.FeeTransaction{{Amount: 2000, Mode: "CASH"}}},
	}}

	changed, err := Reconcile(s, fallbackSemesterFee, now)
	require.NoError(t, err)
	require.True(t, changed)

	snapshot := make([]models.FeeRecord, len(s.Records))
	copy(snapshot, s.Records)
	recordCount := len(s.Records)

	changed, err = Reconcile(s, fallbackSemesterFee, now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, changed, "second run must be a no-op")
	require.Len(t, s.Records, recordCount)
	for i := range snapshot {
		assert.Equal(t, snapshot[i].AmountDue, s.Records[i].AmountDue)
		assert.Equal(t, snapshot[i].AmountPaid, s.Records[i].AmountPaid)
		assert.Len(t, s.Records[i].Transactions, len(snapshot[i].Transactions))
	}
}

func TestReconcileResyncsTopLevelDue(t *testing.T) {
	now := time.Now().UTC()
	s := &models.Student{ID: "s1", CurrentYear: 1, CollegeFeeDue: 99999, AnnualCollegeFee: 40000, Records: []models.FeeRecord{
		{ID: "a", Year: 1, Semester: 1, FeeType: models.FeeTypeCollege, AmountDue: 20000, AmountPaid: 1000, Status: models.FeePartial},
		{ID: "dup", Year: 1, Semester: 1, FeeType: models.FeeTypeCollege, AmountDue: 20000, AmountPaid: 0, Status: models.FeePending},
		{ID: "b", Year: 1, Semester: 2, FeeType: models.FeeTypeCollege, AmountDue: 20000, AmountPaid: 0, Status: models.FeePending},
	}}

	changed, err := Reconcile(s, fallbackSemesterFee, now)
	require.NoError(t, err)
	require.True(t, changed)
	// Authoritative formula: sum of amountDue over current-year records.
	assert.Equal(t, int64(40000), s.CollegeFeeDue)
}

func TestReconcileRejectsNegativeDue(t *testing.T) {
	s := &models.Student{ID: "s1", CurrentYear: 1, Records: []models.FeeRecord{
		{Year: 1, Semester: 1, FeeType: models.FeeTypeCollege, AmountDue: -5},
	}}
	_, err := Reconcile(s, fallbackSemesterFee, time.Now())
	assert.ErrorIs(t, err, ErrInconsistentLedger)
}
