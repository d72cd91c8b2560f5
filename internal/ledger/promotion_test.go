package ledger

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campora/college-admin-api/internal/models"
)

func clearedStudent(year int) *models.Student {
	s := &models.Student{
		ID:               "s1",
		USN:              "1CR21CS001",
		CurrentYear:      year,
		Status:           models.StudentActive,
		AnnualCollegeFee: 50000,
	}
	semA, semB := SemestersForYear(year)
	s.Records = []models.FeeRecord{
		{Year: year, Semester: semA, FeeType: models.FeeTypeCollege, AmountDue: 25000, AmountPaid: 25000, Status: models.FeePaid},
		{Year: year, Semester: semB, FeeType: models.FeeTypeCollege, AmountDue: 25000, AmountPaid: 25000, Status: models.FeePaid},
	}
	return s
}

func TestEvaluatePromotionEligible(t *testing.T) {
	d := EvaluatePromotion(clearedStudent(2), 0)
	assert.True(t, d.Eligible)
	assert.Empty(t, d.Reasons)
}

func TestEvaluatePromotionOutstandingCounter(t *testing.T) {
	s := clearedStudent(2)
	s.TransportFeeDue = 1500
	d := EvaluatePromotion(s, 0)
	assert.False(t, d.Eligible)
	assert.Contains(t, d.Reasons, ReasonOutstandingDues)
}

func TestEvaluatePromotionUnsettledLedger(t *testing.T) {
	s := clearedStudent(2)
	// Counters look clean but a current-year record is underpaid.
	s.Records[1].AmountPaid = 10000
	s.Records[1].Status = models.FeePartial
	d := EvaluatePromotion(s, 0)
	assert.False(t, d.Eligible)
	assert.Contains(t, d.Reasons, ReasonUnsettledLedger)
}

func TestEvaluatePromotionStaleStatusCaught(t *testing.T) {
	s := clearedStudent(2)
	// Status says paid but the amounts disagree; the ledger-level re-check
	// must catch it.
	s.Records[0].AmountPaid = 20000
	d := EvaluatePromotion(s, 0)
	assert.False(t, d.Eligible)
	assert.Contains(t, d.Reasons, ReasonUnsettledLedger)
}

func TestEvaluatePromotionLibraryLoans(t *testing.T) {
	d := EvaluatePromotion(clearedStudent(2), 1)
	assert.False(t, d.Eligible)
	assert.Contains(t, d.Reasons, ReasonLibraryLoansPending)
}

func TestEvaluatePromotionPriorYearDebtIgnoredByLedgerCheck(t *testing.T) {
	s := clearedStudent(3)
	s.Records = append(s.Records, models.FeeRecord{
		Year: 1, Semester: 1, FeeType: models.FeeTypeCollege, AmountDue: 20000, AmountPaid: 0, Status: models.FeePending,
	})
	// Prior-year records do not trip the current-year ledger check; only
	// counters guard old debt.
	d := EvaluatePromotion(s, 0)
	assert.True(t, d.Eligible)
}

func TestPromotionMonotonicity(t *testing.T) {
	// Any student with an unpaid current-year record or outstanding
	// library loans is never eligible.
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		year := 1 + rng.Intn(4)
		s := clearedStudent(year)
		loans := 0

		if rng.Intn(2) == 0 {
			idx := rng.Intn(len(s.Records))
			s.Records[idx].AmountPaid = s.Records[idx].AmountDue - int64(1+rng.Intn(10000))
			s.Records[idx].Status = DeriveStatus(s.Records[idx].AmountDue, s.Records[idx].AmountPaid)
		} else {
			loans = 1 + rng.Intn(3)
		}

		d := EvaluatePromotion(s, loans)
		require.False(t, d.Eligible, "iteration %d", i)
	}
}

func TestAdvanceYearGeneratesNewRecords(t *testing.T) {
	now := time.Now().UTC()
	s := clearedStudent(2)
	s.TransportOpted = true
	s.AnnualTransportFee = 12000

	AdvanceYear(s, now)

	assert.Equal(t, 3, s.CurrentYear)
	assert.Equal(t, models.StudentActive, s.Status)
	assert.Equal(t, int64(50000), s.CollegeFeeDue, "counter reset to full annual rate")
	assert.Equal(t, int64(12000), s.TransportFeeDue)

	var year3College, year3Transport int
	for _, r := range s.Records {
		if r.Year != 3 {
			continue
		}
		switch r.FeeType {
		case models.FeeTypeCollege:
			year3College++
		case models.FeeTypeTransport:
			year3Transport++
		}
		assert.Contains(t, []int{5, 6}, r.Semester)
		assert.Zero(t, r.AmountPaid)
	}
	assert.Equal(t, 2, year3College)
	assert.Equal(t, 2, year3Transport)
}

func TestAdvanceYearSkipsNonOptedCategories(t *testing.T) {
	s := clearedStudent(1)
	s.AnnualHostelFee = 30000 // rate persisted but hostel not opted

	AdvanceYear(s, time.Now().UTC())

	for _, r := range s.Records {
		assert.NotEqual(t, models.FeeTypeHostel, r.FeeType)
	}
	assert.Zero(t, s.HostelFeeDue)
}

func TestAdvanceYearGraduatesFinalYear(t *testing.T) {
	// Scenario: year 4, all dues clear, zero loans.
	s := clearedStudent(4)
	d := EvaluatePromotion(s, 0)
	require.True(t, d.Eligible)

	before := len(s.Records)
	AdvanceYear(s, time.Now().UTC())

	assert.Equal(t, models.StudentGraduated, s.Status)
	assert.Equal(t, 4, s.CurrentYear)
	assert.Len(t, s.Records, before, "graduation generates no fee records")
}
