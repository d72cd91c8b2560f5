package ledger

import (
	"time"

	"github.com/campora/college-admin-api/internal/models"
)

// FinalYear is the last academic year before graduation.
const FinalYear = 4

// Reason strings carried on an ineligible promotion decision.
const (
	ReasonOutstandingDues     = "outstanding fee balance"
	ReasonUnsettledLedger     = "unsettled ledger records for current year"
	ReasonLibraryLoansPending = "outstanding library loans"
)

// Decision is the outcome of a promotion eligibility check.
type Decision struct {
	Eligible bool     `json:"eligible"`
	Reasons  []string `json:"reasons,omitempty"`
}

// EvaluatePromotion decides whether a student may advance to the next year
// (or graduate). It is pure over the student snapshot plus the external
// library loan count. All three checks must pass: zero aggregate top-level
// dues, no current-year ledger record left unpaid or underpaid (a stricter
// re-check, since counters can drift), and no outstanding library loans.
func EvaluatePromotion(s *models.Student, libraryDueCount int) Decision {
	var reasons []string

	if s.TotalDue() > 0 {
		reasons = append(reasons, ReasonOutstandingDues)
	}

	for i := range s.Records {
		r := &s.Records[i]
		if r.Year != s.CurrentYear {
			continue
		}
		if r.Status != models.FeePaid || r.AmountPaid < r.AmountDue {
			reasons = append(reasons, ReasonUnsettledLedger)
			break
		}
	}

	if libraryDueCount > 0 {
		reasons = append(reasons, ReasonLibraryLoansPending)
	}

	return Decision{Eligible: len(reasons) == 0, Reasons: reasons}
}

// AdvanceYear applies the success transition. Final-year students graduate
// and generate nothing further. Everyone else moves up a year, gets fresh
// semester records for every opted-in category from the persisted annual
// rates, and has the top-level counters reset to the full annual rate.
func AdvanceYear(s *models.Student, now time.Time) {
	if s.CurrentYear >= FinalYear {
		s.Status = models.StudentGraduated
		s.UpdatedAt = now
		return
	}

	s.CurrentYear++
	for _, cat := range Categories() {
		if !cat.Opted(s) {
			continue
		}
		annual := *cat.AnnualRate(s)
		GenerateYearRecords(s, s.CurrentYear, cat.Type, annual, now)
		if annual > 0 {
			*cat.Due(s) = annual
		} else {
			*cat.Due(s) = 0
		}
	}
	s.UpdatedAt = now
}
