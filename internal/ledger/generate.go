package ledger

import (
	"time"

	"github.com/campora/college-admin-api/internal/models"
)

// SplitAnnual divides an annual amount across the two semesters of a year.
// The odd remainder lands on semester A, so B never exceeds A.
func SplitAnnual(annual int64) (semA, semB int64) {
	semA = (annual + 1) / 2
	semB = annual - semA
	return semA, semB
}

// SemestersForYear maps an academic year to its semester pair.
func SemestersForYear(year int) (semA, semB int) {
	return year*2 - 1, year * 2
}

// GenerateYearRecords materialises the two semester records for a fee type
// and year. Existing records for the same (year, semester, feeType) key are
// updated in place: amountDue changes, amountPaid is preserved and the
// status re-derived. A non-positive annual amount deactivates the category
// for that year and produces nothing.
func GenerateYearRecords(s *models.Student, year int, feeType models.FeeType, annual int64, now time.Time) []*models.FeeRecord {
	if annual <= 0 {
		return nil
	}

	semA, semB := SemestersForYear(year)
	amountA, amountB := SplitAnnual(annual)

	return []*models.FeeRecord{
		upsertRecord(s, year, semA, feeType, amountA, now),
		upsertRecord(s, year, semB, feeType, amountB, now),
	}
}

func upsertRecord(s *models.Student, year, semester int, feeType models.FeeType, amountDue int64, now time.Time) *models.FeeRecord {
	for i := range s.Records {
		r := &s.Records[i]
		if r.Year == year && r.Semester == semester && r.FeeType == feeType {
			r.AmountDue = amountDue
			r.Status = DeriveStatus(r.AmountDue, r.AmountPaid)
			r.UpdatedAt = now
			return r
		}
	}

	s.Records = append(s.Records, models.FeeRecord{
		StudentID:  s.ID,
		Year:       year,
		Semester:   semester,
		FeeType:    feeType,
		AmountDue:  amountDue,
		AmountPaid: 0,
		Status:     models.FeePending,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	return &s.Records[len(s.Records)-1]
}
