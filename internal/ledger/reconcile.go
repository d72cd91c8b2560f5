package ledger

import (
	"fmt"
	"time"

	"github.com/campora/college-admin-api/internal/models"
)

type recordKey struct {
	year     int
	semester int
	feeType  models.FeeType
}

// Validate rejects ledgers that are broken beyond repair.
func Validate(s *models.Student) error {
	for i := range s.Records {
		if s.Records[i].AmountDue < 0 {
			return fmt.Errorf("%w: negative amountDue in Y%dS%d",
				ErrInconsistentLedger, s.Records[i].Year, s.Records[i].Semester)
		}
	}
	return nil
}

// Reconcile runs the corrective pipeline: duplicate merge, amountPaid
// recomputation from transaction history, and excess redistribution. When
// anything changed, every category's top-level due counter is resynced to
// the authoritative formula (sum of amountDue over current-year records).
// The pipeline is idempotent; a second run on the same ledger is a no-op.
func Reconcile(s *models.Student, fallbackSemesterFee int64, now time.Time) (bool, error) {
	if err := Validate(s); err != nil {
		return false, err
	}

	changed := MergeDuplicates(s)
	if RecomputePaid(s) {
		changed = true
	}
	if RedistributeExcess(s, fallbackSemesterFee, now) {
		changed = true
	}

	if changed {
		for _, cat := range Categories() {
			ResyncDue(s, cat.Type)
		}
	}
	return changed, nil
}

// MergeDuplicates collapses records sharing a (year, semester, feeType)
// key into a single record. The primary is the member with the largest
// amountDue (ties keep the earliest); paid amounts are summed, transaction
// lists concatenated with the primary's entries first, and amountDue takes
// the group maximum.
func MergeDuplicates(s *models.Student) bool {
	primaries := make(map[recordKey]int, len(s.Records))
	counts := make(map[recordKey]int, len(s.Records))
	var order []recordKey

	for i := range s.Records {
		k := recordKey{s.Records[i].Year, s.Records[i].Semester, s.Records[i].FeeType}
		if _, seen := primaries[k]; !seen {
			primaries[k] = i
			order = append(order, k)
		} else if s.Records[i].AmountDue > s.Records[primaries[k]].AmountDue {
			primaries[k] = i
		}
		counts[k]++
	}

	changed := false
	merged := make([]models.FeeRecord, 0, len(order))
	for _, k := range order {
		primary := s.Records[primaries[k]]
		if counts[k] > 1 {
			changed = true
			transactions := append([]models.FeeTransaction(nil), primary.Transactions...)
			for i := range s.Records {
				if i == primaries[k] {
					continue
				}
				r := &s.Records[i]
				if (recordKey{r.Year, r.Semester, r.FeeType}) != k {
					continue
				}
				primary.AmountPaid += r.AmountPaid
				transactions = append(transactions, r.Transactions...)
			}
			primary.Transactions = transactions
			primary.Status = DeriveStatus(primary.AmountDue, primary.AmountPaid)
		}
		merged = append(merged, primary)
	}

	s.Records = merged
	return changed
}

// RecomputePaid restores the invariant amountPaid == sum of transaction
// amounts for every record carrying transaction history. Records without
// transactions are left alone; their paid amount has no history to check
// against.
func RecomputePaid(s *models.Student) bool {
	changed := false
	for i := range s.Records {
		r := &s.Records[i]
		if len(r.Transactions) == 0 {
			continue
		}
		var sum int64
		for _, t := range r.Transactions {
			sum += t.Amount
		}
		if r.AmountPaid != sum {
			r.AmountPaid = sum
			r.Status = DeriveStatus(r.AmountDue, r.AmountPaid)
			changed = true
		}
	}
	return changed
}

// RedistributeExcess moves over-payments on college records into unpaid
// college records elsewhere in the ledger, scanning every (year, semester)
// slot from year 1 through the current year in ascending order. Missing
// slots are created with the student's semester rate (fallback when no
// annual rate is persisted). Each transfer writes a paired Auto-Transfer /
// negated Auto-Transfer-Out transaction so a later recomputation from
// history reproduces the post-transfer amounts.
func RedistributeExcess(s *models.Student, fallbackSemesterFee int64, now time.Time) bool {
	changed := false

	for src := 0; src < len(s.Records); src++ {
		if s.Records[src].FeeType != models.FeeTypeCollege {
			continue
		}
		if s.Records[src].AmountPaid <= s.Records[src].AmountDue {
			continue
		}
		srcYear, srcSem := s.Records[src].Year, s.Records[src].Semester

		for y := 1; y <= s.CurrentYear; y++ {
			semA, semB := SemestersForYear(y)
			for _, sem := range [2]int{semA, semB} {
				if y == srcYear && sem == srcSem {
					continue
				}

				ti := findRecord(s, y, sem, models.FeeTypeCollege)
				if ti < 0 {
					due := fallbackSemesterFee
					if s.AnnualCollegeFee > 0 {
						due, _ = SplitAnnual(s.AnnualCollegeFee)
					}
					s.Records = append(s.Records, models.FeeRecord{
						StudentID: s.ID,
						Year:      y,
						Semester:  sem,
						FeeType:   models.FeeTypeCollege,
						AmountDue: due,
						Status:    models.FeePending,
						CreatedAt: now,
						UpdatedAt: now,
					})
					ti = len(s.Records) - 1
					changed = true
				}

				pending := s.Records[ti].Outstanding()
				excess := -s.Records[src].Outstanding()
				if pending <= 0 || excess <= 0 {
					continue
				}
				transfer := pending
				if excess < transfer {
					transfer = excess
				}

				s.Records[src].AmountPaid -= transfer
				s.Records[src].UpdatedAt = now
				s.Records[src].Transactions = append(s.Records[src].Transactions, models.FeeTransaction{
					FeeRecordID: s.Records[src].ID,
					Amount:      -transfer,
					Mode:        models.ModeAutoTransferOut,
					Reference:   fmt.Sprintf("Transfer to Y%dS%d", y, sem),
					PaidAt:      now,
				})

				s.Records[ti].AmountPaid += transfer
				s.Records[ti].Status = DeriveStatus(s.Records[ti].AmountDue, s.Records[ti].AmountPaid)
				s.Records[ti].UpdatedAt = now
				s.Records[ti].Transactions = append(s.Records[ti].Transactions, models.FeeTransaction{
					FeeRecordID: s.Records[ti].ID,
					Amount:      transfer,
					Mode:        models.ModeAutoTransfer,
					Reference:   fmt.Sprintf("Transfer from Y%dS%d", srcYear, srcSem),
					PaidAt:      now,
				})
				changed = true
			}
		}

		s.Records[src].Status = DeriveStatus(s.Records[src].AmountDue, s.Records[src].AmountPaid)
	}

	return changed
}

// ResyncDue recomputes a category's top-level counter as the sum of
// amountDue over that category's current-year records.
func ResyncDue(s *models.Student, feeType models.FeeType) {
	cat, ok := CategoryFor(feeType)
	if !ok {
		return
	}
	var sum int64
	for i := range s.Records {
		if s.Records[i].FeeType == feeType && s.Records[i].Year == s.CurrentYear {
			sum += s.Records[i].AmountDue
		}
	}
	*cat.Due(s) = sum
}

func findRecord(s *models.Student, year, semester int, feeType models.FeeType) int {
	for i := range s.Records {
		if s.Records[i].Year == year && s.Records[i].Semester == semester && s.Records[i].FeeType == feeType {
			return i
		}
	}
	return -1
}
