package ledger

import (
	"time"

	"github.com/campora/college-admin-api/internal/models"
)

// RecordSelector identifies the target of a payment: either an explicit
// record ID, or the first non-paid record of a fee type, optionally scoped
// to a year.
type RecordSelector struct {
	RecordID string
	FeeType  models.FeeType
	Year     int
}

// ApplyPayment applies a positive payment amount to the selected record,
// appends the transaction, re-derives the status and decrements the
// category's top-level due counter floored at zero. The counter floor means
// over-payments show up only in the record's amountPaid, never as a
// negative balance.
func ApplyPayment(s *models.Student, sel RecordSelector, amount int64, mode, reference string, now time.Time) (*models.FeeRecord, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	record := resolveRecord(s, sel)
	if record == nil {
		return nil, ErrRecordNotFound
	}

	record.AmountPaid += amount
	record.Status = DeriveStatus(record.AmountDue, record.AmountPaid)
	record.UpdatedAt = now
	record.Transactions = append(record.Transactions, models.FeeTransaction{
		FeeRecordID: record.ID,
		Amount:      amount,
		Mode:        mode,
		Reference:   reference,
		PaidAt:      now,
	})

	if cat, ok := CategoryFor(record.FeeType); ok {
		due := cat.Due(s)
		*due -= amount
		if *due < 0 {
			*due = 0
		}
	}

	return record, nil
}

// SetDue overwrites a category's top-level due counter. Setting it to zero
// is the "mark as fully paid" path: every non-paid record of the category
// is force-closed with a synthetic Auto-Clear transaction covering the
// remaining delta. Deltas that are not positive are skipped so the
// transaction history never carries a non-positive clear entry.
func SetDue(s *models.Student, feeType models.FeeType, amount int64, reference string, now time.Time) error {
	cat, ok := CategoryFor(feeType)
	if !ok {
		return ErrInvalidFeeType
	}
	if amount < 0 {
		return ErrInvalidAmount
	}

	*cat.Due(s) = amount
	if amount != 0 {
		return nil
	}

	for i := range s.Records {
		r := &s.Records[i]
		if r.FeeType != feeType || r.Status == models.FeePaid {
			continue
		}
		delta := r.Outstanding()
		if delta > 0 {
			r.Transactions = append(r.Transactions, models.FeeTransaction{
				FeeRecordID: r.ID,
				Amount:      delta,
				Mode:        models.ModeAutoClear,
				Reference:   reference,
				PaidAt:      now,
			})
		}
		r.AmountPaid = r.AmountDue
		r.Status = models.FeePaid
		r.UpdatedAt = now
	}
	return nil
}

// MarkDueAsPaid clears a category entirely.
func MarkDueAsPaid(s *models.Student, feeType models.FeeType, reference string, now time.Time) error {
	return SetDue(s, feeType, 0, reference, now)
}

func resolveRecord(s *models.Student, sel RecordSelector) *models.FeeRecord {
	if sel.RecordID != "" {
		for i := range s.Records {
			if s.Records[i].ID == sel.RecordID {
				return &s.Records[i]
			}
		}
		return nil
	}

	for i := range s.Records {
		r := &s.Records[i]
		if r.FeeType != sel.FeeType || r.Status == models.FeePaid {
			continue
		}
		if sel.Year != 0 && r.Year != sel.Year {
			continue
		}
		return r
	}
	return nil
}
