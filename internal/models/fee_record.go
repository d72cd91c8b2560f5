package models

import "time"

// FeeType identifies a fee category in the ledger.
type FeeType string

const (
	FeeTypeCollege   FeeType = "college"
	FeeTypeTransport FeeType = "transport"
	FeeTypeHostel    FeeType = "hostel"
	FeeTypePlacement FeeType = "placement"
	FeeTypeOther     FeeType = "other"
)

// FeeStatus is the derived payment state of a ledger record.
type FeeStatus string

const (
	FeePending FeeStatus = "pending"
	FeePartial FeeStatus = "partial"
	FeePaid    FeeStatus = "paid"
)

// Payment modes written by the engines. Manual modes (CASH, Online, ...)
// arrive free-form from callers.
const (
	ModeAutoClear       = "Auto-Clear"
	ModeAutoTransfer    = "Auto-Transfer"
	ModeAutoTransferOut = "Auto-Transfer-Out"
)

// FeeRecord is a single semester/fee-type obligation in a student's ledger.
// The (Year, Semester, FeeType) key is logical only; storage does not
// enforce it and reconciliation merges duplicates.
type FeeRecord struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"-"`
	Year       int       `db:"year" json:"year"`
	Semester   int       `db:"semester" json:"semester"`
	FeeType    FeeType   `db:"fee_type" json:"fee_type"`
	AmountDue  int64     `db:"amount_due" json:"amount_due"`
	AmountPaid int64     `db:"amount_paid" json:"amount_paid"`
	Status     FeeStatus `db:"status" json:"status"`
	// Position preserves ledger order across saves; reconciliation
	// depends on first-occurrence ordering.
	Position  int       `db:"position" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Transactions []FeeTransaction `json:"transactions"`
}

// Outstanding returns the unpaid remainder, which is negative when the
// record is over-paid.
func (r *FeeRecord) Outstanding() int64 {
	return r.AmountDue - r.AmountPaid
}

// FeeTransaction is an append-only payment entry inside a fee record.
// Negative amounts record an outbound transfer to another record.
type FeeTransaction struct {
	ID          string    `db:"id" json:"id"`
	FeeRecordID string    `db:"fee_record_id" json:"-"`
	Amount      int64     `db:"amount" json:"amount"`
	Mode        string    `db:"mode" json:"mode"`
	Reference   string    `db:"reference" json:"reference"`
	Position    int       `db:"position" json:"-"`
	PaidAt      time.Time `db:"paid_at" json:"paid_at"`
}
