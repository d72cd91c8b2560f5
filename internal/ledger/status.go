// Package ledger implements the per-student fee ledger engine: status
// derivation, payment application, semester fee generation, ledger
// reconciliation and the promotion gate. Everything here is pure in-memory
// manipulation of the student aggregate; persistence belongs to callers.
package ledger

import (
	"errors"

	"github.com/campora/college-admin-api/internal/models"
)

// Sentinel errors surfaced by the engines. Services translate these into
// transport-level errors.
var (
	ErrRecordNotFound     = errors.New("fee record not found")
	ErrInvalidAmount      = errors.New("amount must be a positive whole number")
	ErrInvalidFeeType     = errors.New("unknown fee type")
	ErrInconsistentLedger = errors.New("ledger state is inconsistent")
)

// DeriveStatus computes a record's status from its amounts. Paid wins as
// soon as the due amount is covered, which also classifies a zero-due
// record as paid.
func DeriveStatus(amountDue, amountPaid int64) models.FeeStatus {
	switch {
	case amountPaid >= amountDue:
		return models.FeePaid
	case amountPaid > 0:
		return models.FeePartial
	default:
		return models.FeePending
	}
}
