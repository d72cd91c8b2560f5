package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin          = "LOGIN"
	AuditActionStudentCreate  = "STUDENT_CREATE"
	AuditActionFeePayment     = "FEE_PAYMENT"
	AuditActionFeeMarkPaid    = "FEE_MARK_PAID"
	AuditActionFeeAssign      = "FEE_ASSIGN"
	AuditActionGovFeeUpdate   = "GOV_FEE_UPDATE"
	AuditActionPromotion      = "PROMOTION"
	AuditActionReconciliation = "RECONCILIATION"
	AuditActionPasswordReset  = "PASSWORD_RESET"
	AuditActionBookIssue      = "BOOK_ISSUE"
	AuditActionBookReturn     = "BOOK_RETURN"
	AuditActionExport         = "EXPORT"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Role       string    `db:"role" json:"role"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	Details    []byte    `db:"details" json:"details,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
