package models

import "time"

// Configuration keys consumed by the fee engines.
const (
	ConfigKeyDefaultGovFee = "default_gov_fee"
)

// Configuration represents a persisted configuration entry.
type Configuration struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedBy *string   `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
