package models

import "time"

// Quota is the enrollment category that determines the fee rate source.
type Quota string

const (
	QuotaGovernment Quota = "government"
	QuotaManagement Quota = "management"
)

// EntryMode distinguishes regular admissions from lateral entries.
type EntryMode string

const (
	EntryRegular EntryMode = "regular"
	EntryLateral EntryMode = "lateral"
)

// StudentStatus is the academic lifecycle state of a student.
type StudentStatus string

const (
	StudentActive    StudentStatus = "active"
	StudentDetained  StudentStatus = "detained"
	StudentGraduated StudentStatus = "graduated"
	StudentDropout   StudentStatus = "dropout"
)

// Student is the aggregate root for a student's academic and fee state.
// The Records slice is the fee ledger; top-level due counters cache the
// outstanding balance per category for the current year.
type Student struct {
	ID          string        `db:"id" json:"id"`
	UserID      string        `db:"user_id" json:"user_id"`
	USN         string        `db:"usn" json:"usn"`
	FullName    string        `db:"full_name" json:"full_name"`
	Department  string        `db:"department" json:"department"`
	CurrentYear int           `db:"current_year" json:"current_year"`
	Quota       Quota         `db:"quota" json:"quota"`
	Entry       EntryMode     `db:"entry" json:"entry"`
	Status      StudentStatus `db:"status" json:"status"`

	TransportOpted bool `db:"transport_opted" json:"transport_opted"`
	HostelOpted    bool `db:"hostel_opted" json:"hostel_opted"`
	PlacementOpted bool `db:"placement_opted" json:"placement_opted"`

	AnnualCollegeFee   int64 `db:"annual_college_fee" json:"annual_college_fee"`
	AnnualTransportFee int64 `db:"annual_transport_fee" json:"annual_transport_fee"`
	AnnualHostelFee    int64 `db:"annual_hostel_fee" json:"annual_hostel_fee"`
	AnnualPlacementFee int64 `db:"annual_placement_fee" json:"annual_placement_fee"`

	CollegeFeeDue   int64 `db:"college_fee_due" json:"college_fee_due"`
	TransportFeeDue int64 `db:"transport_fee_due" json:"transport_fee_due"`
	HostelFeeDue    int64 `db:"hostel_fee_due" json:"hostel_fee_due"`
	PlacementFeeDue int64 `db:"placement_fee_due" json:"placement_fee_due"`
	LastSemDues     int64 `db:"last_sem_dues" json:"last_sem_dues"`

	// EligibilityOverride is consumed by reporting only; the promotion
	// gate ignores it.
	EligibilityOverride *bool `db:"eligibility_override" json:"eligibility_override,omitempty"`

	Version   int       `db:"version" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Records []FeeRecord `json:"fee_records"`
}

// TotalDue sums the four top-level due counters.
func (s *Student) TotalDue() int64 {
	return s.CollegeFeeDue + s.TransportFeeDue + s.HostelFeeDue + s.PlacementFeeDue
}

// StudentFilter captures the allowed search parameters for listing students.
type StudentFilter struct {
	Search     string
	Department string
	Year       int
	Status     StudentStatus
	Page       int
	PageSize   int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
