package models

import "time"

// DashboardStats summarises the student population for the admin dashboard.
type DashboardStats struct {
	TotalStudents  int            `json:"total_students"`
	ActiveStudents int            `json:"active_students"`
	ByDepartment   map[string]int `json:"by_department"`
	ByQuota        map[string]int `json:"by_quota"`
	ByEntry        map[string]int `json:"by_entry"`
}

// FeeBreakdownRow is one bar of the fee analytics chart.
type FeeBreakdownRow struct {
	Label     string `json:"label"`
	FullyPaid int64  `json:"fully_paid"`
	Pending   int64  `json:"pending"`
}

// FeeAnalytics aggregates collection state per category.
type FeeAnalytics struct {
	TotalStudents        int               `json:"total_students"`
	TotalCollegeDue      int64             `json:"total_college_due"`
	TotalCollegeAnnual   int64             `json:"total_college_annual"`
	TotalTransportDue    int64             `json:"total_transport_due"`
	TotalTransportAnnual int64             `json:"total_transport_annual"`
	TotalHostelDue       int64             `json:"total_hostel_due"`
	TotalHostelAnnual    int64             `json:"total_hostel_annual"`
	TotalPlacementDue    int64             `json:"total_placement_due"`
	TotalPlacementAnnual int64             `json:"total_placement_annual"`
	Breakdown            []FeeBreakdownRow `json:"breakdown"`
}

// AnalyticsFilter narrows analytics queries.
type AnalyticsFilter struct {
	Year       int     // 0 means all years
	Department string  // empty means all departments
	FeeType    FeeType // empty means student counts
}

// PlacementStats summarises placement fee coverage.
type PlacementStats struct {
	TotalStudents   int   `json:"total_students"`
	StudentsWithFee int   `json:"students_with_fee"`
	TotalDue        int64 `json:"total_due"`
	TotalPaid       int64 `json:"total_paid"`
	Pending         int64 `json:"pending"`
}

// SystemMetrics is a lightweight snapshot of process metrics.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
