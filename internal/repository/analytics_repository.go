package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campora/college-admin-api/internal/models"
)

// AnalyticsRepository runs the aggregate queries behind the dashboard and
// fee analytics endpoints.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository constructs an AnalyticsRepository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// dueColumns maps fee types onto their counter columns. Lookup through
// this map keeps fee type input out of SQL text.
var dueColumns = map[models.FeeType]string{
	models.FeeTypeCollege:   "college_fee_due",
	models.FeeTypeTransport: "transport_fee_due",
	models.FeeTypeHostel:    "hostel_fee_due",
	models.FeeTypePlacement: "placement_fee_due",
}

type groupCount struct {
	Label string `db:"label"`
	Count int    `db:"count"`
}

// DashboardStats aggregates the student population.
func (r *AnalyticsRepository) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{
		ByDepartment: map[string]int{},
		ByQuota:      map[string]int{},
		ByEntry:      map[string]int{},
	}

	const totals = `SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE status = $1) AS active FROM students`
	var row struct {
		Total  int `db:"total"`
		Active int `db:"active"`
	}
	if err := r.db.GetContext(ctx, &row, totals, models.StudentActive); err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}
	stats.TotalStudents = row.Total
	stats.ActiveStudents = row.Active

	grouped := []struct {
		column string
		target map[string]int
	}{
		{"department", stats.ByDepartment},
		{"quota", stats.ByQuota},
		{"entry", stats.ByEntry},
	}
	for _, g := range grouped {
		query := fmt.Sprintf(`SELECT %s AS label, COUNT(*) AS count FROM students WHERE status = $1 GROUP BY %s`, g.column, g.column)
		var rows []groupCount
		if err := r.db.SelectContext(ctx, &rows, query, models.StudentActive); err != nil {
			return nil, fmt.Errorf("dashboard group by %s: %w", g.column, err)
		}
		for _, gr := range rows {
			g.target[gr.Label] = gr.Count
		}
	}

	return stats, nil
}

// FeeTotals sums due counters and annual rates over active students,
// optionally filtered by year and department.
func (r *AnalyticsRepository) FeeTotals(ctx context.Context, filter models.AnalyticsFilter) (*models.FeeAnalytics, error) {
	query := `SELECT COUNT(*) AS total_students,
        COALESCE(SUM(college_fee_due), 0) AS total_college_due,
        COALESCE(SUM(annual_college_fee), 0) AS total_college_annual,
        COALESCE(SUM(transport_fee_due), 0) AS total_transport_due,
        COALESCE(SUM(annual_transport_fee), 0) AS total_transport_annual,
        COALESCE(SUM(hostel_fee_due), 0) AS total_hostel_due,
        COALESCE(SUM(annual_hostel_fee), 0) AS total_hostel_annual,
        COALESCE(SUM(placement_fee_due), 0) AS total_placement_due,
        COALESCE(SUM(annual_placement_fee), 0) AS total_placement_annual
        FROM students WHERE status = $1`
	args := []interface{}{models.StudentActive}

	if filter.Year > 0 {
		query += fmt.Sprintf(" AND current_year = $%d", len(args)+1)
		args = append(args, filter.Year)
	}
	if filter.Department != "" {
		query += fmt.Sprintf(" AND department = $%d", len(args)+1)
		args = append(args, filter.Department)
	}

	var analytics struct {
		TotalStudents        int   `db:"total_students"`
		TotalCollegeDue      int64 `db:"total_college_due"`
		TotalCollegeAnnual   int64 `db:"total_college_annual"`
		TotalTransportDue    int64 `db:"total_transport_due"`
		TotalTransportAnnual int64 `db:"total_transport_annual"`
		TotalHostelDue       int64 `db:"total_hostel_due"`
		TotalHostelAnnual    int64 `db:"total_hostel_annual"`
		TotalPlacementDue    int64 `db:"total_placement_due"`
		TotalPlacementAnnual int64 `db:"total_placement_annual"`
	}
	if err := r.db.GetContext(ctx, &analytics, query, args...); err != nil {
		return nil, fmt.Errorf("fee totals: %w", err)
	}

	return &models.FeeAnalytics{
		TotalStudents:        analytics.TotalStudents,
		TotalCollegeDue:      analytics.TotalCollegeDue,
		TotalCollegeAnnual:   analytics.TotalCollegeAnnual,
		TotalTransportDue:    analytics.TotalTransportDue,
		TotalTransportAnnual: analytics.TotalTransportAnnual,
		TotalHostelDue:       analytics.TotalHostelDue,
		TotalHostelAnnual:    analytics.TotalHostelAnnual,
		TotalPlacementDue:    analytics.TotalPlacementDue,
		TotalPlacementAnnual: analytics.TotalPlacementAnnual,
	}, nil
}

// FeeBreakdown counts fully-paid versus pending students for one fee
// category, grouped by department, or pivoted by year when a single
// department is selected.
func (r *AnalyticsRepository) FeeBreakdown(ctx context.Context, filter models.AnalyticsFilter) ([]models.FeeBreakdownRow, error) {
	column, ok := dueColumns[filter.FeeType]
	if !ok {
		return nil, fmt.Errorf("unsupported fee type %q", filter.FeeType)
	}

	groupBy := "department"
	if filter.Department != "" {
		groupBy = "current_year::text"
	}

	query := fmt.Sprintf(`SELECT %s AS label,
        COUNT(*) FILTER (WHERE %s = 0) AS fully_paid,
        COUNT(*) FILTER (WHERE %s > 0) AS pending
        FROM students WHERE status = $1`, groupBy, column, column)
	args := []interface{}{models.StudentActive}

	if filter.Year > 0 {
		query += fmt.Sprintf(" AND current_year = $%d", len(args)+1)
		args = append(args, filter.Year)
	}
	if filter.Department != "" {
		query += fmt.Sprintf(" AND department = $%d", len(args)+1)
		args = append(args, filter.Department)
	}
	query += fmt.Sprintf(" GROUP BY %s ORDER BY %s ASC", groupBy, groupBy)

	var rows []models.FeeBreakdownRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("fee breakdown: %w", err)
	}
	return rows, nil
}

// PlacementStats summarises placement fee coverage from the ledger.
func (r *AnalyticsRepository) PlacementStats(ctx context.Context, year int) (*models.PlacementStats, error) {
	query := `SELECT COUNT(DISTINCT s.id) AS total_students,
        COUNT(DISTINCT r.student_id) AS students_with_fee,
        COALESCE(SUM(r.amount_due), 0) AS total_due,
        COALESCE(SUM(r.amount_paid), 0) AS total_paid
        FROM students s
        LEFT JOIN fee_records r ON r.student_id = s.id AND r.fee_type = $1
        WHERE s.status = $2`
	args := []interface{}{models.FeeTypePlacement, models.StudentActive}
	if year > 0 {
		query += fmt.Sprintf(" AND s.current_year = $%d", len(args)+1)
		args = append(args, year)
	}

	var row struct {
		TotalStudents   int   `db:"total_students"`
		StudentsWithFee int   `db:"students_with_fee"`
		TotalDue        int64 `db:"total_due"`
		TotalPaid       int64 `db:"total_paid"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, fmt.Errorf("placement stats: %w", err)
	}

	pending := row.TotalDue - row.TotalPaid
	if pending < 0 {
		pending = 0
	}
	return &models.PlacementStats{
		TotalStudents:   row.TotalStudents,
		StudentsWithFee: row.StudentsWithFee,
		TotalDue:        row.TotalDue,
		TotalPaid:       row.TotalPaid,
		Pending:         pending,
	}, nil
}

// DueList returns the outstanding balance rows used by the CSV export.
func (r *AnalyticsRepository) DueList(ctx context.Context, filter models.AnalyticsFilter) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students
        WHERE status = $1 AND (college_fee_due + transport_fee_due + hostel_fee_due + placement_fee_due) > 0`
	args := []interface{}{models.StudentActive}

	if filter.Year > 0 {
		query += fmt.Sprintf(" AND current_year = $%d", len(args)+1)
		args = append(args, filter.Year)
	}
	if filter.Department != "" {
		query += fmt.Sprintf(" AND department = $%d", len(args)+1)
		args = append(args, filter.Department)
	}
	query += " ORDER BY usn ASC"

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("due list: %w", err)
	}
	return students, nil
}
