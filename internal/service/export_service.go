package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/campora/college-admin-api/internal/models"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
	"github.com/campora/college-admin-api/pkg/export"
)

type dueListRepository interface {
	DueList(ctx context.Context, filter models.AnalyticsFilter) ([]models.Student, error)
}

// ExportService renders the registrar's downloadable artifacts: the
// outstanding-dues CSV and the payment receipt PDF.
type ExportService struct {
	dues     dueListRepository
	students studentStore
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(dues dueListRepository, students studentStore, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		dues:     dues,
		students: students,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// DueListCSV renders the outstanding balance report.
func (s *ExportService) DueListCSV(ctx context.Context, filter models.AnalyticsFilter) ([]byte, string, error) {
	students, err := s.dues.DueList(ctx, filter)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build due list")
	}

	dataset := export.Dataset{
		Headers: []string{"USN", "Name", "Department", "Year", "College Due", "Transport Due", "Hostel Due", "Placement Due", "Total Due"},
	}
	for _, st := range students {
		dataset.AddRow(
			st.USN,
			st.FullName,
			st.Department,
			strconv.Itoa(st.CurrentYear),
			strconv.FormatInt(st.CollegeFeeDue, 10),
			strconv.FormatInt(st.TransportFeeDue, 10),
			strconv.FormatInt(st.HostelFeeDue, 10),
			strconv.FormatInt(st.PlacementFeeDue, 10),
			strconv.FormatInt(st.TotalDue(), 10),
		)
	}

	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	filename := fmt.Sprintf("due-list-%s.csv", time.Now().UTC().Format("2006-01-02"))
	return payload, filename, nil
}

// ReceiptPDF renders a payment receipt for one fee record.
func (s *ExportService) ReceiptPDF(ctx context.Context, usn, recordID string) ([]byte, string, error) {
	student, err := s.students.FindByUSN(ctx, usn)
	if err != nil {
		return nil, "", notFoundOrInternal(err, "student not found")
	}

	var record *models.FeeRecord
	for i := range student.Records {
		if student.Records[i].ID == recordID {
			record = &student.Records[i]
			break
		}
	}
	if record == nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "fee record not found")
	}

	dataset := export.Dataset{Headers: []string{"Field", "Value"}}
	dataset.AddRow("USN", student.USN)
	dataset.AddRow("Name", student.FullName)
	dataset.AddRow("Department", student.Department)
	dataset.AddRow("Fee Type", string(record.FeeType))
	dataset.AddRow("Year / Semester", fmt.Sprintf("%d / %d", record.Year, record.Semester))
	dataset.AddRow("Amount Due", strconv.FormatInt(record.AmountDue, 10))
	dataset.AddRow("Amount Paid", strconv.FormatInt(record.AmountPaid, 10))
	dataset.AddRow("Status", string(record.Status))
	for _, tx := range record.Transactions {
		dataset.AddRow(
			fmt.Sprintf("Payment %s", tx.PaidAt.Format("2006-01-02")),
			fmt.Sprintf("%d (%s) %s", tx.Amount, tx.Mode, tx.Reference),
		)
	}

	payload, err := s.pdf.Render(dataset, "Fee Payment Receipt")
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	filename := fmt.Sprintf("receipt-%s-%s.pdf", student.USN, record.ID)
	return payload, filename, nil
}
