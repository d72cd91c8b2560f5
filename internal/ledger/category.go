package ledger

import "github.com/campora/college-admin-api/internal/models"

// Category binds a fee type to its per-student fields so that generation,
// payment application and reconciliation never branch per category.
type Category struct {
	Type models.FeeType

	annual func(*models.Student) *int64
	due    func(*models.Student) *int64
	opted  func(*models.Student) bool
}

// AnnualRate returns a pointer to the persisted annual rate field.
func (c Category) AnnualRate(s *models.Student) *int64 { return c.annual(s) }

// Due returns a pointer to the top-level due counter field.
func (c Category) Due(s *models.Student) *int64 { return c.due(s) }

// Opted reports whether the student participates in this category.
func (c Category) Opted(s *models.Student) bool { return c.opted(s) }

var categories = []Category{
	{
		Type:   models.FeeTypeCollege,
		annual: func(s *models.Student) *int64 { return &s.AnnualCollegeFee },
		due:    func(s *models.Student) *int64 { return &s.CollegeFeeDue },
		opted:  func(*models.Student) bool { return true },
	},
	{
		Type:   models.FeeTypeTransport,
		annual: func(s *models.Student) *int64 { return &s.AnnualTransportFee },
		due:    func(s *models.Student) *int64 { return &s.TransportFeeDue },
		opted:  func(s *models.Student) bool { return s.TransportOpted },
	},
	{
		Type:   models.FeeTypeHostel,
		annual: func(s *models.Student) *int64 { return &s.AnnualHostelFee },
		due:    func(s *models.Student) *int64 { return &s.HostelFeeDue },
		opted:  func(s *models.Student) bool { return s.HostelOpted },
	},
	{
		Type:   models.FeeTypePlacement,
		annual: func(s *models.Student) *int64 { return &s.AnnualPlacementFee },
		due:    func(s *models.Student) *int64 { return &s.PlacementFeeDue },
		opted:  func(s *models.Student) bool { return s.PlacementOpted },
	},
}

// Categories returns the fee categories in their canonical order.
func Categories() []Category {
	return categories
}

// CategoryFor looks up the category for a fee type. The second return is
// false for fee types without per-student counters (e.g. "other").
func CategoryFor(feeType models.FeeType) (Category, bool) {
	for _, c := range categories {
		if c.Type == feeType {
			return c, true
		}
	}
	return Category{}, false
}
