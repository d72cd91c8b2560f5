package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campora/college-admin-api/internal/ledger"
	"github.com/campora/college-admin-api/internal/models"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
)

type studentUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type configurationStore interface {
	Get(ctx context.Context, key string) (*models.Configuration, error)
	Upsert(ctx context.Context, cfg *models.Configuration) error
}

// CreateStudentRequest is the registrar payload for admitting a student.
type CreateStudentRequest struct {
	USN        string           `json:"usn" validate:"required"`
	FullName   string           `json:"full_name" validate:"required"`
	Department string           `json:"department" validate:"required"`
	Quota      models.Quota     `json:"quota" validate:"required,oneof=government management"`
	Entry      models.EntryMode `json:"entry" validate:"required,oneof=regular lateral"`
	Email      string           `json:"email" validate:"omitempty,email"`
	Password   string           `json:"password" validate:"required,min=6"`

	// AnnualCollegeFee is required for the management quota; government
	// quota admissions take the configured default.
	AnnualCollegeFee   int64 `json:"annual_college_fee" validate:"gte=0"`
	TransportOpted     bool  `json:"transport_opted"`
	AnnualTransportFee int64 `json:"annual_transport_fee" validate:"gte=0"`
	HostelOpted        bool  `json:"hostel_opted"`
	AnnualHostelFee    int64 `json:"annual_hostel_fee" validate:"gte=0"`
}

// UpdateFeeProfileRequest adjusts top-level due counters. Nil fields are
// left untouched; zero routes through the force-close path.
type UpdateFeeProfileRequest struct {
	CollegeFeeDue   *int64 `json:"college_fee_due" validate:"omitempty,gte=0"`
	TransportFeeDue *int64 `json:"transport_fee_due" validate:"omitempty,gte=0"`
	HostelFeeDue    *int64 `json:"hostel_fee_due" validate:"omitempty,gte=0"`
	PlacementFeeDue *int64 `json:"placement_fee_due" validate:"omitempty,gte=0"`
	LastSemDues     *int64 `json:"last_sem_dues" validate:"omitempty,gte=0"`
	Reference       string `json:"reference"`
}

// StudentService owns registrar-facing student workflows.
type StudentService struct {
	students  studentStore
	users     studentUserRepository
	configs   configurationStore
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(students studentStore, users studentUserRepository, configs configurationStore, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{students: students, users: users, configs: configs, audit: audit, validator: validate, logger: logger}
}

// Create admits a student: linked user account, resolved first-year
// college fee, generated year-1 ledger records and primed counters.
func (s *StudentService) Create(ctx context.Context, actor *models.JWTClaims, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	exists, err := s.students.ExistsByUSN(ctx, req.USN)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check usn")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a student with this usn already exists")
	}

	collegeFee := req.AnnualCollegeFee
	if req.Quota == models.QuotaGovernment {
		collegeFee, err = s.defaultGovFee(ctx)
		if err != nil {
			return nil, err
		}
	}
	if collegeFee <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "annual college fee must be set")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Username:     req.USN,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Email:        req.Email,
		Role:         models.RoleStudent,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user account")
	}

	now := time.Now().UTC()
	student := &models.Student{
		UserID:             user.ID,
		USN:                req.USN,
		FullName:           req.FullName,
		Department:         req.Department,
		CurrentYear:        1,
		Quota:              req.Quota,
		Entry:              req.Entry,
		Status:             models.StudentActive,
		TransportOpted:     req.TransportOpted,
		HostelOpted:        req.HostelOpted,
		AnnualCollegeFee:   collegeFee,
		AnnualTransportFee: req.AnnualTransportFee,
		AnnualHostelFee:    req.AnnualHostelFee,
	}

	for _, category := range ledger.Categories() {
		if !category.Opted(student) {
			continue
		}
		annual := *category.AnnualRate(student)
		ledger.GenerateYearRecords(student, 1, category.Type, annual, now)
		if annual > 0 {
			*category.Due(student) = annual
		}
	}

	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	details, _ := json.Marshal(map[string]interface{}{"usn": student.USN, "quota": student.Quota})
	emitAudit(ctx, s.logger, s.audit, &models.AuditLog{
		UserID:     actorUserID(actor),
		Role:       actorRole(actor),
		Action:     models.AuditActionStudentCreate,
		Resource:   "student",
		ResourceID: &student.ID,
		Details:    details,
	})

	return student, nil
}

// GetByUSN fetches a student aggregate by USN.
func (s *StudentService) GetByUSN(ctx context.Context, usn string) (*models.Student, error) {
	student, err := s.students.FindByUSN(ctx, usn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// GetSelf fetches the student aggregate linked to the authenticated user.
func (s *StudentService) GetSelf(ctx context.Context, userID string) (*models.Student, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no student record linked to this account")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// List returns students matching the filter with pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// UpdateFeeProfile sets top-level due counters. A zero value force-closes
// the category's open records; non-zero values set the counter directly.
func (s *StudentService) UpdateFeeProfile(ctx context.Context, actor *models.JWTClaims, usn string, req UpdateFeeProfileRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee profile payload")
	}

	target, err := s.GetByUSN(ctx, usn)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	updated, err := mutateStudent(ctx, s.students, target.ID, func(student *models.Student) error {
		counters := []struct {
			feeType models.FeeType
			value   *int64
		}{
			{models.FeeTypeCollege, req.CollegeFeeDue},
			{models.FeeTypeTransport, req.TransportFeeDue},
			{models.FeeTypeHostel, req.HostelFeeDue},
			{models.FeeTypePlacement, req.PlacementFeeDue},
		}
		for _, c := range counters {
			if c.value == nil {
				continue
			}
			reference := req.Reference
			if reference == "" {
				reference = "Admin Marked Paid"
			}
			if err := ledger.SetDue(student, c.feeType, *c.value, reference, now); err != nil {
				return mapLedgerError(err)
			}
		}
		if req.LastSemDues != nil {
			student.LastSemDues = *req.LastSemDues
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	emitAudit(ctx, s.logger, s.audit, &models.AuditLog{
		UserID:     actorUserID(actor),
		Role:       actorRole(actor),
		Action:     models.AuditActionFeeMarkPaid,
		Resource:   "student",
		ResourceID: &updated.ID,
	})
	return updated, nil
}

// SetEligibilityOverride stores the reporting-only eligibility flag. The
// promotion gate never consults it.
func (s *StudentService) SetEligibilityOverride(ctx context.Context, usn string, override *bool) (*models.Student, error) {
	target, err := s.GetByUSN(ctx, usn)
	if err != nil {
		return nil, err
	}
	return mutateStudent(ctx, s.students, target.ID, func(student *models.Student) error {
		student.EligibilityOverride = override
		return nil
	})
}

func (s *StudentService) defaultGovFee(ctx context.Context) (int64, error) {
	cfg, err := s.configs.Get(ctx, models.ConfigKeyDefaultGovFee)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrValidation, "default government fee is not configured")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load default government fee")
	}
	fee, err := strconv.ParseInt(cfg.Value, 10, 64)
	if err != nil || fee <= 0 {
		return 0, appErrors.Clone(appErrors.ErrInternal, "default government fee is malformed")
	}
	return fee, nil
}

func actorUserID(actor *models.JWTClaims) *string {
	if actor == nil {
		return nil
	}
	return &actor.UserID
}

func actorRole(actor *models.JWTClaims) string {
	if actor == nil {
		return ""
	}
	return string(actor.Role)
}

// mapLedgerError translates engine sentinels into typed API errors.
func mapLedgerError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ledger.ErrRecordNotFound):
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "no matching fee record")
	case errors.Is(err, ledger.ErrInvalidAmount):
		return appErrors.Wrap(err, appErrors.ErrInvalidAmount.Code, appErrors.ErrInvalidAmount.Status, appErrors.ErrInvalidAmount.Message)
	case errors.Is(err, ledger.ErrInvalidFeeType):
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown fee type")
	case errors.Is(err, ledger.ErrInconsistentLedger):
		return appErrors.Wrap(err, appErrors.ErrInconsistentLedger.Code, appErrors.ErrInconsistentLedger.Status, appErrors.ErrInconsistentLedger.Message)
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "ledger operation failed")
	}
}
