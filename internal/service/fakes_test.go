package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campora/college-admin-api/internal/models"
	appErrors "github.com/campora/college-admin-api/pkg/errors"
	"github.com/campora/college-admin-api/pkg/jobs"
)

// fakeStudentStore is an in-memory studentStore. Setting conflicts forces
// that many optimistic-lock failures before a save succeeds.
type fakeStudentStore struct {
	students  map[string]*models.Student
	conflicts int
	saves     int
	saveErr   error
}

func newFakeStudentStore(students ...*models.Student) *fakeStudentStore {
	store := &fakeStudentStore{students: make(map[string]*models.Student)}
	for _, st := range students {
		if st.ID == "" {
			st.ID = uuid.NewString()
		}
		store.students[st.ID] = cloneStudent(st)
	}
	return store
}

func cloneStudent(st *models.Student) *models.Student {
	clone := *st
	clone.Records = make([]models.FeeRecord, len(st.Records))
	for i, r := range st.Records {
		record := r
		record.Transactions = append([]models.FeeTransaction(nil), r.Transactions...)
		clone.Records[i] = record
	}
	return &clone
}

func (f *fakeStudentStore) FindByID(_ context.Context, id string) (*models.Student, error) {
	st, ok := f.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return cloneStudent(st), nil
}

func (f *fakeStudentStore) FindByUSN(_ context.Context, usn string) (*models.Student, error) {
	for _, st := range f.students {
		if strings.EqualFold(st.USN, usn) {
			return cloneStudent(st), nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentStore) FindByUserID(_ context.Context, userID string) (*models.Student, error) {
	for _, st := range f.students {
		if st.UserID == userID {
			return cloneStudent(st), nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentStore) List(_ context.Context, _ models.StudentFilter) ([]models.Student, int, error) {
	out := make([]models.Student, 0, len(f.students))
	for _, st := range f.students {
		out = append(out, *cloneStudent(st))
	}
	return out, len(out), nil
}

func (f *fakeStudentStore) ListIDsByYear(_ context.Context, year int) ([]string, error) {
	var ids []string
	for id, st := range f.students {
		if st.CurrentYear == year && st.Status == models.StudentActive {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeStudentStore) ListActiveIDs(_ context.Context) ([]string, error) {
	var ids []string
	for id, st := range f.students {
		if st.Status == models.StudentActive {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeStudentStore) ExistsByUSN(_ context.Context, usn string) (bool, error) {
	for _, st := range f.students {
		if strings.EqualFold(st.USN, usn) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudentStore) Create(_ context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	student.Version = 1
	f.assignRecordIDs(student)
	f.students[student.ID] = cloneStudent(student)
	return nil
}

func (f *fakeStudentStore) Save(_ context.Context, student *models.Student) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.conflicts > 0 {
		f.conflicts--
		return appErrors.Clone(appErrors.ErrConflict, "student was modified concurrently")
	}
	student.Version++
	f.assignRecordIDs(student)
	f.students[student.ID] = cloneStudent(student)
	return nil
}

func (f *fakeStudentStore) assignRecordIDs(student *models.Student) {
	for i := range student.Records {
		if student.Records[i].ID == "" {
			student.Records[i].ID = uuid.NewString()
		}
		for j := range student.Records[i].Transactions {
			if student.Records[i].Transactions[j].ID == "" {
				student.Records[i].Transactions[j].ID = uuid.NewString()
			}
		}
	}
}

type fakeAuditRecorder struct {
	entries []models.AuditLog
	err     error
}

func (f *fakeAuditRecorder) Create(_ context.Context, log *models.AuditLog) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, *log)
	return nil
}

func (f *fakeAuditRecorder) lastAction() string {
	if len(f.entries) == 0 {
		return ""
	}
	return f.entries[len(f.entries)-1].Action
}

type fakeConfigurationStore struct {
	values map[string]*models.Configuration
	getErr error
}

func newFakeConfigurationStore() *fakeConfigurationStore {
	return &fakeConfigurationStore{values: make(map[string]*models.Configuration)}
}

func (f *fakeConfigurationStore) Get(_ context.Context, key string) (*models.Configuration, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	cfg, ok := f.values[key]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *cfg
	return &copied, nil
}

func (f *fakeConfigurationStore) Upsert(_ context.Context, cfg *models.Configuration) error {
	copied := *cfg
	copied.UpdatedAt = time.Now().UTC()
	f.values[cfg.Key] = &copied
	return nil
}

type fakeLoanCounter struct {
	counts map[string]int
	err    error
}

func (f *fakeLoanCounter) CountOutstanding(_ context.Context, studentID string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[studentID], nil
}

type fakeAnalyticsInvalidator struct {
	calls int
}

func (f *fakeAnalyticsInvalidator) Invalidate(_ context.Context) {
	f.calls++
}

type fakeEnqueuer struct {
	jobs []jobs.Job
	err  error
}

func (f *fakeEnqueuer) Enqueue(job jobs.Job) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

type fakeUserRepository struct {
	users     map[string]*models.User // keyed by username
	tokens    map[string]*models.RefreshToken
	createErr error
}

func newFakeUserRepository(users ...*models.User) *fakeUserRepository {
	repo := &fakeUserRepository{
		users:  make(map[string]*models.User),
		tokens: make(map[string]*models.RefreshToken),
	}
	for _, u := range users {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		repo.users[strings.ToLower(u.Username)] = u
	}
	return repo
}

func (f *fakeUserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := f.users[strings.ToLower(username)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepository) Create(_ context.Context, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	f.users[strings.ToLower(user.Username)] = user
	return nil
}

func (f *fakeUserRepository) UpdateLastLogin(_ context.Context, id string, ts time.Time) error {
	for _, user := range f.users {
		if user.ID == id {
			user.LastLogin = &ts
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeUserRepository) UpdatePassword(_ context.Context, id, passwordHash string, updatedAt time.Time) error {
	for _, user := range f.users {
		if user.ID == id {
			user.PasswordHash = passwordHash
			user.UpdatedAt = updatedAt
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeUserRepository) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	copied := *token
	f.tokens[token.Token] = &copied
	return nil
}

func (f *fakeUserRepository) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	stored, ok := f.tokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (f *fakeUserRepository) RevokeRefreshToken(_ context.Context, id string, revokedAt time.Time) error {
	for _, token := range f.tokens {
		if token.ID == id {
			token.Revoked = true
			token.RevokedAt = &revokedAt
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeUserRepository) RevokeUserRefreshTokens(_ context.Context, userID string) error {
	now := time.Now().UTC()
	for _, token := range f.tokens {
		if token.UserID == userID && !token.Revoked {
			token.Revoked = true
			token.RevokedAt = &now
		}
	}
	return nil
}

type fakeLibraryRepository struct {
	records map[string]*models.LibraryRecord
}

func newFakeLibraryRepository(records ...*models.LibraryRecord) *fakeLibraryRepository {
	repo := &fakeLibraryRepository{records: make(map[string]*models.LibraryRecord)}
	for _, r := range records {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		repo.records[r.ID] = r
	}
	return repo
}

func (f *fakeLibraryRepository) CountOutstanding(_ context.Context, studentID string) (int, error) {
	count := 0
	for _, r := range f.records {
		if r.StudentID == studentID && r.Status != models.LoanReturned {
			count++
		}
	}
	return count, nil
}

func (f *fakeLibraryRepository) FindByID(_ context.Context, id string) (*models.LibraryRecord, error) {
	record, ok := f.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *record
	return &copied, nil
}

func (f *fakeLibraryRepository) ListByStudent(_ context.Context, studentID string) ([]models.LibraryRecord, error) {
	var out []models.LibraryRecord
	for _, r := range f.records {
		if r.StudentID == studentID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeLibraryRepository) ListUnreturned(_ context.Context) ([]models.LibraryRecord, error) {
	var out []models.LibraryRecord
	for _, r := range f.records {
		if r.Status != models.LoanReturned {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeLibraryRepository) Create(_ context.Context, record *models.LibraryRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	copied := *record
	f.records[record.ID] = &copied
	return nil
}

func (f *fakeLibraryRepository) Update(_ context.Context, record *models.LibraryRecord) error {
	if _, ok := f.records[record.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *record
	f.records[record.ID] = &copied
	return nil
}

type fakeNotificationRepository struct {
	notifications map[string]*models.ExamNotification
	lastFilter    models.NotificationFilter
}

func newFakeNotificationRepository(notifications ...*models.ExamNotification) *fakeNotificationRepository {
	repo := &fakeNotificationRepository{notifications: make(map[string]*models.ExamNotification)}
	for _, n := range notifications {
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		repo.notifications[n.ID] = n
	}
	return repo
}

func (f *fakeNotificationRepository) List(_ context.Context, filter models.NotificationFilter) ([]models.ExamNotification, error) {
	f.lastFilter = filter
	var out []models.ExamNotification
	for _, n := range f.notifications {
		if filter.IsActive != nil && n.IsActive != *filter.IsActive {
			continue
		}
		if filter.ViewerYear > 0 {
			switch n.ExamType {
			case models.ExamRegular:
				if n.Year != filter.ViewerYear {
					continue
				}
			case models.ExamSupplementary:
				if n.Year > filter.ViewerYear {
					continue
				}
			}
		}
		out = append(out, *n)
	}
	return out, nil
}

func (f *fakeNotificationRepository) FindByID(_ context.Context, id string) (*models.ExamNotification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *n
	return &copied, nil
}

func (f *fakeNotificationRepository) Create(_ context.Context, notification *models.ExamNotification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	copied := *notification
	f.notifications[notification.ID] = &copied
	return nil
}

func (f *fakeNotificationRepository) Update(_ context.Context, notification *models.ExamNotification) error {
	if _, ok := f.notifications[notification.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *notification
	f.notifications[notification.ID] = &copied
	return nil
}

func (f *fakeNotificationRepository) Delete(_ context.Context, id string) error {
	delete(f.notifications, id)
	return nil
}
