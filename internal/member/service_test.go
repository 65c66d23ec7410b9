package member

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fitcenter/internal/auth"
	"fitcenter/internal/logger"
	"fitcenter/internal/pagination"
	"fitcenter/internal/validate"
)

func init() {
	logger.Init()
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, fields validate.MemberFields, passwordHash string, instructor bool) (*Member, error) {
	args := m.Called(ctx, fields, passwordHash, instructor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id int) (*Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepository) FindByUsername(ctx context.Context, username string) (*Member, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepository) Exists(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) UsernameTaken(ctx context.Context, username string, excludeMemberID int) (bool, error) {
	args := m.Called(ctx, username, excludeMemberID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) PhoneTaken(ctx context.Context, phone string, excludeMemberID int) (bool, error) {
	args := m.Called(ctx, phone, excludeMemberID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id int, fields validate.MemberFields) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) Count(ctx context.Context, search string) (int, error) {
	args := m.Called(ctx, search)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, search string, w pagination.Window) ([]DirectoryEntry, error) {
	args := m.Called(ctx, search, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DirectoryEntry), args.Error(1)
}

func validSignup() SignupRequest {
	return SignupRequest{
		FirstName:      "Amy",
		LastName:       "Chen",
		PhoneNumber:    "555-555-6666",
		Username:       "achen",
		Password:       "longenough",
		VerifyPassword: "longenough",
	}
}

func TestSignup_CreatesNonInstructor(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, "test-secret")

	repo.On("UsernameTaken", mock.Anything, "achen", 0).Return(false, nil)
	repo.On("PhoneTaken", mock.Anything, "555-555-6666", 0).Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("string"), false).
		Return(&Member{ID: 1, FirstName: "Amy", LastName: "Chen", Username: "achen"}, nil)

	m, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	assert.Equal(t, 1, m.ID)

	// The stored value must be a bcrypt digest, never the plaintext.
	createArgs := repo.Calls[len(repo.Calls)-1].Arguments
	storedHash := createArgs.String(2)
	assert.NotEqual(t, "longenough", storedHash)
	assert.True(t, auth.CheckPassword(storedHash, "longenough"))

	repo.AssertExpectations(t)
}

func TestSignup_InvalidFieldsNeverReachStore(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, "test-secret")

	repo.On("UsernameTaken", mock.Anything, "achen", 0).Return(false, nil)
	repo.On("PhoneTaken", mock.Anything, "555-5556666", 0).Return(false, nil)

	req := validSignup()
	req.PhoneNumber = "555-5556666"

	_, err := svc.Signup(context.Background(), req)

	var vErr *validate.Error
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Messages, validate.MsgPhoneFormat)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSignup_TakenUsernameReportedBeforeMutation(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, "test-secret")

	repo.On("UsernameTaken", mock.Anything, "achen", 0).Return(true, nil)
	repo.On("PhoneTaken", mock.Anything, "555-555-6666", 0).Return(false, nil)

	_, err := svc.Signup(context.Background(), validSignup())

	var vErr *validate.Error
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Messages, validate.MsgUsernameTaken)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSignup_RacingDuplicateGetsSameMessage(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, "test-secret")

	repo.On("UsernameTaken", mock.Anything, "achen", 0).Return(false, nil)
	repo.On("PhoneTaken", mock.Anything, "555-555-6666", 0).Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("string"), false).
		Return(nil, ErrUsernameExists)

	_, err := svc.Signup(context.Background(), validSignup())

	var vErr *validate.Error
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{validate.MsgUsernameTaken}, vErr.Messages)
}

func TestLogin_Success(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, "test-secret")

	hash, err := auth.HashPassword("longenough")
	require.NoError(t, err)

	repo.On("FindByUsername", mock.Anything, "achen").
		Return(&Member{ID: 1, Username: "achen", PasswordHash: hash}, nil)

	m, token, err := svc.Login(context.Background(), LoginRequest{Username: "achen", Password: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, 1, m.ID)

	claims, err := auth.ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, 1, claims.MemberID)
	assert.Equal(t, "achen", claims.Username)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, "test-secret")

	hash, err := auth.HashPassword("longenough")
	require.NoError(t, err)

	repo.On("FindByUsername", mock.Anything, "achen").
		Return(&Member{ID: 1, Username: "achen", PasswordHash: hash}, nil)

	_, _, err = svc.Login(context.Background(), LoginRequest{Username: "achen", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUsername(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, "test-secret")

	repo.On("FindByUsername", mock.Anything, "ghost").Return(nil, ErrNotFound)

	_, _, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdate_UnchangedFieldsSkipUniqueness(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, "test-secret")

	current := &Member{
		ID:          1,
		FirstName:   "Amy",
		LastName:    "Chen",
		PhoneNumber: "555-555-6666",
		Username:    "achen",
	}
	repo.On("FindByID", mock.Anything, 1).Return(current, nil)
	repo.On("Update", mock.Anything, 1, mock.Anything).Return(nil)

	// Only the last name changes, so no uniqueness queries should run.
	req := UpdateRequest{
		FirstName:   "Amy",
		LastName:    "Chen-Park",
		PhoneNumber: "555-555-6666",
		Username:    "achen",
	}

	_, err := svc.Update(context.Background(), 1, req)
	require.NoError(t, err)
	repo.AssertNotCalled(t, "UsernameTaken", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "PhoneTaken", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_NewUsernameChecksWithSelfExcluded(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, "test-secret")

	current := &Member{
		ID:          1,
		FirstName:   "Amy",
		LastName:    "Chen",
		PhoneNumber: "555-555-6666",
		Username:    "achen",
	}
	repo.On("FindByID", mock.Anything, 1).Return(current, nil)
	repo.On("UsernameTaken", mock.Anything, "amychen", 1).Return(true, nil)

	req := UpdateRequest{
		FirstName:   "Amy",
		LastName:    "Chen",
		PhoneNumber: "555-555-6666",
		Username:    "amychen",
	}

	_, err := svc.Update(context.Background(), 1, req)

	var vErr *validate.Error
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Messages, validate.MsgUsernameTaken)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete_InstructorBlocked(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, "test-secret")

	repo.On("FindByID", mock.Anything, 1).
		Return(&Member{ID: 1, Username: "trodriguez", Instructor: true}, nil)

	err := svc.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInstructorDelete)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_Member(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, "test-secret")

	repo.On("FindByID", mock.Anything, 3).
		Return(&Member{ID: 3, Username: "achen"}, nil)
	repo.On("Delete", mock.Anything, 3).Return(nil)

	err := svc.Delete(context.Background(), 3)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDirectory_ListSkippedOnBadPage(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, "test-secret")

	repo.On("Count", mock.Anything, "").Return(23, nil)

	req := pagination.Request{Page: 6, ItemsPerPage: 5, Sort: pagination.Ascending}
	_, _, err := svc.Directory(context.Background(), "", req)

	var pErr *pagination.Error
	require.ErrorAs(t, err, &pErr)
	assert.Contains(t, pErr.Messages, pagination.MsgPageOutOfRange)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestDirectory_ReturnsWindow(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, "test-secret")

	repo.On("Count", mock.Anything, "chen").Return(1, nil)
	repo.On("List", mock.Anything, "chen", mock.Anything).
		Return([]DirectoryEntry{{ID: 1, FirstName: "Amy", LastName: "Chen"}}, nil)

	req := pagination.Request{Page: 1, ItemsPerPage: 5, Sort: pagination.Ascending}
	entries, w, err := svc.Directory(context.Background(), "chen", req)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, w.TotalPages)
}
