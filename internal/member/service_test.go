package member

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"coopfund/internal/auth"
	"coopfund/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type MockRepo struct{ mock.Mock }

func (m *MockRepo) Create(ctx context.Context, name, email, passwordHash, role string) (*Member, error) {
	args := m.Called(ctx, name, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepo) FindByID(ctx context.Context, id int) (*Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepo) FindByEmail(ctx context.Context, email string) (*Member, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepo) ListByStatus(ctx context.Context, status Status) ([]Member, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Member), args.Error(1)
}

func (m *MockRepo) Approve(ctx context.Context, id int) (*Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepo) SetTransactionPin(ctx context.Context, id int, pinHash string) error {
	return m.Called(ctx, id, pinHash).Error(0)
}

func (m *MockRepo) SetQualificationStatus(ctx context.Context, id int, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

type MockAuditor struct{ mock.Mock }

func (m *MockAuditor) Record(ctx context.Context, actor, action string, targetMemberID *int, detail string) error {
	return m.Called(ctx, actor, action, targetMemberID, detail).Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, memberID int, title, message string) error {
	return m.Called(ctx, memberID, title, message).Error(0)
}

const testSecret = "test-secret"

func TestRegister(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, new(MockAuditor), new(MockNotifier), testSecret)

	created := &Member{ID: 1, Name: "Ada", Email: "ada@coop.test", Role: "member", Status: StatusPendingApproval}
	repo.On("EmailExists", mock.Anything, "ada@coop.test").Return(false, nil)
	repo.On("Create", mock.Anything, "Ada", "ada@coop.test", mock.Anything, "member").Return(created, nil)

	m, access, refresh, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Ada",
		Email:    "ada@coop.test",
		Password: "correct-horse",
	})
	assert.NoError(t, err)
	assert.Equal(t, StatusPendingApproval, m.Status)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	claims, err := auth.ValidateToken(access, testSecret)
	assert.NoError(t, err)
	assert.Equal(t, 1, claims.MemberID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, new(MockAuditor), new(MockNotifier), testSecret)

	repo.On("EmailExists", mock.Anything, "ada@coop.test").Return(true, nil)

	_, _, _, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Ada",
		Email:    "ada@coop.test",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
	repo.AssertNotCalled(t, "Create")
}

func TestLogin(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, new(MockAuditor), new(MockNotifier), testSecret)

	hash, err := auth.HashPassword("correct-horse")
	assert.NoError(t, err)

	repo.On("FindByEmail", mock.Anything, "ada@coop.test").
		Return(&Member{ID: 1, Email: "ada@coop.test", PasswordHash: hash, Role: "member", Status: StatusActive}, nil)

	m, access, _, err := svc.Login(context.Background(), LoginRequest{Email: "ada@coop.test", Password: "correct-horse"})
	assert.NoError(t, err)
	assert.Equal(t, 1, m.ID)
	assert.NotEmpty(t, access)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, new(MockAuditor), new(MockNotifier), testSecret)

	hash, err := auth.HashPassword("correct-horse")
	assert.NoError(t, err)

	repo.On("FindByEmail", mock.Anything, "ada@coop.test").
		Return(&Member{ID: 1, Email: "ada@coop.test", PasswordHash: hash}, nil)

	_, _, _, err = svc.Login(context.Background(), LoginRequest{Email: "ada@coop.test", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, new(MockAuditor), new(MockNotifier), testSecret)

	repo.On("FindByEmail", mock.Anything, "ghost@coop.test").Return(nil, ErrMemberNotFound)

	_, _, _, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@coop.test", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSetPin(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, new(MockAuditor), new(MockNotifier), testSecret)

	repo.On("SetTransactionPin", mock.Anything, 1, mock.MatchedBy(func(hash string) bool {
		return auth.CheckPin(hash, "4321")
	})).Return(nil)

	err := svc.SetPin(context.Background(), 1, "4321")
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestApprove(t *testing.T) {
	repo := new(MockRepo)
	auditor := new(MockAuditor)
	notifier := new(MockNotifier)
	svc := NewService(repo, auditor, notifier, testSecret)

	approved := &Member{ID: 1, Email: "ada@coop.test", Status: StatusActive}
	repo.On("Approve", mock.Anything, 1).Return(approved, nil)
	auditor.On("Record", mock.Anything, "admin@coop.test", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	notifier.On("Notify", mock.Anything, 1, "Account approved", mock.Anything).Return(nil)

	m, err := svc.Approve(context.Background(), "admin@coop.test", 1)
	assert.NoError(t, err)
	assert.Equal(t, StatusActive, m.Status)
	auditor.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestApprove_NotPending(t *testing.T) {
	repo := new(MockRepo)
	auditor := new(MockAuditor)
	svc := NewService(repo, auditor, new(MockNotifier), testSecret)

	repo.On("Approve", mock.Anything, 1).Return(nil, ErrNotPendingState)

	_, err := svc.Approve(context.Background(), "admin@coop.test", 1)
	assert.ErrorIs(t, err, ErrNotPendingState)
	auditor.AssertNotCalled(t, "Record")
}

func TestRefreshToken(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, new(MockAuditor), new(MockNotifier), testSecret)

	_, refresh, err := auth.GenerateTokens(1, "ada@coop.test", "member", testSecret, testSecret)
	assert.NoError(t, err)

	repo.On("FindByID", mock.Anything, 1).
		Return(&Member{ID: 1, Email: "ada@coop.test", Role: "member"}, nil)

	access, m, err := svc.RefreshToken(context.Background(), refresh)
	assert.NoError(t, err)
	assert.Equal(t, 1, m.ID)

	claims, err := auth.ValidateToken(access, testSecret)
	assert.NoError(t, err)
	assert.Equal(t, "ada@coop.test", claims.Email)
}
