package notification

import (
	"context"
	"os"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"coopfund/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

type MockRepo struct{ mock.Mock }

func (m *MockRepo) Insert(ctx context.Context, memberID int, title, message string) (*Notification, error) {
	args := m.Called(ctx, memberID, title, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Notification), args.Error(1)
}

func (m *MockRepo) ListByMember(ctx context.Context, memberID int, limit, offset int) ([]Notification, error) {
	args := m.Called(ctx, memberID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Notification), args.Error(1)
}

func (m *MockRepo) MarkRead(ctx context.Context, id, memberID int) error {
	return m.Called(ctx, id, memberID).Error(0)
}

func newTestService(rdb *redis.Client, repo Repository) *Service {
	return &Service{
		redis: rdb,
		repo:  repo,
	}
}

func TestNotify(t *testing.T) {
	db, rmock := redismock.NewClientMock()
	ctx := context.Background()

	rmock.Regexp().ExpectLPush(queueKey, `.*`).SetVal(1)

	svc := newTestService(db, &MockRepo{})

	err := svc.Notify(ctx, 42, "Account suspended", "You have missed 3 weekly contributions")
	assert.NoError(t, err)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestNotify_QueueFailure(t *testing.T) {
	db, rmock := redismock.NewClientMock()
	ctx := context.Background()

	rmock.Regexp().ExpectLPush(queueKey, `.*`).SetErr(assert.AnError)

	svc := newTestService(db, &MockRepo{})

	err := svc.Notify(ctx, 42, "Title", "Message")
	assert.Error(t, err)
	assert.NoError(t, rmock.ExpectationsWereMet())
}
