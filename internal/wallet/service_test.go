package wallet

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"coopfund/internal/logger"
	"coopfund/internal/tier"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type MockRepo struct{ mock.Mock }

func (m *MockRepo) Apply(ctx context.Context, memberID int, deltaCents int64, txType TxType, direction Direction, note string) (*Transaction, error) {
	args := m.Called(ctx, memberID, deltaCents, txType, direction, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Transaction), args.Error(1)
}

func (m *MockRepo) UpgradeTier(ctx context.Context, memberID int, target *tier.Tier) (*Transaction, error) {
	args := m.Called(ctx, memberID, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Transaction), args.Error(1)
}

func (m *MockRepo) GetBalance(ctx context.Context, memberID int) (int64, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepo) GetTransactions(ctx context.Context, memberID int, limit, offset int) ([]Transaction, error) {
	args := m.Called(ctx, memberID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Transaction), args.Error(1)
}

type MockTierRepo struct{ mock.Mock }

func (m *MockTierRepo) Create(ctx context.Context, name string, weeklyAmountCents, maintenanceFeeCents, upgradeFeeCents int64, durationWeeks int) (*tier.Tier, error) {
	args := m.Called(ctx, name, weeklyAmountCents, maintenanceFeeCents, upgradeFeeCents, durationWeeks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tier.Tier), args.Error(1)
}

func (m *MockTierRepo) GetByID(ctx context.Context, id int) (*tier.Tier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tier.Tier), args.Error(1)
}

func (m *MockTierRepo) List(ctx context.Context) ([]tier.Tier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tier.Tier), args.Error(1)
}

func (m *MockTierRepo) Update(ctx context.Context, t *tier.Tier) error {
	return m.Called(ctx, t).Error(0)
}

type MockAuditor struct{ mock.Mock }

func (m *MockAuditor) Record(ctx context.Context, actor, action string, targetMemberID *int, detail string) error {
	return m.Called(ctx, actor, action, targetMemberID, detail).Error(0)
}

func TestFund(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, new(MockTierRepo), new(MockAuditor))

	record := &Transaction{ID: 1, MemberID: 1, Type: TypeFunding, Direction: DirectionIn, AmountCents: 100000, BalanceAfterCents: 100000}
	repo.On("Apply", mock.Anything, 1, int64(100000), TypeFunding, DirectionIn, "wallet funding, gateway ref pay-123").Return(record, nil)

	got, err := svc.Fund(context.Background(), 1, 100000, "pay-123")
	assert.NoError(t, err)
	assert.Equal(t, int64(100000), got.BalanceAfterCents)
	repo.AssertExpectations(t)
}

func TestFund_NonPositiveAmount(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, new(MockTierRepo), new(MockAuditor))

	_, err := svc.Fund(context.Background(), 1, 0, "")
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Apply")
}

func TestRequestWithdrawal(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, new(MockTierRepo), new(MockAuditor))

	record := &Transaction{ID: 2, MemberID: 1, Type: TypeWithdrawal, Direction: DirectionOut, AmountCents: 50000, BalanceAfterCents: 50000}
	repo.On("Apply", mock.Anything, 1, int64(-50000), TypeWithdrawal, DirectionOut, "withdrawal request").Return(record, nil)

	got, err := svc.RequestWithdrawal(context.Background(), 1, 50000)
	assert.NoError(t, err)
	assert.Equal(t, TypeWithdrawal, got.Type)
	repo.AssertExpectations(t)
}

func TestRequestWithdrawal_InsufficientFunds(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, new(MockTierRepo), new(MockAuditor))

	repo.On("Apply", mock.Anything, 1, int64(-50000), TypeWithdrawal, DirectionOut, "withdrawal request").Return(nil, ErrInsufficientFunds)

	_, err := svc.RequestWithdrawal(context.Background(), 1, 50000)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestAdminAdjust_Credit(t *testing.T) {
	repo := new(MockRepo)
	auditor := new(MockAuditor)
	svc := NewService(repo, new(MockTierRepo), auditor)

	record := &Transaction{ID: 3, MemberID: 1, Type: TypeAdjustment, Direction: DirectionIn, AmountCents: 20000}
	repo.On("Apply", mock.Anything, 1, int64(20000), TypeAdjustment, DirectionIn, "admin adjustment").Return(record, nil)
	auditor.On("Record", mock.Anything, "admin@coop.test", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := svc.AdminAdjust(context.Background(), "admin@coop.test", 1, 20000, DirectionIn, "")
	assert.NoError(t, err)
	auditor.AssertExpectations(t)
}

func TestAdminAdjust_DebitRequiresReason(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, new(MockTierRepo), new(MockAuditor))

	_, err := svc.AdminAdjust(context.Background(), "admin@coop.test", 1, 20000, DirectionOut, "")
	assert.ErrorIs(t, err, ErrReasonRequired)
	repo.AssertNotCalled(t, "Apply")
}

func TestAdminAdjust_DebitWithReason(t *testing.T) {
	repo := new(MockRepo)
	auditor := new(MockAuditor)
	svc := NewService(repo, new(MockTierRepo), auditor)

	record := &Transaction{ID: 4, MemberID: 1, Type: TypeAdjustment, Direction: DirectionOut, AmountCents: 20000}
	repo.On("Apply", mock.Anything, 1, int64(-20000), TypeAdjustment, DirectionOut, "admin adjustment: chargeback").Return(record, nil)
	auditor.On("Record", mock.Anything, "admin@coop.test", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := svc.AdminAdjust(context.Background(), "admin@coop.test", 1, 20000, DirectionOut, "chargeback")
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpgradeTier(t *testing.T) {
	repo := new(MockRepo)
	tierRepo := new(MockTierRepo)
	auditor := new(MockAuditor)
	svc := NewService(repo, tierRepo, auditor)

	target := &tier.Tier{ID: 3, Name: "Gold", UpgradeFeeCents: 100000}
	record := &Transaction{ID: 5, MemberID: 1, Type: TypeUpgrade, Direction: DirectionOut, AmountCents: 100000}

	tierRepo.On("GetByID", mock.Anything, 3).Return(target, nil)
	repo.On("UpgradeTier", mock.Anything, 1, target).Return(record, nil)
	auditor.On("Record", mock.Anything, "member@coop.test", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	gotTier, gotTx, err := svc.UpgradeTier(context.Background(), "member@coop.test", 1, 3)
	assert.NoError(t, err)
	assert.Equal(t, "Gold", gotTier.Name)
	assert.Equal(t, int64(100000), gotTx.AmountCents)
}

func TestUpgradeTier_FreeUpgradeHasNoTransaction(t *testing.T) {
	repo := new(MockRepo)
	tierRepo := new(MockTierRepo)
	auditor := new(MockAuditor)
	svc := NewService(repo, tierRepo, auditor)

	target := &tier.Tier{ID: 2, Name: "Silver", UpgradeFeeCents: 0}

	tierRepo.On("GetByID", mock.Anything, 2).Return(target, nil)
	repo.On("UpgradeTier", mock.Anything, 1, target).Return(nil, nil)
	auditor.On("Record", mock.Anything, "member@coop.test", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	gotTier, gotTx, err := svc.UpgradeTier(context.Background(), "member@coop.test", 1, 2)
	assert.NoError(t, err)
	assert.Equal(t, "Silver", gotTier.Name)
	assert.Nil(t, gotTx)
}

func TestUpgradeTier_UnknownTier(t *testing.T) {
	repo := new(MockRepo)
	tierRepo := new(MockTierRepo)
	svc := NewService(repo, tierRepo, new(MockAuditor))

	tierRepo.On("GetByID", mock.Anything, 99).Return(nil, tier.ErrTierNotFound)

	_, _, err := svc.UpgradeTier(context.Background(), "member@coop.test", 1, 99)
	assert.ErrorIs(t, err, tier.ErrTierNotFound)
	repo.AssertNotCalled(t, "UpgradeTier")
}
