package contribution

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, mock, closer
}

// Friday 2025-06-13, inside the weekly payment window.
var payday = time.Date(2025, 6, 13, 10, 0, 0, 0, time.UTC)

func expectLockedMember(mock sqlmock.Sqlmock, wallet, contribution int64, weeksPaid int, tierID interface{}) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM members")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{
			"wallet_balance_cents", "contribution_balance_cents", "weeks_paid", "tier_id",
		}).AddRow(wallet, contribution, weeksPaid, tierID))
}

func expectTier(mock sqlmock.Sqlmock, weekly, fee int64, duration int) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM tiers")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{
			"weekly_amount_cents", "maintenance_fee_cents", "duration_weeks",
		}).AddRow(weekly, fee, duration))
}

func TestPay_Success(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	// wallet 150000, weekly 133333 + fee 10000 = due 143333, leaving 6667
	expectLockedMember(mock, 150000, 0, 0, 1)
	expectTier(mock, 133333, 10000, 45)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(")).
		WithArgs(1, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE members")).
		WithArgs(int64(6667), int64(133333), 1, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO contributions")).
		WithArgs(1, 1, 1, int64(133333), sqlmock.AnyArg(), payday).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "member_id", "tier_id", "week_number", "amount_cents", "due_date", "status", "paid_at", "created_at",
		}).AddRow(1, 1, 1, 1, 133333, payday, "paid", payday, payday))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO wallet_transactions")).
		WithArgs(1, int64(143333), sqlmock.AnyArg(), int64(6667), "week 1 contribution").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	result, err := repo.Pay(context.Background(), 1, payday)
	require.NoError(t, err)
	require.Equal(t, int64(6667), result.WalletBalanceCents)
	require.Equal(t, int64(133333), result.ContributionBalanceCents)
	require.Equal(t, 1, result.WeeksPaid)
	require.Equal(t, int64(10000), result.MaintenanceFeeCents)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPay_InsufficientFunds(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	expectLockedMember(mock, 100000, 0, 0, 1)
	expectTier(mock, 133333, 10000, 45)
	mock.ExpectRollback()

	_, err := repo.Pay(context.Background(), 1, payday)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	require.Contains(t, err.Error(), "short by 43333 cents")
}

func TestPay_NoActiveTier(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	expectLockedMember(mock, 150000, 0, 0, nil)
	mock.ExpectRollback()

	_, err := repo.Pay(context.Background(), 1, payday)
	require.ErrorIs(t, err, ErrNoActiveTier)
}

func TestPay_CycleComplete(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	expectLockedMember(mock, 150000, 0, 45, 1)
	expectTier(mock, 133333, 10000, 45)
	mock.ExpectRollback()

	_, err := repo.Pay(context.Background(), 1, payday)
	require.ErrorIs(t, err, ErrCycleComplete)
}

func TestPay_AlreadyPaidThisWeek(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	expectLockedMember(mock, 300000, 133333, 1, 1)
	expectTier(mock, 133333, 10000, 45)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(")).
		WithArgs(1, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.Pay(context.Background(), 1, payday)
	require.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestPay_MemberNotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM members")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{
			"wallet_balance_cents", "contribution_balance_cents", "weeks_paid", "tier_id",
		}))
	mock.ExpectRollback()

	_, err := repo.Pay(context.Background(), 1, payday)
	require.ErrorIs(t, err, ErrMemberNotFound)
}

func TestCreatePendingWeek(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	due := payday.Add(24 * time.Hour)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contributions")).
		WithArgs(1, due).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.CreatePendingWeek(context.Background(), 1, due)
	require.NoError(t, err)
	require.True(t, created)

	// conflict on (member_id, week_number) means the row already exists
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contributions")).
		WithArgs(1, due).
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err = repo.CreatePendingWeek(context.Background(), 1, due)
	require.NoError(t, err)
	require.False(t, created)
}

func TestMarkMissed(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	weekStart := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE contributions")).
		WithArgs(weekStart).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.MarkMissed(context.Background(), weekStart)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}

func TestGetPaymentState(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	lastPaid := payday.Add(-7 * 24 * time.Hour)
	rows := sqlmock.NewRows([]string{
		"member_id", "member_status", "wallet_balance_cents", "contribution_balance_cents",
		"weeks_paid", "tier_id", "weekly_amount_cents", "maintenance_fee_cents", "duration_weeks", "last_paid_at",
	}).AddRow(1, "active", 150000, 133333, 1, 1, 133333, 10000, 45, lastPaid)

	mock.ExpectQuery(regexp.QuoteMeta("FROM members m")).
		WithArgs(1).
		WillReturnRows(rows)

	state, err := repo.GetPaymentState(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(143333), state.DueCents())
	require.Equal(t, 1, state.WeeksPaid)
	require.NotNil(t, state.LastPaidAt)
}
