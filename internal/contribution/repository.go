package contribution

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"coopfund/internal/week"
)

var (
	ErrMemberNotFound    = errors.New("member not found")
	ErrNoActiveTier      = errors.New("member has no active tier")
	ErrCycleComplete     = errors.New("contribution cycle already complete")
	ErrAlreadyPaid       = errors.New("contribution already paid this week")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
)

const contributionColumns = `id, member_id, tier_id, week_number, amount_cents, due_date, status, paid_at, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// lockedState is what Pay reads under the member row lock.
type lockedState struct {
	WalletBalanceCents       int64 `db:"wallet_balance_cents"`
	ContributionBalanceCents int64 `db:"contribution_balance_cents"`
	WeeksPaid                int   `db:"weeks_paid"`
	TierID                   *int  `db:"tier_id"`
}

type lockedTier struct {
	WeeklyAmountCents   int64 `db:"weekly_amount_cents"`
	MaintenanceFeeCents int64 `db:"maintenance_fee_cents"`
	DurationWeeks       int   `db:"duration_weeks"`
}

func (r *repository) Pay(ctx context.Context, memberID int, now time.Time) (*PaymentResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// The member row lock serializes concurrent payments for one member;
	// everything below sees a settled weeks_paid counter.
	var m lockedState
	err = tx.QueryRowxContext(ctx, `
		SELECT wallet_balance_cents, contribution_balance_cents, weeks_paid, tier_id
		FROM members
		WHERE id = $1
		FOR UPDATE
	`, memberID).StructScan(&m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	if m.TierID == nil {
		return nil, ErrNoActiveTier
	}

	var t lockedTier
	err = tx.QueryRowxContext(ctx, `
		SELECT weekly_amount_cents, maintenance_fee_cents, duration_weeks
		FROM tiers
		WHERE id = $1
	`, *m.TierID).StructScan(&t)
	if err != nil {
		return nil, err
	}

	if m.WeeksPaid >= t.DurationWeeks {
		return nil, ErrCycleComplete
	}

	due := t.WeeklyAmountCents + t.MaintenanceFeeCents
	if m.WalletBalanceCents < due {
		return nil, fmt.Errorf("%w: short by %d cents", ErrInsufficientFunds, due-m.WalletBalanceCents)
	}

	var alreadyPaid bool
	err = tx.QueryRowxContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM contributions
			WHERE member_id = $1 AND status = 'paid' AND paid_at >= $2
		)
	`, memberID, week.WeekStart(now)).Scan(&alreadyPaid)
	if err != nil {
		return nil, err
	}
	if alreadyPaid {
		return nil, ErrAlreadyPaid
	}

	weekNumber := m.WeeksPaid + 1
	newWallet := m.WalletBalanceCents - due
	// The maintenance fee is recognized as revenue; only the weekly amount
	// moves into the locked contribution balance.
	newContribution := m.ContributionBalanceCents + t.WeeklyAmountCents

	_, err = tx.ExecContext(ctx, `
		UPDATE members
		SET wallet_balance_cents = $1,
		    contribution_balance_cents = $2,
		    weeks_paid = $3,
		    updated_at = NOW()
		WHERE id = $4
	`, newWallet, newContribution, weekNumber, memberID)
	if err != nil {
		return nil, err
	}

	// Upsert so a PENDING (or MISSED, when catching up) row created by the
	// weekly automation is promoted in place. The unique (member_id,
	// week_number) index plus the guarded update make a duplicate paid week
	// impossible even outside the lock.
	var row Contribution
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO contributions (member_id, tier_id, week_number, amount_cents, due_date, status, paid_at)
		VALUES ($1, $2, $3, $4, $5, 'paid', $6)
		ON CONFLICT (member_id, week_number)
		DO UPDATE SET status = 'paid', paid_at = EXCLUDED.paid_at, amount_cents = EXCLUDED.amount_cents
		WHERE contributions.status <> 'paid'
		RETURNING `+contributionColumns,
		memberID, *m.TierID, weekNumber, t.WeeklyAmountCents, week.ContributionWindow(now).Closes, now,
	).StructScan(&row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlreadyPaid
		}
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO wallet_transactions (member_id, type, direction, amount_cents, status, reference, balance_after_cents, note)
		VALUES ($1, 'contribution', 'out', $2, 'completed', $3, $4, $5)
	`, memberID, due, uuid.NewString(), newWallet, fmt.Sprintf("week %d contribution", weekNumber))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &PaymentResult{
		Contribution:             row,
		WeeklyAmountCents:        t.WeeklyAmountCents,
		MaintenanceFeeCents:      t.MaintenanceFeeCents,
		WalletBalanceCents:       newWallet,
		ContributionBalanceCents: newContribution,
		WeeksPaid:                weekNumber,
	}, nil
}

func (r *repository) GetPaymentState(ctx context.Context, memberID int) (*PaymentState, error) {
	var s PaymentState
	err := r.db.GetContext(ctx, &s, `
		SELECT m.id AS member_id,
		       m.status AS member_status,
		       m.wallet_balance_cents,
		       m.contribution_balance_cents,
		       m.weeks_paid,
		       m.tier_id,
		       COALESCE(t.weekly_amount_cents, 0) AS weekly_amount_cents,
		       COALESCE(t.maintenance_fee_cents, 0) AS maintenance_fee_cents,
		       COALESCE(t.duration_weeks, 0) AS duration_weeks,
		       (SELECT MAX(paid_at) FROM contributions c WHERE c.member_id = m.id AND c.status = 'paid') AS last_paid_at
		FROM members m
		LEFT JOIN tiers t ON t.id = m.tier_id
		WHERE m.id = $1
	`, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *repository) CreatePendingWeek(ctx context.Context, memberID int, dueDate time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO contributions (member_id, tier_id, week_number, amount_cents, due_date, status)
		SELECT m.id, t.id, m.weeks_paid + 1, t.weekly_amount_cents, $2, 'pending'
		FROM members m
		JOIN tiers t ON t.id = m.tier_id
		WHERE m.id = $1 AND m.status = 'active' AND m.weeks_paid < t.duration_weeks
		ON CONFLICT (member_id, week_number) DO NOTHING
	`, memberID, dueDate)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *repository) MarkMissed(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE contributions
		SET status = 'missed'
		WHERE status = 'pending' AND due_date < $1
	`, before)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *repository) ListByMember(ctx context.Context, memberID int) ([]Contribution, error) {
	contributions := []Contribution{}
	err := r.db.SelectContext(ctx, &contributions, `
		SELECT `+contributionColumns+`
		FROM contributions
		WHERE member_id = $1
		ORDER BY week_number ASC
	`, memberID)
	return contributions, err
}

func (r *repository) ListAutomationTargets(ctx context.Context) ([]int, error) {
	ids := []int{}
	err := r.db.SelectContext(ctx, &ids, `
		SELECT m.id
		FROM members m
		JOIN tiers t ON t.id = m.tier_id
		WHERE m.status = 'active' AND m.weeks_paid < t.duration_weeks
		ORDER BY m.id
	`)
	return ids, err
}
