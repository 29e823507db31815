package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"coopfund/internal/tier"
)

var (
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrMemberNotFound    = errors.New("member not found")
)

const txColumns = `id, member_id, type, direction, amount_cents, status, reference, balance_after_cents, note, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Apply(ctx context.Context, memberID int, deltaCents int64, txType TxType, direction Direction, note string) (*Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var balance int64
	err = tx.QueryRowxContext(ctx,
		`SELECT wallet_balance_cents FROM members WHERE id = $1 FOR UPDATE`,
		memberID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	newBalance := balance + deltaCents
	if newBalance < 0 {
		return nil, fmt.Errorf("%w: short by %d cents", ErrInsufficientFunds, -newBalance)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE members
		 SET wallet_balance_cents = $1, updated_at = NOW()
		 WHERE id = $2`,
		newBalance, memberID,
	)
	if err != nil {
		return nil, err
	}

	amount := deltaCents
	if amount < 0 {
		amount = -amount
	}

	var record Transaction
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO wallet_transactions (member_id, type, direction, amount_cents, status, reference, balance_after_cents, note)
		 VALUES ($1, $2, $3, $4, 'completed', $5, $6, $7)
		 RETURNING `+txColumns,
		memberID, txType, direction, amount, uuid.NewString(), newBalance, note,
	).StructScan(&record)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *repository) UpgradeTier(ctx context.Context, memberID int, target *tier.Tier) (*Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var balance int64
	err = tx.QueryRowxContext(ctx,
		`SELECT wallet_balance_cents FROM members WHERE id = $1 FOR UPDATE`,
		memberID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	// A free upgrade reassigns the tier without touching the wallet.
	if target.UpgradeFeeCents == 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE members SET tier_id = $1, updated_at = NOW() WHERE id = $2`,
			target.ID, memberID,
		)
		if err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	newBalance := balance - target.UpgradeFeeCents
	if newBalance < 0 {
		return nil, fmt.Errorf("%w: short by %d cents", ErrInsufficientFunds, -newBalance)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE members
		 SET wallet_balance_cents = $1, tier_id = $2, updated_at = NOW()
		 WHERE id = $3`,
		newBalance, target.ID, memberID,
	)
	if err != nil {
		return nil, err
	}

	var record Transaction
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO wallet_transactions (member_id, type, direction, amount_cents, status, reference, balance_after_cents, note)
		 VALUES ($1, 'upgrade', 'out', $2, 'completed', $3, $4, $5)
		 RETURNING `+txColumns,
		memberID, target.UpgradeFeeCents, uuid.NewString(), newBalance, "upgrade to tier "+target.Name,
	).StructScan(&record)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *repository) GetBalance(ctx context.Context, memberID int) (int64, error) {
	var balance int64
	err := r.db.GetContext(ctx, &balance, `SELECT wallet_balance_cents FROM members WHERE id = $1`, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrMemberNotFound
		}
		return 0, err
	}
	return balance, nil
}

func (r *repository) GetTransactions(ctx context.Context, memberID int, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	txs := []Transaction{}
	err := r.db.SelectContext(ctx, &txs, `
		SELECT `+txColumns+`
		FROM wallet_transactions
		WHERE member_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, memberID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}
