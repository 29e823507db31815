package member

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"coopfund/internal/db"
)

var (
	ErrMemberNotFound  = errors.New("member not found")
	ErrNotPendingState = errors.New("member is not awaiting approval")
)

const memberColumns = `
	id, name, email, password_hash, role, status, tier_id,
	wallet_balance_cents, contribution_balance_cents, bv_balance_cents,
	weeks_paid, transaction_pin_hash, qualification_status,
	joined_at, created_at, updated_at
`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name, email, passwordHash, role string) (*Member, error) {
	query := `
		INSERT INTO members (name, email, password_hash, role, status)
		VALUES ($1, $2, $3, $4, 'pending_approval')
		RETURNING ` + memberColumns

	var m Member
	err := r.db.GetContext(ctx, &m, query, name, email, passwordHash, role)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*Member, error) {
	var m Member
	err := r.db.GetContext(ctx, &m, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	return &m, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Member, error) {
	var m Member
	err := r.db.GetContext(ctx, &m, `SELECT `+memberColumns+` FROM members WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	return &m, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM members WHERE email = $1)`, email)
}

func (r *repository) ListByStatus(ctx context.Context, status Status) ([]Member, error) {
	members := []Member{}
	err := r.db.SelectContext(ctx, &members, `
		SELECT `+memberColumns+`
		FROM members
		WHERE status = $1
		ORDER BY created_at ASC
	`, status)
	return members, err
}

// Approve activates a pending member. The status guard keeps a double
// approval from silently succeeding.
func (r *repository) Approve(ctx context.Context, id int) (*Member, error) {
	query := `
		UPDATE members
		SET status = 'active', updated_at = NOW()
		WHERE id = $1 AND status = 'pending_approval'
		RETURNING ` + memberColumns

	var m Member
	err := r.db.GetContext(ctx, &m, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotPendingState
		}
		return nil, err
	}

	return &m, nil
}

func (r *repository) SetTransactionPin(ctx context.Context, id int, pinHash string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE members
		SET transaction_pin_hash = $1, updated_at = NOW()
		WHERE id = $2
	`, pinHash, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrMemberNotFound
	}

	return nil
}

func (r *repository) SetQualificationStatus(ctx context.Context, id int, status string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE members
		SET qualification_status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrMemberNotFound
	}

	return nil
}
