package enforcement

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrMemberNotFound = errors.New("member not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListEnforceable(ctx context.Context) ([]MemberSnapshot, error) {
	members := []MemberSnapshot{}
	err := r.db.SelectContext(ctx, &members, `
		SELECT id, status, joined_at
		FROM members
		WHERE status IN ('active', 'suspended') AND tier_id IS NOT NULL
		ORDER BY id
	`)
	return members, err
}

func (r *repository) GetSnapshot(ctx context.Context, memberID int) (*MemberSnapshot, error) {
	var m MemberSnapshot
	err := r.db.GetContext(ctx, &m, `
		SELECT id, status, joined_at
		FROM members
		WHERE id = $1
	`, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	return &m, nil
}

func (r *repository) LatestContribution(ctx context.Context, memberID int) (*ContributionTail, error) {
	var tail ContributionTail
	err := r.db.GetContext(ctx, &tail, `
		SELECT paid_at, created_at
		FROM contributions
		WHERE member_id = $1
		ORDER BY week_number DESC
		LIMIT 1
	`, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &tail, nil
}

func (r *repository) Transition(ctx context.Context, memberID int, from []string, to, reason string) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE members
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = ANY($3)
	`, to, memberID, pq.Array(from))
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows == 0 {
		// Guard did not match; someone transitioned the member first.
		return false, nil
	}

	action := "member_suspended"
	if to == "banned" {
		action = "member_banned"
	}

	// The audit entry is the source of truth for the transition and commits
	// with it; notification is queued by the caller afterwards.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_logs (actor, action, target_member_id, detail)
		VALUES ('system', $1, $2, $3)
	`, action, memberID, reason)
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	return true, nil
}
