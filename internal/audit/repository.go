package audit

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Recorder is the write side of the audit log. Services that need to leave a
// trail depend on this rather than the full repository.
type Recorder interface {
	Record(ctx context.Context, actor, action string, targetMemberID *int, detail string) error
}

type Repository interface {
	Recorder
	List(ctx context.Context, limit, offset int) ([]Entry, error)
	ListByMember(ctx context.Context, memberID int, limit, offset int) ([]Entry, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Record(ctx context.Context, actor, action string, targetMemberID *int, detail string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_logs (actor, action, target_member_id, detail)
		VALUES ($1, $2, $3, $4)
	`, actor, action, targetMemberID, detail)
	return err
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	entries := []Entry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, actor, action, target_member_id, detail, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return entries, err
}

func (r *repository) ListByMember(ctx context.Context, memberID int, limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	entries := []Entry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, actor, action, target_member_id, detail, created_at
		FROM audit_logs
		WHERE target_member_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, memberID, limit, offset)
	return entries, err
}
