package notification

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Repository interface {
	Insert(ctx context.Context, memberID int, title, message string) (*Notification, error)
	ListByMember(ctx context.Context, memberID int, limit, offset int) ([]Notification, error)
	MarkRead(ctx context.Context, id, memberID int) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, memberID int, title, message string) (*Notification, error) {
	query := `
		INSERT INTO notifications (member_id, title, message)
		VALUES ($1, $2, $3)
		RETURNING id, member_id, title, message, read, created_at
	`

	var n Notification
	err := r.db.GetContext(ctx, &n, query, memberID, title, message)
	if err != nil {
		return nil, err
	}

	return &n, nil
}

func (r *repository) ListByMember(ctx context.Context, memberID int, limit, offset int) ([]Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	notifications := []Notification{}
	err := r.db.SelectContext(ctx, &notifications, `
		SELECT id, member_id, title, message, read, created_at
		FROM notifications
		WHERE member_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, memberID, limit, offset)
	return notifications, err
}

func (r *repository) MarkRead(ctx context.Context, id, memberID int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE notifications
		SET read = TRUE
		WHERE id = $1 AND member_id = $2
	`, id, memberID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotificationNotFound
	}

	return nil
}
