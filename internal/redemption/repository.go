package redemption

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrItemUnavailable     = errors.New("item is out of stock")
	ErrRedemptionNotFound  = errors.New("redemption not found")
	ErrInvalidStatusChange = errors.New("redemption is not in the expected status")
)

const redemptionColumns = `id, member_id, item_id, status, delivery_address, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Reserve(ctx context.Context, memberID, itemID int, deliveryAddress string) (*Redemption, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Compare-and-swap on quantity: the availability check and the decrement
	// are one statement, so two reservations of the last unit cannot both
	// pass.
	result, err := tx.ExecContext(ctx, `
		UPDATE inventory_items
		SET quantity = quantity - 1, updated_at = NOW()
		WHERE id = $1 AND quantity >= 1
	`, itemID)
	if err != nil {
		return nil, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrItemUnavailable
	}

	var red Redemption
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO redemptions (member_id, item_id, status, delivery_address)
		VALUES ($1, $2, 'requested', $3)
		RETURNING `+redemptionColumns,
		memberID, itemID, deliveryAddress,
	).StructScan(&red)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &red, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, from, to Status) (*Redemption, error) {
	query := `
		UPDATE redemptions
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING ` + redemptionColumns

	var red Redemption
	err := r.db.GetContext(ctx, &red, query, to, id, from)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidStatusChange
		}
		return nil, err
	}

	return &red, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Redemption, error) {
	var red Redemption
	err := r.db.GetContext(ctx, &red, `SELECT `+redemptionColumns+` FROM redemptions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRedemptionNotFound
		}
		return nil, err
	}

	return &red, nil
}

func (r *repository) ListByMember(ctx context.Context, memberID int) ([]Redemption, error) {
	redemptions := []Redemption{}
	err := r.db.SelectContext(ctx, &redemptions, `
		SELECT `+redemptionColumns+`
		FROM redemptions
		WHERE member_id = $1
		ORDER BY created_at DESC
	`, memberID)
	return redemptions, err
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Redemption, error) {
	if limit <= 0 {
		limit = 50
	}

	redemptions := []Redemption{}
	err := r.db.SelectContext(ctx, &redemptions, `
		SELECT `+redemptionColumns+`
		FROM redemptions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return redemptions, err
}
