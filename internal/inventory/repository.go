package inventory

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrItemNotFound = errors.New("inventory item not found")

const itemColumns = `id, name, quantity, unit, price_estimate_cents, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name string, quantity int, unit string, priceEstimateCents int64) (*Item, error) {
	query := `
		INSERT INTO inventory_items (name, quantity, unit, price_estimate_cents)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + itemColumns

	var item Item
	err := r.db.GetContext(ctx, &item, query, name, quantity, unit, priceEstimateCents)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Item, error) {
	var item Item
	err := r.db.GetContext(ctx, &item, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	return &item, nil
}

func (r *repository) List(ctx context.Context) ([]Item, error) {
	items := []Item{}
	err := r.db.SelectContext(ctx, &items, `SELECT `+itemColumns+` FROM inventory_items ORDER BY name ASC`)
	return items, err
}

func (r *repository) Restock(ctx context.Context, id, quantity int) (*Item, error) {
	query := `
		UPDATE inventory_items
		SET quantity = quantity + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + itemColumns

	var item Item
	err := r.db.GetContext(ctx, &item, query, quantity, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	return &item, nil
}
