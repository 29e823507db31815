package tier

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrTierNotFound = errors.New("tier not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name string, weeklyAmountCents, maintenanceFeeCents, upgradeFeeCents int64, durationWeeks int) (*Tier, error) {
	query := `
		INSERT INTO tiers (name, weekly_amount_cents, maintenance_fee_cents, upgrade_fee_cents, duration_weeks)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, weekly_amount_cents, maintenance_fee_cents, upgrade_fee_cents, duration_weeks, created_at
	`

	var t Tier
	err := r.db.GetContext(ctx, &t, query, name, weeklyAmountCents, maintenanceFeeCents, upgradeFeeCents, durationWeeks)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Tier, error) {
	query := `
		SELECT id, name, weekly_amount_cents, maintenance_fee_cents, upgrade_fee_cents, duration_weeks, created_at
		FROM tiers
		WHERE id = $1
	`

	var t Tier
	err := r.db.GetContext(ctx, &t, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTierNotFound
		}
		return nil, err
	}

	return &t, nil
}

func (r *repository) List(ctx context.Context) ([]Tier, error) {
	tiers := []Tier{}
	err := r.db.SelectContext(ctx, &tiers, `
		SELECT id, name, weekly_amount_cents, maintenance_fee_cents, upgrade_fee_cents, duration_weeks, created_at
		FROM tiers
		ORDER BY weekly_amount_cents ASC
	`)
	return tiers, err
}

func (r *repository) Update(ctx context.Context, t *Tier) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE tiers
		SET name = $1, weekly_amount_cents = $2, maintenance_fee_cents = $3, upgrade_fee_cents = $4, duration_weeks = $5
		WHERE id = $6
	`, t.Name, t.WeeklyAmountCents, t.MaintenanceFeeCents, t.UpgradeFeeCents, t.DurationWeeks, t.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTierNotFound
	}

	return nil
}
