package tier

import "time"

// Tier is a contribution plan: a weekly amount plus maintenance fee paid over
// a fixed number of weeks (45 by default).
type Tier struct {
	ID                  int       `db:"id" json:"id"`
	Name                string    `db:"name" json:"name"`
	WeeklyAmountCents   int64     `db:"weekly_amount_cents" json:"weekly_amount_cents"`
	MaintenanceFeeCents int64     `db:"maintenance_fee_cents" json:"maintenance_fee_cents"`
	UpgradeFeeCents     int64     `db:"upgrade_fee_cents" json:"upgrade_fee_cents"`
	DurationWeeks       int       `db:"duration_weeks" json:"duration_weeks"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}
