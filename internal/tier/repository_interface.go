package tier

import "context"

type Repository interface {
	Create(ctx context.Context, name string, weeklyAmountCents, maintenanceFeeCents, upgradeFeeCents int64, durationWeeks int) (*Tier, error)
	GetByID(ctx context.Context, id int) (*Tier, error)
	List(ctx context.Context) ([]Tier, error)
	Update(ctx context.Context, t *Tier) error
}
