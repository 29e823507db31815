package redemption

import "context"

type Repository interface {
	// Reserve atomically decrements the item's stock and creates the
	// redemption row. The decrement is conditioned on quantity >= 1 inside
	// the same transaction, so concurrent calls against the last unit
	// resolve to exactly one success.
	Reserve(ctx context.Context, memberID, itemID int, deliveryAddress string) (*Redemption, error)

	// UpdateStatus moves a redemption from exactly one status to another.
	// Returns false when the redemption was not in the expected status.
	UpdateStatus(ctx context.Context, id int, from, to Status) (*Redemption, error)

	GetByID(ctx context.Context, id int) (*Redemption, error)
	ListByMember(ctx context.Context, memberID int) ([]Redemption, error)
	List(ctx context.Context, limit, offset int) ([]Redemption, error)
}
