package inventory

import "context"

type Repository interface {
	Create(ctx context.Context, name string, quantity int, unit string, priceEstimateCents int64) (*Item, error)
	GetByID(ctx context.Context, id int) (*Item, error)
	List(ctx context.Context) ([]Item, error)
	Restock(ctx context.Context, id, quantity int) (*Item, error)
}
