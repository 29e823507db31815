package member

import "context"

type Repository interface {
	Create(ctx context.Context, name, email, passwordHash, role string) (*Member, error)
	FindByID(ctx context.Context, id int) (*Member, error)
	FindByEmail(ctx context.Context, email string) (*Member, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListByStatus(ctx context.Context, status Status) ([]Member, error)
	Approve(ctx context.Context, id int) (*Member, error)
	SetTransactionPin(ctx context.Context, id int, pinHash string) error
	SetQualificationStatus(ctx context.Context, id int, status string) error
}
