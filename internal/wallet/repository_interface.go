package wallet

import (
	"context"

	"coopfund/internal/tier"
)

type Repository interface {
	// Apply atomically moves deltaCents (negative for debits) on a member's
	// wallet and records the transaction. A debit past zero fails without
	// side effects.
	Apply(ctx context.Context, memberID int, deltaCents int64, txType TxType, direction Direction, note string) (*Transaction, error)

	// UpgradeTier atomically debits the upgrade fee and reassigns the tier.
	// A zero fee reassigns without a debit or transaction record.
	UpgradeTier(ctx context.Context, memberID int, target *tier.Tier) (*Transaction, error)

	GetBalance(ctx context.Context, memberID int) (int64, error)
	GetTransactions(ctx context.Context, memberID int, limit, offset int) ([]Transaction, error)
}
