package contribution

import (
	"context"
	"time"
)

type Repository interface {
	// Pay executes the weekly payment as one transaction: wallet debit,
	// contribution-balance credit, week row, week counter, wallet
	// transaction. Either all five commit or none do.
	Pay(ctx context.Context, memberID int, now time.Time) (*PaymentResult, error)

	// GetPaymentState reads the unlocked snapshot eligibility checks run on.
	GetPaymentState(ctx context.Context, memberID int) (*PaymentState, error)

	// CreatePendingWeek lazily creates the next unfilled week's PENDING row.
	// Returns false when the row already exists or the cycle is complete.
	CreatePendingWeek(ctx context.Context, memberID int, dueDate time.Time) (bool, error)

	// MarkMissed flips PENDING rows whose window already closed to MISSED.
	// Returns the number of rows flipped.
	MarkMissed(ctx context.Context, before time.Time) (int64, error)

	ListByMember(ctx context.Context, memberID int) ([]Contribution, error)
	ListAutomationTargets(ctx context.Context) ([]int, error)
}
