package enforcement

import "context"

type Repository interface {
	// ListEnforceable returns active and suspended members that have a tier
	// assigned. Members without a tier never entered the cycle and are not
	// enforced against.
	ListEnforceable(ctx context.Context) ([]MemberSnapshot, error)

	// GetSnapshot returns a single member's enforcement view.
	GetSnapshot(ctx context.Context, memberID int) (*MemberSnapshot, error)

	// LatestContribution returns the newest contribution for a member, or
	// nil when there is no history.
	LatestContribution(ctx context.Context, memberID int) (*ContributionTail, error)

	// Transition conditionally moves a member to status "to" when their
	// current status is one of "from", writing the audit entry in the same
	// transaction. Returns false when the guard did not match.
	Transition(ctx context.Context, memberID int, from []string, to, reason string) (bool, error)
}
