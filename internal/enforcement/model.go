package enforcement

import "time"

// MemberSnapshot is the slice of a member the sweep reads. Enforcement acts
// on this observed state; a payment landing mid-sweep is tolerated raciness.
type MemberSnapshot struct {
	ID       int       `db:"id"`
	Status   string    `db:"status"`
	JoinedAt time.Time `db:"joined_at"`
}

// ContributionTail is the newest contribution of a member, used as the
// reference point for missed-week counting.
type ContributionTail struct {
	PaidAt    *time.Time `db:"paid_at"`
	CreatedAt time.Time  `db:"created_at"`
}

// Summary aggregates one sweep. Failures are isolated per member and counted
// rather than aborting the batch.
type Summary struct {
	Processed int `json:"processed"`
	Suspended int `json:"suspended"`
	Banned    int `json:"banned"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// CheckResult is the read-only enforcement projection for one member.
type CheckResult struct {
	MemberID      int    `json:"member_id"`
	MissedWeeks   int    `json:"missed_weeks"`
	ShouldSuspend bool   `json:"should_suspend"`
	ShouldBan     bool   `json:"should_ban"`
	Status        string `json:"status"`
}
