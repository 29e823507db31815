package contribution

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusMissed  Status = "missed"
)

// Contribution is one week of a member's contribution cycle. Week numbers are
// 1-based and contiguous per member; rows are created lazily, one per week.
type Contribution struct {
	ID          int        `db:"id" json:"id"`
	MemberID    int        `db:"member_id" json:"member_id"`
	TierID      int        `db:"tier_id" json:"tier_id"`
	WeekNumber  int        `db:"week_number" json:"week_number"`
	AmountCents int64      `db:"amount_cents" json:"amount_cents"`
	DueDate     time.Time  `db:"due_date" json:"due_date"`
	Status      Status     `db:"status" json:"status"`
	PaidAt      *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// PaymentState is the snapshot the eligibility rules run against.
type PaymentState struct {
	MemberID                 int        `db:"member_id"`
	MemberStatus             string     `db:"member_status"`
	WalletBalanceCents       int64      `db:"wallet_balance_cents"`
	ContributionBalanceCents int64      `db:"contribution_balance_cents"`
	WeeksPaid                int        `db:"weeks_paid"`
	TierID                   *int       `db:"tier_id"`
	WeeklyAmountCents        int64      `db:"weekly_amount_cents"`
	MaintenanceFeeCents      int64      `db:"maintenance_fee_cents"`
	DurationWeeks            int        `db:"duration_weeks"`
	LastPaidAt               *time.Time `db:"last_paid_at"`
}

// DueCents is the full weekly charge: contribution plus maintenance fee.
func (s *PaymentState) DueCents() int64 {
	return s.WeeklyAmountCents + s.MaintenanceFeeCents
}

// PaymentResult describes a committed weekly payment.
type PaymentResult struct {
	Contribution             Contribution `json:"contribution"`
	WeeklyAmountCents        int64        `json:"weekly_amount_cents"`
	MaintenanceFeeCents      int64        `json:"maintenance_fee_cents"`
	WalletBalanceCents       int64        `json:"wallet_balance_cents"`
	ContributionBalanceCents int64        `json:"contribution_balance_cents"`
	WeeksPaid                int          `json:"weeks_paid"`
}
