package member

import "time"

type Status string

const (
	StatusPendingApproval Status = "pending_approval"
	StatusActive          Status = "active"
	StatusSuspended       Status = "suspended"
	StatusBanned          Status = "banned"
)

type Member struct {
	ID                       int        `db:"id" json:"id"`
	Name                     string     `db:"name" json:"name"`
	Email                    string     `db:"email" json:"email"`
	PasswordHash             string     `db:"password_hash" json:"-"`
	Role                     string     `db:"role" json:"role"` // member, admin
	Status                   Status     `db:"status" json:"status"`
	TierID                   *int       `db:"tier_id" json:"tier_id,omitempty"`
	WalletBalanceCents       int64      `db:"wallet_balance_cents" json:"wallet_balance_cents"`
	ContributionBalanceCents int64      `db:"contribution_balance_cents" json:"contribution_balance_cents"`
	BVBalanceCents           int64      `db:"bv_balance_cents" json:"bv_balance_cents"`
	WeeksPaid                int        `db:"weeks_paid" json:"weeks_paid"`
	TransactionPinHash       *string    `db:"transaction_pin_hash" json:"-"`
	QualificationStatus      string     `db:"qualification_status" json:"qualification_status"`
	JoinedAt                 time.Time  `db:"joined_at" json:"joined_at"`
	CreatedAt                time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time  `db:"updated_at" json:"updated_at"`
}

// HasPin reports whether a transaction PIN has been configured.
func (m *Member) HasPin() bool {
	return m.TransactionPinHash != nil && *m.TransactionPinHash != ""
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Member       Member `json:"member"`
}

type SetPinRequest struct {
	Pin string `json:"pin" binding:"required,min=4,max=8,numeric"`
}
