package audit

import "time"

// Entry is an append-only record of an administrative or automated action.
// Entries are never updated or deleted.
type Entry struct {
	ID             int       `db:"id" json:"id"`
	Actor          string    `db:"actor" json:"actor"` // "system" or an admin email
	Action         string    `db:"action" json:"action"`
	TargetMemberID *int      `db:"target_member_id" json:"target_member_id,omitempty"`
	Detail         string    `db:"detail" json:"detail"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

const (
	ActionMemberApproved  = "member_approved"
	ActionMemberSuspended = "member_suspended"
	ActionMemberBanned    = "member_banned"
	ActionWalletAdjusted  = "wallet_adjusted"
	ActionTierUpgraded    = "tier_upgraded"
	ActionRedemptionMoved = "redemption_status_changed"
)
