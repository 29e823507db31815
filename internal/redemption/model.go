package redemption

import "time"

type Status string

const (
	StatusRequested Status = "requested"
	StatusApproved  Status = "approved"
	StatusDelivered Status = "delivered"
)

// Redemption links a member to a reserved inventory item. The row is created
// in the same transaction that decrements the item's stock.
type Redemption struct {
	ID              int       `db:"id" json:"id"`
	MemberID        int       `db:"member_id" json:"member_id"`
	ItemID          int       `db:"item_id" json:"item_id"`
	Status          Status    `db:"status" json:"status"`
	DeliveryAddress string    `db:"delivery_address" json:"delivery_address"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

type RedeemRequest struct {
	ItemID          int    `json:"item_id" binding:"required"`
	DeliveryAddress string `json:"delivery_address" binding:"required"`
	Pin             string `json:"pin" binding:"required"`
}
