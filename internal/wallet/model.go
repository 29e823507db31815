package wallet

import "time"

type TxType string
type Direction string

const (
	TypeContribution TxType = "contribution"
	TypeUpgrade      TxType = "upgrade"
	TypeWithdrawal   TxType = "withdrawal"
	TypeFunding      TxType = "funding"
	TypeAdjustment   TxType = "adjustment"

	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Transaction is an immutable audit record of a balance-affecting operation.
// Rows are only ever inserted.
type Transaction struct {
	ID                int       `db:"id" json:"id"`
	MemberID          int       `db:"member_id" json:"member_id"`
	Type              TxType    `db:"type" json:"type"`
	Direction         Direction `db:"direction" json:"direction"`
	AmountCents       int64     `db:"amount_cents" json:"amount_cents"`
	Status            string    `db:"status" json:"status"`
	Reference         string    `db:"reference" json:"reference"`
	BalanceAfterCents int64     `db:"balance_after_cents" json:"balance_after_cents"`
	Note              string    `db:"note" json:"note"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

type FundRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Reference   string `json:"reference"`
}

type WithdrawRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required,gt=0"`
}

type AdjustRequest struct {
	MemberID    int    `json:"member_id" binding:"required"`
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Direction   string `json:"direction" binding:"required,oneof=credit debit"`
	Reason      string `json:"reason"`
}

type UpgradeRequest struct {
	TierID int `json:"tier_id" binding:"required"`
}
