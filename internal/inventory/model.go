package inventory

import "time"

// Item is redeemable stock. Quantity never goes below zero; it is only
// decremented inside the redemption reservation transaction.
type Item struct {
	ID                 int       `db:"id" json:"id"`
	Name               string    `db:"name" json:"name"`
	Quantity           int       `db:"quantity" json:"quantity"`
	Unit               string    `db:"unit" json:"unit"`
	PriceEstimateCents int64     `db:"price_estimate_cents" json:"price_estimate_cents"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

type CreateItemRequest struct {
	Name               string `json:"name" binding:"required"`
	Quantity           int    `json:"quantity" binding:"gte=0"`
	Unit               string `json:"unit" binding:"required"`
	PriceEstimateCents int64  `json:"price_estimate_cents" binding:"gte=0"`
}

type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}
