package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding represents an equity position owned by the user.
// The symbol is unique per user and shares_held is a non-negative count.
type Holding struct {
	ID         int             `json:"id"`
	Symbol     string          `json:"symbol"`
	SharesHeld decimal.Decimal `json:"shares_held"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
