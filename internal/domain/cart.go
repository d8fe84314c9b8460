package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one cart row joined with the current product snapshot.
// The joined price is for display only; checkout re-reads prices from
// the products table inside its transaction.
type CartLine struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Image       string          `json:"image,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	AddedAt     time.Time       `json:"added_at"`
}
