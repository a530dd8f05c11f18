package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de orden de compra de cuotas.
const (
	OrderPending   = "PENDING"
	OrderCompleted = "COMPLETED"
	OrderFailed    = "FAILED"
)

// Order orden de un inversor sobre cuotas de un fondo. Total = Quantity × Price.
type Order struct {
	ID         string
	FundID     string
	InvestorID string
	Quantity   int64
	Price      decimal.Decimal
	Total      decimal.Decimal
	Status     string
	TxHash     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// QuotaHolding orden COMPLETED con los datos del inversor necesarios para distribuir.
type QuotaHolding struct {
	OrderID           string
	InvestorID        string
	InvestorEmail     string
	InvestorPublicKey string
	Quantity          int64
	CreatedAt         time.Time
}
