package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del recebível: PENDING -> PAID -> DISTRIBUTED (irreversible).
const (
	ReceivablePending     = "PENDING"
	ReceivablePaid        = "PAID"
	ReceivableDistributed = "DISTRIBUTED"
)

// Receivable título cedido al fondo y pagado por un sacado.
type Receivable struct {
	ID            string
	FundID        string
	SacadoID      string
	FaceValue     decimal.Decimal
	DueDate       time.Time
	Status        string
	PaidValue     *decimal.Decimal
	PaidAt        *time.Time
	DistributedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Distribution fila del ledger de pagos: parte de un inversor en un recebível distribuido.
type Distribution struct {
	ID                string
	ReceivableID      string
	OrderID           string
	InvestorID        string
	InvestorEmail     string
	InvestorPublicKey string
	Quotas            int64
	Amount            decimal.Decimal
	CreatedAt         time.Time
}
