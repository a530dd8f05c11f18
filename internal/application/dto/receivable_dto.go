package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateReceivableRequest entrada para registrar un recebível (MANAGER).
type CreateReceivableRequest struct {
	FundID    string          `json:"fundId" validate:"required,uuid"`
	SacadoID  string          `json:"sacadoId" validate:"required,uuid"`
	FaceValue decimal.Decimal `json:"faceValue" swaggertype:"number"`
	DueDate   time.Time       `json:"dueDate" validate:"required"`
}

// MarkPaidRequest valor efectivamente pagado por el sacado.
type MarkPaidRequest struct {
	PaidValue decimal.Decimal `json:"paidValue" swaggertype:"number"`
}

// ReceivableResponse salida de un recebível.
type ReceivableResponse struct {
	ID            string           `json:"id"`
	FundID        string           `json:"fundId"`
	SacadoID      string           `json:"sacadoId"`
	FaceValue     decimal.Decimal  `json:"faceValue" swaggertype:"number"`
	DueDate       time.Time        `json:"dueDate"`
	Status        string           `json:"status"`
	PaidValue     *decimal.Decimal `json:"paidValue,omitempty" swaggertype:"number"`
	PaidAt        *time.Time       `json:"paidAt,omitempty"`
	DistributedAt *time.Time       `json:"distributedAt,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// DistributionLine parte de un inversor.
type DistributionLine struct {
	OrderID           string          `json:"orderId"`
	InvestorPublicKey string          `json:"investorPublicKey,omitempty"`
	InvestorEmail     string          `json:"investorEmail"`
	Quotas            int64           `json:"quotas"`
	Amount            decimal.Decimal `json:"amount" swaggertype:"number"`
}

// DistributeResponse resultado de la distribución pro-rata.
type DistributeResponse struct {
	Receivable    ReceivableResponse `json:"receivable"`
	Distributions []DistributionLine `json:"distributions"`
	TotalQuotas   int64              `json:"totalQuotas"`
	TotalToPay    decimal.Decimal    `json:"totalToPay" swaggertype:"number"`
}
