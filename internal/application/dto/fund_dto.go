package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateFundRequest entrada para crear un fondo (CONSULTANT).
type CreateFundRequest struct {
	Name         string           `json:"name" validate:"required,min=2,max=120"`
	Symbol       string           `json:"symbol" validate:"required,min=2,max=32"`
	MaxSupply    int64            `json:"maxSupply" validate:"required,gt=0"`
	Price        decimal.Decimal  `json:"price" swaggertype:"number"`
	TargetAmount *decimal.Decimal `json:"targetAmount,omitempty" swaggertype:"number"`
}

// IssueQuotasRequest cantidad de cuotas a emitir.
type IssueQuotasRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// ContractAddressRequest dirección del contrato del token del fondo.
type ContractAddressRequest struct {
	ContractAddress string `json:"contractAddress" validate:"required,max=128"`
}

// FundResponse fondo con métricas de cuotas.
type FundResponse struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Symbol           string           `json:"symbol"`
	MaxSupply        int64            `json:"maxSupply"`
	TotalIssued      int64            `json:"totalIssued"`
	TotalSold        int64            `json:"totalSold"`
	AvailableQuotas  int64            `json:"availableQuotas"`
	Price            decimal.Decimal  `json:"price" swaggertype:"number"`
	TargetAmount     *decimal.Decimal `json:"targetAmount,omitempty" swaggertype:"number"`
	TotalReceivables decimal.Decimal  `json:"totalReceivables" swaggertype:"number"`
	Status           string           `json:"status"`
	ConsultorID      string           `json:"consultorId"`
	ContractAddress  string           `json:"contractAddress,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}
