package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlaceOrderRequest orden de compra de cuotas (INVESTOR). El precio sale del fondo.
type PlaceOrderRequest struct {
	FundID   string `json:"fundId" validate:"required,uuid"`
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
}

// CompleteOrderRequest hash de la transacción on-chain que liquida la orden.
type CompleteOrderRequest struct {
	TxHash string `json:"txHash" validate:"required,max=128"`
}

// OrderResponse salida de una orden.
type OrderResponse struct {
	ID         string          `json:"id"`
	FundID     string          `json:"fundId"`
	InvestorID string          `json:"investorId"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price" swaggertype:"number"`
	Total      decimal.Decimal `json:"total" swaggertype:"number"`
	Status     string          `json:"status"`
	TxHash     string          `json:"txHash,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
