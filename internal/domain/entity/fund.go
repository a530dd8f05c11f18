package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundStatusInactive fondo desactivado por el gestor (además de PENDING/APPROVED/REJECTED).
const FundStatusInactive = "INACTIVE"

// Fund fondo de recebíveis tokenizado. Invariante: 0 <= TotalIssued <= MaxSupply.
type Fund struct {
	ID              string
	Name            string
	Symbol          string // único, normalizado a mayúsculas ASCII
	MaxSupply       int64  // cuotas
	TotalIssued     int64  // cuotas emitidas
	Price           decimal.Decimal
	TargetAmount    *decimal.Decimal
	Status          string
	ConsultorID     string
	ContractAddress string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CanIssue indica si emitir amount cuotas respeta MaxSupply.
func (f *Fund) CanIssue(amount int64) bool {
	return amount > 0 && f.TotalIssued+amount <= f.MaxSupply
}

// FundMetrics agregados derivados de órdenes y recebíveis.
type FundMetrics struct {
	TotalSold        int64 // Σ cuotas de órdenes COMPLETED
	TotalReserved    int64 // Σ cuotas de órdenes PENDING
	TotalReceivables decimal.Decimal
}

// AvailableQuotas cuotas emitidas aún no vendidas (TotalIssued - Σ COMPLETED).
func (f *Fund) AvailableQuotas(m FundMetrics) int64 {
	return f.TotalIssued - m.TotalSold
}

// ReservableQuotas cuotas que una nueva orden puede reservar (descuenta también las PENDING).
func (f *Fund) ReservableQuotas(m FundMetrics) int64 {
	return f.TotalIssued - m.TotalSold - m.TotalReserved
}
