package entity

import "github.com/shopspring/decimal"

// PendingApprovals entidades que esperan decisión del gestor.
type PendingApprovals struct {
	Users    int64 // CONSULTANT e INVESTOR en PENDING
	Funds    int64
	Cedentes int64
	Sacados  int64
}

// QuotaTotals agregados de cuotas sobre los fondos APPROVED.
type QuotaTotals struct {
	ActiveFunds int64
	Issued      int64
	Sold        int64 // órdenes COMPLETED
	Reserved    int64 // órdenes PENDING
}

// ReceivableTotals montos de recebíveis por etapa. Distributed* se limita al período consultado.
type ReceivableTotals struct {
	OpenFaceValue        decimal.Decimal // Σ face_value de PENDING
	AwaitingDistribution decimal.Decimal // Σ paid_value de PAID
	DistributedValue     decimal.Decimal // Σ paid_value de DISTRIBUTED en el período
	DistributedCount     int64
}
