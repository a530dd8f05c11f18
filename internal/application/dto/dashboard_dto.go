package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	PendingApprovals PendingApprovalsDTO `json:"pendingApprovals"`
	Quotas           QuotaTotalsDTO      `json:"quotas"`
	Receivables      ReceivableTotalsDTO `json:"receivables"`
	DateLabel        string              `json:"dateLabel"` // ej. "Octubre 2026"
}

// PendingApprovalsDTO cola de aprobación del gestor.
type PendingApprovalsDTO struct {
	Users    int64 `json:"users"`
	Funds    int64 `json:"funds"`
	Cedentes int64 `json:"cedentes"`
	Sacados  int64 `json:"sacados"`
	Total    int64 `json:"total"`
}

// QuotaTotalsDTO cuotas de los fondos APPROVED.
type QuotaTotalsDTO struct {
	ActiveFunds int64 `json:"activeFunds"`
	Issued      int64 `json:"issued"`
	Sold        int64 `json:"sold"`
	Reserved    int64 `json:"reserved"`
	Available   int64 `json:"available"`
}

// ReceivableTotalsDTO montos de recebíveis por etapa.
type ReceivableTotalsDTO struct {
	OpenFaceValue        decimal.Decimal `json:"openFaceValue" swaggertype:"number"`
	AwaitingDistribution decimal.Decimal `json:"awaitingDistribution" swaggertype:"number"`
	DistributedThisMonth decimal.Decimal `json:"distributedThisMonth" swaggertype:"number"`
	DistributedCount     int64           `json:"distributedCount"`
}
