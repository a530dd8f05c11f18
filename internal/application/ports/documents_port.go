package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/vero-api/internal/domain/entity"
)

// DistributionStatement datos de un recebível distribuido listos para presentarse.
type DistributionStatement struct {
	Fund          *entity.Fund
	Receivable    *entity.Receivable
	Sacado        *entity.Party // puede ser nil si fue eliminado
	Distributions []*entity.Distribution
	TotalQuotas   int64
	TotalToPay    decimal.Decimal
	GeneratedAt   time.Time
}

// StatementPDFGenerator genera el extracto PDF de una distribución.
type StatementPDFGenerator interface {
	GenerateStatementPDF(ctx context.Context, st *DistributionStatement) ([]byte, error)
}

// Receipt comprobante XML canónico con su digest SHA-256 (hex).
type Receipt struct {
	XML    []byte
	Digest string
}

// ReceiptBuilder construye el comprobante XML de una distribución.
type ReceiptBuilder interface {
	BuildReceipt(st *DistributionStatement) (*Receipt, error)
}
