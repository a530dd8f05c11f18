package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/vero-api/internal/domain/entity"
)

// ReceivableFilter filtros de listado de recebíveis; los campos vacíos no filtran.
// ConsultorID limita a los fondos del consultor; InvestorID a los fondos donde el inversor tiene órdenes COMPLETED.
type ReceivableFilter struct {
	FundID      string
	ConsultorID string
	InvestorID  string
}

// ReceivableRepository define el puerto de persistencia para Receivable.
type ReceivableRepository interface {
	Create(ctx context.Context, r *entity.Receivable) error
	GetByID(ctx context.Context, id string) (*entity.Receivable, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Receivable, error)
	List(ctx context.Context, filter ReceivableFilter) ([]*entity.Receivable, error)
	MarkPaid(ctx context.Context, id string, paidValue decimal.Decimal, paidAt time.Time) error
	// MarkDistributed hace compare-and-swap PAID -> DISTRIBUTED; ok=false si el estado ya no era PAID.
	MarkDistributed(ctx context.Context, id string, at time.Time) (ok bool, err error)
}

// DistributionRepository ledger de pagos por recebível.
type DistributionRepository interface {
	CreateBatch(ctx context.Context, rows []*entity.Distribution) error
	ListByReceivable(ctx context.Context, receivableID string) ([]*entity.Distribution, error)
}
