package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/vero-api/internal/domain/entity"
	"github.com/jhoicas/vero-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard del gestor.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// PendingApprovals cuenta usuarios, fondos, cedentes y sacados en PENDING.
// El MANAGER no requiere aprobación y queda fuera del conteo.
func (r *AnalyticsRepo) PendingApprovals(ctx context.Context) (entity.PendingApprovals, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM users   WHERE status = 'PENDING' AND role IN ('CONSULTANT', 'INVESTOR')),
	    (SELECT COUNT(*) FROM funds   WHERE status = 'PENDING'),
	    (SELECT COUNT(*) FROM parties WHERE status = 'PENDING' AND kind = 'CEDENTE'),
	    (SELECT COUNT(*) FROM parties WHERE status = 'PENDING' AND kind = 'SACADO')`

	var out entity.PendingApprovals
	if err := r.pool.QueryRow(ctx, query).Scan(&out.Users, &out.Funds, &out.Cedentes, &out.Sacados); err != nil {
		return entity.PendingApprovals{}, fmt.Errorf("analytics: aprobaciones pendientes: %w", err)
	}
	return out, nil
}

// QuotaTotals suma emisión, ventas y reservas de los fondos APPROVED.
func (r *AnalyticsRepo) QuotaTotals(ctx context.Context) (entity.QuotaTotals, error) {
	const query = `
	SELECT
	    COUNT(*),
	    COALESCE(SUM(f.total_issued), 0),
	    COALESCE(SUM(o.sold), 0),
	    COALESCE(SUM(o.reserved), 0)
	FROM funds f
	LEFT JOIN (
	    SELECT fund_id,
	           SUM(quantity) FILTER (WHERE status = 'COMPLETED') AS sold,
	           SUM(quantity) FILTER (WHERE status = 'PENDING')   AS reserved
	    FROM orders
	    GROUP BY fund_id
	) o ON o.fund_id = f.id
	WHERE f.status = 'APPROVED'`

	var out entity.QuotaTotals
	if err := r.pool.QueryRow(ctx, query).Scan(&out.ActiveFunds, &out.Issued, &out.Sold, &out.Reserved); err != nil {
		return entity.QuotaTotals{}, fmt.Errorf("analytics: totales de cuotas: %w", err)
	}
	return out, nil
}

// ReceivableTotals suma recebíveis abiertos, pagados sin distribuir y distribuidos en [from, to].
func (r *AnalyticsRepo) ReceivableTotals(ctx context.Context, from, to time.Time) (entity.ReceivableTotals, error) {
	const query = `
	SELECT
	    COALESCE(SUM(face_value) FILTER (WHERE status = 'PENDING'), 0),
	    COALESCE(SUM(paid_value) FILTER (WHERE status = 'PAID'), 0),
	    COALESCE(SUM(paid_value) FILTER (WHERE status = 'DISTRIBUTED' AND distributed_at BETWEEN $1 AND $2), 0),
	    COUNT(*) FILTER (WHERE status = 'DISTRIBUTED' AND distributed_at BETWEEN $1 AND $2)
	FROM receivables`

	var out entity.ReceivableTotals
	var open, awaiting, distributed decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&open, &awaiting, &distributed, &out.DistributedCount); err != nil {
		return entity.ReceivableTotals{}, fmt.Errorf("analytics: totales de recebíveis: %w", err)
	}
	out.OpenFaceValue, out.AwaitingDistribution, out.DistributedValue = open, awaiting, distributed
	return out, nil
}
