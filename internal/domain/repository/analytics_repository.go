package repository

import (
	"context"
	"time"

	"github.com/jhoicas/vero-api/internal/domain/entity"
)

// AnalyticsRepository consultas agregadas de solo lectura para el dashboard del gestor.
// No participa de transacciones: lee sobre el pool.
type AnalyticsRepository interface {
	PendingApprovals(ctx context.Context) (entity.PendingApprovals, error)
	QuotaTotals(ctx context.Context) (entity.QuotaTotals, error)
	// ReceivableTotals acota DistributedValue/DistributedCount a distributed_at en [from, to].
	ReceivableTotals(ctx context.Context, from, to time.Time) (entity.ReceivableTotals, error)
}
