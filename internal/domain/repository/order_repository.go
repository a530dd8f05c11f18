package repository

import (
	"context"
	"time"

	"github.com/jhoicas/vero-api/internal/domain/entity"
)

// OrderTotals cuotas agregadas por estado para un fondo.
type OrderTotals struct {
	Completed int64
	Pending   int64
}

// OrderRepository define el puerto de persistencia para Order.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// List filtra por inversor; investorID vacío devuelve todas.
	List(ctx context.Context, investorID string) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id, status, txHash string, at time.Time) error
	Totals(ctx context.Context, fundID string) (OrderTotals, error)
	// CompletedHoldings órdenes COMPLETED del fondo con email y clave pública del inversor.
	CompletedHoldings(ctx context.Context, fundID string) ([]entity.QuotaHolding, error)
}
