package repository

import (
	"context"

	"github.com/jhoicas/vero-api/internal/domain/entity"
)

// FundFilter filtros de listado; campos vacíos no filtran.
type FundFilter struct {
	ConsultorID string
	Status      string
}

// FundRepository define el puerto de persistencia para Fund.
type FundRepository interface {
	Create(ctx context.Context, fund *entity.Fund) error
	GetByID(ctx context.Context, id string) (*entity.Fund, error)
	GetBySymbol(ctx context.Context, symbol string) (*entity.Fund, error)
	// GetByIDForUpdate bloquea la fila del fondo; serializa emisión, órdenes y completado.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Fund, error)
	List(ctx context.Context, filter FundFilter) ([]*entity.Fund, error)
	// Update persiste Status, TotalIssued, ContractAddress y UpdatedAt.
	Update(ctx context.Context, fund *entity.Fund) error
	// Metrics agrega cuotas vendidas/reservadas y el valor nominal de los recebíveis del fondo.
	Metrics(ctx context.Context, fundID string) (entity.FundMetrics, error)
}
