package repository

import (
	"context"
	"time"

	"github.com/jhoicas/vero-api/internal/domain/entity"
)

// PartyFilter filtros de listado de cedentes/sacados.
type PartyFilter struct {
	ConsultorID string
	FundID      string
}

// PartyRepository persistencia de cedentes y sacados; kind es entity.PartyCedente o entity.PartySacado.
type PartyRepository interface {
	Create(ctx context.Context, party *entity.Party) error
	GetByID(ctx context.Context, kind, id string) (*entity.Party, error)
	GetByIDForUpdate(ctx context.Context, kind, id string) (*entity.Party, error)
	List(ctx context.Context, kind string, filter PartyFilter) ([]*entity.Party, error)
	UpdateStatus(ctx context.Context, kind, id, status string, at time.Time) error
}
